package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/internal/models"
)

// ToggleService adds and removes the uniqueness-constrained
// (subject, target) relations: favorite, shopping cart, follow.
// Duplicate adds are resolved by the store's unique indexes, not by
// check-then-insert, so concurrent calls settle deterministically.
type ToggleService struct {
	db *gorm.DB
}

// NewToggleService creates a new ToggleService instance
func NewToggleService(db *gorm.DB) *ToggleService {
	return &ToggleService{db: db}
}

// AddFavorite favorites a recipe and returns it for the short projection.
func (s *ToggleService) AddFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.insertRelation(ctx, &row); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveFavorite deletes the favorite relation if it exists.
func (s *ToggleService) RemoveFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	return removeResult(res)
}

// AddToCart puts a recipe into the subject's shopping cart.
func (s *ToggleService) AddToCart(ctx context.Context, userID uuid.UUID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.insertRelation(ctx, &row); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveFromCart deletes the cart relation if it exists.
func (s *ToggleService) RemoveFromCart(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	return removeResult(res)
}

// Follow subscribes the user to an author and returns the author's
// subscription projection.
func (s *ToggleService) Follow(ctx context.Context, userID, authorID uuid.UUID) (*SubscriptionView, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	row := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.insertRelation(ctx, &row); err != nil {
		return nil, err
	}
	return buildSubscriptionView(ctx, s.db, author)
}

// Unfollow removes the subscription if it exists.
func (s *ToggleService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	return removeResult(res)
}

func (s *ToggleService) findRecipe(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// insertRelation creates the row with ON CONFLICT DO NOTHING; zero rows
// affected means the pair already existed.
func (s *ToggleService) insertRelation(ctx context.Context, row interface{}) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func removeResult(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
