package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

const maxRecipeNameLength = 200

// IngredientSpec is one (ingredient id, amount) pair of a write request.
type IngredientSpec struct {
	ID     uint
	Amount int
}

// RecipeInput carries a full recipe write request.
type RecipeInput struct {
	Name        string
	Image       string
	Text        string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientSpec
}

// RecipeUpdate carries a partial update; nil fields are left unchanged.
// A non-nil tag or ingredient slice replaces the prior set wholesale.
type RecipeUpdate struct {
	Name        *string
	Image       *string
	Text        *string
	CookingTime *int
	TagIDs      *[]uint
	Ingredients *[]IngredientSpec
}

// RecipeFilter is the query-level filter applied before annotation.
type RecipeFilter struct {
	AuthorID      *uuid.UUID
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
}

// RecipeView is a recipe decorated with the viewer-relative flags. The
// same shape backs both write responses and listings.
type RecipeView struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorFollowed   bool
}

// RecipeService validates and atomically persists recipe aggregates and
// serves the annotated read side.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create validates the payload and persists the recipe row, its tag set
// and its ingredient set as one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*RecipeView, error) {
	if utf8.RuneCountInString(in.Name) > maxRecipeNameLength {
		return nil, ErrNameTooLong
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Image:       in.Image,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return replaceIngredients(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update applies present fields in place; a supplied tag or ingredient
// set replaces the prior one entirely inside the same transaction.
func (s *RecipeService) Update(ctx context.Context, recipeID uint, authorID uuid.UUID, in RecipeUpdate) (*RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != authorID {
		return nil, ErrNotAuthor
	}

	if in.Name != nil && utf8.RuneCountInString(*in.Name) > maxRecipeNameLength {
		return nil, ErrNameTooLong
	}
	var tags []models.Tag
	if in.TagIDs != nil {
		var err error
		if tags, err = s.resolveTags(ctx, *in.TagIDs); err != nil {
			return nil, err
		}
	}
	if in.Ingredients != nil {
		if _, err := s.validateIngredients(ctx, *in.Ingredients); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.Text != nil {
		updates["text"] = *in.Text
	}
	if in.CookingTime != nil {
		updates["cooking_time"] = *in.CookingTime
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.TagIDs != nil {
			if len(tags) == 0 {
				if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
					return err
				}
			} else if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceIngredients(tx, recipe.ID, *in.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Delete removes a recipe and, via the schema cascades, its owned sets.
func (s *RecipeService) Delete(ctx context.Context, recipeID uint, authorID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != authorID {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// Get returns one recipe through the canonical read shape.
func (s *RecipeService) Get(ctx context.Context, recipeID uint, viewer *uuid.UUID) (*RecipeView, error) {
	var recipe models.Recipe
	err := s.readQuery(ctx).First(&recipe, recipeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	views, err := s.annotate(ctx, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List applies the filter in a single query and annotates the batch.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, viewer *uuid.UUID) ([]RecipeView, error) {
	if (filter.FavoritedOnly || filter.InCartOnly) && viewer == nil {
		return []RecipeView{}, nil
	}

	q := s.readQuery(ctx).Order("recipes.created_at DESC, recipes.id DESC")

	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		// DISTINCT so a recipe carrying several requested tags lists once.
		q = q.Distinct("recipes.*").
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}
	if filter.FavoritedOnly {
		q = q.Joins("JOIN favorite_recipes ON favorite_recipes.recipe_id = recipes.id AND favorite_recipes.user_id = ?", *viewer)
	}
	if filter.InCartOnly {
		q = q.Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id AND shopping_carts.user_id = ?", *viewer)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return s.annotate(ctx, recipes, viewer)
}

func (s *RecipeService) readQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")
}

// annotate attaches the viewer-relative flags to a batch with one
// relation query per flag. Anonymous viewers get all-false without
// touching the relation tables.
func (s *RecipeService) annotate(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeView, error) {
	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		views[i] = RecipeView{Recipe: recipes[i]}
	}
	if viewer == nil || len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	var favorited []uint
	if err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, err
	}
	var inCart []uint
	if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return nil, err
	}
	var followed []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", *viewer, authorIDs).
		Pluck("author_id", &followed).Error; err != nil {
		return nil, err
	}

	favoritedSet := make(map[uint]bool, len(favorited))
	for _, id := range favorited {
		favoritedSet[id] = true
	}
	cartSet := make(map[uint]bool, len(inCart))
	for _, id := range inCart {
		cartSet[id] = true
	}
	followedSet := make(map[uuid.UUID]bool, len(followed))
	for _, id := range followed {
		followedSet[id] = true
	}

	for i := range views {
		views[i].IsFavorited = favoritedSet[views[i].Recipe.ID]
		views[i].IsInShoppingCart = cartSet[views[i].Recipe.ID]
		views[i].AuthorFollowed = followedSet[views[i].Recipe.AuthorID]
	}
	return views, nil
}

// resolveTags loads the referenced tags, rejecting unknown ids.
func (s *RecipeService) resolveTags(ctx context.Context, tagIDs []uint) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(tags))
	for _, t := range tags {
		known[t.ID] = true
	}
	for _, id := range tagIDs {
		if !known[id] {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownTag, id)
		}
	}
	return tags, nil
}

// validateIngredients checks the requested list before any write: every id
// must resolve to a stored ingredient, no id may repeat, every amount
// must be positive. First violation wins, in request order.
func (s *RecipeService) validateIngredients(ctx context.Context, specs []IngredientSpec) (map[uint]models.Ingredient, error) {
	if len(specs) == 0 {
		return map[uint]models.Ingredient{}, nil
	}

	ids := make([]uint, len(specs))
	for i, spec := range specs {
		ids[i] = spec.ID
	}
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	seen := make(map[uint]bool, len(specs))
	for _, spec := range specs {
		ing, ok := byID[spec.ID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownIngredient, spec.ID)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIngredient, ing.Name)
		}
		seen[spec.ID] = true
		if spec.Amount <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, ing.Name)
		}
	}
	return byID, nil
}

// replaceIngredients bulk-creates the ingredient rows for a recipe. The
// caller clears the prior set first when updating.
func replaceIngredients(tx *gorm.DB, recipeID uint, specs []IngredientSpec) error {
	if len(specs) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(specs))
	for i, spec := range specs {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: spec.ID,
			Amount:       spec.Amount,
		}
	}
	return tx.Create(&rows).Error
}
