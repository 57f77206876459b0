package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// subscriptionRecipePreview caps the recipe preview in subscription payloads.
const subscriptionRecipePreview = 3

// SubscriptionView is the projection of one followed author: identity
// fields, total recipe count and a capped preview of their recipes.
type SubscriptionView struct {
	Author      models.User
	Recipes     []models.Recipe
	RecipeCount int64
}

// SubscriptionService lists the authors a user follows.
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// List returns one subscription projection per followed author, in
// follow order.
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID) ([]SubscriptionView, error) {
	var follows []models.Follow
	err := s.db.WithContext(ctx).Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(follows))
	for _, f := range follows {
		view, err := buildSubscriptionView(ctx, s.db, f.Author)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// buildSubscriptionView assembles the author projection shared by the
// follow success payload and the subscription listing.
func buildSubscriptionView(ctx context.Context, db *gorm.DB, author models.User) (*SubscriptionView, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC, id DESC").
		Limit(subscriptionRecipePreview).
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	return &SubscriptionView{
		Author:      author,
		Recipes:     recipes,
		RecipeCount: count,
	}, nil
}
