package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// UserView is a user decorated with the viewer-relative follow flag.
type UserView struct {
	User       models.User
	IsFollowed bool
}

// UserService serves user lookups with follow annotation.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get returns one user by id, with is_subscribed relative to the viewer.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	views, err := s.annotate(ctx, []models.User{user}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns all users with follow annotation for the viewer.
func (s *UserService) List(ctx context.Context, viewer *uuid.UUID) ([]UserView, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&users).Error; err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewer)
}

// annotate resolves the follow flag for a batch with one relation query.
func (s *UserService) annotate(ctx context.Context, users []models.User, viewer *uuid.UUID) ([]UserView, error) {
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = UserView{User: users[i]}
	}
	if viewer == nil || len(users) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	var followed []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", *viewer, ids).
		Pluck("author_id", &followed).Error; err != nil {
		return nil, err
	}
	followedSet := make(map[uuid.UUID]bool, len(followed))
	for _, id := range followed {
		followedSet[id] = true
	}
	for i := range views {
		views[i].IsFollowed = followedSet[views[i].User.ID]
	}
	return views, nil
}
