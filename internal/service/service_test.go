package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

func newTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        "Stir until done.",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func seedReference(t *testing.T, db *gorm.DB) ([]models.Tag, []models.Ingredient) {
	t.Helper()
	tags := []models.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []models.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "Salt", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&ingredients).Error)
	return tags, ingredients
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
