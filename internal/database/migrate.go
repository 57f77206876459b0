package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RunMigrations brings the schema up to date. Constraints (unique pairs,
// amount/cooking_time checks, the self-follow check) live in the model
// tags, so auto-migration carries them on both postgres and sqlite.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingCart{},
		&models.Follow{},
	)
}
