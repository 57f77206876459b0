package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User      `json:"-"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"size:255" json:"image"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Tags        []Tag     `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`

	// Owned by the recipe: replaced wholesale on update, destroyed with it.
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient joins a recipe to an ingredient with a quantity.
// The composite primary key keeps at most one row per (recipe, ingredient).
type RecipeIngredient struct {
	RecipeID     uint       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	IngredientID uint       `gorm:"primaryKey;autoIncrement:false" json:"ingredient_id"`
	Ingredient   Ingredient `json:"-"`
	Amount       int        `gorm:"not null;check:amount > 0" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
