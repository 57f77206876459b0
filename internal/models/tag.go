package models

// Tag is immutable reference data attached to recipes.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:200;not null" json:"name"`
	Slug string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}
