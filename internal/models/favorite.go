package models

import "gorm.io/gorm"

// Favorite is the model for a user's saved recipe. RecipeID is the unified
// string identifier, so favorites can point at local uploads and cached
// upstream recipes alike.
type Favorite struct {
	gorm.Model
	UserID   uint   `gorm:"index;uniqueIndex:idx_user_recipe"`
	RecipeID string `gorm:"uniqueIndex:idx_user_recipe"`
	Title    string // denormalized for list display
	ImageURL string
}
