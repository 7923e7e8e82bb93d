package models

import "gorm.io/gorm"

// ShoppingItem is the model for one line of a user's shopping list.
type ShoppingItem struct {
	gorm.Model
	UserID  uint   `gorm:"index"`
	Name    string
	Amount  string `gorm:"default:null"` // free-form, e.g. "2 cups"
	Checked bool   `gorm:"default:false"`
	// RecipeID records which recipe populated this item, when any.
	RecipeID string `gorm:"default:null;index"`
}
