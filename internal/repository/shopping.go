package repository

import (
	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
)

// ShoppingRepository is a repository for interacting with shopping lists.
type ShoppingRepository struct {
	DB *gorm.DB
}

// NewShoppingRepository creates a new ShoppingRepository.
func NewShoppingRepository(db *gorm.DB) *ShoppingRepository {
	return &ShoppingRepository{DB: db}
}

// AddItems adds items to a user's shopping list in one transaction.
func (r *ShoppingRepository) AddItems(items []models.ShoppingItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.Create(&items).Error
}

// ListItems retrieves a user's shopping list, unchecked items first.
func (r *ShoppingRepository) ListItems(userID uint) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	err := r.DB.Where("user_id = ?", userID).
		Order("checked ASC, created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetChecked marks an item checked or unchecked, scoped to the owning user.
func (r *ShoppingRepository) SetChecked(userID uint, itemID uint, checked bool) error {
	result := r.DB.Model(&models.ShoppingItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("checked", checked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Shopping item not found"}
	}
	return nil
}

// RemoveItem deletes one item from a user's list.
func (r *ShoppingRepository) RemoveItem(userID uint, itemID uint) error {
	result := r.DB.Where("user_id = ?", userID).Delete(&models.ShoppingItem{}, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Shopping item not found"}
	}
	return nil
}

// ClearChecked removes all checked items from a user's list.
func (r *ShoppingRepository) ClearChecked(userID uint) error {
	return r.DB.Where("user_id = ? AND checked = ?", userID, true).
		Delete(&models.ShoppingItem{}).Error
}
