package repository

import (
	"errors"

	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is a repository for interacting with users.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetUserByID retrieves a user by its ID.
func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}
	return &user, nil
}

// GetUserBySubject retrieves a user by the auth provider subject claim.
func (r *UserRepository) GetUserBySubject(subject string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("subject = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser inserts the user row if its subject is new, otherwise returns
// the existing row. Display name and email are refreshed from the token on
// conflict so the mirror stays current.
func (r *UserRepository) EnsureUser(user *models.User) (*models.User, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "email"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetUserBySubject(user.Subject)
}

// UpdateUserDisplayName updates the display name of a user.
func (r *UserRepository) UpdateUserDisplayName(userID uint, displayName string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("display_name", displayName).Error
}

// UpdateUserRole updates the role of a user.
func (r *UserRepository) UpdateUserRole(userID uint, role models.Role) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("role", role).Error
}
