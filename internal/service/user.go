package service

import (
	"fmt"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/repository"
)

// UserService is the business logic layer for user-related operations.
type UserService struct {
	Repo repository.UserRepo
}

// NewUserService is the constructor function for initializing a new UserService.
func NewUserService(repo repository.UserRepo) *UserService {
	return &UserService{Repo: repo}
}

// EnsureUserFromClaims mirrors the verified token's identity into the local
// user table and returns the row. The auth provider is the source of truth
// for the admin role, so a changed role claim updates the row.
func (s *UserService) EnsureUserFromClaims(subject, displayName, email, role string) (*models.User, error) {
	if subject == "" {
		return nil, fmt.Errorf("missing token subject")
	}

	user, err := s.Repo.EnsureUser(&models.User{
		Subject:     subject,
		DisplayName: displayName,
		Email:       email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	claimRole := models.Role(role)
	if (claimRole == models.RoleAdmin || claimRole == models.RoleMember) && user.Role != claimRole {
		if err := s.Repo.UpdateUserRole(user.ID, claimRole); err != nil {
			return nil, fmt.Errorf("failed to update user role: %w", err)
		}
		user.Role = claimRole
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(userID)
}

// UpdateDisplayName updates the user's display name.
func (s *UserService) UpdateDisplayName(userID uint, displayName string) error {
	if displayName == "" {
		return fmt.Errorf("display name must not be empty")
	}
	return s.Repo.UpdateUserDisplayName(userID, displayName)
}
