package service

import (
	"testing"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/testutil"
	"gorm.io/gorm"
)

func TestEnsureUserFromClaims_NewUser(t *testing.T) {
	repo := &testutil.MockUserRepo{
		EnsureUserFunc: func(user *models.User) (*models.User, error) {
			user.ID = 1
			user.Role = models.RoleMember
			return user, nil
		},
	}

	svc := NewUserService(repo)
	user, err := svc.EnsureUserFromClaims("auth0|abc", "Alice", "alice@example.com", "member")
	if err != nil {
		t.Fatalf("EnsureUserFromClaims returned error: %v", err)
	}
	if user.Subject != "auth0|abc" {
		t.Errorf("Subject = %q", user.Subject)
	}
	if user.Role != models.RoleMember {
		t.Errorf("Role = %q, want member", user.Role)
	}
}

func TestEnsureUserFromClaims_RolePromotion(t *testing.T) {
	var updatedRole models.Role
	repo := &testutil.MockUserRepo{
		EnsureUserFunc: func(user *models.User) (*models.User, error) {
			return &models.User{
				Model:   gorm.Model{ID: 7},
				Subject: user.Subject,
				Role:    models.RoleMember,
			}, nil
		},
		UpdateUserRoleFunc: func(userID uint, role models.Role) error {
			updatedRole = role
			return nil
		},
	}

	svc := NewUserService(repo)
	user, err := svc.EnsureUserFromClaims("auth0|abc", "Alice", "alice@example.com", "admin")
	if err != nil {
		t.Fatalf("EnsureUserFromClaims returned error: %v", err)
	}
	if updatedRole != models.RoleAdmin {
		t.Errorf("updated role = %q, want admin", updatedRole)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("returned role = %q, want admin", user.Role)
	}
}

func TestEnsureUserFromClaims_UnknownRoleIgnored(t *testing.T) {
	repo := &testutil.MockUserRepo{
		EnsureUserFunc: func(user *models.User) (*models.User, error) {
			return &models.User{
				Model:   gorm.Model{ID: 7},
				Subject: user.Subject,
				Role:    models.RoleMember,
			}, nil
		},
		UpdateUserRoleFunc: func(userID uint, role models.Role) error {
			t.Error("role should not change for an unknown claim value")
			return nil
		},
	}

	svc := NewUserService(repo)
	if _, err := svc.EnsureUserFromClaims("auth0|abc", "Alice", "", "superuser"); err != nil {
		t.Fatalf("EnsureUserFromClaims returned error: %v", err)
	}
}

func TestEnsureUserFromClaims_MissingSubject(t *testing.T) {
	svc := NewUserService(&testutil.MockUserRepo{})
	if _, err := svc.EnsureUserFromClaims("", "Alice", "", "member"); err == nil {
		t.Error("expected error for missing subject")
	}
}
