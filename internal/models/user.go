package models

import (
	"errors"

	"gorm.io/gorm"
)

// User is the model for a user. Identity and credentials live with the
// external auth provider; this row mirrors the subject of verified tokens so
// features can reference it.
type User struct {
	gorm.Model
	Subject     string `gorm:"unique;index"` // auth provider subject claim
	DisplayName string `gorm:"default:null"`
	Email       string `gorm:"default:null"`
	Role        Role   `gorm:"type:text;default:'member'"`
}

// Role is the type for the Role enum.
type Role string

// Role enum values.
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// IsValidRole checks if the Role is valid.
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate is a GORM hook that runs before creating a new User.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if !u.IsValidRole() {
		u.Role = RoleMember
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a User.
func (u *User) BeforeUpdate(tx *gorm.DB) (err error) {
	if !u.IsValidRole() {
		return errors.New("invalid Role provided")
	}
	return nil
}
