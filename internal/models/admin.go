package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Admin is a back-office principal with a role tier and an explicit
// permission set. The password hash is never serialised.
type Admin struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`

	Role        AdminRole                            `gorm:"not null;default:editor" json:"role"`
	Permissions datatypes.JSONSlice[AdminPermission] `json:"permissions"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	LoginAttempts int        `gorm:"default:0" json:"-"`
	LockUntil     *time.Time `json:"-"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates an identifier and normalises identity fields.
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Normalize()
	return nil
}

// Normalize lower-cases and trims the unique identity fields.
func (a *Admin) Normalize() {
	a.Username = strings.ToLower(strings.TrimSpace(a.Username))
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

// IsLocked reports whether the account is inside an active lockout window.
func (a *Admin) IsLocked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// HasPermission reports whether the admin may exercise the capability.
// Super admins bypass the permission set entirely.
func (a *Admin) HasPermission(perm AdminPermission) bool {
	if a.Role == AdminRoleSuperAdmin {
		return true
	}
	for _, granted := range a.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}
