package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an end-user principal identified by email. Users have no active
// flag; every user account may authenticate unless locked out. IsApproved
// gates whether the user may create or mutate first-class resources.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name string `json:"name"`

	DefaultRole UserRole `gorm:"not null;default:viewer" json:"default_role"`
	IsApproved  bool     `gorm:"default:false" json:"is_approved"`

	LoginAttempts int        `gorm:"default:0" json:"-"`
	LockUntil     *time.Time `json:"-"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates an identifier and normalises the email.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// IsLocked reports whether the account is inside an active lockout window.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
