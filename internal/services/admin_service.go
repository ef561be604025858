package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/pkg/crypto"
	apperrors "github.com/showcasehq/showcase/pkg/errors"
)

var (
	// ErrAdminNotFound indicates the requested admin account does not exist.
	ErrAdminNotFound = apperrors.New("ADMIN_NOT_FOUND", "Admin account not found", http.StatusNotFound)
	// ErrWrongPassword signals the supplied current password did not match.
	ErrWrongPassword = apperrors.New("WRONG_PASSWORD", "Current password is incorrect", http.StatusBadRequest)
	// ErrDuplicateEmail signals the email is already taken by another account.
	ErrDuplicateEmail = apperrors.New("DUPLICATE_EMAIL", "Email address already in use", http.StatusBadRequest)
)

const minPasswordLength = 6

// UpdateProfileInput describes mutable admin profile fields. Nil pointers
// leave the current value untouched.
type UpdateProfileInput struct {
	Name           *string
	Email          *string
	ProfilePicture *string
}

// AdminService manages admin account lifecycle outside of authentication.
type AdminService struct {
	db         *gorm.DB
	bcryptCost int
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(db *gorm.DB, bcryptCost int) (*AdminService, error) {
	if db == nil {
		return nil, errors.New("admin service: db is required")
	}
	if bcryptCost < crypto.MinPasswordCost {
		bcryptCost = crypto.DefaultPasswordCost
	}
	return &AdminService{db: db, bcryptCost: bcryptCost}, nil
}

// GetByID loads an admin account.
func (s *AdminService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	ctx = ensureContext(ctx)

	var admin models.Admin
	err := s.db.WithContext(ctx).Take(&admin, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("admin service: load admin: %w", err)
	}
	return &admin, nil
}

// UpdateProfile mutates profile fields only. The password hash is never
// touched here, so a profile update can never double-hash a credential.
func (s *AdminService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.Admin, error) {
	ctx = ensureContext(ctx)

	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.NewBadRequest("email must not be empty")
		}
		if email != admin.Email {
			updates["email"] = email
		}
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = strings.TrimSpace(*input.ProfilePicture)
	}

	if len(updates) == 0 {
		return admin, nil
	}

	if err := s.db.WithContext(ctx).Model(admin).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("admin service: update profile: %w", err)
	}

	return s.GetByID(ctx, id)
}

// ChangePassword replaces the credential after verifying the existing one.
// This is the only profile path that hashes, and it hashes exactly once.
func (s *AdminService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	ctx = ensureContext(ctx)

	if len(newPassword) < minPasswordLength {
		return apperrors.NewBadRequest(fmt.Sprintf("new password must be at least %d characters", minPasswordLength))
	}

	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !crypto.VerifyPassword(admin.Password, currentPassword) {
		return ErrWrongPassword
	}

	hashed, err := crypto.HashPasswordWithCost(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("admin service: hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(admin).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("admin service: update password: %w", err)
	}

	return nil
}
