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
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
)

// RegisterUserInput captures the details required for signup.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// ListUsersInput describes pagination and filters for the admin user listing.
type ListUsersInput struct {
	Page     int
	Limit    int
	Approved *bool
	Query    string
}

// UserService handles end-user accounts. New users start unapproved and stay
// that way until an admin approves them.
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, bcryptCost int) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if bcryptCost < crypto.MinPasswordCost {
		bcryptCost = crypto.DefaultPasswordCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}, nil
}

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.NewBadRequest("email and password are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashed, err := crypto.HashPasswordWithCost(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Email:       email,
		Name:        strings.TrimSpace(input.Name),
		Password:    hashed,
		DefaultRole: models.UserRoleViewer,
		IsApproved:  false,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	return user, nil
}

// GetByID loads a user account.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// Approve flips the approval gate for a user. Idempotent.
func (s *UserService) Approve(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsApproved {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("user service: approve user: %w", err)
	}
	user.IsApproved = true
	return user, nil
}

// List returns a page of users with the total count before pagination.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&models.User{})

	if input.Approved != nil {
		query = query.Where("is_approved = ?", *input.Approved)
	}
	if q := strings.TrimSpace(input.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: count users: %w", err)
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("user service: list users: %w", err)
	}

	return users, total, nil
}
