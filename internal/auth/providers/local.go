package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/pkg/crypto"
)

var (
	// ErrInvalidCredentials is returned when the supplied identity/password pair
	// is invalid. Unknown account and wrong password are indistinguishable.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountLocked signals that the account is inside a lockout window.
	ErrAccountLocked = errors.New("auth: account locked")
	// ErrAccountDisabled signals that the admin has been deactivated.
	ErrAccountDisabled = errors.New("auth: account disabled")
)

// LocalConfig defines tunable behaviour for the local provider.
type LocalConfig struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
	Clock            func() time.Time
}

// LocalProvider implements credential authentication with account lockout
// controls for both admin and user principals.
type LocalProvider struct {
	db        *gorm.DB
	clock     func() time.Time
	threshold int
	duration  time.Duration
}

// NewLocalProvider builds a provider with sane defaults.
func NewLocalProvider(db *gorm.DB, cfg LocalConfig) (*LocalProvider, error) {
	if db == nil {
		return nil, errors.New("local provider: db is required")
	}

	threshold := cfg.LockoutThreshold
	if threshold <= 0 {
		threshold = 5
	}

	duration := cfg.LockoutDuration
	if duration <= 0 {
		duration = 2 * time.Hour
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &LocalProvider{
		db:        db,
		clock:     clock,
		threshold: threshold,
		duration:  duration,
	}, nil
}

// AuthenticateAdmin verifies an admin's credentials and returns the account on
// success. The lockout gate runs before the password is verified.
func (p *LocalProvider) AuthenticateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var admin models.Admin
	err := p.db.WithContext(ctx).Where("username = ?", username).Take(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("local provider: query admin: %w", err)
	}

	now := p.clock()

	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	if admin.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if !crypto.VerifyPassword(admin.Password, password) {
		if err := p.recordFailure(ctx, &models.Admin{}, admin.ID, admin.LockUntil, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := p.recordSuccess(ctx, &models.Admin{}, admin.ID, now); err != nil {
		return nil, err
	}

	admin.LoginAttempts = 0
	admin.LockUntil = nil
	admin.LastLoginAt = &now
	return &admin, nil
}

// AuthenticateUser verifies an end user's credentials. Users carry no active
// flag; only the lockout gate applies.
func (p *LocalProvider) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := p.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("local provider: query user: %w", err)
	}

	now := p.clock()

	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if !crypto.VerifyPassword(user.Password, password) {
		if err := p.recordFailure(ctx, &models.User{}, user.ID, user.LockUntil, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := p.recordSuccess(ctx, &models.User{}, user.ID, now); err != nil {
		return nil, err
	}

	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLoginAt = &now
	return &user, nil
}

type lockoutState struct {
	LoginAttempts int
	LockUntil     *time.Time
}

// recordFailure applies the failed-login transition. A failure after an
// expired lock restarts the counter at 1 instead of accumulating onto the
// stale value. Otherwise the counter is incremented atomically at the store,
// and crossing the threshold arms the lock.
func (p *LocalProvider) recordFailure(ctx context.Context, model any, id string, lockUntil *time.Time, now time.Time) error {
	tx := p.db.WithContext(ctx).Model(model).Where("id = ?", id)

	if lockUntil != nil && !lockUntil.After(now) {
		if err := tx.Updates(map[string]any{
			"login_attempts": 1,
			"lock_until":     nil,
		}).Error; err != nil {
			return fmt.Errorf("local provider: reset stale lock: %w", err)
		}
		return nil
	}

	if err := tx.UpdateColumn("login_attempts", gorm.Expr("login_attempts + 1")).Error; err != nil {
		return fmt.Errorf("local provider: record failed attempt: %w", err)
	}

	var state lockoutState
	if err := p.db.WithContext(ctx).Model(model).Where("id = ?", id).
		Select("login_attempts", "lock_until").Take(&state).Error; err != nil {
		return fmt.Errorf("local provider: reload lock state: %w", err)
	}

	if state.LoginAttempts >= p.threshold && state.LockUntil == nil {
		lock := now.Add(p.duration)
		if err := p.db.WithContext(ctx).Model(model).Where("id = ?", id).
			UpdateColumn("lock_until", lock).Error; err != nil {
			return fmt.Errorf("local provider: arm lock: %w", err)
		}
	}

	return nil
}

// recordSuccess clears the lockout state unconditionally and stamps the login time.
func (p *LocalProvider) recordSuccess(ctx context.Context, model any, id string, now time.Time) error {
	err := p.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(map[string]any{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login_at":  now,
	}).Error
	if err != nil {
		return fmt.Errorf("local provider: record login: %w", err)
	}
	return nil
}
