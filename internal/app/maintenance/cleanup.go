package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/pkg/logger"
)

const defaultLockoutSpec = "@hourly"

// Cleaner runs background maintenance. Its single job today is clearing
// expired lockout state so that stale counters never linger on accounts that
// stopped trying to log in; the authenticator already handles the expired case
// on the next attempt, this merely keeps the tables tidy.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	lockoutSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithLockoutSchedule overrides the cron specification for lockout cleanup.
func WithLockoutSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.lockoutSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:              db,
		now:             time.Now,
		lockoutSchedule: defaultLockoutSpec,
		log:             logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.lockoutSchedule, func() {
		ctx := context.Background()
		if _, err := CleanupExpiredLockouts(ctx, c.db, c.now()); err != nil {
			c.log.Warn("lockout cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup routine immediately. Used in tests and during
// graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.db != nil {
		if _, err := CleanupExpiredLockouts(ctx, c.db, c.now()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// LockoutCleanupStats captures the number of accounts whose stale lockout
// state was cleared.
type LockoutCleanupStats struct {
	Admins int64
	Users  int64
}

// CleanupExpiredLockouts resets the failed-attempt counter and lock timestamp
// on every account whose lock window has already passed. Accounts inside an
// active window are left untouched.
func CleanupExpiredLockouts(ctx context.Context, db *gorm.DB, now time.Time) (LockoutCleanupStats, error) {
	if db == nil {
		return LockoutCleanupStats{}, errors.New("cleanup lockouts: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	stats := LockoutCleanupStats{}
	reset := map[string]any{
		"login_attempts": 0,
		"lock_until":     nil,
	}

	result := db.WithContext(ctx).Model(&models.Admin{}).
		Where("lock_until IS NOT NULL AND lock_until < ?", now).
		Updates(reset)
	if result.Error != nil {
		return stats, fmt.Errorf("cleanup lockouts: admins: %w", result.Error)
	}
	stats.Admins = result.RowsAffected

	result = db.WithContext(ctx).Model(&models.User{}).
		Where("lock_until IS NOT NULL AND lock_until < ?", now).
		Updates(reset)
	if result.Error != nil {
		return stats, fmt.Errorf("cleanup lockouts: users: %w", result.Error)
	}
	stats.Users = result.RowsAffected

	return stats, nil
}
