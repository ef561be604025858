package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/database/testutil"
	"github.com/showcasehq/showcase/internal/models"
)

func seedLockedAdmin(t *testing.T, db *gorm.DB, username string, lockUntil time.Time) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "$2a$10$abcdefghijklmnopqrstuvabcdefghijklmnopqrstuvabcdefghi",
		Role:          models.AdminRoleEditor,
		IsActive:      true,
		LoginAttempts: 5,
		LockUntil:     &lockUntil,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func seedLockedUser(t *testing.T, db *gorm.DB, email string, lockUntil time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Email:         email,
		Password:      "$2a$10$abcdefghijklmnopqrstuvabcdefghijklmnopqrstuvabcdefghi",
		DefaultRole:   models.UserRoleViewer,
		LoginAttempts: 5,
		LockUntil:     &lockUntil,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCleanupExpiredLockouts(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Now()

	expired := seedLockedAdmin(t, db, "stale", now.Add(-time.Minute))
	active := seedLockedAdmin(t, db, "fresh", now.Add(time.Hour))
	staleUser := seedLockedUser(t, db, "stale@example.com", now.Add(-time.Minute))

	stats, err := CleanupExpiredLockouts(context.Background(), db, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Admins)
	require.Equal(t, int64(1), stats.Users)

	var reloaded models.Admin
	require.NoError(t, db.Take(&reloaded, "id = ?", expired.ID).Error)
	require.Zero(t, reloaded.LoginAttempts)
	require.Nil(t, reloaded.LockUntil)

	require.NoError(t, db.Take(&reloaded, "id = ?", active.ID).Error)
	require.Equal(t, 5, reloaded.LoginAttempts)
	require.NotNil(t, reloaded.LockUntil)

	var reloadedUser models.User
	require.NoError(t, db.Take(&reloadedUser, "id = ?", staleUser.ID).Error)
	require.Zero(t, reloadedUser.LoginAttempts)
	require.Nil(t, reloadedUser.LockUntil)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Now()

	seedLockedAdmin(t, db, "stale", now.Add(-time.Minute))

	cleaner := NewCleaner(db,
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
		WithNow(func() time.Time { return now }),
	)

	require.NoError(t, cleaner.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).
		Where("lock_until IS NOT NULL").Count(&count).Error)
	require.Zero(t, count)
}

func TestCleanerStartStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	cleaner := NewCleaner(db, WithLockoutSchedule("@every 1h"))
	require.NoError(t, cleaner.Start())

	done := cleaner.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
