package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/database/testutil"
	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/pkg/crypto"
)

func newProvider(t *testing.T, db *gorm.DB, cfg LocalConfig) *LocalProvider {
	t.Helper()
	provider, err := NewLocalProvider(db, cfg)
	require.NoError(t, err)
	return provider
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := crypto.HashPasswordWithCost(password, crypto.MinPasswordCost)
	require.NoError(t, err)
	return hashed
}

func createAdmin(t *testing.T, db *gorm.DB, admin models.Admin) models.Admin {
	t.Helper()
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func reloadAdmin(t *testing.T, db *gorm.DB, id string) models.Admin {
	t.Helper()
	var admin models.Admin
	require.NoError(t, db.Take(&admin, "id = ?", id).Error)
	return admin
}

func TestAuthenticateAdminSuccessClearsLockoutState(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	current := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	provider := newProvider(t, db, LocalConfig{Clock: func() time.Time { return current }})

	admin := createAdmin(t, db, models.Admin{
		Username:      "alice",
		Email:         "alice@example.com",
		Password:      hashFor(t, "correctpw"),
		Role:          models.AdminRoleAdmin,
		IsActive:      true,
		LoginAttempts: 4,
	})

	result, err := provider.AuthenticateAdmin(context.Background(), "Alice", "correctpw")
	require.NoError(t, err)
	require.Equal(t, admin.ID, result.ID)

	updated := reloadAdmin(t, db, admin.ID)
	require.Zero(t, updated.LoginAttempts)
	require.Nil(t, updated.LockUntil)
	require.NotNil(t, updated.LastLoginAt)
	require.True(t, updated.LastLoginAt.Equal(current))
}

func TestAuthenticateAdminFifthFailureArmsLock(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	current := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	provider := newProvider(t, db, LocalConfig{Clock: func() time.Time { return current }})

	admin := createAdmin(t, db, models.Admin{
		Username:      "alice",
		Email:         "alice@example.com",
		Password:      hashFor(t, "correctpw"),
		Role:          models.AdminRoleAdmin,
		IsActive:      true,
		LoginAttempts: 4,
	})

	// The locking attempt itself reports invalid credentials, not locked.
	_, err := provider.AuthenticateAdmin(context.Background(), "alice", "wrongpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	updated := reloadAdmin(t, db, admin.ID)
	require.Equal(t, 5, updated.LoginAttempts)
	require.NotNil(t, updated.LockUntil)
	require.WithinDuration(t, current.Add(2*time.Hour), *updated.LockUntil, time.Second)

	// Correct password inside the window is still rejected as locked.
	_, err = provider.AuthenticateAdmin(context.Background(), "alice", "correctpw")
	require.ErrorIs(t, err, ErrAccountLocked)

	after := reloadAdmin(t, db, admin.ID)
	require.Equal(t, 5, after.LoginAttempts)
	require.Equal(t, updated.LockUntil.UTC(), after.LockUntil.UTC())
}

func TestAuthenticateAdminLockExpiryResetsCounter(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	current := time.Date(2025, 4, 7, 11, 0, 0, 0, time.UTC)
	provider := newProvider(t, db, LocalConfig{Clock: func() time.Time { return current }})

	expired := current.Add(-time.Minute)
	admin := createAdmin(t, db, models.Admin{
		Username:      "alice",
		Email:         "alice@example.com",
		Password:      hashFor(t, "correctpw"),
		Role:          models.AdminRoleAdmin,
		IsActive:      true,
		LoginAttempts: 5,
		LockUntil:     &expired,
	})

	// Stale counter is discarded: a new failure restarts at 1, not 6.
	_, err := provider.AuthenticateAdmin(context.Background(), "alice", "wrongpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	updated := reloadAdmin(t, db, admin.ID)
	require.Equal(t, 1, updated.LoginAttempts)
	require.Nil(t, updated.LockUntil)
}

func TestAuthenticateAdminExpiredLockAllowsCorrectPassword(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	current := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	provider := newProvider(t, db, LocalConfig{Clock: func() time.Time { return current }})

	expired := current.Add(-time.Second)
	admin := createAdmin(t, db, models.Admin{
		Username:      "alice",
		Email:         "alice@example.com",
		Password:      hashFor(t, "correctpw"),
		Role:          models.AdminRoleEditor,
		IsActive:      true,
		LoginAttempts: 5,
		LockUntil:     &expired,
	})

	result, err := provider.AuthenticateAdmin(context.Background(), "alice", "correctpw")
	require.NoError(t, err)
	require.Equal(t, admin.ID, result.ID)

	updated := reloadAdmin(t, db, admin.ID)
	require.Zero(t, updated.LoginAttempts)
	require.Nil(t, updated.LockUntil)
}

func TestAuthenticateAdminDisabledAccount(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	provider := newProvider(t, db, LocalConfig{})

	createAdmin(t, db, models.Admin{
		Username: "ghost",
		Email:    "ghost@example.com",
		Password: hashFor(t, "correctpw"),
		Role:     models.AdminRoleAdmin,
		IsActive: false,
	})

	_, err := provider.AuthenticateAdmin(context.Background(), "ghost", "correctpw")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthenticateAdminUnknownAccountIsGeneric(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	provider := newProvider(t, db, LocalConfig{})

	_, err := provider.AuthenticateAdmin(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.AuthenticateAdmin(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUserLockoutThreshold(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	current := time.Date(2025, 4, 8, 9, 0, 0, 0, time.UTC)
	provider := newProvider(t, db, LocalConfig{
		LockoutThreshold: 3,
		LockoutDuration:  30 * time.Minute,
		Clock:            func() time.Time { return current },
	})

	user := models.User{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: hashFor(t, "correctpw"),
	}
	require.NoError(t, db.Create(&user).Error)

	for i := 0; i < 3; i++ {
		_, err := provider.AuthenticateUser(context.Background(), "bob@example.com", "wrongpw")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	var updated models.User
	require.NoError(t, db.Take(&updated, "id = ?", user.ID).Error)
	require.Equal(t, 3, updated.LoginAttempts)
	require.NotNil(t, updated.LockUntil)
	require.WithinDuration(t, current.Add(30*time.Minute), *updated.LockUntil, time.Second)

	_, err := provider.AuthenticateUser(context.Background(), "bob@example.com", "correctpw")
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthenticateUserEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	provider := newProvider(t, db, LocalConfig{})

	user := models.User{
		Email:    "Carol@Example.com",
		Name:     "Carol",
		Password: hashFor(t, "correctpw"),
	}
	require.NoError(t, db.Create(&user).Error)

	result, err := provider.AuthenticateUser(context.Background(), "  CAROL@EXAMPLE.COM ", "correctpw")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.ID)
}
