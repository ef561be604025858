package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongodb"})
	require.Error(t, err)
}

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	for _, model := range []any{
		&models.Admin{}, &models.User{}, &models.Workspace{},
		&models.WorkspaceMember{}, &models.WorkspaceAssignment{},
	} {
		require.True(t, db.Migrator().HasTable(model))
	}
}

func TestSeedDataSkipsWithoutCredentials(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	t.Setenv("SHOWCASE_BOOTSTRAP_ADMIN_USERNAME", "")
	t.Setenv("SHOWCASE_BOOTSTRAP_ADMIN_PASSWORD", "")

	require.NoError(t, SeedData(db))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSeedDataBootstrapsSuperAdminOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	t.Setenv("SHOWCASE_BOOTSTRAP_ADMIN_USERNAME", "Root")
	t.Setenv("SHOWCASE_BOOTSTRAP_ADMIN_PASSWORD", "bootstrap-secret")
	t.Setenv("SHOWCASE_BOOTSTRAP_ADMIN_EMAIL", "root@example.com")

	require.NoError(t, SeedData(db))
	require.NoError(t, SeedData(db)) // idempotent

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	require.Equal(t, "root", admins[0].Username)
	require.Equal(t, models.AdminRoleSuperAdmin, admins[0].Role)
	require.NotEqual(t, "bootstrap-secret", admins[0].Password)
}

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{Driver: "postgres", User: "svc", Name: "showcase"})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=localhost")
	require.Contains(t, dsn, "port=5432")
	require.Contains(t, dsn, "sslmode=disable")
	require.Contains(t, dsn, "connect_timeout=5")
}

func TestBuildMySQLDSNDefaults(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{Driver: "mysql", User: "svc", Password: "pw", Name: "showcase"})
	require.NoError(t, err)
	require.Contains(t, dsn, "svc:pw@tcp(127.0.0.1:3306)/showcase")
	require.Contains(t, dsn, "parseTime=True")
	require.Contains(t, dsn, "timeout=5s")
}
