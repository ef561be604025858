package database

import (
	"errors"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.WorkspaceAssignment{},
	)
}

// SeedData creates the bootstrap super admin when the admins table is empty.
// Credentials come from the environment; without them the seed is skipped so
// the application never ships a default password.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := strings.TrimSpace(os.Getenv("SHOWCASE_BOOTSTRAP_ADMIN_USERNAME"))
	password := os.Getenv("SHOWCASE_BOOTSTRAP_ADMIN_PASSWORD")
	email := strings.TrimSpace(os.Getenv("SHOWCASE_BOOTSTRAP_ADMIN_EMAIL"))
	if username == "" || password == "" {
		return nil
	}
	if email == "" {
		return errors.New("seed: bootstrap admin email is required")
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Username: username,
		Email:    email,
		Password: hashed,
		Name:     "Bootstrap Administrator",
		Role:     models.AdminRoleSuperAdmin,
		IsActive: true,
	}

	return db.Create(&admin).Error
}
