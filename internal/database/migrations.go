package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Item{},
		&models.ItemPhoto{},
		&models.Claim{},
		&models.Pickup{},
		&models.PickupProof{},
		&models.Notification{},
		&models.ActivityLog{},
	)
}

// SeedConfig describes the bootstrap admin account.
type SeedConfig struct {
	AdminName     string
	AdminNIM      string
	AdminEmail    string
	AdminPassword string
}

// SeedData ensures the bootstrap admin account exists. Nothing is seeded when
// the admin email or password is left empty.
func SeedData(db *gorm.DB, cfg SeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Admin Lost & Found"
	}
	nim := strings.TrimSpace(cfg.AdminNIM)
	if nim == "" {
		nim = "admin"
	}

	admin := models.User{
		FullName:  name,
		StudentID: nim,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
