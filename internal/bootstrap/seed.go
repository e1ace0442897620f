package bootstrap

import (
	"log"
	"strings"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/pkg/password"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.StudentProfile{},
		&entity.CompanyProfile{},
		&entity.RefreshToken{},
		&entity.Job{},
		&entity.Application{},
		&entity.Interview{},
		&entity.Offer{},
		&entity.SupportMessage{},
		&entity.Notification{},
	)
}

// SeedAdminUser creates the first admin account when no user owns email yet.
func SeedAdminUser(db *gorm.DB, hasher *password.Hasher, email, plaintext string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plaintext == "" {
		log.Println("Admin seed credentials not configured, skipping seed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		FullName:     "Placement Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded successfully (%s)", email)
	return nil
}
