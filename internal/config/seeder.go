package config

import (
	"log"

	"schoolrec/internal/adapters/persistence/models"
	"schoolrec/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminTeacher(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminTeacher seeds the default admin account.
// This is for development/testing only; in production, create the admin
// through a secure process.
func (s *Seeder) seedAdminTeacher() error {
	// Check if an admin already exists
	var count int64
	s.db.Model(&models.Teacher{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@schoolrec.local")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "admin123456")

	hashedPassword, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.Teacher{
		Name:          "Default Admin",
		Email:         adminEmail,
		ContactNumber: "9999999999",
		Password:      hashedPassword,
		IsAdmin:       true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin teacher created: %s", admin.Email)
	return nil
}
