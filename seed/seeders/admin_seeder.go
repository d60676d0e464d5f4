package seeders

import (
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
)

// AdminSeeder creates the first admin account
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin is a no-op when any admin exists or no credentials are given.
func (s *AdminSeeder) SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		log.Info("No admin credentials given, skipping admin seeding")
		return nil
	}

	users := repositories.NewUserRepository(s.db)
	count, err := users.CountByRole(model.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("Admin user already exists, skipping admin seeding")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &model.User{
		Username:  "admin",
		Email:     email,
		Password:  string(hashedPassword),
		Role:      model.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.CreateUser(admin); err != nil {
		return err
	}

	log.WithField("email", email).Info("Created admin user")
	return nil
}
