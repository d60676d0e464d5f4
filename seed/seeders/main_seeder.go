package seeders

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs every seeder. Courses go first since nothing else depends on
// games or shop items.
func (s *MainSeeder) SeedAll() error {
	log.Info("Starting database seeding")

	if err := s.SeedCourses(); err != nil {
		return err
	}
	if err := s.SeedGames(); err != nil {
		return err
	}
	if err := s.SeedShop(); err != nil {
		return err
	}

	log.Info("Database seeding completed")
	return nil
}

func (s *MainSeeder) SeedCourses() error {
	if err := NewCourseSeeder(s.db).SeedCourses(); err != nil {
		log.WithError(err).Error("Course seeding failed")
		return err
	}
	return nil
}

func (s *MainSeeder) SeedGames() error {
	if err := NewGameSeeder(s.db).SeedGames(); err != nil {
		log.WithError(err).Error("Game seeding failed")
		return err
	}
	return nil
}

func (s *MainSeeder) SeedShop() error {
	if err := NewShopSeeder(s.db).SeedItems(); err != nil {
		log.WithError(err).Error("Shop seeding failed")
		return err
	}
	return nil
}

func (s *MainSeeder) SeedAdmin(email, password string) error {
	if err := NewAdminSeeder(s.db).SeedAdmin(email, password); err != nil {
		log.WithError(err).Error("Admin seeding failed")
		return err
	}
	return nil
}

// insertMissing inserts row unless its primary key is already present.
// Existing rows are left untouched so reseeding never overwrites edits.
func insertMissing(db *gorm.DB, row interface{}, kind, label string) error {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		log.WithError(result.Error).WithField(kind, label).Error("Seed insert failed")
		return result.Error
	}

	if result.RowsAffected == 0 {
		log.WithField(kind, label).Debug("Already exists, skipping")
		return nil
	}
	log.WithField(kind, label).Info("Created")
	return nil
}
