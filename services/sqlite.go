package services

import (
	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/config"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteService is the single-file storage driver for local runs and tests.
type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
	admin    AdminSeed
}

func NewSqliteService(cfg config.DB, admin AdminSeed) *SqliteService {
	return &SqliteService{database: cfg.SqlitePath, admin: admin}
}

// Id returns Service ID
func (ds SqliteService) Id() string {
	return DATABASE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	// sqlite serialises writers; one connection avoids SQLITE_BUSY under load
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	if err = migrate(ds.db); err != nil {
		return err
	}
	if err = createDefaultAdmin(ds.db, ds.admin); err != nil {
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (ds *SqliteService) HandleError(err error) error {
	return handleDBError(err)
}
