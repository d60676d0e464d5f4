package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DATABASE_SVC is registered by whichever storage driver is configured.
const DATABASE_SVC = "database_svc"

// DatabaseProvider is the storage handle every domain service is built on.
type DatabaseProvider interface {
	Db() *gorm.DB
	HandleError(err error) error
}

type AdminSeed struct {
	Email    string
	Password string
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}
	return nil
}

func createDefaultAdmin(db *gorm.DB, seed AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	users := repositories.NewUserRepository(db)
	count, err := users.CountByRole(model.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &model.User{
		Username:  "admin",
		Email:     seed.Email,
		Password:  string(hashedPassword),
		Role:      model.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.CreateUser(admin); err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return err
	}

	log.WithField("email", seed.Email).Warn("Default admin user created, change its password")
	return nil
}

// handleDBError classifies a gorm error, logs it and wraps it with its class.
func handleDBError(err error) error {
	if err == nil {
		return nil
	}

	statusCode, errorType := classifyDBError(err)

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

func classifyDBError(err error) (int, string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest, "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return http.StatusInternalServerError, "TRANSACTION_ERROR"
	}

	msg := err.Error()
	switch {
	case isUniqueViolation(err):
		return http.StatusConflict, "UNIQUE_CONSTRAINT"
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "no such table"):
		return http.StatusInternalServerError, "SCHEMA_ERROR"
	case strings.Contains(msg, "connection refused"):
		return http.StatusServiceUnavailable, "DATABASE_CONNECTION_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
