package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseRepository provides common database functionality
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the underlying database connection
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}

// WithinTx runs fn in one transaction. Returning an error rolls back.
func (r *BaseRepository) WithinTx(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// conn picks tx when given so callers can join an open transaction.
func (r *BaseRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
