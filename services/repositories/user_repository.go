package repositories

import (
	"time"

	"github.com/lac-hong-legacy/codequest_api/model"
	"gorm.io/gorm"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = NewID()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return ds.db.Create(user).Error
}

func (ds *UserRepository) GetUser(userID string) (*model.User, error) {
	return ds.GetUserTx(nil, userID)
}

func (ds *UserRepository) GetUserTx(tx *gorm.DB, userID string) (*model.User, error) {
	var user model.User
	if err := ds.conn(tx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsOther reports whether column=value is taken by a user other than userID.
func (ds *UserRepository) ExistsOther(column, value, userID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.User{}).
		Where(column+" = ? AND id <> ?", value, userID).
		Count(&count).Error
	return count > 0, err
}

func (ds *UserRepository) UpdateProfile(userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	res := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ds *UserRepository) UpdateLastLogin(userID string, at time.Time) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// AddRewards increments XP and coins in place.
func (ds *UserRepository) AddRewards(tx *gorm.DB, userID string, xp, coins int) error {
	res := ds.conn(tx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":         gorm.Expr("xp + ?", xp),
		"coins":      gorm.Expr("coins + ?", coins),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DebitCoins subtracts amount only if the balance covers it. ok is false
// when it does not; nothing is written in that case.
func (ds *UserRepository) DebitCoins(tx *gorm.DB, userID string, amount int) (bool, error) {
	res := ds.conn(tx).Model(&model.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		Updates(map[string]interface{}{
			"coins":      gorm.Expr("coins - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (ds *UserRepository) TouchActivity(tx *gorm.DB, userID string, streak int, at time.Time) error {
	return ds.conn(tx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"streak":           streak,
		"last_activity_at": at,
	}).Error
}

// GetLeaderboard orders by XP, ties by signup time then id.
func (ds *UserRepository) GetLeaderboard(limit int) ([]model.User, error) {
	var users []model.User
	err := ds.db.Order("xp DESC").Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// GetUserRank is the 1-based position of user in GetLeaderboard order.
func (ds *UserRepository) GetUserRank(user *model.User) (int, error) {
	var ahead int64
	err := ds.db.Model(&model.User{}).
		Where("xp > ? OR (xp = ? AND (created_at < ? OR (created_at = ? AND id < ?)))",
			user.XP, user.XP, user.CreatedAt, user.CreatedAt, user.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

func (ds *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
