package repositories

import (
	"time"

	"github.com/lac-hong-legacy/codequest_api/model"
	"gorm.io/gorm"
)

type GameRepository struct {
	BaseRepository
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *GameRepository) GetGames() ([]model.Game, error) {
	var games []model.Game
	err := ds.db.Order("id ASC").Find(&games).Error
	return games, err
}

func (ds *GameRepository) GetGameBySlug(slug string) (*model.Game, error) {
	var game model.Game
	if err := ds.db.Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// GetTasks lists a game's tasks; an empty language means all languages.
func (ds *GameRepository) GetTasks(gameID, language string) ([]model.GameTask, error) {
	query := ds.db.Where("game_id = ?", gameID)
	if language != "" {
		query = query.Where("language = ?", language)
	}
	var tasks []model.GameTask
	err := query.Order(byOrder).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// GetAllTasks feeds the daily challenge pool; the order must be stable.
func (ds *GameRepository) GetAllTasks() ([]model.GameTask, error) {
	var tasks []model.GameTask
	err := ds.db.Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (ds *GameRepository) CreateResult(tx *gorm.DB, result *model.GameResult) error {
	if result.ID == "" {
		result.ID = NewID()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	return ds.conn(tx).Create(result).Error
}

func (ds *GameRepository) CountResults(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.GameResult{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
