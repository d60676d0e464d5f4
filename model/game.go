package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TaskTypeMemoryCode   = "memory_code"
	TaskTypeRefactor     = "refactor"
	TaskTypeVariableHunt = "variable_hunt"
	TaskTypeBugInfection = "bug_infection"

	DefaultGameXPReward = 50
	DefaultTaskLanguage = "javascript"
)

// Game is a mini-game. Slug is the public identifier used in routes
// (memory-code, refactor-rush...).
type Game struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"game_id" gorm:"uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Difficulty  string    `json:"difficulty" gorm:"not null;default:Easy"`
	XPReward    int       `json:"xp_reward" gorm:"not null;default:50"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tasks []GameTask `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// GameTask payload shape depends on TaskType.
type GameTask struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	GameID    string         `json:"game_id" gorm:"not null;index"`
	TaskType  string         `json:"task_type" gorm:"not null"`
	Language  string         `json:"language" gorm:"not null;default:javascript;index"`
	TaskData  datatypes.JSON `json:"task_data" gorm:"not null"`
	Order     int            `json:"order" gorm:"not null;default:0"`
	XPReward  int            `json:"xp_reward" gorm:"not null;default:50"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GameResult is an append-only audit row written on every game completion.
type GameResult struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	GameID    string    `json:"game_id" gorm:"not null;index"`
	XPEarned  int       `json:"xp_earned" gorm:"not null"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}
