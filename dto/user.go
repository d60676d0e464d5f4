package dto

import (
	"time"

	"github.com/lac-hong-legacy/codequest_api/progression"
)

type UserProfileResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Avatar       string `json:"avatar"`
	XP           int    `json:"xp"`
	Coins        int    `json:"coins"`
	Streak       int    `json:"streak"`
	LessonsCount int    `json:"lessons_count"`
	progression.Standing
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=512"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LessonHistoryItem struct {
	LessonID     string    `json:"lesson_id"`
	LessonTitle  string    `json:"lesson_title"`
	ModuleTitle  string    `json:"module_title"`
	LanguageName string    `json:"language_name"`
	CompletedAt  time.Time `json:"completed_at"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
}

type LeaderboardResponse struct {
	TopUsers    []LeaderboardEntry `json:"top_users"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}
