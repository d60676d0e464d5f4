package model

import "time"

// LessonProgress holds at most one row per (user, lesson).
type LessonProgress struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID    string    `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null"`
}

// DailyChallengeStatus holds at most one row per (user, day). Day is YYYY-MM-DD.
// Once Completed is set the row is never reset.
type DailyChallengeStatus struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	UserID         string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_day"`
	Day            string     `json:"day" gorm:"not null;size:10;uniqueIndex:idx_user_day"`
	Completed      bool       `json:"completed" gorm:"not null;default:false"`
	TasksCompleted int        `json:"tasks_completed" gorm:"not null;default:0"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
