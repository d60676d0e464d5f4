package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a learner account. XP and Coins only move through reward and
// purchase transactions and never go below zero.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"`
	Role           string     `json:"role" gorm:"not null;default:user"`
	XP             int        `json:"xp" gorm:"not null;default:0;check:xp >= 0"`
	Coins          int        `json:"coins" gorm:"not null;default:0;check:coins >= 0"`
	Streak         int        `json:"streak" gorm:"not null;default:0"`
	Avatar         string     `json:"avatar"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
