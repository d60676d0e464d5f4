package model

import "time"

const (
	RateLimitLogin          = "login"
	RateLimitRegister       = "register"
	RateLimitLessonComplete = "lesson_complete"
	RateLimitGameComplete   = "game_complete"
	RateLimitDailyTask      = "daily_task"
)

// RateLimitConfig is a fixed window for one endpoint type. Exceeding
// MaxRequests inside WindowSize blocks the identifier for BlockTime.
type RateLimitConfig struct {
	EndpointType string        `json:"endpoint_type"`
	MaxRequests  int           `json:"max_requests"`
	WindowSize   time.Duration `json:"window_size"`
	BlockTime    time.Duration `json:"block_time"`
	Description  string        `json:"description"`
}
