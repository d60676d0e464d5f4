package dto

import "github.com/lac-hong-legacy/codequest_api/progression"

// CompleteLessonRequest: an absent lives_remaining counts as zero lives.
type CompleteLessonRequest struct {
	LivesRemaining *int `json:"lives_remaining" validate:"omitempty,min=0,max=100"`
}

func (r CompleteLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

func (r CompleteLessonRequest) Lives() int {
	if r.LivesRemaining == nil {
		return 0
	}
	return *r.LivesRemaining
}

type CompleteLessonResponse struct {
	XPEarned        int  `json:"xp_earned"`
	CoinsEarned     int  `json:"coins_earned"`
	NewTotalXP      int  `json:"new_total_xp"`
	NewTotalCoins   int  `json:"new_total_coins"`
	FirstCompletion bool `json:"first_completion"`
	Streak          int  `json:"streak"`
	progression.Standing
}

type DailyChallengeResponse struct {
	Date      string             `json:"date"`
	Completed bool               `json:"completed"`
	Tasks     []progression.Task `json:"tasks"`
}

type DailyFinishResponse struct {
	Date           string `json:"date"`
	Completed      bool   `json:"completed"`
	TasksCompleted int    `json:"tasks_completed"`
}

type DailyTaskCompleteResponse struct {
	Date           string `json:"date"`
	XPAdded        int    `json:"xp_added"`
	CoinsAdded     int    `json:"coins_added"`
	XPTotal        int    `json:"xp_total"`
	CoinsTotal     int    `json:"coins_total"`
	TasksCompleted int    `json:"tasks_completed"`
}
