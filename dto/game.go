package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/lac-hong-legacy/codequest_api/progression"
)

var (
	ErrClaimMissing    = errors.New("xp_earned is required")
	ErrClaimNotNumeric = errors.New("xp_earned must be a number")
)

type GameResponse struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	XPReward    int    `json:"xp_reward"`
}

type GameTaskResponse struct {
	ID       string          `json:"id"`
	TaskType string          `json:"task_type"`
	Language string          `json:"language"`
	TaskData json.RawMessage `json:"task_data"`
	Order    int             `json:"order"`
	XPReward int             `json:"xp_reward"`
}

// CompleteGameRequest keeps xp_earned raw so a missing, string or
// fractional value can be told apart from zero.
type CompleteGameRequest struct {
	XPEarned json.RawMessage `json:"xp_earned" swaggertype:"integer"`
	Language string          `json:"language,omitempty" validate:"omitempty,max=50"`
}

func (r CompleteGameRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ClaimedXP parses xp_earned as a positive integer. Numeric strings are
// accepted.
func (r CompleteGameRequest) ClaimedXP() (int, error) {
	raw := bytes.TrimSpace(r.XPEarned)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrClaimMissing
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrClaimNotNumeric
		}
		text = strings.TrimSpace(s)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrClaimNotNumeric
	}
	if value != math.Trunc(value) {
		return 0, ErrClaimNotNumeric
	}
	if value <= 0 {
		return 0, progression.ErrNonPositiveClaim
	}
	if value > math.MaxInt32 {
		value = math.MaxInt32
	}
	return int(value), nil
}

type CompleteGameResponse struct {
	XPAdded    int `json:"xp_added"`
	CoinsAdded int `json:"coins_added"`
	XPTotal    int `json:"xp_total"`
	CoinsTotal int `json:"coins_total"`
	progression.Standing
}
