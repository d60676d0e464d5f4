package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonReward(t *testing.T) {
	tests := []struct {
		lives     int
		firstTime bool
		xp        int
		coins     int
	}{
		{lives: 5, firstTime: true, xp: 200, coins: 100},
		{lives: 3, firstTime: true, xp: 200, coins: 100},
		{lives: 2, firstTime: true, xp: 150, coins: 75},
		{lives: 1, firstTime: true, xp: 100, coins: 50},
		{lives: 0, firstTime: true, xp: 100, coins: 50},
		{lives: -2, firstTime: true, xp: 100, coins: 50},
		{lives: 3, firstTime: false, xp: 100, coins: 50},
		{lives: 2, firstTime: false, xp: 75, coins: 37},
		{lives: 0, firstTime: false, xp: 50, coins: 25},
	}

	for _, tt := range tests {
		r := LessonReward(tt.lives, tt.firstTime)
		assert.Equal(t, tt.xp, r.XP, "lives=%d first=%v", tt.lives, tt.firstTime)
		assert.Equal(t, tt.coins, r.Coins, "lives=%d first=%v", tt.lives, tt.firstTime)
	}
}

func TestGameRewardCapsClaim(t *testing.T) {
	r, err := GameReward(100000, 80)
	require.NoError(t, err)
	assert.Equal(t, 800, r.XP)
	assert.Equal(t, 400, r.Coins)

	// nominal below the floor uses 50
	r, err = GameReward(100000, 10)
	require.NoError(t, err)
	assert.Equal(t, 500, r.XP)

	r, err = GameReward(75, 50)
	require.NoError(t, err)
	assert.Equal(t, 75, r.XP)
	assert.Equal(t, 37, r.Coins)
}

func TestGameRewardRejectsNonPositive(t *testing.T) {
	for _, claimed := range []int{0, -1, -500} {
		_, err := GameReward(claimed, 50)
		assert.ErrorIs(t, err, ErrNonPositiveClaim)
	}
}

func TestCoinsFor(t *testing.T) {
	assert.Equal(t, 0, CoinsFor(0))
	assert.Equal(t, 0, CoinsFor(1))
	assert.Equal(t, 0, CoinsFor(-10))
	assert.Equal(t, 25, CoinsFor(51))
}

func TestStreakAfter(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sameDay := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	longAgo := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, StreakAfter(0, nil, now))
	assert.Equal(t, 4, StreakAfter(4, &sameDay, now))
	assert.Equal(t, 5, StreakAfter(4, &yesterday, now))
	assert.Equal(t, 1, StreakAfter(4, &longAgo, now))
}
