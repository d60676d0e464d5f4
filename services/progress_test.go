package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
)

func newProgressService(t *testing.T, db DatabaseProvider, metrics RewardMetrics) *ProgressService {
	t.Helper()
	svc := NewProgressService(config.Daily{})
	svc.wire(db, metrics)
	return svc
}

func TestCompleteLessonFirstTimeThenRepeat(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	lesson := addLesson(t, db, "l1")
	metrics := &recordingMetrics{}
	svc := newProgressService(t, db, metrics)

	first, err := svc.CompleteLesson(user.ID, lesson.ID, 3)
	require.NoError(t, err)
	assert.True(t, first.FirstCompletion)
	assert.Equal(t, 200, first.XPEarned)
	assert.Equal(t, 100, first.CoinsEarned)
	assert.Equal(t, 200, first.NewTotalXP)
	assert.Equal(t, 100, first.NewTotalCoins)
	assert.Equal(t, 1, first.Streak)

	again, err := svc.CompleteLesson(user.ID, lesson.ID, 3)
	require.NoError(t, err)
	assert.False(t, again.FirstCompletion)
	assert.Equal(t, 100, again.XPEarned)
	assert.Equal(t, 300, again.NewTotalXP)
	assert.Equal(t, 150, again.NewTotalCoins)

	stored := loadUser(t, db, user.ID)
	assert.Equal(t, 300, stored.XP)
	assert.Equal(t, 150, stored.Coins)

	count, err := repositories.NewProgressRepository(db.Db()).CountLessonProgress(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, []string{RewardSourceLesson, RewardSourceLesson}, metrics.rewards)
	assert.Equal(t, 300, metrics.xp)
}

func TestCompleteLessonRewardTiersByLives(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(t, db, nil)

	cases := []struct {
		lives int
		xp    int
	}{
		{lives: 0, xp: 100},
		{lives: 1, xp: 100},
		{lives: 2, xp: 150},
		{lives: 5, xp: 200},
	}
	for i, tc := range cases {
		user := addUser(t, db, string(rune('a'+i))+"@tiers.io", 0, 0)
		lesson := addLesson(t, db, "tier"+string(rune('a'+i)))

		resp, err := svc.CompleteLesson(user.ID, lesson.ID, tc.lives)
		require.NoError(t, err)
		assert.Equal(t, tc.xp, resp.XPEarned, "lives=%d", tc.lives)
		assert.Equal(t, tc.xp/2, resp.CoinsEarned, "lives=%d", tc.lives)
	}
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	svc := newProgressService(t, db, nil)

	_, err := svc.CompleteLesson(user.ID, "missing", 3)
	requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, 0, loadUser(t, db, user.ID).XP)
}

func TestCompleteLessonAdvancesStreakByCalendarDay(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	lesson := addLesson(t, db, "l1")
	svc := newProgressService(t, db, nil)

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	steps := []struct {
		at     time.Time
		streak int
	}{
		{at: day1, streak: 1},
		{at: day1.Add(5 * time.Hour), streak: 1},
		{at: day1.Add(24 * time.Hour), streak: 2},
		{at: day1.Add(4 * 24 * time.Hour), streak: 1},
	}
	for _, step := range steps {
		at := step.at
		svc.now = func() time.Time { return at }

		resp, err := svc.CompleteLesson(user.ID, lesson.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, step.streak, resp.Streak, "at %s", at)
	}
}

func TestCompleteGameClampsClaimAndAudits(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 10, 0)
	game := addGame(t, db, "memory-code", 50, "javascript")
	metrics := &recordingMetrics{}
	svc := newProgressService(t, db, metrics)

	resp, err := svc.CompleteGame(user.ID, game.Slug, 100000, "javascript")
	require.NoError(t, err)
	assert.Equal(t, 500, resp.XPAdded)
	assert.Equal(t, 250, resp.CoinsAdded)
	assert.Equal(t, 510, resp.XPTotal)
	assert.Equal(t, 250, resp.CoinsTotal)
	assert.Equal(t, 3, resp.Level)

	resp, err = svc.CompleteGame(user.ID, game.Slug, 30, "")
	require.NoError(t, err)
	assert.Equal(t, 30, resp.XPAdded)
	assert.Equal(t, 15, resp.CoinsAdded)
	assert.Equal(t, 540, resp.XPTotal)

	results, err := repositories.NewGameRepository(db.Db()).CountResults(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), results)
	assert.Equal(t, []string{RewardSourceGame, RewardSourceGame}, metrics.rewards)
}

func TestCompleteGameErrors(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	game := addGame(t, db, "refactor-rush", 75)
	svc := newProgressService(t, db, nil)

	_, err := svc.CompleteGame(user.ID, "no-such-game", 10, "")
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.CompleteGame(user.ID, game.Slug, 0, "")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CompleteGame("ghost", game.Slug, 10, "")
	appErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "User not found", appErr.Message)

	var results int64
	require.NoError(t, db.Db().Model(&model.GameResult{}).Count(&results).Error)
	assert.Equal(t, int64(0), results)
}
