package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/progression"
)

var dailyNow = time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)

func newDailyService(t *testing.T, db DatabaseProvider, cache Cache, metrics RewardMetrics, size int) *DailyChallengeService {
	t.Helper()
	svc := NewDailyChallengeService(config.Daily{Size: size})
	svc.now = func() time.Time { return dailyNow }
	svc.wire(db, cache, metrics)
	return svc
}

func taskIDs(tasks []progression.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestGetChallengeIsStableForTheDay(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	addLesson(t, db, "l1")
	addLesson(t, db, "l2")
	addGame(t, db, "memory-code", 50, "javascript", "python")
	cache := newMemoryCache()
	svc := newDailyService(t, db, cache, nil, 3)

	first, err := svc.GetChallenge(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-04", first.Date)
	assert.False(t, first.Completed)
	require.Len(t, first.Tasks, 3)
	assert.Equal(t, 1, cache.sets)

	cached, err := svc.GetChallenge(user.ID)
	require.NoError(t, err)
	assert.Equal(t, taskIDs(first.Tasks), taskIDs(cached.Tasks))
	assert.Equal(t, 1, cache.sets)

	uncached := newDailyService(t, db, nil, nil, 3)
	fresh, err := uncached.GetChallenge(user.ID)
	require.NoError(t, err)
	assert.Equal(t, taskIDs(first.Tasks), taskIDs(fresh.Tasks))
}

func TestGetChallengeSmallPoolReturnsWholePool(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	addLesson(t, db, "l1")
	svc := newDailyService(t, db, nil, nil, 5)

	resp, err := svc.GetChallenge(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"exercise-l1-ex1", "exercise-l1-ex2"}, taskIDs(resp.Tasks))
}

func TestGetChallengeEmptyPool(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	svc := newDailyService(t, db, nil, nil, 5)

	_, err := svc.GetChallenge(user.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestFinishIsIdempotentAndHidesTasks(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	addLesson(t, db, "l1")
	cache := newMemoryCache()
	metrics := &recordingMetrics{}
	svc := newDailyService(t, db, cache, metrics, 5)

	_, err := svc.GetChallenge(user.ID)
	require.NoError(t, err)

	done, err := svc.Finish(user.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "2026-05-04", done.Date)
	assert.Equal(t, 1, metrics.finished)
	assert.Contains(t, cache.deletes, dailyCacheKey(user.ID, dailyNow))

	again, err := svc.Finish(user.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.Equal(t, 1, metrics.finished)

	challenge, err := svc.GetChallenge(user.ID)
	require.NoError(t, err)
	assert.True(t, challenge.Completed)
	assert.Empty(t, challenge.Tasks)
	assert.NotNil(t, challenge.Tasks)
}

func TestCompleteTaskRewardsUpToSize(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	metrics := &recordingMetrics{}
	svc := newDailyService(t, db, nil, metrics, 2)

	first, err := svc.CompleteTask(user.ID)
	require.NoError(t, err)
	assert.Equal(t, progression.DailyTaskXP, first.XPAdded)
	assert.Equal(t, progression.DailyTaskXP/2, first.CoinsAdded)
	assert.Equal(t, 1, first.TasksCompleted)

	second, err := svc.CompleteTask(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.TasksCompleted)
	assert.Equal(t, 2*progression.DailyTaskXP, second.XPTotal)

	_, err = svc.CompleteTask(user.ID)
	appErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "All 2 daily tasks already rewarded", appErr.Message)

	assert.Equal(t, 2*progression.DailyTaskXP, loadUser(t, db, user.ID).XP)
	assert.Len(t, metrics.rewards, 2)
}

func TestCompleteTaskRejectedAfterFinish(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	svc := newDailyService(t, db, nil, nil, 5)

	_, err := svc.Finish(user.ID)
	require.NoError(t, err)

	_, err = svc.CompleteTask(user.ID)
	appErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Daily challenge already completed", appErr.Message)
	assert.Equal(t, 0, loadUser(t, db, user.ID).XP)
}

func TestCompleteTaskNewDayStartsOver(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	svc := newDailyService(t, db, nil, nil, 1)

	_, err := svc.CompleteTask(user.ID)
	require.NoError(t, err)
	_, err = svc.CompleteTask(user.ID)
	requireStatus(t, err, http.StatusConflict)

	svc.now = func() time.Time { return dailyNow.Add(24 * time.Hour) }
	resp, err := svc.CompleteTask(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-05", resp.Date)
	assert.Equal(t, 1, resp.TasksCompleted)
}

func TestUntilEndOfDay(t *testing.T) {
	assert.Equal(t, 8*time.Hour+30*time.Minute, untilEndOfDay(dailyNow))
	almostMidnight := time.Date(2026, 5, 4, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, time.Minute, untilEndOfDay(almostMidnight))
}
