package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *SqliteService {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db := NewSqliteService(config.DB{SqlitePath: dsn}, AdminSeed{})
	require.NoError(t, db.Start())
	t.Cleanup(db.Shutdown)
	return db
}

func addUser(t *testing.T, db DatabaseProvider, email string, xp, coins int) *model.User {
	t.Helper()
	user := &model.User{Email: email, Username: email, Password: "x", XP: xp, Coins: coins}
	require.NoError(t, repositories.NewUserRepository(db.Db()).CreateUser(user))
	return user
}

// addLesson creates a language, module and lesson with one multiple choice
// and one free text exercise.
func addLesson(t *testing.T, db DatabaseProvider, id string) *model.Lesson {
	t.Helper()
	lang := model.Language{ID: "lang-" + id, Name: "Lang " + id}
	mod := model.Module{ID: "mod-" + id, LanguageID: lang.ID, Title: "Module " + id, Order: 1}
	lesson := model.Lesson{ID: id, ModuleID: mod.ID, Title: "Lesson " + id, LessonType: model.LessonTypeTheory, Order: 1}
	exercises := []model.Exercise{
		{ID: id + "-ex1", LessonID: id, ExerciseType: model.ExerciseTypeMultipleChoice, Question: "Pick b", Options: datatypes.JSON(`{"a":"one","b":"two"}`), Answer: "b"},
		{ID: id + "-ex2", LessonID: id, ExerciseType: model.ExerciseTypeFillBlank, Question: "Type print", Options: datatypes.JSON(`{}`), Answer: "print"},
	}

	require.NoError(t, db.Db().Create(&lang).Error)
	require.NoError(t, db.Db().Create(&mod).Error)
	require.NoError(t, db.Db().Create(&lesson).Error)
	require.NoError(t, db.Db().Create(&exercises).Error)
	return &lesson
}

// addGame creates a memory-code game with one task per language.
func addGame(t *testing.T, db DatabaseProvider, slug string, xpReward int, languages ...string) *model.Game {
	t.Helper()
	game := model.Game{ID: "game-" + slug, Slug: slug, Title: slug, Difficulty: "Easy", XPReward: xpReward}
	require.NoError(t, db.Db().Create(&game).Error)

	for i, lang := range languages {
		task := model.GameTask{
			ID:       fmt.Sprintf("%s-task-%d", slug, i+1),
			GameID:   game.ID,
			TaskType: model.TaskTypeMemoryCode,
			Language: lang,
			TaskData: datatypes.JSON(fmt.Sprintf(`{"code":"print(%d)"}`, i)),
			Order:    i + 1,
			XPReward: xpReward,
		}
		require.NoError(t, db.Db().Create(&task).Error)
	}
	return &game
}

func addItem(t *testing.T, db DatabaseProvider, id string, price int, available bool) *model.ShopItem {
	t.Helper()
	item := model.ShopItem{ID: id, Name: "Item " + id, ItemType: model.ItemTypeTheme, Price: price, IsAvailable: true}
	require.NoError(t, db.Db().Create(&item).Error)
	if !available {
		// is_available has a DB default, so false must be written explicitly.
		require.NoError(t, db.Db().Model(&item).Update("is_available", false).Error)
		item.IsAvailable = false
	}
	return &item
}

func loadUser(t *testing.T, db DatabaseProvider, id string) *model.User {
	t.Helper()
	user, err := repositories.NewUserRepository(db.Db()).GetUser(id)
	require.NoError(t, err)
	return user
}

func requireStatus(t *testing.T, err error, status int) *shared.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, status, appErr.StatusCode, appErr.Message)
	return appErr
}

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, shared.JSONAPI.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := shared.JSONAPI.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes = append(c.deletes, keys...)
	return nil
}

type recordingMetrics struct {
	rewards   []string
	xp        int
	purchases []int
	finished  int
}

func (m *recordingMetrics) RecordReward(source string, xp, _ int) {
	m.rewards = append(m.rewards, source)
	m.xp += xp
}

func (m *recordingMetrics) RecordPurchase(coins int) {
	m.purchases = append(m.purchases, coins)
}

func (m *recordingMetrics) RecordDailyFinished() {
	m.finished++
}
