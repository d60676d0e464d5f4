package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/progression"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DAILY_SVC = "daily_svc"

var ErrEmptyTaskPool = errors.New("daily challenge pool is empty")

// DailyChallengeService hands each user a stable set of tasks per calendar
// day. A day moves from not started to completed exactly once.
type DailyChallengeService struct {
	appContext.DefaultService

	dbSvc    DatabaseProvider
	users    *repositories.UserRepository
	content  *repositories.ContentRepository
	games    *repositories.GameRepository
	progress *repositories.ProgressRepository
	cache    Cache
	metrics  RewardMetrics

	loc  *time.Location
	size int
	now  func() time.Time
}

func NewDailyChallengeService(cfg config.Daily) *DailyChallengeService {
	return &DailyChallengeService{loc: cfg.Location(), size: cfg.Size, now: time.Now}
}

func (svc DailyChallengeService) Id() string {
	return DAILY_SVC
}

func (svc *DailyChallengeService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *DailyChallengeService) Start() error {
	svc.wire(
		svc.Service(DATABASE_SVC).(DatabaseProvider),
		svc.Service(REDIS_SVC).(*RedisService),
		rewardMetricsFrom(svc.Service(MONITORING_SVC)),
	)
	return nil
}

func (svc *DailyChallengeService) wire(db DatabaseProvider, cache Cache, metrics RewardMetrics) {
	svc.dbSvc = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.content = repositories.NewContentRepository(db.Db())
	svc.games = repositories.NewGameRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
	svc.cache = cache
	svc.metrics = metrics
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	if svc.size <= 0 {
		svc.size = progression.DailyChallengeSize
	}
	if svc.now == nil {
		svc.now = time.Now
	}
}

func (svc *DailyChallengeService) today() time.Time {
	return svc.now().In(svc.loc)
}

// GetChallenge returns today's tasks, or an empty completed set once the day
// has been finished.
func (svc *DailyChallengeService) GetChallenge(userID string) (*dto.DailyChallengeResponse, error) {
	now := svc.today()
	day := progression.DayKey(now)

	status, err := svc.progress.GetDailyStatus(nil, userID, day)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get daily challenge status")
	}
	if status != nil && status.Completed {
		return &dto.DailyChallengeResponse{Date: day, Completed: true, Tasks: []progression.Task{}}, nil
	}

	tasks, err := svc.tasksFor(userID, now)
	if err != nil {
		if errors.Is(err, ErrEmptyTaskPool) {
			return nil, shared.NewNotFoundError(err, "No tasks available for the daily challenge")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to build daily challenge")
	}

	return &dto.DailyChallengeResponse{Date: day, Completed: false, Tasks: tasks}, nil
}

// tasksFor samples the day's tasks. The draw is deterministic so the cache
// only saves the pool queries.
func (svc *DailyChallengeService) tasksFor(userID string, now time.Time) ([]progression.Task, error) {
	key := dailyCacheKey(userID, now)
	ctx := context.Background()

	if svc.cache != nil {
		var cached []progression.Task
		if found, err := svc.cache.GetJSON(ctx, key, &cached); err == nil && found && len(cached) > 0 {
			return cached, nil
		}
	}

	exercises, err := svc.content.GetAllExercises()
	if err != nil {
		return nil, err
	}
	gameTasks, err := svc.games.GetAllTasks()
	if err != nil {
		return nil, err
	}

	pool := progression.BuildPool(exercises, gameTasks)
	if len(pool) == 0 {
		return nil, ErrEmptyTaskPool
	}
	tasks := progression.SampleTasks(pool, progression.DailySeed(userID, now), svc.size)

	if svc.cache != nil {
		if err := svc.cache.SetJSON(ctx, key, tasks, untilEndOfDay(now)); err != nil && !errors.Is(err, errRedisDisabled) {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to cache daily challenge")
		}
	}
	return tasks, nil
}

// Finish marks today completed. Repeating it changes nothing.
func (svc *DailyChallengeService) Finish(userID string) (*dto.DailyFinishResponse, error) {
	now := svc.today()
	day := progression.DayKey(now)

	before, err := svc.progress.GetDailyStatus(nil, userID, day)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to finish daily challenge")
	}

	status, err := svc.progress.MarkDailyCompleted(nil, userID, day, now)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to finish daily challenge")
	}

	if before == nil || !before.Completed {
		svc.metrics.RecordDailyFinished()
		svc.forget(userID, now)
		log.WithFields(log.Fields{"user_id": userID, "day": day}).Info("Daily challenge completed")
	}

	return &dto.DailyFinishResponse{
		Date:           day,
		Completed:      status.Completed,
		TasksCompleted: status.TasksCompleted,
	}, nil
}

// CompleteTask credits one correctly answered task of today's challenge.
// At most size tasks pay out per day and none after Finish.
func (svc *DailyChallengeService) CompleteTask(userID string) (*dto.DailyTaskCompleteResponse, error) {
	now := svc.today()
	day := progression.DayKey(now)
	reward := progression.DailyTaskReward()

	var (
		count    int
		accepted bool
		xpTotal  int
		coins    int
	)
	err := svc.progress.WithinTx(func(tx *gorm.DB) error {
		var err error
		count, accepted, err = svc.progress.IncrementDailyTasks(tx, userID, day, svc.size, now)
		if err != nil || !accepted {
			return err
		}
		if err := svc.users.AddRewards(tx, userID, reward.XP, reward.Coins); err != nil {
			return err
		}
		user, err := svc.users.GetUserTx(tx, userID)
		if err != nil {
			return err
		}
		xpTotal, coins = user.XP, user.Coins
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to record daily task")
	}

	if !accepted {
		status, _ := svc.progress.GetDailyStatus(nil, userID, day)
		if status != nil && status.Completed {
			return nil, shared.NewConflictError(nil, "Daily challenge already completed")
		}
		return nil, shared.NewConflictError(nil, fmt.Sprintf("All %d daily tasks already rewarded", svc.size))
	}

	svc.metrics.RecordReward(RewardSourceDaily, reward.XP, reward.Coins)

	return &dto.DailyTaskCompleteResponse{
		Date:           day,
		XPAdded:        reward.XP,
		CoinsAdded:     reward.Coins,
		XPTotal:        xpTotal,
		CoinsTotal:     coins,
		TasksCompleted: count,
	}, nil
}

func (svc *DailyChallengeService) forget(userID string, now time.Time) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(context.Background(), dailyCacheKey(userID, now)); err != nil && !errors.Is(err, errRedisDisabled) {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to drop daily challenge cache")
	}
}

func dailyCacheKey(userID string, now time.Time) string {
	return fmt.Sprintf("daily:%s:%s", userID, progression.DayKey(now))
}

// untilEndOfDay is the time left before the next calendar day in now's
// location, never less than a minute.
func untilEndOfDay(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	if d := next.Sub(now); d > time.Minute {
		return d
	}
	return time.Minute
}
