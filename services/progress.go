package services

import (
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/progression"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const PROGRESS_SVC = "progress_svc"

// ProgressService credits XP and coins for lessons and games.
type ProgressService struct {
	context.DefaultService

	dbSvc    DatabaseProvider
	users    *repositories.UserRepository
	content  *repositories.ContentRepository
	games    *repositories.GameRepository
	progress *repositories.ProgressRepository
	metrics  RewardMetrics

	loc *time.Location
	now func() time.Time
}

func NewProgressService(cfg config.Daily) *ProgressService {
	return &ProgressService{loc: cfg.Location(), now: time.Now}
}

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider), rewardMetricsFrom(svc.Service(MONITORING_SVC)))
	return nil
}

func (svc *ProgressService) wire(db DatabaseProvider, metrics RewardMetrics) {
	svc.dbSvc = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.content = repositories.NewContentRepository(db.Db())
	svc.games = repositories.NewGameRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
	svc.metrics = metrics
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	if svc.now == nil {
		svc.now = time.Now
	}
}

// CompleteLesson records the completion and credits the tiered reward. The
// first completion pays full price, repeats pay half.
func (svc *ProgressService) CompleteLesson(userID, lessonID string, livesRemaining int) (*dto.CompleteLessonResponse, error) {
	if _, err := svc.content.GetLesson(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Lesson not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to load lesson")
	}

	now := svc.now().In(svc.loc)
	var (
		reward    progression.Reward
		firstTime bool
		user      *model.User
	)

	err := svc.progress.WithinTx(func(tx *gorm.DB) error {
		var err error
		firstTime, err = svc.progress.RecordLessonCompletion(tx, userID, lessonID, now)
		if err != nil {
			return err
		}

		reward = progression.LessonReward(livesRemaining, firstTime)
		user, err = svc.credit(tx, userID, reward, now)
		return err
	})
	if err != nil {
		return nil, svc.rewardError(err, "Failed to complete lesson")
	}

	svc.metrics.RecordReward(RewardSourceLesson, reward.XP, reward.Coins)
	log.WithFields(log.Fields{
		"user_id":    userID,
		"lesson_id":  lessonID,
		"xp":         reward.XP,
		"first_time": firstTime,
	}).Info("Lesson completed")

	return &dto.CompleteLessonResponse{
		XPEarned:        reward.XP,
		CoinsEarned:     reward.Coins,
		NewTotalXP:      user.XP,
		NewTotalCoins:   user.Coins,
		FirstCompletion: firstTime,
		Streak:          user.Streak,
		Standing:        progression.StandingFor(user.XP),
	}, nil
}

// CompleteGame credits a client-claimed score, clamped to the game's cap,
// and appends an audit row.
func (svc *ProgressService) CompleteGame(userID, slug string, claimedXP int, language string) (*dto.CompleteGameResponse, error) {
	game, err := svc.games.GetGameBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Game not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to load game")
	}

	reward, err := progression.GameReward(claimedXP, game.XPReward)
	if err != nil {
		return nil, shared.NewBadRequestError(err, err.Error())
	}
	if reward.XP < claimedXP {
		log.WithFields(log.Fields{
			"user_id": userID,
			"game_id": slug,
			"claimed": claimedXP,
			"awarded": reward.XP,
		}).Warn("Game XP claim clamped")
	}

	now := svc.now().In(svc.loc)
	var user *model.User

	err = svc.progress.WithinTx(func(tx *gorm.DB) error {
		var err error
		user, err = svc.credit(tx, userID, reward, now)
		if err != nil {
			return err
		}
		return svc.games.CreateResult(tx, &model.GameResult{
			UserID:    userID,
			GameID:    game.ID,
			XPEarned:  reward.XP,
			Language:  strings.TrimSpace(language),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, svc.rewardError(err, "Failed to complete game")
	}

	svc.metrics.RecordReward(RewardSourceGame, reward.XP, reward.Coins)

	return &dto.CompleteGameResponse{
		XPAdded:    reward.XP,
		CoinsAdded: reward.Coins,
		XPTotal:    user.XP,
		CoinsTotal: user.Coins,
		Standing:   progression.StandingFor(user.XP),
	}, nil
}

// credit adds reward to the user inside tx and advances the activity streak.
// It returns the user as stored after the update.
func (svc *ProgressService) credit(tx *gorm.DB, userID string, reward progression.Reward, now time.Time) (*model.User, error) {
	if err := svc.users.AddRewards(tx, userID, reward.XP, reward.Coins); err != nil {
		return nil, err
	}
	user, err := svc.users.GetUserTx(tx, userID)
	if err != nil {
		return nil, err
	}

	streak := progression.StreakAfter(user.Streak, user.LastActivityAt, now)
	if err := svc.users.TouchActivity(tx, userID, streak, now); err != nil {
		return nil, err
	}
	user.Streak = streak
	user.LastActivityAt = &now
	return user, nil
}

func (svc *ProgressService) rewardError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, "User not found")
	}
	return shared.NewInternalError(svc.dbSvc.HandleError(err), msg)
}
