package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/progression"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	USER_SVC = "user_svc"

	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
	leaderboardCacheTTL     = 30 * time.Second
)

type UserService struct {
	appContext.DefaultService

	dbSvc    DatabaseProvider
	users    *repositories.UserRepository
	progress *repositories.ProgressRepository
	cache    Cache
}

func NewUserService() *UserService {
	return &UserService{}
}

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider), svc.Service(REDIS_SVC).(*RedisService))
	return nil
}

func (svc *UserService) wire(db DatabaseProvider, cache Cache) {
	svc.dbSvc = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
	svc.cache = cache
}

func (svc *UserService) GetProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get user profile")
	}

	lessons, err := svc.progress.CountCompletedLessons(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to count completed lessons")
	}

	return profileOf(user, int(lessons)), nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	updates := make(map[string]interface{})

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		taken, err := svc.users.ExistsOther("username", username, userID)
		if err != nil {
			return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to update profile")
		}
		if taken {
			return nil, shared.NewConflictError(fmt.Errorf("username taken"), "Username is already taken")
		}
		updates["username"] = username
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := svc.users.ExistsOther("email", email, userID)
		if err != nil {
			return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to update profile")
		}
		if taken {
			return nil, shared.NewConflictError(fmt.Errorf("email taken"), "Email is already taken")
		}
		updates["email"] = email
	}

	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}

	if len(updates) > 0 {
		if err := svc.users.UpdateProfile(userID, updates); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, shared.NewNotFoundError(err, "User not found")
			case isUniqueViolation(err):
				return nil, shared.NewConflictError(err, "Username or email is already taken")
			}
			return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to update profile")
		}
		svc.invalidateLeaderboard()
	}

	return svc.GetProfile(userID)
}

// SetAvatar stores a new avatar URL for the user.
func (svc *UserService) SetAvatar(userID, url string) error {
	if err := svc.users.UpdateProfile(userID, map[string]interface{}{"avatar": url}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "User not found")
		}
		return shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to update avatar")
	}
	svc.invalidateLeaderboard()
	return nil
}

func (svc *UserService) GetLessonsHistory(userID string) ([]dto.LessonHistoryItem, error) {
	history, err := svc.progress.GetLessonsHistory(userID)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get lessons history")
	}
	if history == nil {
		history = []dto.LessonHistoryItem{}
	}
	return history, nil
}

// GetLeaderboard returns the top users by XP. The top list is cached briefly;
// the caller's own entry is always computed fresh.
func (svc *UserService) GetLeaderboard(limit int, currentUserID string) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	topUsers, err := svc.topUsers(limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{TopUsers: topUsers}
	if currentUserID == "" {
		return resp, nil
	}

	for i := range topUsers {
		if topUsers[i].UserID == currentUserID {
			entry := topUsers[i]
			resp.CurrentUser = &entry
			return resp, nil
		}
	}

	user, err := svc.users.GetUser(currentUserID)
	if err != nil {
		log.WithError(err).WithField("user_id", currentUserID).Warn("Leaderboard: current user not found")
		return resp, nil
	}
	rank, err := svc.users.GetUserRank(user)
	if err != nil {
		log.WithError(err).WithField("user_id", currentUserID).Error("Leaderboard: failed to rank user")
		return resp, nil
	}
	entry := leaderboardEntry(user, rank)
	resp.CurrentUser = &entry
	return resp, nil
}

func (svc *UserService) topUsers(limit int) ([]dto.LeaderboardEntry, error) {
	key := fmt.Sprintf("leaderboard:top:%d", limit)
	ctx := context.Background()

	if svc.cache != nil {
		var cached []dto.LeaderboardEntry
		if found, err := svc.cache.GetJSON(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	users, err := svc.users.GetLeaderboard(limit)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get leaderboard")
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, leaderboardEntry(&users[i], i+1))
	}

	if svc.cache != nil {
		if err := svc.cache.SetJSON(ctx, key, entries, leaderboardCacheTTL); err != nil && !errors.Is(err, errRedisDisabled) {
			log.WithError(err).Warn("Failed to cache leaderboard")
		}
	}
	return entries, nil
}

func (svc *UserService) invalidateLeaderboard() {
	if svc.cache == nil {
		return
	}
	keys := make([]string, 0, MaxLeaderboardLimit)
	for limit := 1; limit <= MaxLeaderboardLimit; limit++ {
		keys = append(keys, fmt.Sprintf("leaderboard:top:%d", limit))
	}
	if err := svc.cache.Delete(context.Background(), keys...); err != nil && !errors.Is(err, errRedisDisabled) {
		log.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}

func profileOf(user *model.User, lessonsCount int) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Role:         user.Role,
		Avatar:       user.Avatar,
		XP:           user.XP,
		Coins:        user.Coins,
		Streak:       user.Streak,
		LessonsCount: lessonsCount,
		Standing:     progression.StandingFor(user.XP),
	}
}

func leaderboardEntry(user *model.User, rank int) dto.LeaderboardEntry {
	level := progression.LevelForXP(user.XP)
	return dto.LeaderboardEntry{
		Rank:       rank,
		UserID:     user.ID,
		Username:   user.Username,
		Avatar:     user.Avatar,
		XP:         user.XP,
		Level:      level,
		LevelTitle: progression.TitleForLevel(level),
	}
}
