package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
)

const RATE_LIMIT_SVC = "rate_limit_svc"

// RateLimitService keeps fixed-window counters in Redis per endpoint type and
// identifier. Going over the limit sets a block key for BlockTime.
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*model.RateLimitConfig
	mutex   sync.RWMutex

	counter WindowCounter
	now     func() time.Time
}

func NewRateLimitService() *RateLimitService {
	return &RateLimitService{}
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.wire(svc.Service(REDIS_SVC).(*RedisService))
	return nil
}

func (svc *RateLimitService) wire(counter WindowCounter) {
	svc.counter = counter
	if svc.now == nil {
		svc.now = time.Now
	}
	svc.initDefaultConfigs()
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*model.RateLimitConfig{
		model.RateLimitLogin: {
			EndpointType: model.RateLimitLogin,
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			Description:  "Login attempts rate limit",
		},
		model.RateLimitRegister: {
			EndpointType: model.RateLimitRegister,
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
			Description:  "Registration rate limit",
		},
		model.RateLimitLessonComplete: {
			EndpointType: model.RateLimitLessonComplete,
			MaxRequests:  30,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "Lesson completion rate limit",
		},
		model.RateLimitGameComplete: {
			EndpointType: model.RateLimitGameComplete,
			MaxRequests:  60,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "Game completion rate limit",
		},
		model.RateLimitDailyTask: {
			EndpointType: model.RateLimitDailyTask,
			MaxRequests:  20,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "Daily challenge task rate limit",
		},
	}
}

// SetConfig replaces the limits for one endpoint type.
func (svc *RateLimitService) SetConfig(cfg model.RateLimitConfig) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	if svc.configs == nil {
		svc.configs = make(map[string]*model.RateLimitConfig)
	}
	svc.configs[cfg.EndpointType] = &cfg
}

// IsAllowed counts one request. Unknown endpoint types are always allowed.
// Errors come from the counter store; callers decide whether to fail open.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	now := svc.now()
	blockKey := fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier)
	countKey := fmt.Sprintf("ratelimit:count:%s:%s", endpointType, identifier)

	blocked, err := svc.counter.Exists(ctx, blockKey)
	if err != nil {
		return false, nil, err
	}
	if blocked {
		ttl, err := svc.counter.TTL(ctx, blockKey)
		if err != nil {
			return false, nil, err
		}
		until := now.Add(ttl)
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Limit:        config.MaxRequests,
			Remaining:    0,
			ResetTime:    &until,
			BlockedUntil: &until,
		}, nil
	}

	count, ttl, err := svc.counter.IncrementWindow(ctx, countKey, config.WindowSize)
	if err != nil {
		return false, nil, err
	}
	if ttl <= 0 {
		ttl = config.WindowSize
	}
	resetTime := now.Add(ttl)

	if int(count) > config.MaxRequests {
		if err := svc.counter.Set(ctx, blockKey, "1", config.BlockTime); err != nil {
			return false, nil, err
		}
		blockedUntil := now.Add(config.BlockTime)
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Limit:        config.MaxRequests,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Limit:     config.MaxRequests,
		Remaining: config.MaxRequests - int(count),
		ResetTime: &resetTime,
	}, nil
}

func (svc *RateLimitService) Message(endpointType string) string {
	messages := map[string]string{
		model.RateLimitLogin:          "Too many login attempts. Please try again later.",
		model.RateLimitRegister:       "Too many registration attempts. Please try again later.",
		model.RateLimitLessonComplete: "Too many lesson completions. Please take a break.",
		model.RateLimitGameComplete:   "Too many game completions. Please take a break.",
		model.RateLimitDailyTask:      "Too many daily task submissions. Please slow down.",
	}

	if message, exists := messages[endpointType]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}
