package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

const rateLimitCheckTimeout = 2 * time.Second

type RateLimiter interface {
	IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error)
	Message(endpointType string) string
}

type RateLimitMiddleware struct {
	limiter RateLimiter
}

func NewRateLimitMiddleware(limiter RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit counts the request against endpointType. Counter failures let the
// request through.
func (m *RateLimitMiddleware) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := identifierFor(c, endpointType)

		ctx, cancel := context.WithTimeout(c.UserContext(), rateLimitCheckTimeout)
		defer cancel()

		allowed, info, err := m.limiter.IsAllowed(ctx, identifier, endpointType)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"endpoint":   endpointType,
				"identifier": identifier,
			}).Warn("Rate limit check failed, allowing request")
			return c.Next()
		}

		setRateLimitHeaders(c, info)

		if !allowed {
			if info != nil && info.BlockedUntil != nil {
				retryAfter := int(time.Until(*info.BlockedUntil).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			}
			return shared.NewTooManyRequestsError(nil, m.limiter.Message(endpointType))
		}

		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil || info.Remaining < 0 {
		return
	}
	c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// identifierFor keys credential endpoints by IP and submitted email so one
// address cannot lock out every account behind a shared IP. Everything else
// is keyed by user, or by IP when anonymous.
func identifierFor(c *fiber.Ctx, endpointType string) string {
	ip := getClientIP(c)

	switch endpointType {
	case model.RateLimitLogin, model.RateLimitRegister:
		if email := emailFromBody(c); email != "" {
			return ip + ":" + email
		}
		return ip
	}

	if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
		return "user:" + userID
	}
	return ip
}

func emailFromBody(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := shared.JSONAPI.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.IP()
}
