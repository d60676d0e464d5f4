package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type LeaderboardHandler struct {
	userSvc UserServiceInterface
}

func NewLeaderboardHandler(userSvc UserServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		userSvc: userSvc,
	}
}

// @Summary Get leaderboard
// @Description Top users by XP. With a valid token the caller's own rank is included.
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Limit results (default 50, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	leaderboard, err := h.userSvc.GetLeaderboard(limit, currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
