package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type DailyHandler struct {
	dailySvc DailyServiceInterface
}

func NewDailyHandler(dailySvc DailyServiceInterface) *DailyHandler {
	return &DailyHandler{
		dailySvc: dailySvc,
	}
}

// @Summary Get daily challenge
// @Description Today's task set for the caller. Empty once the day is finished.
// @Tags daily
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DailyChallengeResponse}
// @Router /api/daily-challenge [get]
func (h *DailyHandler) GetChallenge(c *fiber.Ctx) error {
	challenge, err := h.dailySvc.GetChallenge(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", challenge)
}

// @Summary Finish daily challenge
// @Tags daily
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DailyFinishResponse}
// @Router /api/daily-challenge/finish [post]
func (h *DailyHandler) Finish(c *fiber.Ctx) error {
	resp, err := h.dailySvc.Finish(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Daily challenge completed", resp)
}

// @Summary Complete daily task
// @Description Rewards one task of today's challenge
// @Tags daily
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DailyTaskCompleteResponse}
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/daily-challenge/complete-task [post]
func (h *DailyHandler) CompleteTask(c *fiber.Ctx) error {
	resp, err := h.dailySvc.CompleteTask(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Daily task completed", resp)
}
