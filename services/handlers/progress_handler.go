package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Complete lesson
// @Description Records a completion. XP and coins are only granted the first time.
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Param completeRequest body dto.CompleteLessonRequest false "Lives left at the end"
// @Success 200 {object} shared.Response{data=dto.CompleteLessonResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Failure 429 {object} shared.ErrorResponse
// @Router /api/lessons/{id}/complete [post]
func (h *ProgressHandler) CompleteLesson(c *fiber.Ctx) error {
	var req dto.CompleteLessonRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.progressSvc.CompleteLesson(currentUserID(c), c.Params("id"), req.Lives())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson completed", resp)
}

// @Summary Complete game
// @Description Grants XP for a finished game. The claim is capped by the game's reward.
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param game_id path string true "Game slug"
// @Param completeRequest body dto.CompleteGameRequest true "Claimed XP"
// @Success 200 {object} shared.Response{data=dto.CompleteGameResponse}
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/games/{game_id}/complete [post]
func (h *ProgressHandler) CompleteGame(c *fiber.Ctx) error {
	var req dto.CompleteGameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	claimed, err := req.ClaimedXP()
	if err != nil {
		return shared.NewBadRequestError(err, err.Error())
	}

	resp, err := h.progressSvc.CompleteGame(currentUserID(c), c.Params("game_id"), claimed, req.Language)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Game completed", resp)
}
