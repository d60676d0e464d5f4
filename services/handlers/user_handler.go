package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

// @Summary Get current user
// @Description Profile with XP, coins, streak, lessons count and level standing
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Failure 401 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.userSvc.GetProfile(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Update current user
// @Description Change username, email or avatar
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateRequest body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/me [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	profile, err := h.userSvc.UpdateProfile(currentUserID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Profile updated successfully", profile)
}

// @Summary Lessons history
// @Description Completed lessons, newest first
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.LessonHistoryItem}
// @Router /api/me/lessons-history [get]
func (h *UserHandler) GetLessonsHistory(c *fiber.Ctx) error {
	history, err := h.userSvc.GetLessonsHistory(currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", history)
}
