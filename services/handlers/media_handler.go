package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload avatar
// @Description JPG, PNG, GIF or WEBP up to 2MB, sent as multipart field "avatar"
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param avatar formData file true "Avatar image"
// @Success 201 {object} shared.Response{data=dto.AvatarUploadResponse}
// @Failure 400 {object} shared.ErrorResponse
// @Failure 503 {object} shared.ErrorResponse
// @Router /api/me/avatar [post]
func (h *MediaHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return shared.NewBadRequestError(err, "Avatar file is required")
	}

	resp, err := h.mediaSvc.UploadAvatar(c.UserContext(), currentUserID(c), file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Avatar uploaded successfully", resp)
}
