package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get languages
// @Description All programming languages ordered by title
// @Tags content
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.LanguageResponse}
// @Router /api/languages [get]
func (h *ContentHandler) GetLanguages(c *fiber.Ctx) error {
	languages, err := h.contentSvc.GetLanguages()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", languages)
}

// @Summary Get modules
// @Description Modules of a language in order, with lesson counts
// @Tags content
// @Produce json
// @Security Bearer
// @Param id path string true "Language ID"
// @Success 200 {object} shared.Response{data=[]dto.ModuleResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/languages/{id}/modules [get]
func (h *ContentHandler) GetModules(c *fiber.Ctx) error {
	modules, err := h.contentSvc.GetModules(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", modules)
}

// @Summary Get lessons
// @Description Lessons of a module in order, flagged when the caller completed them
// @Tags content
// @Produce json
// @Security Bearer
// @Param id path string true "Module ID"
// @Success 200 {object} shared.Response{data=[]dto.LessonSummaryResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/modules/{id}/lessons [get]
func (h *ContentHandler) GetLessons(c *fiber.Ctx) error {
	lessons, err := h.contentSvc.GetLessons(c.Params("id"), currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lessons)
}

// @Summary Get lesson
// @Description Lesson content with its exercises
// @Tags content
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonDetailResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/lessons/{id} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lesson, err := h.contentSvc.GetLesson(c.Params("id"), currentUserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}
