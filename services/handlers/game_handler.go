package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type GameHandler struct {
	gameSvc GameServiceInterface
}

func NewGameHandler(gameSvc GameServiceInterface) *GameHandler {
	return &GameHandler{
		gameSvc: gameSvc,
	}
}

// @Summary List games
// @Tags games
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.GameResponse}
// @Router /api/games [get]
func (h *GameHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.gameSvc.ListGames()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", games)
}

// @Summary Get game tasks
// @Description Tasks of a game, optionally filtered by language
// @Tags games
// @Produce json
// @Param game_id path string true "Game slug"
// @Param language query string false "Language filter"
// @Success 200 {object} shared.Response{data=[]dto.GameTaskResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/games/{game_id}/tasks [get]
func (h *GameHandler) GetTasks(c *fiber.Ctx) error {
	tasks, err := h.gameSvc.GetTasks(c.Params("game_id"), c.Query("language"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tasks)
}

// @Summary Random game task
// @Description One random task for the game and language (default javascript)
// @Tags games
// @Produce json
// @Param game_id path string true "Game slug"
// @Param language query string false "Language, defaults to javascript"
// @Success 200 {object} shared.Response{data=dto.GameTaskResponse}
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/games/{game_id}/tasks/random [get]
func (h *GameHandler) RandomTask(c *fiber.Ctx) error {
	task, err := h.gameSvc.RandomTask(c.Params("game_id"), c.Query("language"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", task)
}
