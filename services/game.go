package services

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	"gorm.io/gorm"
)

const GAME_SVC = "game_svc"

type GameService struct {
	context.DefaultService

	dbSvc DatabaseProvider
	games *repositories.GameRepository
	pick  func(n int) int
}

func NewGameService() *GameService {
	return &GameService{}
}

func (svc GameService) Id() string {
	return GAME_SVC
}

func (svc *GameService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *GameService) Start() error {
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider))
	return nil
}

func (svc *GameService) wire(db DatabaseProvider) {
	svc.dbSvc = db
	svc.games = repositories.NewGameRepository(db.Db())
	if svc.pick == nil {
		svc.pick = rand.Intn
	}
}

func (svc *GameService) ListGames() ([]dto.GameResponse, error) {
	games, err := svc.games.GetGames()
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get games")
	}

	resp := make([]dto.GameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, gameResponse(g))
	}
	return resp, nil
}

// GetTasks lists a game's tasks; an empty language returns every language.
func (svc *GameService) GetTasks(slug, language string) ([]dto.GameTaskResponse, error) {
	game, err := svc.gameBySlug(slug)
	if err != nil {
		return nil, err
	}

	tasks, err := svc.games.GetTasks(game.ID, strings.TrimSpace(language))
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get game tasks")
	}

	resp := make([]dto.GameTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, gameTaskResponse(t))
	}
	return resp, nil
}

// RandomTask picks one task of the game in language, javascript when empty.
func (svc *GameService) RandomTask(slug, language string) (*dto.GameTaskResponse, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		language = model.DefaultTaskLanguage
	}

	game, err := svc.gameBySlug(slug)
	if err != nil {
		return nil, err
	}

	tasks, err := svc.games.GetTasks(game.ID, language)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get game tasks")
	}
	if len(tasks) == 0 {
		return nil, shared.NewNotFoundError(nil, "No tasks found for this game and language")
	}

	task := gameTaskResponse(tasks[svc.pick(len(tasks))])
	return &task, nil
}

func (svc *GameService) gameBySlug(slug string) (*model.Game, error) {
	game, err := svc.games.GetGameBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Game not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get game")
	}
	return game, nil
}

func gameResponse(g model.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:          g.ID,
		GameID:      g.Slug,
		Title:       g.Title,
		Description: g.Description,
		Difficulty:  g.Difficulty,
		XPReward:    g.XPReward,
	}
}

func gameTaskResponse(t model.GameTask) dto.GameTaskResponse {
	data := json.RawMessage(t.TaskData)
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	return dto.GameTaskResponse{
		ID:       t.ID,
		TaskType: t.TaskType,
		Language: t.Language,
		TaskData: data,
		Order:    t.Order,
		XPReward: t.XPReward,
	}
}
