package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/config"
	_ "github.com/lac-hong-legacy/codequest_api/docs"
	"github.com/lac-hong-legacy/codequest_api/middleware"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/handlers"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

const (
	HTTP_SVC = "http_svc"

	defaultHTTPPort = 8000
	// Avatar uploads are capped at 2MB; leave room for the multipart envelope.
	bodyLimit = 4 * 1024 * 1024
)

type HttpService struct {
	context.DefaultService

	port     int
	logLevel string
	app      *fiber.App
}

func NewHttpService(cfg config.HTTP, logLevel string) *HttpService {
	port := cfg.Port
	if port <= 0 {
		port = defaultHTTPPort
	}
	return &HttpService{port: port, logLevel: logLevel}
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	jwtSvc := svc.Service(JWT_SVC).(*JWTService)
	authSvc := svc.Service(AUTH_SVC).(*AuthService)
	userSvc := svc.Service(USER_SVC).(*UserService)

	monitoring, _ := svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.app = newApp(routes{
		auth:        middleware.NewAuthMiddleware(jwtSvc, authSvc),
		limits:      middleware.NewRateLimitMiddleware(svc.Service(RATE_LIMIT_SVC).(*RateLimitService)),
		monitoring:  monitoring,
		traceLog:    strings.EqualFold(svc.logLevel, "trace"),
		authH:       handlers.NewAuthHandler(authSvc),
		userH:       handlers.NewUserHandler(userSvc),
		leaderboard: handlers.NewLeaderboardHandler(userSvc),
		content:     handlers.NewContentHandler(svc.Service(CONTENT_SVC).(*ContentService)),
		games:       handlers.NewGameHandler(svc.Service(GAME_SVC).(*GameService)),
		progress:    handlers.NewProgressHandler(svc.Service(PROGRESS_SVC).(*ProgressService)),
		daily:       handlers.NewDailyHandler(svc.Service(DAILY_SVC).(*DailyChallengeService)),
		shop:        handlers.NewShopHandler(svc.Service(SHOP_SVC).(*ShopService)),
		media:       handlers.NewMediaHandler(svc.Service(MEDIA_SVC).(*MediaService)),
	})

	log.WithField("port", svc.port).Info("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

type routes struct {
	auth       *middleware.AuthMiddleware
	limits     *middleware.RateLimitMiddleware
	monitoring *MonitoringService
	traceLog   bool

	authH       *handlers.AuthHandler
	userH       *handlers.UserHandler
	leaderboard *handlers.LeaderboardHandler
	content     *handlers.ContentHandler
	games       *handlers.GameHandler
	progress    *handlers.ProgressHandler
	daily       *handlers.DailyHandler
	shop        *handlers.ShopHandler
	media       *handlers.MediaHandler
}

func newApp(r routes) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		JSONEncoder:           shared.JSONAPI.Marshal,
		JSONDecoder:           shared.JSONAPI.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if r.traceLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	if r.monitoring != nil {
		app.Use(MonitoringMiddleware(r.monitoring))
	}

	app.Get("/ping", ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/ping", ping)

	required := r.auth.RequiredAuth()
	optional := r.auth.OptionalAuth()

	api.Post("/register", r.limits.Limit(model.RateLimitRegister), r.authH.Register)
	api.Post("/login", r.limits.Limit(model.RateLimitLogin), r.authH.Login)

	api.Get("/me", required, r.userH.GetProfile)
	api.Put("/me", required, r.userH.UpdateProfile)
	api.Post("/me/avatar", required, r.media.UploadAvatar)
	api.Get("/me/lessons-history", required, r.userH.GetLessonsHistory)

	api.Get("/leaderboard", optional, r.leaderboard.GetLeaderboard)

	api.Get("/languages", required, r.content.GetLanguages)
	api.Get("/languages/:id/modules", required, r.content.GetModules)
	api.Get("/modules/:id/lessons", required, r.content.GetLessons)
	api.Get("/lessons/:id", required, r.content.GetLesson)
	api.Post("/lessons/:id/complete", required, r.limits.Limit(model.RateLimitLessonComplete), r.progress.CompleteLesson)

	api.Get("/games", r.games.ListGames)
	api.Get("/games/:game_id/tasks", r.games.GetTasks)
	api.Get("/games/:game_id/tasks/random", r.games.RandomTask)
	api.Post("/games/:game_id/complete", required, r.limits.Limit(model.RateLimitGameComplete), r.progress.CompleteGame)

	api.Get("/daily-challenge", required, r.daily.GetChallenge)
	api.Post("/daily-challenge/finish", required, r.daily.Finish)
	api.Post("/daily-challenge/complete-task", required, r.limits.Limit(model.RateLimitDailyTask), r.daily.CompleteTask)

	api.Get("/shop/items", optional, r.shop.ListItems)
	api.Post("/shop/buy", required, r.shop.Buy)

	return app
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// errorHandler renders every error returned from a handler or middleware in
// the error envelope. Details of 5xx errors are logged, never sent.
func errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logServerError(c, err)
			return shared.ResponseError(c, appErr.StatusCode, appErr.Message, nil)
		}
		return shared.ResponseError(c, appErr.StatusCode, appErr.Message, appErr.Err)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseError(c, fiberErr.Code, fiberErr.Message, nil)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ResponseError(c, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ResponseError(c, http.StatusConflict, "Resource already exists", nil)
	}

	logServerError(c, err)
	return shared.ResponseError(c, http.StatusInternalServerError, "Internal Server Error", nil)
}

func logServerError(c *fiber.Ctx, err error) {
	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Request failed")
}
