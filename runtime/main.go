package main

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/services"
)

// @title CodeQuest API
// @version 1.0
// @description Programming-learning backend: courses, games, daily challenges and a coin shop.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	setupLogging(cfg.LogLevel, cfg.Env)

	ctx, err := newContext(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}

type runner interface {
	Run() error
}

// newContext registers the database backend selected by DB_DRIVER ahead of
// the services that depend on it.
func newContext(cfg *config.Config) (runner, error) {
	admin := services.AdminSeed{
		Email:    cfg.Auth.DefaultAdminEmail,
		Password: cfg.Auth.DefaultAdminPass,
	}

	if strings.EqualFold(cfg.DB.Driver, "sqlite") {
		return context.NewCtx(
			services.NewSqliteService(cfg.DB, admin),
			services.NewRedisService(cfg.Redis, cfg.Features.Redis),
			services.NewMinIOService(cfg.MinIO, cfg.Features.MinIO),
			services.NewMonitoringService(cfg.Metrics, cfg.Features.Metrics),

			services.NewJWTService(cfg.Auth),
			services.NewAuthService(cfg.Auth),
			services.NewUserService(),
			services.NewContentService(),
			services.NewGameService(),
			services.NewProgressService(cfg.Daily),
			services.NewDailyChallengeService(cfg.Daily),
			services.NewShopService(),
			services.NewMediaService(cfg.Features.MinIO),
			services.NewRateLimitService(),

			services.NewHttpService(cfg.HTTP, cfg.LogLevel),
		)
	}

	return context.NewCtx(
		services.NewPostgresService(cfg.DB, admin),
		services.NewRedisService(cfg.Redis, cfg.Features.Redis),
		services.NewMinIOService(cfg.MinIO, cfg.Features.MinIO),
		services.NewMonitoringService(cfg.Metrics, cfg.Features.Metrics),

		services.NewJWTService(cfg.Auth),
		services.NewAuthService(cfg.Auth),
		services.NewUserService(),
		services.NewContentService(),
		services.NewGameService(),
		services.NewProgressService(cfg.Daily),
		services.NewDailyChallengeService(cfg.Daily),
		services.NewShopService(),
		services.NewMediaService(cfg.Features.MinIO),
		services.NewRateLimitService(),

		services.NewHttpService(cfg.HTTP, cfg.LogLevel),
	)
}

func setupLogging(level, env string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetOutput(os.Stdout)

	switch strings.ToUpper(level) {
	case "TRACE":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		logrus.SetLevel(logrus.TraceLevel)
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		logrus.SetLevel(logrus.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		logrus.SetLevel(logrus.ErrorLevel)
	}

	if env != "local" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
