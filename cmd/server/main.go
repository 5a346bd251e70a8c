package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/happytweet/feedback-api/internal/auth"
	"github.com/happytweet/feedback-api/internal/cache"
	"github.com/happytweet/feedback-api/internal/config"
	"github.com/happytweet/feedback-api/internal/db"
	"github.com/happytweet/feedback-api/internal/handler"
	"github.com/happytweet/feedback-api/internal/logger"
	"github.com/happytweet/feedback-api/internal/model"
	"github.com/happytweet/feedback-api/internal/repository"
	"github.com/happytweet/feedback-api/internal/router"
	"github.com/happytweet/feedback-api/internal/service"
	"github.com/happytweet/feedback-api/internal/upload"
)

// @title Feedback API
// @version 1.0
// @description Suggestion tracking API with JWT authentication, admin moderation, and analytics.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	log := logger.Get()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	defer db.Close(gormDB)

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Suggestion{},
		&model.DeveloperNote{},
		&model.ActivityLog{},
		&model.Attachment{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()

	uploads, err := upload.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir init")
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	suggestionRepo := repository.NewSuggestionRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)
	attachmentRepo := repository.NewAttachmentRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Services
	authService := service.NewAuthService(userRepo, jwtService)
	suggestionService := service.NewSuggestionService(suggestionRepo, attachmentRepo, noteRepo, activityRepo, cacheClient)
	adminService := service.NewAdminService(userRepo, suggestionRepo, noteRepo, cacheClient)

	// Handlers
	healthHandler := handler.NewHealthHandler(gormDB)
	authHandler := handler.NewAuthHandler(authService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, uploads)
	adminHandler := handler.NewAdminHandler(adminService)

	e := echo.New()
	router.Register(e, cfg, log, healthHandler, authHandler, suggestionHandler, adminHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
