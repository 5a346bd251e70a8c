package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/happytweet/feedback-api/internal/auth"
	"github.com/happytweet/feedback-api/internal/config"
	"github.com/happytweet/feedback-api/internal/handler"
	"github.com/happytweet/feedback-api/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	suggestionHandler *handler.SuggestionHandler,
	adminHandler *handler.AdminHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsProduction())
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/suggestions/public", suggestionHandler.PublicList)
	api.GET("/suggestions/public/stats", suggestionHandler.PublicStats)

	// Authenticated routes
	secured := api.Group("", middleware.JWT(cfg.JWTSecret), middleware.Identity())

	secured.GET("/auth/me", authHandler.Me)
	secured.PUT("/auth/profile", authHandler.UpdateProfile)
	secured.PUT("/auth/change-password", authHandler.ChangePassword)

	secured.POST("/suggestions", suggestionHandler.Create)
	secured.GET("/suggestions", suggestionHandler.List)
	secured.GET("/suggestions/stats", suggestionHandler.Stats)
	secured.GET("/suggestions/:id", suggestionHandler.GetByID)
	secured.PUT("/suggestions/:id", suggestionHandler.Update)
	secured.DELETE("/suggestions/:id", suggestionHandler.Delete)
	secured.PUT("/suggestions/:id/status", suggestionHandler.UpdateStatus, middleware.RBAC(auth.RoleAdmin))

	// Admin routes
	admin := secured.Group("/admin", middleware.RBAC(auth.RoleAdmin))

	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id", adminHandler.UpdateUserRole)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

	admin.GET("/suggestions", adminHandler.ListSuggestions)
	admin.PUT("/suggestions/:id", adminHandler.UpdateSuggestionStatus)
	admin.DELETE("/suggestions/:id", adminHandler.DeleteSuggestion)

	admin.GET("/stats", adminHandler.Stats)

	admin.POST("/notes/:suggestionId", adminHandler.AddNote)
	admin.GET("/notes/:suggestionId", adminHandler.GetNotes)
	admin.PUT("/notes/:noteId", adminHandler.UpdateNote)
	admin.DELETE("/notes/:noteId", adminHandler.DeleteNote)

	admin.GET("/analytics", adminHandler.Analytics)
	admin.GET("/export/csv", adminHandler.ExportCSV)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
