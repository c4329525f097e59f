package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/notepass/backend/internal/handlers"
	"github.com/notepass/backend/internal/middleware"
	"github.com/notepass/backend/internal/models"
	"github.com/notepass/backend/internal/repositories"
	"github.com/notepass/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logrus.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
}

// SetupRoutes migrates the schema, wires the repositories and handlers, and
// registers all application routes
func SetupRoutes(e *echo.Echo, db *gorm.DB, firebaseAuthClient *auth.Client, cfg *config.Config) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.FriendNickname{},
		&models.DraftNote{},
		&models.Note{},
		&models.FavoriteNote{},
		&models.DeletedNote{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to auto migrate models")
	}
	logrus.Info("PostgreSQL auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)

	userRepo := repositories.NewPostgresUserRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)
	noteRepo := repositories.NewPostgresNoteRepository(db, friendshipRepo)
	draftRepo := repositories.NewPostgresDraftRepository(db, friendshipRepo)

	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))

	handlers.NewUserHandler(userRepo).RegisterProfileRoutes(api)
	handlers.NewFriendshipHandler(friendshipRepo, userRepo).RegisterFriendshipRoutes(api)
	handlers.NewNoteHandler(noteRepo).RegisterNoteRoutes(api)
	handlers.NewDraftHandler(draftRepo).RegisterDraftRoutes(api)

	logrus.Info("All routes configured")
}
