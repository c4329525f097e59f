package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/notepass/backend/internal/router"
	"github.com/notepass/backend/pkg/config"
	"github.com/notepass/backend/pkg/firebase"
	"github.com/notepass/backend/validators"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := config.InitDB(cfg.PostgresConnStr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer config.CloseDB(db)

	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize Firebase")
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db, firebaseApp.AuthClient, cfg)

	logrus.WithField("port", cfg.Port).Info("Starting server")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
