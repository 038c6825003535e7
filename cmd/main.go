package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ashishpimple94/hostel-backend/config"
	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/routes"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.AppEnv == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	if err := database.ConnectRedis(cfg); err != nil {
		// Cache is optional; availability stats fall back to the DB.
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, logger)

	logger.Info("starting server", zap.String("port", cfg.AppPort))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
