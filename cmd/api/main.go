package main

import (
	"fmt"
	"os"

	"dwight/internal/config"
	"dwight/internal/database"
	"dwight/internal/logger"
	"dwight/internal/market"
	"dwight/internal/router"

	_ "dwight/internal/docs" // Import swagger docs
)

// @title           Dwight API
// @version         1.0
// @description     Dwight is a personal finance backend: user accounts, investment holdings and market prices.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r := router.New(router.Deps{
		Config: cfg,
		DB:     dbManager.DB(),
		Prices: market.NewYahooProvider(cfg.Market),
	})

	addr := ":" + cfg.Port
	log.Infof("Server starting on %s (driver=%s, env=%s)", addr, cfg.Database.Driver, cfg.Env)
	return r.Run(addr)
}
