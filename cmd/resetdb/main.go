// Command resetdb drops and recreates all tables. Development use only.
package main

import (
	"os"

	"buildflow/internal/config"
	"buildflow/internal/database"
	"buildflow/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	manager, err := database.NewManager(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	if err := manager.Reset(); err != nil {
		log.Fatalw("failed to reset database", "error", err)
	}

	log.Info("Database reset complete")
}
