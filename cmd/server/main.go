package main

import (
	"os"

	"clinic-backend/internal/config"
	"clinic-backend/internal/database"
	"clinic-backend/internal/handlers"
	"clinic-backend/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if err := database.InitDB(cfg); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	log.Info("database connected and migrated")

	handlers.Init(cfg, log)

	router := handlers.SetupRouter()
	log.WithField("port", cfg.ListenPort).Info("starting server")
	if err := router.Run(":" + cfg.ListenPort); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
