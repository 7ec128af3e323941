package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/config"
	"github.com/junaidrashid-git/glowhub/database"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/routes"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config failed: %v", err)
	}

	logger, err := newLogger(settings.Verbose)
	if err != nil {
		log.Fatalf("❌ Logger failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("✅ Starting application...")

	// Init DB
	db, err := database.Open(settings.DatabaseURL, settings.Verbose, logger)
	if err != nil {
		logger.Fatal("❌ DB connection failed", zap.Error(err))
	}

	// Auto-migrate all tables
	if err := database.Migrate(db); err != nil {
		logger.Fatal("❌ AutoMigrate failed", zap.Error(err))
	}

	// Order events go to websocket clients and, when configured, RabbitMQ
	hub := events.NewHub(logger)
	targets := []events.Notifier{hub}
	if settings.RabbitMQURL != "" {
		publisher, err := events.DialAMQP(settings.RabbitMQURL, settings.RabbitMQExchange)
		if err != nil {
			logger.Fatal("❌ RabbitMQ unavailable", zap.Error(err))
		}
		defer publisher.Close()
		targets = append(targets, publisher)
		logger.Info("publishing order events", zap.String("exchange", settings.RabbitMQExchange))
	}

	env := app.New(db, logger, events.Fanout{Targets: targets, Log: logger})

	if !settings.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.NewRouter(env, hub)

	// Start server
	logger.Info("🚀 Server running", zap.String("port", settings.Port))
	if err := r.Run(":" + settings.Port); err != nil {
		logger.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
