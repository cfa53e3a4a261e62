package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/pixvault/pixvault/config"
	"github.com/pixvault/pixvault/database"
	handler "github.com/pixvault/pixvault/handlers"
	"github.com/pixvault/pixvault/media"
	"github.com/pixvault/pixvault/models"
	"github.com/pixvault/pixvault/repository"
	"github.com/pixvault/pixvault/router"
	"github.com/pixvault/pixvault/services"
	"github.com/pixvault/pixvault/signals"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close the database connection")
		}
	}()

	// Run migrations
	if err := database.MigrateModels(db, &models.User{}, &models.Image{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	users := repository.NewUserRepository(db)
	images := repository.NewImageRepository(db)

	// The asset store is optional: without it, upload/generate/search
	// endpoints report unavailability while the rest keeps working.
	var search services.MediaSearcher
	store, err := media.NewStore(context.Background(), cfg.Media)
	if err != nil {
		log.Warn().Err(err).Msg("Asset store disabled")
		store = nil
	} else {
		search = store
		defer store.Close()
	}

	var signal signals.Invalidator = signals.Nop{}
	if cfg.Revalidate.URL != "" {
		signal = signals.NewWebhook(cfg.Revalidate)
	}

	svc := services.NewImageService(users, images, search, signal)

	app := fiber.New()
	router.SetupRoutes(app, handler.NewImageHandler(svc, store), handler.NewUserHandler(users))

	log.Info().Str("port", cfg.Port).Msg("Server is listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		os.Exit(1)
	}
}
