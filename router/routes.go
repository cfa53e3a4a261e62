package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	handler "github.com/pixvault/pixvault/handlers"
	"github.com/pixvault/pixvault/middleware"
)

func SetupRoutes(app *fiber.App, images *handler.ImageHandler, users *handler.UserHandler) {
	api := app.Group("/api", logger.New())

	// Images
	api.Get("/images", images.ListAll)
	api.Get("/images/:id", images.GetByID)
	api.Post("/images", middleware.RequireIdentity(), images.Add)
	api.Put("/images/:id", middleware.RequireIdentity(), images.Update)
	api.Delete("/images/:id", middleware.RequireIdentity(), images.Delete)
	api.Post("/images/upload", middleware.RequireIdentity(), images.Upload)
	api.Post("/images/generate", middleware.RequireIdentity(), images.Generate)

	// Users
	api.Get("/users/:id", users.GetUser)
	api.Get("/users/:id/images", images.ListByUser)
}
