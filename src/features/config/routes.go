package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the config feature.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	handler := NewHandler(configManager)

	api := app.Group("/api")
	api.Get("/config", handler.GetConfig)
	api.Post("/config/reload", handler.ReloadConfig)
}
