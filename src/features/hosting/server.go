package hosting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/neteaselyrics/src/features/config"
	"github.com/contre95/neteaselyrics/src/features/lyrics"
	"github.com/contre95/neteaselyrics/src/features/metrics"
	"github.com/contre95/neteaselyrics/src/music"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server. recorder may be nil when metrics are disabled.
func NewServer(cfg *config.Manager, lyricsService music.LyricsService, artwork lyrics.ArtworkService, recorder *metrics.Recorder) *Server {
	views := cfg.Get().Server.Views
	if views == "" {
		views = "./views"
	}
	engine := html.New(views, ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")
	engine.AddFuncMap(lyrics.TemplateFuncs())

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          errorHandler,
		AppName:               "neteaselyrics",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(RequestIDMiddleware())
	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui/lyrics")
	})

	lyrics.RegisterRoutes(app, lyrics.NewHandler(lyricsService, artwork))
	config.RegisterRoutes(app, cfg)
	if recorder != nil && cfg.Get().Metrics.Enabled {
		metrics.RegisterRoutes(app, recorder, cfg.Get().Metrics.Path)
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// errorHandler keeps the status of fiber errors and hides internal ones.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).SendString(fe.Message)
	}
	slog.Error("Internal Server Error", "error", err)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

// App exposes the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "port", s.port)
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
