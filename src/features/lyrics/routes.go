package lyrics

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers lyrics routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	// UI
	ui := app.Group("/ui")
	ui.Get("/lyrics", handler.RenderSearchPage)

	// API
	lyricsAPI := app.Group("/api/lyrics")
	lyricsAPI.Get("/providers", handler.GetProviders)
	lyricsAPI.Get("/artwork", handler.GetArtwork)
	lyricsAPI.Get("/:provider/search", handler.SearchCandidates)
	lyricsAPI.Post("/:provider/fetch", handler.FetchLyrics)
	lyricsAPI.Get("/:provider/lyrics", handler.FetchAll)
	lyricsAPI.Get("/:provider/lrc", handler.DownloadLRC)
}
