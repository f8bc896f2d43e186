package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/neteaselyrics/src/music"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ArtworkService renders candidate artwork thumbnails
type ArtworkService interface {
	Thumbnail(ctx context.Context, url string, size int) ([]byte, error)
}

// Handler handles lyrics requests
type Handler struct {
	service music.LyricsService
	artwork ArtworkService
}

// NewHandler creates a new lyrics handler
func NewHandler(service music.LyricsService, artwork ArtworkService) *Handler {
	return &Handler{
		service: service,
		artwork: artwork,
	}
}

type searchQuery struct {
	Term string `query:"q" validate:"required,max=200"`
}

type lrcQuery struct {
	Term  string `query:"q" validate:"required,max=200"`
	Index int    `query:"index" validate:"min=0,max=9"`
}

type artworkQuery struct {
	URL  string `query:"url" validate:"required,url"`
	Size int    `query:"size" validate:"omitempty,min=16,max=3000"`
}

type uiQuery struct {
	Term     string `query:"q" validate:"max=200"`
	Provider string `query:"provider"`
}

// parseQuery binds and validates the query string into out.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid query: %v", err))
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid query: %v", err))
	}
	return nil
}

// providerError maps service errors to HTTP errors.
func providerError(err error) error {
	if errors.Is(err, ErrProviderNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

// GetProviders returns all lyrics providers.
func (h *Handler) GetProviders(c *fiber.Ctx) error {
	return c.JSON(h.service.GetLyricsProvidersInfo())
}

// SearchCandidates returns the songs matching ?q= as JSON.
func (h *Handler) SearchCandidates(c *fiber.Ctx) error {
	var q searchQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	providerName := c.Params("provider")
	slog.Debug("SearchCandidates handler called", "provider", providerName, "term", q.Term)

	candidates, err := h.service.SearchCandidates(c.Context(), providerName, q.Term)
	if err != nil {
		return providerError(err)
	}
	if candidates == nil {
		candidates = []music.SearchCandidate{}
	}
	return c.JSON(candidates)
}

// FetchLyrics fetches the lyrics of the candidate posted in the body.
func (h *Handler) FetchLyrics(c *fiber.Ctx) error {
	var candidate music.SearchCandidate
	if err := c.BodyParser(&candidate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid candidate: %v", err))
	}
	if err := validate.Struct(candidate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid candidate: %v", err))
	}
	providerName := c.Params("provider")
	slog.Debug("FetchLyrics handler called", "provider", providerName, "id", candidate.ID)

	lyrics, err := h.service.FetchLyrics(c.Context(), providerName, candidate)
	if err != nil {
		return providerError(err)
	}
	if lyrics == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}
	return c.JSON(NewLyricsView(lyrics))
}

// FetchAll returns the lyrics of every candidate matching ?q=.
func (h *Handler) FetchAll(c *fiber.Ctx) error {
	var q searchQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	providerName := c.Params("provider")

	all, err := h.service.FetchAll(c.Context(), providerName, q.Term)
	if err != nil {
		return providerError(err)
	}
	views := make([]LyricsView, 0, len(all))
	for _, l := range all {
		views = append(views, NewLyricsView(l))
	}
	return c.JSON(views)
}

// DownloadLRC searches for ?q= and sends the lyrics of candidate ?index= as
// an .lrc attachment.
func (h *Handler) DownloadLRC(c *fiber.Ctx) error {
	var q lrcQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	providerName := c.Params("provider")

	candidates, err := h.service.SearchCandidates(c.Context(), providerName, q.Term)
	if err != nil {
		return providerError(err)
	}
	if q.Index >= len(candidates) {
		return c.Status(fiber.StatusNotFound).SendString("No such candidate")
	}

	lyrics, err := h.service.FetchLyrics(c.Context(), providerName, candidates[q.Index])
	if err != nil {
		return providerError(err)
	}
	if lyrics == nil {
		return c.Status(fiber.StatusNotFound).SendString("No lyrics found")
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", Filename(lyrics)))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(lyrics.LRC())
}

// GetArtwork sends a JPEG thumbnail of the artwork at ?url=.
func (h *Handler) GetArtwork(c *fiber.Ctx) error {
	var q artworkQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	data, err := h.artwork.Thumbnail(c.Context(), q.URL, q.Size)
	if err != nil {
		if errors.Is(err, music.ErrArtworkHostNotAllowed) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		slog.Warn("Failed to render artwork", "url", q.URL, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to load artwork")
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}

// RenderSearchPage renders the lyrics search page.
func (h *Handler) RenderSearchPage(c *fiber.Ctx) error {
	var q uiQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	providerName := q.Provider
	if providerName == "" {
		providerName = h.service.DefaultProvider()
	}
	data := fiber.Map{
		"Title":     "Lyrics",
		"Term":      q.Term,
		"Provider":  providerName,
		"Providers": h.service.GetLyricsProvidersInfo(),
		"Results":   []LyricsView{},
	}
	if q.Term != "" {
		all, err := h.service.FetchAll(c.Context(), providerName, q.Term)
		if err != nil && !errors.Is(err, ErrProviderNotFound) {
			return err
		}
		views := make([]LyricsView, 0, len(all))
		for _, l := range all {
			views = append(views, NewLyricsView(l))
		}
		data["Results"] = views
	}
	return c.Render("lyrics/search", data)
}
