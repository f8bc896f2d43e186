package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/neteaselyrics/src/features/config"
	"github.com/contre95/neteaselyrics/src/music"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 4

// ErrProviderNotFound is returned for unknown or disabled providers.
var ErrProviderNotFound = errors.New("lyrics provider not found or not enabled")

// Service provides lyrics functionality
type Service struct {
	lyricsProviders []LyricsProvider
	config          *config.Manager
	observer        RequestObserver
}

// NewService creates a new lyrics service. config and observer may be nil.
func NewService(lyricsProviders []LyricsProvider, config *config.Manager, observer RequestObserver) *Service {
	return &Service{
		lyricsProviders: lyricsProviders,
		config:          config,
		observer:        observer,
	}
}

// SearchCandidates searches providerName for songs matching term.
func (s *Service) SearchCandidates(ctx context.Context, providerName string, term string) ([]music.SearchCandidate, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}

	return s.search(ctx, provider, term), nil
}

// FetchLyrics fetches the lyrics of a single candidate. Missing lyrics are
// reported as nil without error.
func (s *Service) FetchLyrics(ctx context.Context, providerName string, candidate music.SearchCandidate) (*music.Lyrics, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, provider, candidate), nil
}

// FetchAll searches for term and fetches the lyrics of every candidate
// concurrently. Results keep the candidate order; candidates without lyrics
// are left out.
func (s *Service) FetchAll(ctx context.Context, providerName string, term string) ([]*music.Lyrics, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}
	candidates := s.search(ctx, provider, term)

	results := make([]*music.Lyrics, len(candidates))
	var g errgroup.Group
	g.SetLimit(s.fetchConcurrency())
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			results[i] = s.fetch(ctx, provider, candidate)
			return nil
		})
	}
	// fetch never fails, so Wait only joins the workers.
	_ = g.Wait()

	found := make([]*music.Lyrics, 0, len(results))
	for _, l := range results {
		if l != nil {
			found = append(found, l)
		}
	}
	slog.Info("Fetched lyrics", "provider", providerName, "term", term, "candidates", len(candidates), "found", len(found))
	return found, nil
}

// GetEnabledLyricsProviders returns a map of enabled lyrics providers
func (s *Service) GetEnabledLyricsProviders() map[string]bool {
	enabled := make(map[string]bool, len(s.lyricsProviders))
	for _, p := range s.lyricsProviders {
		enabled[p.Name()] = s.enabled(p)
	}
	return enabled
}

// GetLyricsProvidersInfo returns information about all lyrics providers
func (s *Service) GetLyricsProvidersInfo() []music.LyricsProviderInfo {
	infos := make([]music.LyricsProviderInfo, 0, len(s.lyricsProviders))
	for _, p := range s.lyricsProviders {
		infos = append(infos, music.LyricsProviderInfo{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			Enabled:     s.enabled(p),
		})
	}
	return infos
}

// DefaultProvider returns the name of the first enabled provider, or "".
func (s *Service) DefaultProvider() string {
	for _, p := range s.lyricsProviders {
		if s.enabled(p) {
			return p.Name()
		}
	}
	return ""
}

func (s *Service) search(ctx context.Context, provider LyricsProvider, term string) []music.SearchCandidate {
	start := time.Now()
	candidates := provider.Search(ctx, term)
	s.observe(provider.Name(), "search", len(candidates) > 0, start)
	slog.Debug("Searched lyrics candidates", "provider", provider.Name(), "term", term, "candidates", len(candidates))
	return candidates
}

func (s *Service) fetch(ctx context.Context, provider LyricsProvider, candidate music.SearchCandidate) *music.Lyrics {
	start := time.Now()
	lyrics := provider.Fetch(ctx, candidate)
	s.observe(provider.Name(), "fetch", lyrics != nil, start)
	return lyrics
}

func (s *Service) provider(name string) (LyricsProvider, error) {
	for _, p := range s.lyricsProviders {
		if p.Name() == name && s.enabled(p) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
}

// enabled prefers the live configuration over the provider's own flag so
// config reloads take effect without rebuilding providers.
func (s *Service) enabled(p LyricsProvider) bool {
	if s.config == nil {
		return p.IsEnabled()
	}
	return s.config.Get().ProviderEnabled(p.Name())
}

func (s *Service) fetchConcurrency() int {
	if s.config == nil || s.config.Get().Lyrics.FetchConcurrency <= 0 {
		return defaultFetchConcurrency
	}
	return s.config.Get().Lyrics.FetchConcurrency
}

func (s *Service) observe(provider, operation string, found bool, start time.Time) {
	if s.observer == nil {
		return
	}
	outcome := "empty"
	if found {
		outcome = "found"
	}
	s.observer.ObserveRequest(provider, operation, outcome, time.Since(start))
}
