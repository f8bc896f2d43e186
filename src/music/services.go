package music

import (
	"context"
)

// LyricsProviderInfo contains information about a lyrics provider for the UI
type LyricsProviderInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Enabled     bool   `json:"enabled"`
}

// LyricsService defines the interface for lyrics operations
type LyricsService interface {
	SearchCandidates(ctx context.Context, providerName string, term string) ([]SearchCandidate, error)
	FetchLyrics(ctx context.Context, providerName string, candidate SearchCandidate) (*Lyrics, error)
	FetchAll(ctx context.Context, providerName string, term string) ([]*Lyrics, error)
	GetEnabledLyricsProviders() map[string]bool
	GetLyricsProvidersInfo() []LyricsProviderInfo
	DefaultProvider() string
}
