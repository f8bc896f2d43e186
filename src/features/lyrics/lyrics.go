package lyrics

import (
	"context"
	"time"

	"github.com/contre95/neteaselyrics/src/music"
)

// LyricsProvider defines the interface for fetching lyrics from external services.
// Search and Fetch never fail: lookup problems yield no candidates or nil lyrics.
type LyricsProvider interface {
	// Search returns the songs matching term, best match first
	Search(ctx context.Context, term string) []music.SearchCandidate

	// Fetch returns the lyrics of candidate or nil when there are none
	Fetch(ctx context.Context, candidate music.SearchCandidate) *music.Lyrics

	// Name returns the provider name
	Name() string

	// DisplayName returns the human-readable display name for the UI
	DisplayName() string

	// IsEnabled returns whether the provider is enabled
	IsEnabled() bool
}

// RequestObserver records the outcome of provider operations.
type RequestObserver interface {
	ObserveRequest(provider, operation, outcome string, elapsed time.Duration)
}
