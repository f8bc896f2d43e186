package music

import (
	"errors"
	"strconv"
)

// ErrArtworkHostNotAllowed is returned for artwork URLs that do not point to
// the provider's image hosts.
var ErrArtworkHostNotAllowed = errors.New("artwork host not allowed")

// SearchCandidate is one song returned by a lyrics provider search. It is
// only meaningful for the provider that produced it.
type SearchCandidate struct {
	ID         int64    `json:"id" validate:"required,gt=0"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	ArtworkURL string   `json:"artworkUrl"`
	Duration   int64    `json:"duration"` // milliseconds
}

// FirstArtist returns the first listed artist, or "" when there is none.
func (c SearchCandidate) FirstArtist() string {
	if len(c.Artists) == 0 {
		return ""
	}
	return c.Artists[0]
}

// Token is the provider specific identifier used to fetch the song again.
func (c SearchCandidate) Token() string {
	return strconv.FormatInt(c.ID, 10)
}

// DurationSeconds returns the track length in fractional seconds.
func (c SearchCandidate) DurationSeconds() float64 {
	return float64(c.Duration) / 1000
}
