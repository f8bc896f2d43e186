package music

import "testing"

func TestSearchCandidate_Accessors(t *testing.T) {
	c := SearchCandidate{ID: 186016, Artists: []string{"First", "Second"}, Duration: 239973}

	if c.FirstArtist() != "First" {
		t.Errorf("expected first artist, got %q", c.FirstArtist())
	}
	if c.Token() != "186016" {
		t.Errorf("expected token 186016, got %q", c.Token())
	}
	if c.DurationSeconds() != 239.973 {
		t.Errorf("expected 239.973 seconds, got %v", c.DurationSeconds())
	}
	if (SearchCandidate{}).FirstArtist() != "" {
		t.Error("expected empty artist for candidate without artists")
	}
}
