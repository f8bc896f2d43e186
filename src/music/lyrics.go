package music

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoLyricsLines is returned when a lyric text carries no timed line.
var ErrNoLyricsLines = errors.New("no timed lyrics lines")

// IDTagKey is the key of an LRC identification tag, e.g. [ti:Title].
type IDTagKey string

const (
	TagTitle  IDTagKey = "ti"
	TagArtist IDTagKey = "ar"
	TagAlbum  IDTagKey = "al"
	TagLrcBy  IDTagKey = "by"
	TagOffset IDTagKey = "offset"
	TagLength IDTagKey = "length"
)

// idTagOrder is the order tags are written back in LRC output.
var idTagOrder = []IDTagKey{TagTitle, TagArtist, TagAlbum, TagLrcBy, TagLength, TagOffset}

// InlineTimeTag marks the time (relative to the line start) at which the
// first Index runes of a line have been sung.
type InlineTimeTag struct {
	Index int
	Time  time.Duration
}

// LyricsLine is a single timed lyric line.
type LyricsLine struct {
	Position    time.Duration
	Content     string
	Translation string
	// Karaoke data, only set for lines parsed from word-timed sources.
	Duration time.Duration
	TimeTags []InlineTimeTag
}

// LyricsMetadata holds data about where the lyrics came from.
type LyricsMetadata struct {
	ArtworkURL     string
	Service        string
	ServiceToken   string
	Translated     bool
	InlineTimeTags bool
}

// Lyrics is a normalized set of timed lyric lines plus identification tags.
type Lyrics struct {
	Lines    []LyricsLine
	IDTags   map[IDTagKey]string
	Length   float64 // seconds
	Metadata LyricsMetadata
}

// NewLyrics creates lyrics from already ordered lines.
func NewLyrics(lines []LyricsLine, tags map[IDTagKey]string) *Lyrics {
	if tags == nil {
		tags = make(map[IDTagKey]string)
	}
	return &Lyrics{Lines: lines, IDTags: tags}
}

// IDTag returns the value of an identification tag and whether it is present.
func (l *Lyrics) IDTag(key IDTagKey) (string, bool) {
	v, ok := l.IDTags[key]
	return v, ok
}

// SetIDTag sets an identification tag. An empty value removes the tag.
func (l *Lyrics) SetIDTag(key IDTagKey, value string) {
	if l.IDTags == nil {
		l.IDTags = make(map[IDTagKey]string)
	}
	if value == "" {
		delete(l.IDTags, key)
		return
	}
	l.IDTags[key] = value
}

// Title returns the title tag or an empty string.
func (l *Lyrics) Title() string { return l.IDTags[TagTitle] }

// Artist returns the artist tag or an empty string.
func (l *Lyrics) Artist() string { return l.IDTags[TagArtist] }

// Validate checks the invariants every produced Lyrics value holds.
func (l *Lyrics) Validate() error {
	if len(l.Lines) == 0 {
		return ErrNoLyricsLines
	}
	for i := 1; i < len(l.Lines); i++ {
		if l.Lines[i].Position < l.Lines[i-1].Position {
			return fmt.Errorf("line %d is out of order", i)
		}
	}
	return nil
}
