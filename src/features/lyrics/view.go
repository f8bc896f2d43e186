package lyrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/contre95/neteaselyrics/src/music"
	"github.com/gosimple/unidecode"
)

// LyricsView is the JSON representation of fetched lyrics.
type LyricsView struct {
	Title        string     `json:"title"`
	Artist       string     `json:"artist,omitempty"`
	Album        string     `json:"album,omitempty"`
	LyricsBy     string     `json:"lyricsBy,omitempty"`
	Length       float64    `json:"length"`
	Service      string     `json:"service"`
	ServiceToken string     `json:"serviceToken"`
	ArtworkURL   string     `json:"artworkUrl,omitempty"`
	Translated   bool       `json:"translated"`
	Karaoke      bool       `json:"karaoke"`
	Lines        []LineView `json:"lines"`
	LRC          string     `json:"lrc"`
}

// LineView is a single lyric line with its position in seconds.
type LineView struct {
	Position    float64       `json:"position"`
	Content     string        `json:"content"`
	Translation string        `json:"translation,omitempty"`
	Duration    float64       `json:"duration,omitempty"`
	TimeTags    []TimeTagView `json:"timeTags,omitempty"`
}

// TimeTagView marks that the first Index characters of a karaoke line have
// been sung Time seconds after the line starts.
type TimeTagView struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
}

// NewLyricsView converts lyrics into their JSON representation.
func NewLyricsView(l *music.Lyrics) LyricsView {
	album, _ := l.IDTag(music.TagAlbum)
	by, _ := l.IDTag(music.TagLrcBy)
	lines := make([]LineView, 0, len(l.Lines))
	for _, line := range l.Lines {
		view := LineView{
			Position:    line.Position.Seconds(),
			Content:     line.Content,
			Translation: line.Translation,
			Duration:    line.Duration.Seconds(),
		}
		for _, tag := range line.TimeTags {
			view.TimeTags = append(view.TimeTags, TimeTagView{Index: tag.Index, Time: tag.Time.Seconds()})
		}
		lines = append(lines, view)
	}
	return LyricsView{
		Title:        l.Title(),
		Artist:       l.Artist(),
		Album:        album,
		LyricsBy:     by,
		Length:       l.Length,
		Service:      l.Metadata.Service,
		ServiceToken: l.Metadata.ServiceToken,
		ArtworkURL:   l.Metadata.ArtworkURL,
		Translated:   l.Metadata.Translated,
		Karaoke:      l.Metadata.InlineTimeTags,
		Lines:        lines,
		LRC:          l.LRC(),
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9 ._()\-]+`)

// Filename returns an ASCII "Artist - Title.lrc" name for l.
func Filename(l *music.Lyrics) string {
	name := l.Title()
	if artist := l.Artist(); artist != "" {
		name = artist + " - " + name
	}
	name = unsafeFilenameChars.ReplaceAllString(unidecode.Unidecode(name), "")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || name == "-" {
		name = "lyrics"
	}
	return name + ".lrc"
}

// TemplateFuncs returns the helpers used by the lyrics templates.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"duration": func(seconds float64) string {
			total := int(seconds)
			return fmt.Sprintf("%d:%02d", total/60, total%60)
		},
		"position": func(seconds float64) string {
			return music.FormatTimeTag(time.Duration(seconds * float64(time.Second)))
		},
	}
}
