package providers

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/contre95/neteaselyrics/src/music"
)

// NetEase karaoke lyrics look like "[start,duration](0,d1)word(0,d2)word",
// all values in milliseconds. Word offsets are relative to the line start.
var (
	karaokeLineRegex = regexp.MustCompile(`^\[(\d+),(\d+)\](.*)$`)
	karaokeWordRegex = regexp.MustCompile(`\((\d+),(\d+)\)([^(]*)`)
)

// parseKaraoke parses NetEase word-timed lyrics into lines carrying inline
// time tags.
func parseKaraoke(text string) (*music.Lyrics, error) {
	var lines []music.LyricsLine
	tags := make(map[music.IDTagKey]string)

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if key, value, ok := music.ParseIDTag(raw); ok {
			if value != "" {
				tags[key] = value
			}
			continue
		}
		m := karaokeLineRegex.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		duration, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		lines = append(lines, karaokeLine(millis(start), millis(duration), m[3]))
	}

	if len(lines) == 0 {
		return nil, music.ErrNoLyricsLines
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Position < lines[j].Position
	})

	lyrics := music.NewLyrics(lines, tags)
	lyrics.Metadata.InlineTimeTags = true
	return lyrics, nil
}

func karaokeLine(position, duration time.Duration, body string) music.LyricsLine {
	words := karaokeWordRegex.FindAllStringSubmatch(body, -1)
	if len(words) == 0 {
		return music.LyricsLine{Position: position, Duration: duration, Content: strings.TrimSpace(body)}
	}

	var content strings.Builder
	timeTags := []music.InlineTimeTag{{Index: 0, Time: 0}}
	var elapsed time.Duration
	runes := 0
	for _, w := range words {
		offset, _ := strconv.Atoi(w[1])
		length, _ := strconv.Atoi(w[2])
		if offset > 0 {
			elapsed = millis(offset)
		}
		elapsed += millis(length)
		content.WriteString(w[3])
		runes += utf8.RuneCountInString(w[3])
		timeTags = append(timeTags, music.InlineTimeTag{Index: runes, Time: elapsed})
	}

	return music.LyricsLine{
		Position: position,
		Duration: duration,
		Content:  content.String(),
		TimeTags: timeTags,
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
