package music

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	lrcTimeTagRegex = regexp.MustCompile(`^\[([-+]?\d+):(\d+)(?:\.(\d+))?\]`)
	lrcIDTagRegex   = regexp.MustCompile(`^\[([A-Za-z]+):([^\]]*)\]\s*$`)
)

// ParseLRC parses LRC formatted text. Lines may carry several time tags,
// e.g. "[00:12.30][01:02.00]chorus". Identification tags such as [ti:...]
// are collected into IDTags. Lines without a valid time tag are ignored.
func ParseLRC(text string) (*Lyrics, error) {
	var lines []LyricsLine
	tags := make(map[IDTagKey]string)

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if key, value, ok := ParseIDTag(raw); ok {
			if value != "" {
				tags[key] = value
			}
			continue
		}

		var positions []time.Duration
		rest := raw
		for {
			m := lrcTimeTagRegex.FindStringSubmatch(rest)
			if m == nil {
				break
			}
			pos, err := parseTimeTag(m[1], m[2], m[3])
			if err != nil {
				break
			}
			positions = append(positions, pos)
			rest = rest[len(m[0]):]
		}
		if len(positions) == 0 {
			continue
		}
		content := strings.TrimSpace(rest)
		for _, pos := range positions {
			lines = append(lines, LyricsLine{Position: pos, Content: content})
		}
	}

	if len(lines) == 0 {
		return nil, ErrNoLyricsLines
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Position < lines[j].Position
	})
	return NewLyrics(lines, tags), nil
}

// ParseIDTag parses a single "[key:value]" identification tag line.
func ParseIDTag(line string) (IDTagKey, string, bool) {
	m := lrcIDTagRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return IDTagKey(strings.ToLower(m[1])), strings.TrimSpace(m[2]), true
}

// parseTimeTag converts the captured parts of [mm:ss.fff] into a duration
// with millisecond precision.
func parseTimeTag(minutes, seconds, fraction string) (time.Duration, error) {
	negative := strings.HasPrefix(minutes, "-")
	mins, err := strconv.Atoi(strings.TrimLeft(minutes, "+-"))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q: %w", minutes, err)
	}
	secs, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds %q: %w", seconds, err)
	}
	millis := 0
	if fraction != "" {
		if len(fraction) > 3 {
			fraction = fraction[:3]
		}
		fraction += strings.Repeat("0", 3-len(fraction))
		millis, err = strconv.Atoi(fraction)
		if err != nil {
			return 0, fmt.Errorf("invalid fraction %q: %w", fraction, err)
		}
	}
	d := time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second + time.Duration(millis)*time.Millisecond
	if negative {
		d = -d
	}
	return d, nil
}

// FormatTimeTag renders a position as [mm:ss.xx].
func FormatTimeTag(pos time.Duration) string {
	if pos < 0 {
		pos = 0
	}
	centis := int64(pos / (10 * time.Millisecond))
	return fmt.Sprintf("[%02d:%02d.%02d]", centis/6000, (centis/100)%60, centis%100)
}

// LRC serializes the lyrics back into LRC text. Translations are written as
// a companion line tagged with [tr].
func (l *Lyrics) LRC() string {
	var b strings.Builder
	for _, key := range idTagOrder {
		if v, ok := l.IDTags[key]; ok {
			fmt.Fprintf(&b, "[%s:%s]\n", key, v)
		}
	}
	for _, line := range l.Lines {
		tag := FormatTimeTag(line.Position)
		b.WriteString(tag)
		b.WriteString(line.Content)
		b.WriteByte('\n')
		if line.Translation != "" {
			b.WriteString(tag)
			b.WriteString("[tr]")
			b.WriteString(line.Translation)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PlainText returns the lyric content without any timing.
func (l *Lyrics) PlainText() string {
	parts := make([]string, 0, len(l.Lines))
	for _, line := range l.Lines {
		parts = append(parts, line.Content)
	}
	return strings.Join(parts, "\n")
}
