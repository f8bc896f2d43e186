package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/contre95/neteaselyrics/src/features/lyrics"
	"github.com/contre95/neteaselyrics/src/music"
)

const (
	formatLRC  = "lrc"
	formatText = "text"
	formatJSON = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatLRC, formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (use lrc, text or json)", format)
	}
}

func writeLyrics(w io.Writer, l *music.Lyrics, format string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, l.PlainText())
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lyrics.NewLyricsView(l))
	default:
		_, err := io.WriteString(w, l.LRC())
		return err
	}
}
