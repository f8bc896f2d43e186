package lyrics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/contre95/neteaselyrics/src/music"
)

func TestNewLyricsView_KaraokeTiming(t *testing.T) {
	l := music.NewLyrics([]music.LyricsLine{
		{
			Position: time.Second,
			Duration: 1500 * time.Millisecond,
			Content:  "你好",
			TimeTags: []music.InlineTimeTag{{Index: 0}, {Index: 1, Time: 300 * time.Millisecond}, {Index: 2, Time: 800 * time.Millisecond}},
		},
		{Position: 3 * time.Second, Content: "plain"},
	}, nil)
	l.Metadata.InlineTimeTags = true

	view := NewLyricsView(l)

	first := view.Lines[0]
	if !view.Karaoke || first.Duration != 1.5 || len(first.TimeTags) != 3 {
		t.Fatalf("unexpected karaoke line %+v", first)
	}
	if first.TimeTags[2] != (TimeTagView{Index: 2, Time: 0.8}) {
		t.Errorf("unexpected last time tag %+v", first.TimeTags[2])
	}

	data, err := json.Marshal(view.Lines[1])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "timeTags") || strings.Contains(string(data), "duration") {
		t.Errorf("expected plain line without karaoke fields, got %s", data)
	}
}
