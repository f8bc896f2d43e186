package music

import (
	"testing"
	"time"
)

func timedLyrics(entries ...any) *Lyrics {
	var lines []LyricsLine
	for i := 0; i+1 < len(entries); i += 2 {
		lines = append(lines, LyricsLine{
			Position: time.Duration(entries[i].(int)) * time.Second,
			Content:  entries[i+1].(string),
		})
	}
	return NewLyrics(lines, nil)
}

func TestMerge_AttachesOnlyMatchingPositions(t *testing.T) {
	base := timedLyrics(1, "one", 2, "two", 4, "four")
	trans := timedLyrics(1, "uno", 3, "tres", 4, "cuatro", 5, "cinco")

	base.Merge(trans)

	want := []string{"uno", "", "cuatro"}
	for i, tr := range want {
		if base.Lines[i].Translation != tr {
			t.Errorf("line %d: expected translation %q, got %q", i, tr, base.Lines[i].Translation)
		}
	}
	if !base.Metadata.Translated {
		t.Error("expected lyrics to be marked as translated")
	}
}

func TestMerge_NoMatchLeavesLyricsUntranslated(t *testing.T) {
	base := timedLyrics(1, "one")
	base.Merge(timedLyrics(2, "dos"))

	if base.Lines[0].Translation != "" || base.Metadata.Translated {
		t.Fatalf("expected no translation, got %+v", base)
	}
}

func TestForceMerge_IgnoresPositionsAndCounts(t *testing.T) {
	base := timedLyrics(1, "one", 2, "two", 3, "three")
	trans := timedLyrics(10, "uno", 20, "dos")

	base.ForceMerge(trans)

	if base.Lines[0].Translation != "uno" || base.Lines[1].Translation != "dos" {
		t.Fatalf("expected positional translations, got %+v", base.Lines)
	}
	if base.Lines[2].Translation != "" {
		t.Errorf("expected surplus base line untouched, got %q", base.Lines[2].Translation)
	}
}

func TestForceMerge_SkipsEmptyTranslations(t *testing.T) {
	base := timedLyrics(1, "one", 2, "two")
	base.ForceMerge(timedLyrics(1, "", 2, "dos", 3, "tres"))

	if base.Lines[0].Translation != "" || base.Lines[1].Translation != "dos" {
		t.Fatalf("unexpected translations: %+v", base.Lines)
	}
}

func TestMerge_NilTranslation(t *testing.T) {
	base := timedLyrics(1, "one")
	base.Merge(nil)
	base.ForceMerge(nil)

	if base.Metadata.Translated {
		t.Fatal("expected nil translation to be a no-op")
	}
}
