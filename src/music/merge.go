package music

// Merge attaches translated lines whose position matches a line of l
// exactly. Translation lines without a counterpart are dropped.
func (l *Lyrics) Merge(translation *Lyrics) {
	if translation == nil {
		return
	}
	i, j := 0, 0
	for i < len(l.Lines) && j < len(translation.Lines) {
		base, trans := l.Lines[i].Position, translation.Lines[j].Position
		switch {
		case base == trans:
			l.attachTranslation(i, translation.Lines[j].Content)
			i++
			j++
		case base > trans:
			j++
		default:
			i++
		}
	}
}

// ForceMerge attaches translated lines by index, ignoring their positions.
// Surplus lines on either side are left untouched.
func (l *Lyrics) ForceMerge(translation *Lyrics) {
	if translation == nil {
		return
	}
	n := min(len(l.Lines), len(translation.Lines))
	for i := 0; i < n; i++ {
		l.attachTranslation(i, translation.Lines[i].Content)
	}
}

func (l *Lyrics) attachTranslation(i int, content string) {
	if content == "" {
		return
	}
	l.Lines[i].Translation = content
	l.Metadata.Translated = true
}
