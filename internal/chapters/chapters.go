// Package chapters builds FFMETADATA chapter listings for the concat muxer.
//
// Chapters use a 1/1000 timebase, so tick values are milliseconds. A one-tick
// gap is kept between consecutive chapters so players never see overlapping
// ranges.
package chapters

import (
	"fmt"
	"strings"
)

// Timebase is the tick resolution used for every chapter.
const Timebase = "1/1000"

// Chapter is a single titled time range, in ticks.
type Chapter struct {
	Title string
	Start int64
	End   int64
}

// List accumulates chapters back to back, tracking the running playhead.
type List struct {
	chapters []Chapter
	playhead int64
}

// Append adds a chapter of the given duration (in seconds) at the current
// playhead and advances it past the chapter.
func (l *List) Append(title string, durationSeconds float64) {
	ticks := int64(durationSeconds * 1000)
	if ticks < 0 {
		ticks = 0
	}
	l.chapters = append(l.chapters, Chapter{
		Title: title,
		Start: l.playhead,
		End:   l.playhead + ticks,
	})
	l.playhead += ticks + 1
}

// Len returns the number of accumulated chapters.
func (l *List) Len() int {
	return len(l.chapters)
}

// Chapters returns the accumulated chapters in order.
func (l *List) Chapters() []Chapter {
	return append([]Chapter(nil), l.chapters...)
}

// Marshal renders the list in FFMETADATA format.
func (l *List) Marshal() []byte {
	var b strings.Builder
	b.WriteString(";FFMETADATA1\n\n")
	for _, chapter := range l.chapters {
		b.WriteString("[CHAPTER]\n")
		fmt.Fprintf(&b, "TIMEBASE=%s\n", Timebase)
		fmt.Fprintf(&b, "START=%d\n", chapter.Start)
		fmt.Fprintf(&b, "END=%d\n", chapter.End)
		fmt.Fprintf(&b, "title=%s\n\n", escapeValue(chapter.Title))
	}
	return []byte(b.String())
}

// escapeValue escapes the characters the ffmetadata parser treats specially.
func escapeValue(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`=`, `\=`,
		`;`, `\;`,
		`#`, `\#`,
		"\n", `\`+"\n",
	)
	return replacer.Replace(value)
}
