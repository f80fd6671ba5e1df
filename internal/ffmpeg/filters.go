package ffmpeg

import (
	"fmt"
	"strings"
)

// Canvas describes the fixed output geometry every clip is normalized to.
type Canvas struct {
	Width     int
	Height    int
	Framerate int
	FontSize  int
	Font      string
	PadColor  string
}

// EscapeFilterText escapes characters that are special inside ffmpeg filter
// arguments: backslashes, single quotes, and the option separator colon.
func EscapeFilterText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\\\'`,
		`:`, `\:`,
	)
	return replacer.Replace(text)
}

// TitleFilter builds the filter chain that conforms a clip to the canvas and
// burns the title into a translucent box along the bottom edge: constant
// framerate, aspect-preserving scale, pad to full canvas, then drawbox and
// drawtext.
func (c Canvas) TitleFilter(title string) string {
	w, h, f := c.Width, c.Height, c.FontSize
	var b strings.Builder
	fmt.Fprintf(&b, "fps=%d,", c.Framerate)
	fmt.Fprintf(&b, `scale=min(iw*%d/ih\,%d):min(%d\,ih*%d/iw),`, h, w, h, w)
	fmt.Fprintf(&b, "pad=%d:%d:(%d-iw)/2:(%d-ih)/2:color=%s,", w, h, w, h, c.PadColor)
	b.WriteString("setsar=sar=1/1,")
	fmt.Fprintf(&b, "drawbox=y=ih-%d:color=black@0.3:width=iw:height=%d:t=fill,", 2*f, 2*f)
	fmt.Fprintf(&b, "drawtext=text=%s:x=%d:y=H-%d-th/2:font=%s:fontsize=%d:fontcolor=white",
		EscapeFilterText(title), f, f, c.Font, f)
	return b.String()
}

// ConcatFilter builds the filter_complex string joining n inputs, both video
// and audio, into the [v] and [a] output pads.
func ConcatFilter(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d:v] [%d:a] ", i, i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1 [v] [a]", n)
	return b.String()
}
