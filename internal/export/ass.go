package export

import (
	"fmt"
	"strings"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

// BuildScript renders the timeline's text and box layers as an ASS
// subtitle script sized to the output canvas. Image layers are composited
// by the encoder's overlay chain instead and contribute no events.
func BuildScript(snap timeline.Snapshot, width, height int) string {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	b.WriteString("Title: slopstudio export\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", width)
	fmt.Fprintf(&b, "PlayResY: %d\n", height)
	b.WriteString("Scaled: yes\n")
	b.WriteString("YCbCr Matrix: TV.601\n")
	b.WriteString("\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString("Style: Default,Arial,24,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n")
	for _, ls := range snap.Layers {
		writeLayerStyles(&b, ls)
	}
	b.WriteString("\n")

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, ls := range snap.Layers {
		writeLayerEvents(&b, ls)
	}

	return b.String()
}

// writeLayerStyles emits one style per drawable layer so each keeps its
// own font, size and colors.
func writeLayerStyles(b *strings.Builder, ls layer.Snapshot) {
	switch ls.Type {
	case string(layer.KindText):
		bold := assFlag(ls.Bold)
		italic := assFlag(ls.Italic)
		underline := assFlag(ls.Underline)
		font := ls.FontFamily
		if font == "" {
			font = "Arial"
		}
		fmt.Fprintf(b, "Style: Text_%s,%s,%d,%s,&H000000FF,&H00000000,&H80000000,%s,%s,%s,0,100,100,0,0,1,1,0,2,10,10,10,1\n",
			ls.LayerID, font, ls.FontSize, HexToASSColor(ls.FontColor), bold, italic, underline)
		if ls.BgOpacity > 0 {
			fmt.Fprintf(b, "Style: TextBg_%s,%s,%d,%s,&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n",
				ls.LayerID, font, ls.FontSize, HexToASSColor(ls.BgColor))
		}
	case string(layer.KindBox):
		fmt.Fprintf(b, "Style: Box_%s,Arial,24,%s,&H000000FF,%s,&H80000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n",
			ls.LayerID, HexToASSColor(ls.FillColor), HexToASSColor(ls.BorderColor))
	}
}

func writeLayerEvents(b *strings.Builder, ls layer.Snapshot) {
	if !ls.Visible {
		return
	}
	start := SecToASS(ls.StartTime)
	end := SecToASS(ls.EndTime)
	cx := int(ls.X + ls.Width/2)
	cy := int(ls.Y + ls.Height/2)
	w := int(ls.Width)
	h := int(ls.Height)

	switch ls.Type {
	case string(layer.KindText):
		if ls.BgOpacity > 0 {
			fmt.Fprintf(b, "Dialogue: 0,%s,%s,TextBg_%s,,0,0,0,,{\\an5\\bord2\\shad0\\fscx100\\fscy100\\pos(%d,%d)\\p1}m 0 0 l %d 0 l %d %d l 0 %d{\\p0}\n",
				start, end, ls.LayerID, cx, cy, w, w, h, h)
		}
		fmt.Fprintf(b, "Dialogue: 1,%s,%s,Text_%s,,0,0,0,,{\\an5\\bord2\\shad1\\fscx100\\fscy100\\pos(%d,%d)}%s\n",
			start, end, ls.LayerID, cx, cy, escapeText(ls.Text))
	case string(layer.KindBox):
		fmt.Fprintf(b, "Dialogue: 0,%s,%s,Box_%s,,0,0,0,,{\\an5\\bord%d\\shad0\\fscx100\\fscy100\\pos(%d,%d)\\p1}m 0 0 l %d 0 l %d %d l 0 %d{\\p0}\n",
			start, end, ls.LayerID, ls.BorderWidth, cx, cy, w, w, h, h)
	}
}

// SecToASS converts seconds to ASS time, H:MM:SS.CC with truncated
// centiseconds.
func SecToASS(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	cs := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// HexToASSColor converts "#RRGGBB" to the subtitle format's &H00BBGGRR
// channel order. Malformed colors fall back to opaque white.
func HexToASSColor(hex string) string {
	c, ok := layer.ParseHexColor(hex)
	if !ok {
		return "&H00FFFFFF"
	}
	return fmt.Sprintf("&H00%02X%02X%02X", c.B, c.G, c.R)
}

func assFlag(on bool) string {
	if on {
		return "-1"
	}
	return "0"
}

// escapeText keeps multi-line text inside a single dialogue event.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\\N")
}
