package layer

// TextLayer displays styled text on the canvas. Text layers are exported
// through the subtitle track rather than the filter graph.
type TextLayer struct {
	Common

	Text        string
	FontFamily  string
	FontSize    int
	FontColor   string
	BgColor     string
	BgOpacity   float64
	BorderColor string
	BorderWidth int
	Alignment   string // left, center, right
	Bold        bool
	Italic      bool
	Underline   bool
}

// NewTextLayer creates a text layer with the original editor's defaults.
func NewTextLayer(id, text string, start, end float64) *TextLayer {
	return &TextLayer{
		Common:      newCommon(id, start, end),
		Text:        text,
		FontFamily:  "Arial",
		FontSize:    24,
		FontColor:   "#FFFFFF",
		BgColor:     "#000000",
		BgOpacity:   0.0,
		BorderColor: "#000000",
		BorderWidth: 0,
		Alignment:   "center",
	}
}

func (l *TextLayer) Kind() Kind    { return KindText }
func (l *TextLayer) Base() *Common { return &l.Common }

func (l *TextLayer) Properties() map[string]any {
	return l.Common.properties(map[string]any{
		"text":         l.Text,
		"font_family":  l.FontFamily,
		"font_size":    l.FontSize,
		"font_color":   l.FontColor,
		"bg_color":     l.BgColor,
		"bg_opacity":   l.BgOpacity,
		"border_color": l.BorderColor,
		"border_width": l.BorderWidth,
		"alignment":    l.Alignment,
		"bold":         l.Bold,
		"italic":       l.Italic,
		"underline":    l.Underline,
	})
}

func (l *TextLayer) SetProperty(name string, value any) bool {
	if ok, handled := l.Common.setCommon(name, value); handled {
		return ok
	}
	switch name {
	case "text":
		return setString(&l.Text, value)
	case "font_family":
		return setString(&l.FontFamily, value)
	case "font_size":
		return setInt(&l.FontSize, value)
	case "font_color":
		return setString(&l.FontColor, value)
	case "bg_color":
		return setString(&l.BgColor, value)
	case "bg_opacity":
		return setFloat(&l.BgOpacity, value)
	case "border_color":
		return setString(&l.BorderColor, value)
	case "border_width":
		return setInt(&l.BorderWidth, value)
	case "alignment":
		return setString(&l.Alignment, value)
	case "bold":
		return setBool(&l.Bold, value)
	case "italic":
		return setBool(&l.Italic, value)
	case "underline":
		return setBool(&l.Underline, value)
	}
	return false
}

func (l *TextLayer) Snapshot() Snapshot {
	s := snapshotCommon(KindText, &l.Common)
	s.Text = l.Text
	s.FontFamily = l.FontFamily
	s.FontSize = l.FontSize
	s.FontColor = l.FontColor
	s.BgColor = l.BgColor
	s.BgOpacity = l.BgOpacity
	s.BorderColor = l.BorderColor
	s.BorderWidth = l.BorderWidth
	s.Alignment = l.Alignment
	s.Bold = l.Bold
	s.Italic = l.Italic
	s.Underline = l.Underline
	return s
}
