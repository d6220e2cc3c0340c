package layer

// BoxLayer displays a filled rectangle, optionally with a border,
// rounded corners and a two-color linear gradient. Box layers are
// exported through the subtitle track as vector drawings.
type BoxLayer struct {
	Common

	FillColor         string
	FillOpacity       float64
	BorderColor       string
	BorderWidth       int
	BorderStyle       string // solid, dashed, dotted
	CornerRadius      int
	Gradient          bool
	GradientColor     string
	GradientDirection string // horizontal, vertical
}

// NewBoxLayer creates a box layer with the original editor's defaults.
func NewBoxLayer(id string, start, end float64) *BoxLayer {
	return &BoxLayer{
		Common:            newCommon(id, start, end),
		FillColor:         "#FF0000",
		FillOpacity:       0.5,
		BorderColor:       "#000000",
		BorderWidth:       2,
		BorderStyle:       "solid",
		GradientColor:     "#00FF00",
		GradientDirection: "horizontal",
	}
}

func (l *BoxLayer) Kind() Kind    { return KindBox }
func (l *BoxLayer) Base() *Common { return &l.Common }

func (l *BoxLayer) Properties() map[string]any {
	return l.Common.properties(map[string]any{
		"fill_color":         l.FillColor,
		"fill_opacity":       l.FillOpacity,
		"border_color":       l.BorderColor,
		"border_width":       l.BorderWidth,
		"border_style":       l.BorderStyle,
		"corner_radius":      l.CornerRadius,
		"gradient":           l.Gradient,
		"gradient_color":     l.GradientColor,
		"gradient_direction": l.GradientDirection,
	})
}

func (l *BoxLayer) SetProperty(name string, value any) bool {
	if ok, handled := l.Common.setCommon(name, value); handled {
		return ok
	}
	switch name {
	case "fill_color":
		return setString(&l.FillColor, value)
	case "fill_opacity":
		return setFloat(&l.FillOpacity, value)
	case "border_color":
		return setString(&l.BorderColor, value)
	case "border_width":
		return setInt(&l.BorderWidth, value)
	case "border_style":
		return setString(&l.BorderStyle, value)
	case "corner_radius":
		return setInt(&l.CornerRadius, value)
	case "gradient":
		return setBool(&l.Gradient, value)
	case "gradient_color":
		return setString(&l.GradientColor, value)
	case "gradient_direction":
		return setString(&l.GradientDirection, value)
	}
	return false
}

func (l *BoxLayer) Snapshot() Snapshot {
	s := snapshotCommon(KindBox, &l.Common)
	s.FillColor = l.FillColor
	s.FillOpacity = l.FillOpacity
	s.BorderColor = l.BorderColor
	s.BorderWidth = l.BorderWidth
	s.BorderStyle = l.BorderStyle
	s.CornerRadius = l.CornerRadius
	s.Gradient = l.Gradient
	s.GradientColor = l.GradientColor
	s.GradientDirection = l.GradientDirection
	return s
}
