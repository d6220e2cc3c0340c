package layer

import "fmt"

// Snapshot is a flat, renderer-agnostic copy of one layer. It is the
// serialization contract between the timeline, both renderers and
// project persistence: a self-describing record with a type
// discriminator and no back-references to live objects. JSON keys match
// the project file format.
type Snapshot struct {
	Type      string  `json:"type"`
	LayerID   string  `json:"layer_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	ZIndex    int     `json:"z_index"`
	Opacity   float64 `json:"opacity"`
	Visible   bool    `json:"visible"`

	// Text fields.
	Text        string  `json:"text,omitempty"`
	FontFamily  string  `json:"font_family,omitempty"`
	FontSize    int     `json:"font_size,omitempty"`
	FontColor   string  `json:"font_color,omitempty"`
	BgColor     string  `json:"bg_color,omitempty"`
	BgOpacity   float64 `json:"bg_opacity,omitempty"`
	Alignment   string  `json:"alignment,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Underline   bool    `json:"underline,omitempty"`

	// Image fields.
	ImagePath      string  `json:"image_path,omitempty"`
	FitMode        string  `json:"fit_mode,omitempty"`
	Rotation       float64 `json:"rotation,omitempty"`
	FlipHorizontal bool    `json:"flip_horizontal,omitempty"`
	FlipVertical   bool    `json:"flip_vertical,omitempty"`
	Brightness     float64 `json:"brightness,omitempty"`
	Contrast       float64 `json:"contrast,omitempty"`
	Saturation     float64 `json:"saturation,omitempty"`
	GroupID        string  `json:"group_id,omitempty"`

	// Box fields.
	FillColor         string  `json:"fill_color,omitempty"`
	FillOpacity       float64 `json:"fill_opacity,omitempty"`
	BorderStyle       string  `json:"border_style,omitempty"`
	CornerRadius      int     `json:"corner_radius,omitempty"`
	Gradient          bool    `json:"gradient,omitempty"`
	GradientColor     string  `json:"gradient_color,omitempty"`
	GradientDirection string  `json:"gradient_direction,omitempty"`

	// Shared by text and box.
	BorderColor string `json:"border_color,omitempty"`
	BorderWidth int    `json:"border_width,omitempty"`
}

func snapshotCommon(kind Kind, c *Common) Snapshot {
	return Snapshot{
		Type:      string(kind),
		LayerID:   c.LayerID,
		X:         c.X,
		Y:         c.Y,
		Width:     c.Width,
		Height:    c.Height,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		ZIndex:    c.ZIndex,
		Opacity:   c.Opacity,
		Visible:   c.Visible,
	}
}

func (s Snapshot) applyCommon(c *Common) {
	c.X = s.X
	c.Y = s.Y
	c.Width = s.Width
	c.Height = s.Height
	c.StartTime = s.StartTime
	c.EndTime = s.EndTime
	c.ZIndex = s.ZIndex
	c.Opacity = s.Opacity
	c.Visible = s.Visible
}

// FromSnapshot reconstructs a live layer from its flat record. Unknown
// type tags are an error; an image whose source file no longer decodes
// still reconstructs (it renders as a placeholder, same as at edit time).
func FromSnapshot(s Snapshot) (Layer, error) {
	switch Kind(s.Type) {
	case KindText:
		l := NewTextLayer(s.LayerID, s.Text, s.StartTime, s.EndTime)
		s.applyCommon(&l.Common)
		l.FontFamily = s.FontFamily
		l.FontSize = s.FontSize
		l.FontColor = s.FontColor
		l.BgColor = s.BgColor
		l.BgOpacity = s.BgOpacity
		l.BorderColor = s.BorderColor
		l.BorderWidth = s.BorderWidth
		l.Alignment = s.Alignment
		l.Bold = s.Bold
		l.Italic = s.Italic
		l.Underline = s.Underline
		return l, nil

	case KindImage:
		l := NewImageLayer(s.LayerID, "", s.StartTime, s.EndTime)
		s.applyCommon(&l.Common)
		if s.FitMode != "" {
			if !ValidFitMode(s.FitMode) {
				return nil, fmt.Errorf("layer %s: bad fit mode %q", s.LayerID, s.FitMode)
			}
			l.FitMode = FitMode(s.FitMode)
		}
		l.Rotation = s.Rotation
		l.FlipH = s.FlipHorizontal
		l.FlipV = s.FlipVertical
		l.Brightness = s.Brightness
		l.Contrast = s.Contrast
		l.Saturation = s.Saturation
		l.GroupID = s.GroupID
		if s.ImagePath != "" {
			l.LoadImage(s.ImagePath)
		}
		return l, nil

	case KindBox:
		l := NewBoxLayer(s.LayerID, s.StartTime, s.EndTime)
		s.applyCommon(&l.Common)
		l.FillColor = s.FillColor
		l.FillOpacity = s.FillOpacity
		l.BorderColor = s.BorderColor
		l.BorderWidth = s.BorderWidth
		l.BorderStyle = s.BorderStyle
		l.CornerRadius = s.CornerRadius
		l.Gradient = s.Gradient
		l.GradientColor = s.GradientColor
		l.GradientDirection = s.GradientDirection
		return l, nil
	}
	return nil, fmt.Errorf("unknown layer type %q", s.Type)
}
