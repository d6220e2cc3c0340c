package layer

import "fmt"

// Kind identifies the layer variant.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindBox   Kind = "box"
)

// Layer is a timed, positioned, styled visual unit on the timeline.
// The timeline is the sole owner of every Layer instance; renderers and
// UI code hold only transient references.
type Layer interface {
	ID() string
	Kind() Kind

	// Base exposes the shared temporal/spatial/presentation fields.
	Base() *Common

	// VisibleAt reports whether the layer should be drawn at time t.
	// This predicate is the single visibility authority for both the
	// preview and export renderers.
	VisibleAt(t float64) bool
	Duration() float64

	// Properties returns every mutable attribute keyed by property name.
	Properties() map[string]any

	// SetProperty mutates a named attribute. It returns false for names
	// outside the variant's property set or values of the wrong type.
	SetProperty(name string, value any) bool

	// Snapshot returns a flat, renderer-agnostic copy of the layer.
	Snapshot() Snapshot
}

// Common holds the fields shared by every layer variant.
type Common struct {
	LayerID   string
	StartTime float64
	EndTime   float64
	X         float64
	Y         float64
	Width     float64
	Height    float64
	ZIndex    int
	Opacity   float64
	Visible   bool
}

func newCommon(id string, start, end float64) Common {
	return Common{
		LayerID:   id,
		StartTime: start,
		EndTime:   end,
		X:         100,
		Y:         100,
		Width:     200,
		Height:    100,
		Opacity:   1.0,
		Visible:   true,
	}
}

func (c *Common) ID() string { return c.LayerID }

func (c *Common) VisibleAt(t float64) bool {
	return c.Visible && c.StartTime <= t && t <= c.EndTime
}

func (c *Common) Duration() float64 {
	return c.EndTime - c.StartTime
}

// properties merges the shared attributes into m.
func (c *Common) properties(m map[string]any) map[string]any {
	m["x"] = c.X
	m["y"] = c.Y
	m["width"] = c.Width
	m["height"] = c.Height
	m["start_time"] = c.StartTime
	m["end_time"] = c.EndTime
	m["z_index"] = c.ZIndex
	m["opacity"] = c.Opacity
	m["visible"] = c.Visible
	return m
}

// setCommon handles the shared property names. The second result reports
// whether the name belongs to the shared set at all.
func (c *Common) setCommon(name string, value any) (ok, handled bool) {
	switch name {
	case "x":
		return setFloat(&c.X, value), true
	case "y":
		return setFloat(&c.Y, value), true
	case "width":
		return setFloat(&c.Width, value), true
	case "height":
		return setFloat(&c.Height, value), true
	case "start_time":
		return setFloat(&c.StartTime, value), true
	case "end_time":
		return setFloat(&c.EndTime, value), true
	case "z_index":
		return setInt(&c.ZIndex, value), true
	case "opacity":
		return setFloat(&c.Opacity, value), true
	case "visible":
		return setBool(&c.Visible, value), true
	}
	return false, false
}

// Numeric properties arrive as float64 from JSON, as int from UI spinners
// and as literal types from tests, so the setters coerce across the
// common numeric kinds instead of requiring an exact match.

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func setFloat(dst *float64, v any) bool {
	f, ok := asFloat(v)
	if !ok {
		return false
	}
	*dst = f
	return true
}

func setInt(dst *int, v any) bool {
	f, ok := asFloat(v)
	if !ok {
		return false
	}
	*dst = int(f)
	return true
}

func setBool(dst *bool, v any) bool {
	b, ok := v.(bool)
	if !ok {
		return false
	}
	*dst = b
	return true
}

func setString(dst *string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*dst = s
	return true
}

// Validate reports obviously broken timing. End before start is not
// rejected by the setters (the UI clamps interactively) but renderers
// treat such layers as never visible.
func Validate(l Layer) error {
	c := l.Base()
	if c.EndTime < c.StartTime {
		return fmt.Errorf("layer %s: end_time %.3f before start_time %.3f",
			c.LayerID, c.EndTime, c.StartTime)
	}
	return nil
}
