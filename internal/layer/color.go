package layer

import (
	"fmt"
	"image/color"
	"strings"
)

// RGB is a parsed "#RRGGBB" color. Channel order is R,G,B as stored in
// layer properties; the export path converts to the subtitle format's
// B,G,R order separately.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB" (leading '#' optional). Malformed
// strings return false so callers can fall back to a default instead of
// aborting a batch operation.
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, false
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, false
	}
	return c, true
}

// NRGBA returns the color with the given alpha, ready for drawing.
func (c RGB) NRGBA(alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}
}

// Hex formats the color back to "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Lerp blends toward o by ratio t in [0,1].
func (c RGB) Lerp(o RGB, t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return RGB{
		R: uint8(float64(c.R)*(1-t) + float64(o.R)*t),
		G: uint8(float64(c.G)*(1-t) + float64(o.G)*t),
		B: uint8(float64(c.B)*(1-t) + float64(o.B)*t),
	}
}
