package timeline

import (
	"github.com/google/uuid"

	"github.com/kikiluvv/slopstudio/internal/layer"
)

// Default geometry for imported image sequences: full-width slot below
// the caption band on the 720x1280 canvas.
var defaultSequenceRect = Rect{X: 0, Y: 120, W: 720, H: 1050}

// Rect is a shared position/size for an imported image sequence.
type Rect struct {
	X, Y, W, H float64
}

// groupProperties is the broadcast allow-list: the only properties a
// group edit may fan out to sibling layers. Content properties such as
// the source path stay per-layer.
var groupProperties = map[string]bool{
	"x":               true,
	"y":               true,
	"width":           true,
	"height":          true,
	"fit_mode":        true,
	"rotation":        true,
	"flip_horizontal": true,
	"flip_vertical":   true,
}

// AddSequentialImages imports paths as a slideshow: each image gets a
// contiguous [start, start+durPerImage) slot appended after the latest
// existing non-text layer. All created layers share one group token and
// inherit geometry from the first, and every existing text layer is
// stretched to the new total duration so captions span the slideshow.
//
// Individual load failures are logged by the layer and do not abort the
// batch; the failed image still occupies its slot as a placeholder.
func (tl *Timeline) AddSequentialImages(paths []string, durPerImage float64, geom *Rect) []*layer.ImageLayer {
	if len(paths) == 0 || durPerImage <= 0 {
		return nil
	}
	r := defaultSequenceRect
	if geom != nil {
		r = *geom
	}

	// Text layers are excluded so captions never push the sequence
	// forward in time.
	start := 0.0
	for _, l := range tl.layers {
		if l.Kind() == layer.KindText {
			continue
		}
		if end := l.Base().EndTime; end > start {
			start = end
		}
	}

	groupID := uuid.NewString()
	created := make([]*layer.ImageLayer, 0, len(paths))

	for i, path := range paths {
		s := start + float64(i)*durPerImage
		l := tl.CreateImageLayer(path, s, s+durPerImage)
		l.GroupID = groupID
		if i == 0 {
			l.X, l.Y = r.X, r.Y
			l.SetProperty("width", r.W)
			l.SetProperty("height", r.H)
		} else {
			// Inherit geometry and orientation from the first layer so
			// the sequence stays visually consistent.
			first := created[0]
			l.X, l.Y = first.X, first.Y
			l.SetProperty("width", first.Width)
			l.SetProperty("height", first.Height)
			l.SetProperty("fit_mode", string(first.FitMode))
			l.Rotation = first.Rotation
			l.FlipH, l.FlipV = first.FlipH, first.FlipV
		}
		created = append(created, l)
	}

	end := start + float64(len(paths))*durPerImage
	if end > tl.duration {
		tl.SetTotalDuration(end)
	}

	// Captions should span the whole slideshow: stretch every existing
	// text layer's end to the new duration, leaving starts untouched.
	// This deliberately applies to text layers only.
	for _, l := range tl.layers {
		if l.Kind() == layer.KindText {
			l.Base().EndTime = tl.duration
		}
	}

	tl.log.Info().
		Int("images", len(created)).
		Float64("start", start).
		Float64("duration", tl.duration).
		Str("group", groupID).
		Msg("sequential images added")
	return created
}

// ApplyPropertyToGroup broadcasts an allow-listed property change to
// every image layer sharing groupID except excludeID (the layer that
// originated the edit). Non-listed properties are a silent no-op.
// Returns the number of layers updated.
func (tl *Timeline) ApplyPropertyToGroup(groupID, name string, value any, excludeID string) int {
	if groupID == "" || !groupProperties[name] {
		return 0
	}
	applied := 0
	for _, l := range tl.layers {
		img, ok := l.(*layer.ImageLayer)
		if !ok || img.GroupID != groupID || img.ID() == excludeID {
			continue
		}
		if img.SetProperty(name, value) {
			applied++
		}
	}
	return applied
}
