package preview

import (
	"sort"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

// AnimState is the draw-time presentation of an image layer under the
// global transition. It is derived from the layer's stored geometry and
// consumed by the paint pass; the layer itself is never written.
type AnimState struct {
	Opacity  float64
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
	FlipH    bool
	FlipV    bool
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Animate computes how an image layer presents at time t given the
// global transition. Every effect is a ramp over the layer's own entry
// window [start, start+d] and exit window [end-d, end], with the layer
// held at rest in between.
func Animate(l *layer.ImageLayer, trans timeline.Transition, t float64) AnimState {
	c := l.Base()
	st := AnimState{
		Opacity:  c.Opacity,
		X:        c.X,
		Y:        c.Y,
		Width:    c.Width,
		Height:   c.Height,
		Rotation: l.Rotation,
		FlipH:    l.FlipH,
		FlipV:    l.FlipV,
	}
	if !trans.Active() {
		return st
	}
	if t < c.StartTime || t > c.EndTime {
		st.Opacity = 0
		return st
	}

	d := trans.Duration
	inEnd := c.StartTime + d
	outStart := c.EndTime - d
	entering := t <= inEnd
	leaving := t > outStart
	pIn := clamp01((t - c.StartTime) / d)
	pOut := clamp01((c.EndTime - t) / d)

	switch trans.Type {
	case timeline.TransitionCrossfade, timeline.TransitionFadeBlack:
		switch {
		case entering:
			st.Opacity = pIn
		case leaving:
			st.Opacity = pOut
		default:
			st.Opacity = 1
		}

	case timeline.TransitionWipeLeft:
		st.Opacity = 1
		switch {
		case entering:
			st.X = c.X + (1-pIn)*c.Width
		case leaving:
			st.X = c.X - (1-pOut)*c.Width
		}

	case timeline.TransitionWipeRight:
		st.Opacity = 1
		switch {
		case entering:
			st.X = c.X - (1-pIn)*c.Width
		case leaving:
			st.X = c.X + (1-pOut)*c.Width
		}

	case timeline.TransitionZoomIn:
		// Grows from a point on entry and shrinks back on exit.
		st.Opacity = 1
		switch {
		case entering:
			st.Width = 1 + (c.Width-1)*pIn
			st.Height = 1 + (c.Height-1)*pIn
		case leaving:
			st.Width = 1 + (c.Width-1)*pOut
			st.Height = 1 + (c.Height-1)*pOut
		}

	case timeline.TransitionZoomOut:
		// Inverse of zoomin: shrinks toward a point over each window.
		st.Opacity = 1
		switch {
		case entering:
			st.Width = c.Width - (c.Width-1)*pIn
			st.Height = c.Height - (c.Height-1)*pIn
		case leaving:
			st.Width = c.Width - (c.Width-1)*pOut
			st.Height = c.Height - (c.Height-1)*pOut
		}

	case timeline.TransitionRotate:
		st.Opacity = 1
		switch {
		case entering:
			st.Rotation = 360 * pIn
		case leaving:
			st.Rotation = 360 * pOut
		default:
			st.Rotation = 0
		}

	case timeline.TransitionFlip:
		// Rapid mirror toggle while entering or leaving.
		st.Opacity = 1
		switch {
		case entering:
			st.FlipH = int(pIn*10)%2 == 1
		case leaving:
			st.FlipH = int(pOut*10)%2 == 1
		default:
			st.FlipH = false
		}
	}
	return st
}

// crossfadePair finds the image layer whose exit window covers t and its
// chronological successor, returning the blend opacities for a true
// two-image dissolve. ok is false outside the overlap window.
func crossfadePair(layers []layer.Layer, trans timeline.Transition, t float64) (cur, next *layer.ImageLayer, curOp, nextOp float64, ok bool) {
	var images []*layer.ImageLayer
	for _, l := range layers {
		if img, isImg := l.(*layer.ImageLayer); isImg {
			images = append(images, img)
		}
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].StartTime < images[j].StartTime
	})

	for i, img := range images {
		if img.StartTime <= t && t <= img.EndTime {
			cur = img
			if i+1 < len(images) {
				next = images[i+1]
			}
			break
		}
	}
	if cur == nil || next == nil {
		return nil, nil, 0, 0, false
	}

	fadeStart := cur.EndTime - trans.Duration
	if t < fadeStart || t > cur.EndTime {
		return nil, nil, 0, 0, false
	}
	p := clamp01((t - fadeStart) / trans.Duration)
	return cur, next, 1 - p, p, true
}
