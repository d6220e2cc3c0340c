package preview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/logging"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

// Renderer composites timeline layers into raster frames at the canvas
// resolution. It holds no per-frame state; every Frame call reads the
// timeline fresh.
type Renderer struct {
	log    zerolog.Logger
	width  int
	height int
}

// NewRenderer creates a preview renderer for the given canvas size.
func NewRenderer(log zerolog.Logger, width, height int) *Renderer {
	return &Renderer{
		log:    logging.WithComponent(log, "preview"),
		width:  width,
		height: height,
	}
}

// Frame renders the timeline at its current playhead onto a black canvas.
func (r *Renderer) Frame(tl *timeline.Timeline) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	t := tl.CurrentTime()
	trans := tl.Transition()

	// A crossfade in its overlap window blends exactly two images; all
	// other content yields the frame to the dissolve.
	if trans.Active() && trans.Type == timeline.TransitionCrossfade {
		if cur, next, curOp, nextOp, ok := crossfadePair(tl.Layers(), trans, t); ok {
			r.paintSafe(frame, next, animStateAt(next, nextOp))
			r.paintSafe(frame, cur, animStateAt(cur, curOp))
			return frame
		}
	}

	for _, l := range tl.LayersAt(t) {
		r.paintLayer(frame, l, trans, t)
	}

	if sel := tl.SelectedLayer(); sel != nil && sel.VisibleAt(t) {
		drawSelection(frame, sel.Base())
	}
	return frame
}

// paintLayer dispatches on the layer variant. Image layers run through
// the transition animation first.
func (r *Renderer) paintLayer(dst *image.RGBA, l layer.Layer, trans timeline.Transition, t float64) {
	switch v := l.(type) {
	case *layer.ImageLayer:
		st := Animate(v, trans, t)
		if st.Opacity <= 0 {
			return
		}
		r.paintSafe(dst, v, st)
	case *layer.TextLayer:
		r.paintSafe(dst, v, AnimState{})
	case *layer.BoxLayer:
		r.paintSafe(dst, v, AnimState{})
	}
}

// paintSafe isolates one layer's paint: a panic is logged and the rest
// of the frame still renders.
func (r *Renderer) paintSafe(dst *image.RGBA, l layer.Layer, st AnimState) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn().Str("layer", l.ID()).Interface("panic", p).Msg("layer paint failed")
		}
	}()
	switch v := l.(type) {
	case *layer.ImageLayer:
		paintImage(dst, v, st)
	case *layer.TextLayer:
		paintText(dst, v)
	case *layer.BoxLayer:
		paintBox(dst, v)
	}
}

// animStateAt is the rest-geometry state at an explicit opacity, used by
// the crossfade blend path.
func animStateAt(l *layer.ImageLayer, opacity float64) AnimState {
	c := l.Base()
	return AnimState{
		Opacity:  opacity,
		X:        c.X,
		Y:        c.Y,
		Width:    c.Width,
		Height:   c.Height,
		Rotation: l.Rotation,
		FlipH:    l.FlipH,
		FlipV:    l.FlipV,
	}
}

// LayerAt returns the topmost visible layer containing the canvas point,
// or nil. Paint order is display order, so the scan runs back to front.
func LayerAt(tl *timeline.Timeline, x, y float64) layer.Layer {
	visible := tl.LayersAt(tl.CurrentTime())
	for i := len(visible) - 1; i >= 0; i-- {
		c := visible[i].Base()
		if x >= c.X && x <= c.X+c.Width && y >= c.Y && y <= c.Y+c.Height {
			return visible[i]
		}
	}
	return nil
}
