package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/logging"
)

// TransitionType names the global image transition effect.
type TransitionType string

const (
	TransitionNone      TransitionType = "none"
	TransitionCrossfade TransitionType = "crossfade"
	TransitionFadeBlack TransitionType = "fadeblack"
	TransitionWipeLeft  TransitionType = "wipeleft"
	TransitionWipeRight TransitionType = "wiperight"
	TransitionZoomIn    TransitionType = "zoomin"
	TransitionZoomOut   TransitionType = "zoomout"
	TransitionRotate    TransitionType = "rotate"
	TransitionFlip      TransitionType = "flip"
)

// Transition is the timeline-global image transition configuration.
// It applies to image layers only and is passed explicitly into both
// renderers.
type Transition struct {
	Type     TransitionType `json:"type"`
	Duration float64        `json:"duration"`
}

// Active reports whether the transition does anything at all.
func (t Transition) Active() bool {
	return t.Type != TransitionNone && t.Type != "" && t.Duration > 0
}

// Snapshot is the flat data copy of the whole timeline consumed by the
// export renderer and by project persistence.
type Snapshot struct {
	TotalDuration   float64          `json:"total_duration"`
	FPS             int              `json:"fps"`
	CurrentTime     float64          `json:"current_time"`
	ImageTransition Transition       `json:"image_transition"`
	Layers          []layer.Snapshot `json:"layers"`
}

// Timeline owns the ordered collection of layers plus the global
// playhead, duration and transition state. It must only be mutated from
// the UI goroutine; the export path receives an immutable Snapshot.
type Timeline struct {
	log zerolog.Logger

	layers     []layer.Layer
	current    float64
	duration   float64
	fps        int
	selectedID string
	transition Transition

	// Monotonic id counter. The ids stay sequential per timeline but
	// never collide after a remove-then-add, unlike a length-based id.
	seq int
}

// New creates an empty timeline with a 10 second default duration.
func New(log zerolog.Logger) *Timeline {
	return &Timeline{
		log:      logging.WithComponent(log, "timeline"),
		duration: 10.0,
		fps:      30,
		transition: Transition{
			Type: TransitionNone,
		},
	}
}

// AddLayer appends a layer and re-sorts display order by z-index.
func (tl *Timeline) AddLayer(l layer.Layer) {
	tl.layers = append(tl.layers, l)
	tl.sortByZ()
}

// RemoveLayer deletes the layer with the given id. The selection is
// invalidated when it referenced the removed layer.
func (tl *Timeline) RemoveLayer(id string) bool {
	for i, l := range tl.layers {
		if l.ID() == id {
			tl.layers = append(tl.layers[:i], tl.layers[i+1:]...)
			if tl.selectedID == id {
				tl.selectedID = ""
			}
			return true
		}
	}
	return false
}

// GetLayer returns the layer with the given id, or nil.
func (tl *Timeline) GetLayer(id string) layer.Layer {
	for _, l := range tl.layers {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// LayersAt returns the layers visible at time t. Order is the display
// order as of the last structural mutation; queries do not re-sort.
func (tl *Timeline) LayersAt(t float64) []layer.Layer {
	var out []layer.Layer
	for _, l := range tl.layers {
		if l.VisibleAt(t) {
			out = append(out, l)
		}
	}
	return out
}

// Layers returns a copy of the layer slice in display order.
func (tl *Timeline) Layers() []layer.Layer {
	out := make([]layer.Layer, len(tl.layers))
	copy(out, tl.layers)
	return out
}

// Len returns the number of layers.
func (tl *Timeline) Len() int { return len(tl.layers) }

// SetCurrentTime moves the playhead, clamped to [0, TotalDuration].
func (tl *Timeline) SetCurrentTime(t float64) {
	if t < 0 {
		t = 0
	}
	if t > tl.duration {
		t = tl.duration
	}
	tl.current = t
}

func (tl *Timeline) CurrentTime() float64 { return tl.current }

// SetTotalDuration sets the project duration, floored at 1 second.
func (tl *Timeline) SetTotalDuration(d float64) {
	if d < 1.0 {
		d = 1.0
	}
	tl.duration = d
	if tl.current > d {
		tl.current = d
	}
}

func (tl *Timeline) TotalDuration() float64 { return tl.duration }

func (tl *Timeline) FPS() int { return tl.fps }

func (tl *Timeline) SetFPS(fps int) {
	if fps > 0 {
		tl.fps = fps
	}
}

// SelectLayer marks the layer with the given id as selected.
func (tl *Timeline) SelectLayer(id string) bool {
	if tl.GetLayer(id) == nil {
		return false
	}
	tl.selectedID = id
	return true
}

// SelectedLayer returns the selected layer, or nil.
func (tl *Timeline) SelectedLayer() layer.Layer {
	if tl.selectedID == "" {
		return nil
	}
	return tl.GetLayer(tl.selectedID)
}

func (tl *Timeline) ClearSelection() { tl.selectedID = "" }

// MoveLayerUp nudges the layer one z step toward the front.
func (tl *Timeline) MoveLayerUp(id string) bool {
	l := tl.GetLayer(id)
	if l == nil {
		return false
	}
	l.Base().ZIndex++
	tl.sortByZ()
	return true
}

// MoveLayerDown nudges the layer one z step toward the back.
func (tl *Timeline) MoveLayerDown(id string) bool {
	l := tl.GetLayer(id)
	if l == nil {
		return false
	}
	l.Base().ZIndex--
	tl.sortByZ()
	return true
}

// SetZIndex assigns an explicit z-index and re-sorts display order.
func (tl *Timeline) SetZIndex(id string, z int) bool {
	l := tl.GetLayer(id)
	if l == nil {
		return false
	}
	l.Base().ZIndex = z
	tl.sortByZ()
	return true
}

// sortByZ orders layers ascending by z-index. The sort is stable so
// z-index ties keep their prior relative order.
func (tl *Timeline) sortByZ() {
	sort.SliceStable(tl.layers, func(i, j int) bool {
		return tl.layers[i].Base().ZIndex < tl.layers[j].Base().ZIndex
	})
}

func (tl *Timeline) nextID(prefix string) string {
	tl.seq++
	return fmt.Sprintf("%s_%d", prefix, tl.seq)
}

// topZ returns a z-index above every existing layer.
func (tl *Timeline) topZ() int {
	z := 0
	for _, l := range tl.layers {
		if l.Base().ZIndex >= z {
			z = l.Base().ZIndex + 1
		}
	}
	return z
}

// CreateTextLayer adds a new text layer at the top of the z-order.
func (tl *Timeline) CreateTextLayer(text string, start, end float64) *layer.TextLayer {
	l := layer.NewTextLayer(tl.nextID("text"), text, start, end)
	l.ZIndex = tl.topZ()
	tl.AddLayer(l)
	return l
}

// CreateImageLayer adds a new image layer at the top of the z-order.
func (tl *Timeline) CreateImageLayer(path string, start, end float64) *layer.ImageLayer {
	l := layer.NewImageLayer(tl.nextID("image"), path, start, end)
	l.ZIndex = tl.topZ()
	tl.AddLayer(l)
	return l
}

// CreateBoxLayer adds a new box layer at the top of the z-order.
func (tl *Timeline) CreateBoxLayer(start, end float64) *layer.BoxLayer {
	l := layer.NewBoxLayer(tl.nextID("box"), start, end)
	l.ZIndex = tl.topZ()
	tl.AddLayer(l)
	return l
}

func (tl *Timeline) Transition() Transition { return tl.transition }

func (tl *Timeline) SetTransition(t Transition) {
	if t.Type == "" {
		t.Type = TransitionNone
	}
	tl.transition = t
}

// Export produces the flat snapshot consumed by the export renderer and
// by project save. Layers appear in display order.
func (tl *Timeline) Export() Snapshot {
	snap := Snapshot{
		TotalDuration:   tl.duration,
		FPS:             tl.fps,
		CurrentTime:     tl.current,
		ImageTransition: tl.transition,
		Layers:          make([]layer.Snapshot, 0, len(tl.layers)),
	}
	for _, l := range tl.layers {
		snap.Layers = append(snap.Layers, l.Snapshot())
	}
	return snap
}

// Import replaces the timeline contents from a snapshot. Layers are
// reconstructed into a staging slice first, so a failed import leaves
// the timeline untouched.
func (tl *Timeline) Import(snap Snapshot) bool {
	staged := make([]layer.Layer, 0, len(snap.Layers))
	for _, ls := range snap.Layers {
		l, err := layer.FromSnapshot(ls)
		if err != nil {
			tl.log.Error().Err(err).Msg("import failed")
			return false
		}
		staged = append(staged, l)
	}

	tl.layers = staged
	tl.selectedID = ""
	tl.SetTotalDuration(snap.TotalDuration)
	tl.SetFPS(snap.FPS)
	tl.SetCurrentTime(snap.CurrentTime)
	tl.SetTransition(snap.ImageTransition)
	tl.sortByZ()

	// Keep the id counter ahead of any imported numeric suffix so new
	// layers never collide with loaded ones.
	for _, l := range staged {
		if n := idSuffix(l.ID()); n > tl.seq {
			tl.seq = n
		}
	}
	return true
}

// idSuffix extracts the trailing numeric part of an id like "text_3",
// or 0 when there is none.
func idSuffix(id string) int {
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// SaveProject writes the timeline snapshot as JSON.
func (tl *Timeline) SaveProject(path string) error {
	data, err := json.MarshalIndent(tl.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// LoadProject reads a JSON project file into the timeline.
func (tl *Timeline) LoadProject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode project: %w", err)
	}
	if !tl.Import(snap) {
		return fmt.Errorf("import project %s: bad layer data", path)
	}
	return nil
}

// LayerInfo is a compact per-layer row for timeline listings.
type LayerInfo struct {
	ID        string
	Kind      layer.Kind
	StartTime float64
	EndTime   float64
	ZIndex    int
	Visible   bool
}

// Summary lists every layer in display order for UI panels.
func (tl *Timeline) Summary() []LayerInfo {
	out := make([]LayerInfo, 0, len(tl.layers))
	for _, l := range tl.layers {
		c := l.Base()
		out = append(out, LayerInfo{
			ID:        l.ID(),
			Kind:      l.Kind(),
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			ZIndex:    c.ZIndex,
			Visible:   c.Visible,
		})
	}
	return out
}
