package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopstudio/internal/layer"
)

func newTestTimeline() *Timeline {
	return New(zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestVisibleLayersScenario(t *testing.T) {
	tl := newTestTimeline()
	txt := tl.CreateTextLayer("Hello", 0.0, 5.0)
	txt.X, txt.Y, txt.Width, txt.Height = 10, 10, 100, 50
	box := tl.CreateBoxLayer(2.0, 8.0)
	box.X, box.Y, box.Width, box.Height = 200, 200, 200, 150

	if got := len(tl.LayersAt(3.0)); got != 2 {
		t.Errorf("at t=3.0: %d layers, want 2", got)
	}
	at6 := tl.LayersAt(6.0)
	if len(at6) != 1 || at6[0].Kind() != layer.KindBox {
		t.Errorf("at t=6.0: %v, want only the box", at6)
	}
	if got := len(tl.LayersAt(9.0)); got != 0 {
		t.Errorf("at t=9.0: %d layers, want 0", got)
	}
}

func TestZOrderStable(t *testing.T) {
	tl := newTestTimeline()
	a := tl.CreateBoxLayer(0, 5)
	b := tl.CreateBoxLayer(0, 5)
	c := tl.CreateBoxLayer(0, 5)

	// Collapse everything onto one z-index: insertion order must hold.
	for _, id := range []string{a.ID(), b.ID(), c.ID()} {
		tl.SetZIndex(id, 0)
	}
	order := tl.Layers()
	if order[0].ID() != a.ID() || order[1].ID() != b.ID() || order[2].ID() != c.ID() {
		t.Errorf("tie order changed: %s %s %s", order[0].ID(), order[1].ID(), order[2].ID())
	}

	tl.SetZIndex(a.ID(), 10)
	order = tl.Layers()
	if order[2].ID() != a.ID() {
		t.Errorf("raised layer not last: %s", order[2].ID())
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	tl := newTestTimeline()
	t1 := tl.CreateTextLayer("a", 0, 5)
	tl.RemoveLayer(t1.ID())
	t2 := tl.CreateTextLayer("b", 0, 5)
	if t1.ID() == t2.ID() {
		t.Errorf("id %s reused after removal", t1.ID())
	}
}

func TestSelectionClearedOnRemove(t *testing.T) {
	tl := newTestTimeline()
	b := tl.CreateBoxLayer(0, 5)
	if !tl.SelectLayer(b.ID()) {
		t.Fatal("select failed")
	}
	tl.RemoveLayer(b.ID())
	if tl.SelectedLayer() != nil {
		t.Error("selection survived layer removal")
	}
}

func TestAddSequentialImages(t *testing.T) {
	tl := newTestTimeline()
	created := tl.AddSequentialImages([]string{"a.jpg", "b.jpg", "c.jpg"}, 3.0, nil)
	if len(created) != 3 {
		t.Fatalf("created %d layers, want 3", len(created))
	}

	wantStarts := []float64{0, 3, 6}
	for i, l := range created {
		if l.StartTime != wantStarts[i] || l.EndTime != wantStarts[i]+3 {
			t.Errorf("slot %d: [%.1f, %.1f], want [%.1f, %.1f]",
				i, l.StartTime, l.EndTime, wantStarts[i], wantStarts[i]+3)
		}
		if l.GroupID == "" || l.GroupID != created[0].GroupID {
			t.Errorf("slot %d: group %q, want shared non-empty token", i, l.GroupID)
		}
	}
	if tl.TotalDuration() < 9 {
		t.Errorf("duration %.1f, want >= 9", tl.TotalDuration())
	}
	if created[0].X != 0 || created[0].Y != 120 || created[0].Width != 720 || created[0].Height != 1050 {
		t.Errorf("default geometry not applied: %+v", created[0].Common)
	}
}

func TestSequentialImagesStartAfterNonTextLayers(t *testing.T) {
	tl := newTestTimeline()
	tl.CreateBoxLayer(0, 4.5)
	txt := tl.CreateTextLayer("caption", 0, 2.0)
	created := tl.AddSequentialImages([]string{"a.jpg"}, 3.0, nil)

	// Box pushes the sequence to 4.5; the text layer must not.
	if created[0].StartTime != 4.5 {
		t.Errorf("start %.1f, want 4.5", created[0].StartTime)
	}
	// Existing captions stretch to the new duration, start untouched.
	if txt.StartTime != 0 || txt.EndTime != tl.TotalDuration() {
		t.Errorf("text [%.1f, %.1f], want [0, %.1f]", txt.StartTime, txt.EndTime, tl.TotalDuration())
	}
}

func TestApplyPropertyToGroup(t *testing.T) {
	tl := newTestTimeline()
	created := tl.AddSequentialImages([]string{"a.jpg", "b.jpg", "c.jpg"}, 3.0, nil)
	gid := created[0].GroupID

	n := tl.ApplyPropertyToGroup(gid, "width", 500.0, created[0].ID())
	if n != 2 {
		t.Errorf("applied to %d layers, want 2", n)
	}
	if created[0].Width == 500 {
		t.Error("originating layer must be excluded from broadcast")
	}
	for _, l := range created[1:] {
		if l.Width != 500 {
			t.Errorf("%s width %.0f, want 500", l.ID(), l.Width)
		}
	}

	// Non-allow-listed property is a silent no-op on all members.
	if n := tl.ApplyPropertyToGroup(gid, "image_path", "x.png", ""); n != 0 {
		t.Errorf("disallowed property applied to %d layers", n)
	}
	for _, l := range created {
		if l.Path == "x.png" {
			t.Errorf("%s path overwritten by group broadcast", l.ID())
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tl := newTestTimeline()
	txt := tl.CreateTextLayer("Hello", 0, 5)
	txt.FontSize = 40
	box := tl.CreateBoxLayer(2, 8)
	box.FillColor = "#3366CC"
	tl.AddSequentialImages([]string{"missing.jpg"}, 3.0, nil)
	tl.SetTransition(Transition{Type: TransitionCrossfade, Duration: 0.5})
	tl.SetCurrentTime(4.2)

	other := newTestTimeline()
	if !other.Import(tl.Export()) {
		t.Fatal("import failed")
	}
	if other.Len() != tl.Len() {
		t.Fatalf("layer count %d, want %d", other.Len(), tl.Len())
	}
	if other.TotalDuration() != tl.TotalDuration() || other.CurrentTime() != 4.2 {
		t.Errorf("timing lost: dur %.1f time %.1f", other.TotalDuration(), other.CurrentTime())
	}
	if other.Transition() != tl.Transition() {
		t.Errorf("transition lost: %+v", other.Transition())
	}
	for i, l := range other.Layers() {
		orig := tl.Layers()[i]
		if l.Kind() != orig.Kind() || l.ID() != orig.ID() {
			t.Errorf("layer %d: %s/%s, want %s/%s", i, l.Kind(), l.ID(), orig.Kind(), orig.ID())
		}
	}
	got := other.GetLayer(txt.ID()).(*layer.TextLayer)
	if got.Text != "Hello" || got.FontSize != 40 {
		t.Errorf("text attributes lost: %+v", got)
	}
}

func TestImportThenCreateKeepsIDsUnique(t *testing.T) {
	tl := newTestTimeline()
	tl.CreateTextLayer("one", 0, 5)
	tl.CreateTextLayer("two", 0, 5)
	survivor := tl.CreateTextLayer("three", 0, 5)
	tl.RemoveLayer("text_1")
	tl.RemoveLayer("text_2")

	// The snapshot's only layer is text_3; a fresh timeline importing it
	// must never mint that id again.
	loaded := newTestTimeline()
	if !loaded.Import(tl.Export()) {
		t.Fatal("import failed")
	}
	if loaded.GetLayer(survivor.ID()) == nil {
		t.Fatalf("imported layer %s missing", survivor.ID())
	}

	seen := map[string]bool{survivor.ID(): true}
	for i := 0; i < 2; i++ {
		l := loaded.CreateTextLayer("new", 0, 5)
		if seen[l.ID()] {
			t.Fatalf("duplicate layer id %q after import", l.ID())
		}
		seen[l.ID()] = true
	}
}

func TestImportFailureLeavesTimelineUnchanged(t *testing.T) {
	tl := newTestTimeline()
	tl.CreateTextLayer("keep me", 0, 5)

	bad := Snapshot{
		TotalDuration: 20,
		Layers:        []layer.Snapshot{{Type: "hologram", LayerID: "h_1"}},
	}
	if tl.Import(bad) {
		t.Fatal("import of unknown layer type succeeded")
	}
	if tl.Len() != 1 || tl.TotalDuration() != 10 {
		t.Errorf("failed import mutated timeline: %d layers, %.1fs", tl.Len(), tl.TotalDuration())
	}
}

func TestSaveLoadProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")

	tl := newTestTimeline()
	tl.CreateTextLayer("saved", 1, 6)
	tl.SetTotalDuration(12)
	if err := tl.SaveProject(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := newTestTimeline()
	if err := loaded.LoadProject(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 1 || loaded.TotalDuration() != 12 {
		t.Errorf("loaded %d layers, %.1fs", loaded.Len(), loaded.TotalDuration())
	}
}

func TestCurrentTimeClamped(t *testing.T) {
	tl := newTestTimeline()
	tl.SetCurrentTime(-3)
	if tl.CurrentTime() != 0 {
		t.Errorf("negative time not clamped: %.1f", tl.CurrentTime())
	}
	tl.SetCurrentTime(99)
	if tl.CurrentTime() != tl.TotalDuration() {
		t.Errorf("overshoot not clamped: %.1f", tl.CurrentTime())
	}
}

func TestTotalDurationMinimum(t *testing.T) {
	tl := newTestTimeline()
	tl.SetTotalDuration(0.2)
	if tl.TotalDuration() != 1.0 {
		t.Errorf("duration %.2f, want floor of 1.0", tl.TotalDuration())
	}
}
