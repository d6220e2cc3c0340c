package layer

import (
	"encoding/json"
	"testing"
)

func TestVisibleAt(t *testing.T) {
	l := NewTextLayer("text_1", "Hello", 1.0, 5.0)

	cases := []struct {
		time float64
		want bool
	}{
		{0.0, false},
		{1.0, true}, // inclusive start
		{3.0, true},
		{5.0, true}, // inclusive end
		{5.1, false},
	}
	for _, c := range cases {
		if got := l.VisibleAt(c.time); got != c.want {
			t.Errorf("VisibleAt(%.1f) = %v, want %v", c.time, got, c.want)
		}
	}

	l.Visible = false
	if l.VisibleAt(3.0) {
		t.Error("hidden layer must not be visible at any time")
	}
}

func TestSetPropertyUnknownName(t *testing.T) {
	l := NewBoxLayer("box_1", 0, 5)
	if l.SetProperty("image_path", "x.png") {
		t.Error("box layer accepted an image property")
	}
	if l.SetProperty("nope", 1) {
		t.Error("unknown property accepted")
	}
}

func TestSetPropertyWrongType(t *testing.T) {
	l := NewTextLayer("text_1", "hi", 0, 5)
	if l.SetProperty("text", 42) {
		t.Error("int accepted for string property")
	}
	if l.SetProperty("bold", "yes") {
		t.Error("string accepted for bool property")
	}
	if !l.SetProperty("font_size", 32.0) {
		t.Error("float64 must coerce into int property")
	}
	if l.FontSize != 32 {
		t.Errorf("font_size = %d, want 32", l.FontSize)
	}
}

func TestSetPropertyCommonFields(t *testing.T) {
	l := NewBoxLayer("box_1", 0, 5)
	for name, val := range map[string]any{
		"x": 10.0, "y": 20.0, "width": 300.0, "height": 150.0,
		"opacity": 0.7, "visible": false, "z_index": 4,
	} {
		if !l.SetProperty(name, val) {
			t.Errorf("SetProperty(%q) failed", name)
		}
	}
	if l.X != 10 || l.Y != 20 || l.Width != 300 || l.Height != 150 {
		t.Errorf("geometry not applied: %+v", l.Common)
	}
	if l.ZIndex != 4 || l.Opacity != 0.7 || l.Visible {
		t.Errorf("presentation not applied: %+v", l.Common)
	}
}

func TestImageFitModeValidation(t *testing.T) {
	l := NewImageLayer("image_1", "", 0, 5)
	if l.SetProperty("fit_mode", "sideways") {
		t.Error("invalid fit mode accepted")
	}
	if !l.SetProperty("fit_mode", "fit") {
		t.Error("valid fit mode rejected")
	}
	if l.FitMode != FitFit {
		t.Errorf("fit mode = %s, want fit", l.FitMode)
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	l := NewImageLayer("image_1", "", 0, 5)
	if l.LoadImage("/nonexistent/picture.png") {
		t.Error("load of missing file reported success")
	}
	if l.HasImage() {
		t.Error("missing file left image data behind")
	}
	// The layer keeps the path so a later reload can succeed.
	if l.Path != "/nonexistent/picture.png" {
		t.Errorf("path = %q", l.Path)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := NewTextLayer("text_3", "Chapter One", 2.0, 9.5)
	src.FontSize = 48
	src.FontColor = "#FFCC00"
	src.Bold = true
	src.ZIndex = 7
	src.X, src.Y = 40, 900

	data, err := json.Marshal(src.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	got, ok := restored.(*TextLayer)
	if !ok {
		t.Fatalf("restored kind = %s", restored.Kind())
	}
	if got.Text != src.Text || got.FontSize != src.FontSize || !got.Bold {
		t.Errorf("text attributes lost: %+v", got)
	}
	if got.ZIndex != 7 || got.X != 40 || got.StartTime != 2.0 || got.EndTime != 9.5 {
		t.Errorf("common attributes lost: %+v", got.Common)
	}
}

func TestFromSnapshotUnknownType(t *testing.T) {
	if _, err := FromSnapshot(Snapshot{Type: "triangle", LayerID: "t_1"}); err == nil {
		t.Error("unknown type tag must be rejected")
	}
}

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#FF8000")
	if !ok || c.R != 0xFF || c.G != 0x80 || c.B != 0x00 {
		t.Errorf("parse = %+v ok=%v", c, ok)
	}
	if _, ok := ParseHexColor("red"); ok {
		t.Error("malformed color accepted")
	}
	if _, ok := ParseHexColor("#FFF"); ok {
		t.Error("short color accepted")
	}
}
