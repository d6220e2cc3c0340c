package layer

import "testing"

func TestFitRegionStretch(t *testing.T) {
	p := FitRegion(400, 300, 200, 100, FitStretch)
	if p.ScaledW != 200 || p.ScaledH != 100 {
		t.Errorf("stretch must match box exactly, got %dx%d", p.ScaledW, p.ScaledH)
	}
	if p.CropW != 0 || p.OffsetX != 0 || p.OffsetY != 0 {
		t.Error("stretch must not crop or offset")
	}
}

func TestFitRegionFitNeverExceedsBox(t *testing.T) {
	cases := [][2]int{{400, 300}, {300, 400}, {1920, 1080}, {50, 800}, {1, 1000}}
	for _, c := range cases {
		p := FitRegion(c[0], c[1], 200, 100, FitFit)
		if p.ScaledW > 200 || p.ScaledH > 100 {
			t.Errorf("fit %dx%d exceeded box: %dx%d", c[0], c[1], p.ScaledW, p.ScaledH)
		}
		if p.OffsetX < 0 || p.OffsetY < 0 {
			t.Errorf("fit %dx%d produced negative offset (%d,%d)", c[0], c[1], p.OffsetX, p.OffsetY)
		}
	}
}

func TestFitRegionFillCoversBox(t *testing.T) {
	p := FitRegion(400, 300, 200, 100, FitFill)
	if p.ScaledW < 200 || p.ScaledH < 100 {
		t.Errorf("fill must cover the box, got %dx%d", p.ScaledW, p.ScaledH)
	}
	// Wide source against a wider box: height overflows, centered.
	if p.OffsetY > 0 {
		t.Errorf("fill overflow must center, offsetY = %d", p.OffsetY)
	}
}

func TestFitRegionCoverExactOutput(t *testing.T) {
	// Cover is the only mode with guaranteed exact output size,
	// regardless of source aspect ratio.
	cases := [][2]int{{400, 300}, {300, 400}, {999, 100}, {100, 999}, {720, 1280}}
	for _, c := range cases {
		p := FitRegion(c[0], c[1], 720, 1050, FitCover)
		if p.CropW != 720 || p.CropH != 1050 {
			t.Errorf("cover %dx%d: crop %dx%d, want 720x1050", c[0], c[1], p.CropW, p.CropH)
		}
		if p.ScaledW < p.CropW || p.ScaledH < p.CropH {
			t.Errorf("cover %dx%d: scaled %dx%d smaller than crop", c[0], c[1], p.ScaledW, p.ScaledH)
		}
		if p.CropX < 0 || p.CropY < 0 {
			t.Errorf("cover %dx%d: negative crop origin (%d,%d)", c[0], c[1], p.CropX, p.CropY)
		}
	}
}

func TestFitRegionOriginal(t *testing.T) {
	p := FitRegion(640, 480, 200, 100, FitOriginal)
	if p.ScaledW != 640 || p.ScaledH != 480 {
		t.Errorf("original must not scale, got %dx%d", p.ScaledW, p.ScaledH)
	}
}

func TestFitRegionDegenerateSource(t *testing.T) {
	p := FitRegion(0, 0, 200, 100, FitCover)
	if p.ScaledW != 0 || p.ScaledH != 0 {
		t.Errorf("degenerate source must yield empty placement, got %+v", p)
	}
}
