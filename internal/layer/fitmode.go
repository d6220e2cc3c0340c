package layer

// FitMode is the policy governing how a source image is scaled and
// cropped into its layer's bounding box.
type FitMode string

const (
	FitStretch  FitMode = "stretch"
	FitFit      FitMode = "fit"
	FitFill     FitMode = "fill"
	FitCover    FitMode = "cover"
	FitOriginal FitMode = "original"
)

// ValidFitMode reports whether s names a known fit mode.
func ValidFitMode(s string) bool {
	switch FitMode(s) {
	case FitStretch, FitFit, FitFill, FitCover, FitOriginal:
		return true
	}
	return false
}

// Placement is the result of fitting a source image into a target box.
// CropW/CropH of zero means no crop. Offsets are relative to the box
// origin and may be negative (fill mode overflows its box).
type Placement struct {
	ScaledW, ScaledH int
	CropX, CropY     int
	CropW, CropH     int
	OffsetX, OffsetY int
}

// FitRegion computes scale, crop and placement for a source image of
// srcW x srcH inside a boxW x boxH target under the given fit mode.
//
// Both renderers consume this one function: the preview resizes and
// crops pixels with it, and the export filter builder derives its
// scale/crop/overlay expressions from it. Keeping the geometry in one
// place is what keeps the two renderers pixel-equivalent.
func FitRegion(srcW, srcH int, boxW, boxH float64, mode FitMode) Placement {
	if srcW <= 0 || srcH <= 0 {
		return Placement{}
	}
	bw, bh := int(boxW), int(boxH)

	switch mode {
	case FitStretch:
		return Placement{ScaledW: bw, ScaledH: bh}

	case FitFit:
		scale := minf(boxW/float64(srcW), boxH/float64(srcH))
		sw, sh := int(float64(srcW)*scale), int(float64(srcH)*scale)
		return Placement{
			ScaledW: sw, ScaledH: sh,
			OffsetX: (bw - sw) / 2,
			OffsetY: (bh - sh) / 2,
		}

	case FitFill:
		scale := maxf(boxW/float64(srcW), boxH/float64(srcH))
		sw, sh := int(float64(srcW)*scale), int(float64(srcH)*scale)
		return Placement{
			ScaledW: sw, ScaledH: sh,
			OffsetX: (bw - sw) / 2,
			OffsetY: (bh - sh) / 2,
		}

	case FitCover:
		scale := maxf(boxW/float64(srcW), boxH/float64(srcH))
		sw, sh := int(float64(srcW)*scale), int(float64(srcH)*scale)
		// Center-crop back to the exact box. Cover is the only mode
		// guaranteed to produce exactly boxW x boxH output.
		return Placement{
			ScaledW: sw, ScaledH: sh,
			CropX: (sw - bw) / 2,
			CropY: (sh - bh) / 2,
			CropW: bw, CropH: bh,
		}

	default: // FitOriginal and anything unrecognized
		return Placement{ScaledW: srcW, ScaledH: srcH}
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
