package layer

import (
	"image"
	"os"

	// Decoders for the formats the editor imports.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
)

// ImageLayer displays a still image fitted into its bounding box. Image
// layers created together from a multi-image import share a GroupID so
// geometry edits can be broadcast across the sequence.
type ImageLayer struct {
	Common

	Path     string
	FitMode  FitMode
	Rotation float64
	FlipH    bool
	FlipV    bool

	// Declared color adjustments. Neither renderer's compositing path
	// consumes these yet; they round-trip through snapshots.
	Brightness float64
	Contrast   float64
	Saturation float64

	GroupID string

	original image.Image
	scaled   image.Image
}

// NewImageLayer creates an image layer and eagerly decodes the source
// file. Decode failure leaves the layer without image data; renderers
// substitute a placeholder.
func NewImageLayer(id, path string, start, end float64) *ImageLayer {
	l := &ImageLayer{
		Common:     newCommon(id, start, end),
		FitMode:    FitCover,
		Brightness: 1.0,
		Contrast:   1.0,
		Saturation: 1.0,
	}
	if path != "" {
		l.LoadImage(path)
	} else {
		l.Path = path
	}
	return l
}

func (l *ImageLayer) Kind() Kind    { return KindImage }
func (l *ImageLayer) Base() *Common { return &l.Common }

// LoadImage decodes the file at path and recomputes the scaled image.
// Missing files and undecodable formats fail without error propagation;
// the failure is logged and the layer keeps rendering as a placeholder.
func (l *ImageLayer) LoadImage(path string) bool {
	l.Path = path
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("layer", l.LayerID).Str("path", path).Msg("image open failed")
		return false
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Warn().Err(err).Str("layer", l.LayerID).Str("path", path).Msg("image decode failed")
		return false
	}
	l.original = img
	l.updateScaled()
	return true
}

// HasImage reports whether decoded pixel data is available.
func (l *ImageLayer) HasImage() bool { return l.original != nil }

// Original returns the decoded source image, or nil.
func (l *ImageLayer) Original() image.Image { return l.original }

// Scaled returns the image resized (and for cover, cropped) per the
// current bounding box and fit mode, or nil when no image is loaded.
func (l *ImageLayer) Scaled() image.Image {
	if l.scaled == nil && l.original != nil {
		l.updateScaled()
	}
	return l.scaled
}

// SourceSize returns the decoded image dimensions, or zeros.
func (l *ImageLayer) SourceSize() (int, int) {
	if l.original == nil {
		return 0, 0
	}
	b := l.original.Bounds()
	return b.Dx(), b.Dy()
}

// updateScaled recomputes the derived scaled image from the original,
// the target box and the fit mode. Pure function of those inputs.
func (l *ImageLayer) updateScaled() {
	if l.original == nil {
		return
	}
	srcW, srcH := l.SourceSize()
	p := FitRegion(srcW, srcH, l.Width, l.Height, l.FitMode)
	if p.ScaledW <= 0 || p.ScaledH <= 0 {
		l.scaled = nil
		return
	}

	if l.FitMode == FitOriginal {
		l.scaled = l.original
		return
	}

	img := resize.Resize(uint(p.ScaledW), uint(p.ScaledH), l.original, resize.Lanczos3)
	if p.CropW > 0 && p.CropH > 0 {
		cropped := image.NewRGBA(image.Rect(0, 0, p.CropW, p.CropH))
		drawCrop(cropped, img, p.CropX, p.CropY)
		l.scaled = cropped
		return
	}
	l.scaled = img
}

// drawCrop copies a CropW x CropH window of src starting at (cx, cy)
// into dst at the origin.
func drawCrop(dst *image.RGBA, src image.Image, cx, cy int) {
	b := dst.Bounds()
	sb := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			sx, sy := sb.Min.X+cx+x, sb.Min.Y+cy+y
			if sx < sb.Max.X && sy < sb.Max.Y && sx >= sb.Min.X && sy >= sb.Min.Y {
				dst.Set(x, y, src.At(sx, sy))
			}
		}
	}
}

func (l *ImageLayer) Properties() map[string]any {
	return l.Common.properties(map[string]any{
		"image_path":      l.Path,
		"fit_mode":        string(l.FitMode),
		"rotation":        l.Rotation,
		"flip_horizontal": l.FlipH,
		"flip_vertical":   l.FlipV,
		"brightness":      l.Brightness,
		"contrast":        l.Contrast,
		"saturation":      l.Saturation,
	})
}

func (l *ImageLayer) SetProperty(name string, value any) bool {
	if ok, handled := l.Common.setCommon(name, value); handled {
		// Geometry changes invalidate the derived scaled image.
		if ok && (name == "width" || name == "height") {
			l.updateScaled()
		}
		return ok
	}
	switch name {
	case "image_path":
		s, ok := value.(string)
		if !ok {
			return false
		}
		return l.LoadImage(s)
	case "fit_mode":
		s, ok := value.(string)
		if !ok || !ValidFitMode(s) {
			return false
		}
		l.FitMode = FitMode(s)
		l.updateScaled()
		return true
	case "rotation":
		return setFloat(&l.Rotation, value)
	case "flip_horizontal":
		return setBool(&l.FlipH, value)
	case "flip_vertical":
		return setBool(&l.FlipV, value)
	case "brightness":
		return setFloat(&l.Brightness, value)
	case "contrast":
		return setFloat(&l.Contrast, value)
	case "saturation":
		return setFloat(&l.Saturation, value)
	case "group_id":
		return setString(&l.GroupID, value)
	}
	return false
}

func (l *ImageLayer) Snapshot() Snapshot {
	s := snapshotCommon(KindImage, &l.Common)
	s.ImagePath = l.Path
	s.FitMode = string(l.FitMode)
	s.Rotation = l.Rotation
	s.FlipHorizontal = l.FlipH
	s.FlipVertical = l.FlipV
	s.Brightness = l.Brightness
	s.Contrast = l.Contrast
	s.Saturation = l.Saturation
	s.GroupID = l.GroupID
	return s
}
