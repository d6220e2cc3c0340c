package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kikiluvv/slopstudio/internal/layer"
)

var (
	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	size   int
	bold   bool
	italic bool
}

// textFace returns a cached face at the requested size and style. Face7x13
// covers the unlikely case of a font parse failure.
func textFace(size int, bold, italic bool) font.Face {
	if size <= 0 {
		size = 24
	}
	key := faceKey{size, bold, italic}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f
	}

	var ttf []byte
	switch {
	case bold && italic:
		ttf = gobolditalic.TTF
	case bold:
		ttf = gobold.TTF
	case italic:
		ttf = goitalic.TTF
	default:
		ttf = goregular.TTF
	}

	var face font.Face = basicfont.Face7x13
	if parsed, err := opentype.Parse(ttf); err == nil {
		if f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			face = f
		}
	}
	faceCache[key] = face
	return face
}

// fillRect alpha-blends a solid color over the rectangle.
func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color, opacity float64) {
	if opacity <= 0 {
		return
	}
	src := image.NewUniform(c)
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(opacity) * 255)})
	draw.DrawMask(dst, r, src, image.Point{}, mask, image.Point{}, draw.Over)
}

// strokeRect draws a border of the given width just inside the rectangle.
func strokeRect(dst *image.RGBA, r image.Rectangle, width int, c color.Color, opacity float64) {
	if width <= 0 {
		return
	}
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c, opacity)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c, opacity)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c, opacity)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c, opacity)
}

// dashedRect draws a dashed or dotted border along the rectangle edges.
func dashedRect(dst *image.RGBA, r image.Rectangle, width, on, off int, c color.Color, opacity float64) {
	for x := r.Min.X; x < r.Max.X; x += on + off {
		end := min(x+on, r.Max.X)
		fillRect(dst, image.Rect(x, r.Min.Y, end, r.Min.Y+width), c, opacity)
		fillRect(dst, image.Rect(x, r.Max.Y-width, end, r.Max.Y), c, opacity)
	}
	for y := r.Min.Y; y < r.Max.Y; y += on + off {
		end := min(y+on, r.Max.Y)
		fillRect(dst, image.Rect(r.Min.X, y, r.Min.X+width, end), c, opacity)
		fillRect(dst, image.Rect(r.Max.X-width, y, r.Max.X, end), c, opacity)
	}
}

func layerRect(st AnimState) image.Rectangle {
	return image.Rect(int(st.X), int(st.Y), int(st.X+st.Width), int(st.Y+st.Height))
}

func paintText(dst *image.RGBA, l *layer.TextLayer) {
	c := l.Base()
	r := image.Rect(int(c.X), int(c.Y), int(c.X+c.Width), int(c.Y+c.Height))

	if l.BgOpacity > 0 {
		if bg, ok := layer.ParseHexColor(l.BgColor); ok {
			fillRect(dst, r, bg.NRGBA(1), l.BgOpacity*c.Opacity)
		}
	}
	if l.BorderWidth > 0 {
		if bc, ok := layer.ParseHexColor(l.BorderColor); ok {
			strokeRect(dst, r, l.BorderWidth, bc.NRGBA(1), c.Opacity)
		}
	}
	if l.Text == "" {
		return
	}

	fg, ok := layer.ParseHexColor(l.FontColor)
	if !ok {
		fg = layer.RGB{R: 255, G: 255, B: 255}
	}
	face := textFace(l.FontSize, l.Bold, l.Italic)
	metrics := face.Metrics()
	textW := font.MeasureString(face, l.Text).Ceil()

	var x int
	switch l.Alignment {
	case "left":
		x = r.Min.X
	case "right":
		x = r.Max.X - textW
	default:
		x = r.Min.X + (r.Dx()-textW)/2
	}
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	y := r.Min.Y + (r.Dy()-ascent-descent)/2 + ascent

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg.NRGBA(c.Opacity)),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(l.Text)

	if l.Underline {
		uy := y + descent/2
		fillRect(dst, image.Rect(x, uy, x+textW, uy+max(1, l.FontSize/16)), fg.NRGBA(1), c.Opacity)
	}
}

func paintBox(dst *image.RGBA, l *layer.BoxLayer) {
	c := l.Base()
	r := image.Rect(int(c.X), int(c.Y), int(c.X+c.Width), int(c.Y+c.Height))
	op := l.FillOpacity * c.Opacity

	fill, ok := layer.ParseHexColor(l.FillColor)
	if !ok {
		fill = layer.RGB{R: 255}
	}

	if l.Gradient {
		// Banded linear gradient, 20 steps.
		to, ok := layer.ParseHexColor(l.GradientColor)
		if !ok {
			to = fill
		}
		const steps = 20
		for i := 0; i < steps; i++ {
			t := float64(i) / float64(steps-1)
			band := fill.Lerp(to, t)
			var br image.Rectangle
			if l.GradientDirection == "vertical" {
				y0 := r.Min.Y + i*r.Dy()/steps
				y1 := r.Min.Y + (i+1)*r.Dy()/steps
				br = image.Rect(r.Min.X, y0, r.Max.X, y1)
			} else {
				x0 := r.Min.X + i*r.Dx()/steps
				x1 := r.Min.X + (i+1)*r.Dx()/steps
				br = image.Rect(x0, r.Min.Y, x1, r.Max.Y)
			}
			fillRect(dst, br, band.NRGBA(1), op)
		}
	} else {
		fillRect(dst, r, fill.NRGBA(1), op)
	}

	if l.BorderWidth > 0 {
		bc, ok := layer.ParseHexColor(l.BorderColor)
		if !ok {
			bc = layer.RGB{}
		}
		switch l.BorderStyle {
		case "dashed":
			dashedRect(dst, r, l.BorderWidth, 8, 5, bc.NRGBA(1), c.Opacity)
		case "dotted":
			dashedRect(dst, r, l.BorderWidth, 2, 3, bc.NRGBA(1), c.Opacity)
		default:
			strokeRect(dst, r, l.BorderWidth, bc.NRGBA(1), c.Opacity)
		}
	}
}

var (
	placeholderFill   = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	placeholderBorder = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	placeholderText   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

func paintImage(dst *image.RGBA, l *layer.ImageLayer, st AnimState) {
	r := layerRect(st)
	if !l.HasImage() {
		fillRect(dst, r, placeholderFill, st.Opacity)
		strokeRect(dst, r, 1, placeholderBorder, st.Opacity)
		face := basicfont.Face7x13
		label := "No Image"
		w := font.MeasureString(face, label).Ceil()
		drawer := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(placeholderText),
			Face: face,
			Dot:  fixed.P(r.Min.X+(r.Dx()-w)/2, r.Min.Y+r.Dy()/2),
		}
		drawer.DrawString(label)
		return
	}

	img := scaledFor(l, st.Width, st.Height)
	if img == nil {
		return
	}
	if st.FlipH || st.FlipV {
		img = flipImage(img, st.FlipH, st.FlipV)
	}
	if rot := math.Mod(st.Rotation, 360); rot != 0 {
		img = rotateImage(img, rot)
	}

	srcW, srcH := l.SourceSize()
	p := layer.FitRegion(srcW, srcH, st.Width, st.Height, l.FitMode)
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(st.Opacity) * 255)})
	b := img.Bounds()

	if p.CropW > 0 && l.FitMode == layer.FitCover {
		// The scaled image is already cropped to the box.
		dr := image.Rect(r.Min.X, r.Min.Y, r.Min.X+b.Dx(), r.Min.Y+b.Dy())
		draw.DrawMask(dst, dr, img, b.Min, mask, image.Point{}, draw.Over)
		return
	}
	dr := image.Rect(
		r.Min.X+p.OffsetX, r.Min.Y+p.OffsetY,
		r.Min.X+p.OffsetX+b.Dx(), r.Min.Y+p.OffsetY+b.Dy(),
	)
	draw.DrawMask(dst, dr, img, b.Min, mask, image.Point{}, draw.Over)
}

// scaledFor returns the layer's cached scaled image when the animation
// state matches the stored box, or recomputes for transient zoom sizes.
func scaledFor(l *layer.ImageLayer, w, h float64) image.Image {
	c := l.Base()
	if w == c.Width && h == c.Height {
		return l.Scaled()
	}
	srcW, srcH := l.SourceSize()
	p := layer.FitRegion(srcW, srcH, w, h, l.FitMode)
	if p.ScaledW <= 0 || p.ScaledH <= 0 {
		return nil
	}
	img := resize.Resize(uint(p.ScaledW), uint(p.ScaledH), l.Original(), resize.Lanczos3)
	if l.FitMode == layer.FitCover && p.CropW > 0 {
		cropped := image.NewRGBA(image.Rect(0, 0, p.CropW, p.CropH))
		draw.Draw(cropped, cropped.Bounds(), img, img.Bounds().Min.Add(image.Pt(p.CropX, p.CropY)), draw.Src)
		return cropped
	}
	return img
}

func flipImage(src image.Image, h, v bool) image.Image {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			sx, sy := x, y
			if h {
				sx = b.Dx() - 1 - x
			}
			if v {
				sy = b.Dy() - 1 - y
			}
			out.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return out
}

// rotateImage rotates around the image center into a same-sized frame,
// sampling nearest neighbor. Corners that fall outside stay transparent.
func rotateImage(src image.Image, degrees float64) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	rad := -degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			sx := int(dx*cos-dy*sin + cx)
			sy := int(dx*sin+dy*cos + cy)
			if sx >= 0 && sx < w && sy >= 0 && sy < h {
				out.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
			}
		}
	}
	return out
}

var selectionColor = color.NRGBA{R: 0, G: 120, B: 215, A: 255}

// drawSelection outlines the selected layer with a dashed border and
// eight resize handles.
func drawSelection(dst *image.RGBA, c *layer.Common) {
	r := image.Rect(int(c.X), int(c.Y), int(c.X+c.Width), int(c.Y+c.Height))
	dashedRect(dst, r.Inset(-2), 2, 6, 4, selectionColor, 1)

	const hs = 8
	midX := (r.Min.X + r.Max.X) / 2
	midY := (r.Min.Y + r.Max.Y) / 2
	for _, pt := range []image.Point{
		{r.Min.X, r.Min.Y}, {midX, r.Min.Y}, {r.Max.X, r.Min.Y},
		{r.Min.X, midY}, {r.Max.X, midY},
		{r.Min.X, r.Max.Y}, {midX, r.Max.Y}, {r.Max.X, r.Max.Y},
	} {
		hr := image.Rect(pt.X-hs/2, pt.Y-hs/2, pt.X+hs/2, pt.Y+hs/2)
		fillRect(dst, hr, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 1)
		strokeRect(dst, hr, 1, selectionColor, 1)
	}
}
