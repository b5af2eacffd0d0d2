package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// ErrOutOfBounds is returned (wrapped) when a tile doesn't fit entirely
// inside its layer canvas.
var ErrOutOfBounds = errors.New("tile out of canvas bounds")

// Canvas is the full resolution image of one layer.
type Canvas struct {
	Layer int
	img   draw.Image
}

// NewCanvas returns a blank (black) canvas of the given size.
func NewCanvas(layer, width, height int, gray bool) *Canvas {
	r := image.Rect(0, 0, width, height)
	if gray {
		return &Canvas{Layer: layer, img: image.NewGray(r)}
	}

	img := image.NewRGBA(r)
	draw.Draw(img, r, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	return &Canvas{Layer: layer, img: img}
}

// Image returns the underlying image
func (c *Canvas) Image() image.Image {
	return c.img
}

// Paste draws `src` with it's top left corner at `at`, converting to the
// canvas color model. Anything already there is replaced.
func (c *Canvas) Paste(src image.Image, at image.Point) error {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	if !r.In(c.img.Bounds()) {
		return fmt.Errorf("%w: paste %v onto layer %d %v", ErrOutOfBounds, r, c.Layer, c.img.Bounds())
	}

	draw.Draw(c.img, r, src, sb.Min, draw.Src)
	return nil
}

// Mosaic holds one canvas per layer, indexed by layer id.
type Mosaic struct {
	cfg      Config
	canvases []*Canvas
}

// NewMosaic allocates blank full resolution canvases for every layer in cfg.
func NewMosaic(cfg Config) *Mosaic {
	m := &Mosaic{cfg: cfg, canvases: make([]*Canvas, len(cfg.Layers))}
	for i, l := range cfg.Layers {
		m.canvases[i] = NewCanvas(i, l.Width, l.Height, cfg.Gray)
	}
	return m
}

// Canvas returns the canvas for the given layer
func (m *Mosaic) Canvas(layer int) *Canvas {
	return m.canvases[layer]
}

// Paste the image of tile `t` to it's grid position.
func (m *Mosaic) Paste(t TileName, src image.Image) error {
	if err := m.cfg.checkCell(t.Layer, t.X, t.Y); err != nil {
		return fmt.Errorf("%s: %w", t.Path, err)
	}

	r := m.cfg.TileRect(t.Layer, t.X, t.Y, 1)
	if src.Bounds().Dx() != r.Dx() || src.Bounds().Dy() != r.Dy() {
		return fmt.Errorf("%s: tile is %dx%d, expected %dx%d", t.Path, src.Bounds().Dx(), src.Bounds().Dy(), r.Dx(), r.Dy())
	}
	return m.canvases[t.Layer].Paste(src, r.Min)
}

// Scaled returns the layer canvas resized by `scale` using bicubic sampling.
// Always computed from the full resolution canvas.
func (m *Mosaic) Scaled(layer int, scale float64) image.Image {
	w, h := m.cfg.CanvasSize(layer, scale)
	return ScaleImage(m.canvases[layer].img, w, h)
}

// ScaleImage resizes `in` to exactly w x h (bicubic). An image already that
// size is returned as is.
func ScaleImage(in image.Image, w, h int) image.Image {
	b := in.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return in
	}
	return resize.Resize(uint(w), uint(h), in, resize.Bicubic)
}

// Crop copies rectangle `r` out of `in` into a new image with it's origin at
// (0,0). The rectangle must lie inside `in`.
func Crop(in image.Image, r image.Rectangle) (image.Image, error) {
	if !r.In(in.Bounds()) {
		return nil, fmt.Errorf("%w: crop %v from %v", ErrOutOfBounds, r, in.Bounds())
	}

	out := newLike(in, image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), in, r.Min, draw.Src)
	return out, nil
}

// ConvertMode returns `in` in the same color mode as our canvases.
func ConvertMode(in image.Image, gray bool) image.Image {
	b := in.Bounds()
	var out draw.Image
	if gray {
		if g, ok := in.(*image.Gray); ok {
			return g
		}
		out = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	} else {
		if rgba, ok := in.(*image.RGBA); ok {
			return rgba
		}
		out = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(out, out.Bounds(), in, b.Min, draw.Src)
	return out
}

// newLike makes an empty image of the same kind as `in`
func newLike(in image.Image, r image.Rectangle) draw.Image {
	switch in.(type) {
	case *image.Gray:
		return image.NewGray(r)
	case *image.Gray16:
		return image.NewGray16(r)
	case *image.NRGBA:
		return image.NewNRGBA(r)
	case *image.RGBA64:
		return image.NewRGBA64(r)
	}
	return image.NewRGBA(r)
}
