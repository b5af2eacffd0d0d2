package mosaic

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// RenderLayout draws where each tile on `layer` lands on it's canvas, scaled
// by `scale`. Handy for checking a config before committing to a long run.
// Tiles falling outside the canvas are drawn in red, cells nowhere near it
// are left out.
func RenderLayout(tiles []TileName, cfg Config, layer int, scale float64) (image.Image, error) {
	if !cfg.HasLayer(layer) {
		return nil, fmt.Errorf("%w: no layer %d", ErrInvalidConfig, layer)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidConfig, scale)
	}

	w, h := cfg.CanvasSize(layer, scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: layer %d is empty at scale %v", ErrInvalidConfig, layer, scale)
	}
	bounds := image.Rect(0, 0, w, h)

	dc := gg.NewContext(w, h)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	for _, t := range tiles {
		if t.Layer != layer || cfg.checkCell(layer, t.X, t.Y) != nil {
			continue
		}

		r := cfg.TileRect(layer, t.X, t.Y, scale)
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		if r.In(bounds) {
			dc.SetRGB(0.25, 0.45, 0.7)
		} else {
			dc.SetRGB(0.8, 0.1, 0.1)
		}
		dc.FillPreserve()
		dc.SetRGB(1, 1, 1)
		dc.SetLineWidth(1)
		dc.Stroke()

		cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
		dc.DrawStringAnchored(fmt.Sprintf("%d,%d", t.X, t.Y), float64(cx), float64(cy), 0.5, 0.5)
	}

	// grid origin
	l := cfg.Layers[layer]
	ox, oy := float64(scaleInt(l.CenterX, scale)), float64(scaleInt(l.CenterY, scale))
	dc.SetRGB(1, 0.8, 0)
	dc.SetLineWidth(2)
	dc.DrawLine(ox-10, oy, ox+10, oy)
	dc.DrawLine(ox, oy-10, ox, oy+10)
	dc.Stroke()

	return dc.Image(), nil
}
