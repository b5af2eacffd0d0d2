/*
Package mosaic stitches screen sized tiles named <layer>_<x>_<y>.<ext> into
one large canvas per layer, then cuts each canvas back up into tiles at a
number of smaller scales, in one or more output encodings.

A run is two phases: every tile is pasted into it's layer canvas, then for
each scale each canvas is resized (always from full resolution) and each tile
cropped back out at it's scaled position.
*/
package mosaic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Pipeline runs a mosaic build with a fixed config.
type Pipeline struct {
	cfg      Config
	logger   *log.Logger
	recorder Recorder
}

// New validates the config & returns a pipeline for it.
// A nil logger discards all output.
func New(cfg Config, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Pipeline{cfg: cfg, logger: logger}, nil
}

// SetRecorder sets something to be told of every tile written (eg. an *Index).
func (p *Pipeline) SetRecorder(r Recorder) {
	p.recorder = r
}

// Tiles lists the source tiles we'll process, in order.
func (p *Pipeline) Tiles() ([]TileName, error) {
	return ListTiles(p.cfg.Source, p.cfg, p.logger)
}

// Build runs the whole thing: stitch every source tile, export every scale
// & variant, then write manifests if configured.
func (p *Pipeline) Build(ctx context.Context) ([]Entry, error) {
	tiles, err := p.Tiles()
	if err != nil {
		return nil, err
	}

	p.logger.Printf("stitching %d tiles\n", len(tiles))
	m, err := p.Stitch(ctx, tiles)
	if err != nil {
		return nil, err
	}

	p.logger.Println("resizing and cropping")
	written, err := p.Export(ctx, m, tiles)
	if err != nil {
		return written, err
	}

	if p.cfg.Manifest {
		paths, err := WriteManifests(p.cfg.Output, written)
		if err != nil {
			return written, err
		}
		for _, path := range paths {
			p.logger.Printf("wrote %s\n", path)
		}
	}

	return written, nil
}

// Stitch pastes every tile into a fresh full resolution canvas for it's layer.
// Tiles are pasted in the order given; where tiles overlap the last one wins.
func (p *Pipeline) Stitch(ctx context.Context, tiles []TileName) (*Mosaic, error) {
	m := NewMosaic(p.cfg)

	for _, t := range tiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.cfg.HasLayer(t.Layer) {
			continue
		}

		p.logger.Println(t.Stem)
		src, err := imaging.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", t.Path, err)
		}

		if err := m.Paste(t, src); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Export cuts every tile back out of the mosaic at each configured scale and
// writes it in every variant. Returns everything written.
func (p *Pipeline) Export(ctx context.Context, m *Mosaic, tiles []TileName) ([]Entry, error) {
	written := &entries{}

	grouped := byLayer(tiles, len(p.cfg.Layers))
	for _, scale := range p.cfg.Scales {
		w, h := p.cfg.TileSize(scale)
		p.logger.Printf("scale %v (%dx%d)\n", scale, w, h)

		for layer, layerTiles := range grouped {
			if len(layerTiles) == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				return *written, err
			}

			scaled := m.Scaled(layer, scale)
			for _, t := range layerTiles {
				if err := ctx.Err(); err != nil {
					return *written, err
				}

				if err := p.cfg.checkCell(layer, t.X, t.Y); err != nil {
					return *written, fmt.Errorf("%s at scale %v: %w", t.Stem, scale, err)
				}
				cropped, err := Crop(scaled, p.cfg.TileRect(layer, t.X, t.Y, scale))
				if err != nil {
					return *written, fmt.Errorf("%s at scale %v: %w", t.Stem, scale, err)
				}

				if err := p.writeVariants(t, scale, cropped, written); err != nil {
					return *written, err
				}
			}
		}
	}

	return *written, nil
}

// Convert re-encodes every source tile at full resolution in the configured
// color mode & variants, without stitching.
// Output goes to <TileWidth>x<TileHeight><suffix>.
func (p *Pipeline) Convert(ctx context.Context) ([]Entry, error) {
	tiles, err := p.Tiles()
	if err != nil {
		return nil, err
	}

	written := &entries{}
	for _, t := range tiles {
		if err := ctx.Err(); err != nil {
			return *written, err
		}

		p.logger.Println(t.Stem)
		src, err := imaging.Open(t.Path)
		if err != nil {
			return *written, fmt.Errorf("opening %s: %w", t.Path, err)
		}

		if err := p.writeVariants(t, 1, ConvertMode(src, p.cfg.Gray), written); err != nil {
			return *written, err
		}
	}

	return *written, nil
}

// writeVariants saves `img` as tile `t` for every variant at `scale`
func (p *Pipeline) writeVariants(t TileName, scale float64, img image.Image, written *entries) error {
	for _, v := range p.cfg.Variants {
		enc, fname, err := encoderFor(t, v)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Path, err)
		}

		dir := p.cfg.DirName(scale, v)
		if err := os.MkdirAll(filepath.Join(p.cfg.Output, dir), 0755); err != nil {
			return err
		}

		fpath := filepath.Join(p.cfg.Output, dir, fname)
		if err := saveImage(fpath, enc, img); err != nil {
			return fmt.Errorf("writing %s: %w", fpath, err)
		}

		e := Entry{
			Layer:  t.Layer,
			X:      t.X,
			Y:      t.Y,
			Scale:  scale,
			Dir:    dir,
			File:   fname,
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
		}
		written.Record(e)
		if p.recorder != nil {
			if err := p.recorder.Record(e); err != nil {
				return fmt.Errorf("recording %s: %w", fpath, err)
			}
		}
	}
	return nil
}

// saveImage to disk
func saveImage(fpath string, enc Encoder, in image.Image) error {
	buff := new(bytes.Buffer)
	err := enc.Encode(buff, in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}
