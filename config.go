package mosaic

import (
	"errors"
	"fmt"
	"image"
	"io/ioutil"
	"math"
	"path/filepath"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// ErrInvalidConfig is returned (wrapped) when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// LayerConfig describes the full resolution canvas of one layer.
type LayerConfig struct {
	// in pixels
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// pixel on the canvas where grid cell (0,0) begins
	CenterX int `yaml:"center_x"`
	CenterY int `yaml:"center_y"`
}

// Variant is one encoding of an output tile set. Each variant gets its own
// directory per scale, named <w>x<h><Suffix>.
type Variant struct {
	Suffix string `yaml:"suffix"`

	// Format is one of png, jpeg, gif, bmp, tiff, webp.
	// Empty keeps the format & extension of the source tile.
	Format   string `yaml:"format"`
	Quality  int    `yaml:"quality"`
	Lossless bool   `yaml:"lossless"`
}

// Config includes all settings for a mosaic run.
// It's passed by value; nothing in here is mutated once a Pipeline is built.
type Config struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`

	// size of a single source tile in pixels
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`

	// Gray stitches into 8bit grayscale canvases, otherwise RGBA
	Gray bool `yaml:"gray"`

	// indexed by layer id
	Layers []LayerConfig `yaml:"layers"`

	Scales   []float64 `yaml:"scales"`
	Variants []Variant `yaml:"variants"`

	// Manifest writes a .tmx map per output dir & layer
	Manifest bool `yaml:"manifest"`
}

// DefaultConfig returns the settings used for the screen captures this tool
// was first written for.
func DefaultConfig() Config {
	return Config{
		Source:     "1920x1080",
		Output:     ".",
		TileWidth:  1920,
		TileHeight: 1080,
		Gray:       true,
		Layers: []LayerConfig{
			{Width: 30720, Height: 43200, CenterX: 13440, CenterY: 27000},
			{Width: 34560, Height: 33480, CenterX: 13440, CenterY: 23760},
			{Width: 32640, Height: 18360, CenterX: 13440, CenterY: 10800},
		},
		Scales: []float64{0.5, 0.2, 0.1},
		Variants: []Variant{
			{Suffix: "_webp", Format: "webp", Quality: 100, Lossless: true},
			{Suffix: "_webplossy", Format: "webp", Quality: 70},
		},
	}
}

// LoadConfig reads a yaml config file on top of DefaultConfig.
// Keys that are absent keep their default values.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()

	fpath, err := homedir.Expand(fname)
	if err != nil {
		return cfg, err
	}

	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", fpath, err)
	}

	return cfg.ExpandPaths()
}

// ExpandPaths returns a copy of the config with ~ expanded in Source & Output.
func (c Config) ExpandPaths() (Config, error) {
	var err error
	c.Source, err = homedir.Expand(c.Source)
	if err != nil {
		return c, err
	}
	c.Output, err = homedir.Expand(c.Output)
	return c, err
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidConfig, c.TileWidth, c.TileHeight)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidConfig)
	}
	for i, l := range c.Layers {
		if l.Width <= 0 || l.Height <= 0 {
			return fmt.Errorf("%w: layer %d has size %dx%d", ErrInvalidConfig, i, l.Width, l.Height)
		}
	}

	for _, s := range c.Scales {
		if s <= 0 || s > 1 || math.IsNaN(s) {
			return fmt.Errorf("%w: scale %v must be in (0, 1]", ErrInvalidConfig, s)
		}
		w, h := c.TileSize(s)
		if w < 1 || h < 1 {
			return fmt.Errorf("%w: scale %v shrinks tiles to nothing", ErrInvalidConfig, s)
		}
	}

	if len(c.Variants) == 0 {
		return fmt.Errorf("%w: no output variants", ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for _, v := range c.Variants {
		if seen[v.Suffix] {
			return fmt.Errorf("%w: duplicate variant suffix %q", ErrInvalidConfig, v.Suffix)
		}
		seen[v.Suffix] = true

		if c.overwritesSource(v) {
			return fmt.Errorf("%w: variant %q would write over the source tiles in %s", ErrInvalidConfig, v.Suffix, c.Source)
		}

		if v.Format == "" {
			continue
		}
		if _, err := NewEncoder(v.Format, v.Quality, v.Lossless); err != nil {
			return fmt.Errorf("%w: variant %q: %v", ErrInvalidConfig, v.Suffix, err)
		}
	}

	return nil
}

// overwritesSource returns if variant `v` at full resolution (always written
// by Convert) resolves to the source directory.
func (c Config) overwritesSource(v Variant) bool {
	src, err := filepath.Abs(c.Source)
	if err != nil {
		return false
	}
	out, err := filepath.Abs(filepath.Join(c.Output, c.DirName(1, v)))
	if err != nil {
		return false
	}
	return src == out
}

// HasLayer returns if tiles on the given layer are part of this config.
func (c Config) HasLayer(layer int) bool {
	return layer >= 0 && layer < len(c.Layers)
}

// TileSize returns the size of one tile in pixels at the given scale.
func (c Config) TileSize(scale float64) (int, int) {
	return scaleInt(c.TileWidth, scale), scaleInt(c.TileHeight, scale)
}

// CanvasSize returns the size in pixels of a layer canvas at the given scale.
func (c Config) CanvasSize(layer int, scale float64) (int, int) {
	l := c.Layers[layer]
	return scaleInt(l.Width, scale), scaleInt(l.Height, scale)
}

// checkCell returns ErrOutOfBounds if `layer` isn't configured or if grid
// cell (x,y) is too far from the layer center to land on it's canvas.
// Cells passing this are safe to hand to TileRect.
func (c Config) checkCell(layer, x, y int) error {
	if !c.HasLayer(layer) {
		return fmt.Errorf("%w: no layer %d", ErrOutOfBounds, layer)
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidConfig, c.TileWidth, c.TileHeight)
	}

	l := c.Layers[layer]
	maxX := (l.Width+absInt(l.CenterX))/c.TileWidth + 1
	maxY := (l.Height+absInt(l.CenterY))/c.TileHeight + 1
	if x < -maxX || x > maxX || y < -maxY || y > maxY {
		return fmt.Errorf("%w: cell %d,%d is off layer %d", ErrOutOfBounds, x, y, layer)
	}
	return nil
}

// TileRect returns where grid cell (x,y) of a layer sits on the canvas
// scaled by `scale`. At scale 1 this is where the source tile is pasted.
func (c Config) TileRect(layer, x, y int, scale float64) image.Rectangle {
	l := c.Layers[layer]
	w, h := c.TileSize(scale)

	min := image.Pt(
		scaleInt(l.CenterX, scale)+w*x,
		scaleInt(l.CenterY, scale)+h*y,
	)
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(w, h))}
}

// DirName is the output directory for a variant at some scale, eg. 960x540_webp
func (c Config) DirName(scale float64, v Variant) string {
	w, h := c.TileSize(scale)
	return fmt.Sprintf("%dx%d%s", w, h, v.Suffix)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// scaleInt multiplies then rounds to the nearest pixel.
func scaleInt(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}
