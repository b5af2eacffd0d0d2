package mosaic

import (
	"errors"
	"image"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigGeometry(t *testing.T) {
	cfg := DefaultConfig()

	assert.Nil(t, cfg.Validate())
	assert.True(t, cfg.HasLayer(2))
	assert.False(t, cfg.HasLayer(3))
	assert.False(t, cfg.HasLayer(-1))

	// paste positions at full resolution
	assert.Equal(t, image.Rect(13440, 27000, 15360, 28080), cfg.TileRect(0, 0, 0, 1))
	assert.Equal(t, image.Pt(15360, 27000), cfg.TileRect(0, 1, 0, 1).Min)
	assert.Equal(t, image.Pt(11520, 22680), cfg.TileRect(1, -1, -1, 1).Min)

	// crop positions when halved
	r := cfg.TileRect(0, 0, 0, 0.5)
	assert.Equal(t, image.Pt(6720, 13500), r.Min)
	assert.Equal(t, 960, r.Dx())
	assert.Equal(t, 540, r.Dy())

	w, h := cfg.TileSize(0.1)
	assert.Equal(t, 192, w)
	assert.Equal(t, 108, h)

	w, h = cfg.CanvasSize(2, 0.1)
	assert.Equal(t, 3264, w)
	assert.Equal(t, 1836, h)

	assert.Equal(t, "960x540_webp", cfg.DirName(0.5, cfg.Variants[0]))
	assert.Equal(t, "384x216_webplossy", cfg.DirName(0.2, cfg.Variants[1]))
}

func TestTileRectsInsideDefaultCanvases(t *testing.T) {
	cfg := DefaultConfig()

	// the extreme corners of every default layer must crop cleanly at every scale
	for layer, l := range cfg.Layers {
		minX := -l.CenterX / cfg.TileWidth
		minY := -l.CenterY / cfg.TileHeight
		maxX := (l.Width-l.CenterX)/cfg.TileWidth - 1
		maxY := (l.Height-l.CenterY)/cfg.TileHeight - 1

		for _, s := range cfg.Scales {
			w, h := cfg.CanvasSize(layer, s)
			bounds := image.Rect(0, 0, w, h)
			assert.True(t, cfg.TileRect(layer, minX, minY, s).In(bounds), "layer %d scale %v", layer, s)
			assert.True(t, cfg.TileRect(layer, maxX, maxY, s).In(bounds), "layer %d scale %v", layer, s)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero tile":       func(c *Config) { c.TileWidth = 0 },
		"no layers":       func(c *Config) { c.Layers = nil },
		"empty layer":     func(c *Config) { c.Layers[1].Height = 0 },
		"zero scale":      func(c *Config) { c.Scales = []float64{0} },
		"upscale":         func(c *Config) { c.Scales = []float64{2} },
		"tiny scale":      func(c *Config) { c.Scales = []float64{0.0001} },
		"no variants":     func(c *Config) { c.Variants = nil },
		"dup suffix":      func(c *Config) { c.Variants[1].Suffix = c.Variants[0].Suffix },
		"bad format":      func(c *Config) { c.Variants[0].Format = "psd" },
		"lossless jpeg":   func(c *Config) { c.Variants[0] = Variant{Format: "jpeg", Quality: 80, Lossless: true} },
		"jpeg no quality": func(c *Config) { c.Variants[0] = Variant{Format: "jpeg"} },
		"over source":     func(c *Config) { c.Variants[0].Suffix = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)

			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestCheckCell(t *testing.T) {
	cfg := DefaultConfig()

	assert.Nil(t, cfg.checkCell(0, 0, 0))
	assert.Nil(t, cfg.checkCell(2, -1, 3))

	for _, c := range [][3]int{{-1, 0, 0}, {3, 0, 0}, {0, 1 << 30, 0}, {0, 0, -(1 << 30)}} {
		err := cfg.checkCell(c[0], c[1], c[2])
		assert.True(t, errors.Is(err, ErrOutOfBounds), "%v: got %v", c, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "mosaic.yaml")

	data := `
source: ~/captures
tile_width: 8
tile_height: 4
gray: false
scales: [1, 0.5]
variants:
  - suffix: _png
    format: png
`
	require.Nil(t, ioutil.WriteFile(fname, []byte(data), 0644))

	cfg, err := LoadConfig(fname)
	require.Nil(t, err)

	home, err := homedir.Dir()
	require.Nil(t, err)

	assert.Equal(t, filepath.Join(home, "captures"), cfg.Source)
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, 8, cfg.TileWidth)
	assert.Equal(t, 4, cfg.TileHeight)
	assert.False(t, cfg.Gray)
	assert.Equal(t, []float64{1, 0.5}, cfg.Scales)
	assert.Equal(t, []Variant{{Suffix: "_png", Format: "png"}}, cfg.Variants)

	// untouched keys keep defaults
	assert.Equal(t, DefaultConfig().Layers, cfg.Layers)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)

	fname := filepath.Join(dir, "bad.yaml")
	require.Nil(t, ioutil.WriteFile(fname, []byte("scales: [nope"), 0644))

	_, err = LoadConfig(fname)
	assert.NotNil(t, err)
}
