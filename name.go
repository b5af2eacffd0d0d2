package mosaic

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedName is returned (wrapped) for a tile file not named <layer>_<x>_<y>.<ext>
var ErrMalformedName = errors.New("malformed tile name")

// TileName is a source tile as decoded from its file name.
type TileName struct {
	Path string // full path to the file
	Stem string // file name without extension, eg. 0_-3_2
	Ext  string // extension including the dot, eg. .png

	Layer int
	X     int
	Y     int
}

// ParseTileName decodes "<layer>_<x>_<y>.<ext>" from the base of the given path.
// x & y may be negative. Each number must fit in 32 bits.
func ParseTileName(path string) (TileName, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	parts := strings.Split(stem, "_")
	if len(parts) != 3 {
		return TileName{}, fmt.Errorf("%w: %s", ErrMalformedName, path)
	}

	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return TileName{}, fmt.Errorf("%w: %s: %v", ErrMalformedName, path, err)
		}
		nums[i] = int(n)
	}
	if nums[0] < 0 {
		return TileName{}, fmt.Errorf("%w: %s: negative layer", ErrMalformedName, path)
	}

	return TileName{
		Path:  path,
		Stem:  stem,
		Ext:   ext,
		Layer: nums[0],
		X:     nums[1],
		Y:     nums[2],
	}, nil
}

// String returns the tile stem
func (t TileName) String() string {
	return t.Stem
}

// ListTiles reads the tiles directly inside `dir` sorted by file name.
// Directories & hidden files are ignored, as are tiles on a layer the config
// doesn't have. Any other badly named file is an error.
func ListTiles(dir string, cfg Config, logger *log.Logger) ([]TileName, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	tiles := []TileName{}
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}

		t, err := ParseTileName(filepath.Join(dir, info.Name()))
		if err != nil {
			return nil, err
		}

		if !cfg.HasLayer(t.Layer) {
			logger.Printf("skipping %s: no layer %d\n", t.Stem, t.Layer)
			continue
		}

		tiles = append(tiles, t)
	}

	// overlapping tiles are last-write-wins, so the order is part of the output
	sort.SliceStable(tiles, func(i, j int) bool {
		return filepath.Base(tiles[i].Path) < filepath.Base(tiles[j].Path)
	})

	return tiles, nil
}

// byLayer groups tiles by layer id, keeping their order.
func byLayer(tiles []TileName, layers int) [][]TileName {
	out := make([][]TileName, layers)
	for _, t := range tiles {
		if t.Layer >= 0 && t.Layer < layers {
			out[t.Layer] = append(out[t.Layer], t)
		}
	}
	return out
}
