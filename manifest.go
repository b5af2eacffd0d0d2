/* file builds Tiled (.tmx) maps describing exported tile sets, so an output
directory can be opened in a map editor with every tile in place.
*/
package mosaic

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
)

// NewManifest lays out entries as a tmx map. All entries must share a dir
// and layer. Grid cell (OriginX, OriginY) is the map's top left tile.
func NewManifest(in []Entry) (*Map, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("no tiles to build a manifest from")
	}

	first := in[0]
	minX, minY, maxX, maxY := first.X, first.Y, first.X, first.Y
	for _, e := range in {
		if e.Dir != first.Dir || e.Layer != first.Layer {
			return nil, fmt.Errorf("manifest for %s layer %d given tile from %s layer %d", first.Dir, first.Layer, e.Dir, e.Layer)
		}
		if e.X < minX {
			minX = e.X
		}
		if e.X > maxX {
			maxX = e.X
		}
		if e.Y < minY {
			minY = e.Y
		}
		if e.Y > maxY {
			maxY = e.Y
		}
	}

	width := maxX - minX + 1
	height := maxY - minY + 1

	m := &Map{
		Version:     "1.2",
		Orientation: "orthogonal",
		RenderOrder: "right-down",
		Width:       width,
		Height:      height,
		TileWidth:   first.Width,
		TileHeight:  first.Height,
		Tilesets:    []*Tileset{newTileset(first.Dir, 1, first.Width, first.Height)},
		TileLayers:  []*TileLayer{newTileLayer(1, fmt.Sprintf("%d", first.Layer), width, height)},
	}

	props := NewProperties()
	props.SetInt("layer", first.Layer)
	props.SetFloat("scale", first.Scale)
	props.SetInt("origin_x", minX)
	props.SetInt("origin_y", minY)
	props.SetString("tile_dir", first.Dir)

	// stable tile ids regardless of input order
	sorted := append([]Entry{}, in...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	ts := m.Tilesets[0]
	tl := m.TileLayers[0]
	filled := 0
	for _, e := range sorted {
		t := ts.add(e.File, e.Width, e.Height)
		cell := (e.Y-minY)*width + (e.X - minX)
		if tl.decodedTiles[cell] == 0 {
			filled++
		}
		tl.decodedTiles[cell] = ts.FirstGID + t.ID
	}

	// complete maps have no gaps in their grid
	props.SetBool("complete", filled == width*height)
	m.RootProperties = props.toList()

	return m, nil
}

// Properties returns properties set on the map itself
func (m *Map) Properties() *Properties {
	return newPropertiesFromList(m.RootProperties)
}

// At returns the image source of the tile at map cell (col, row) or "" if
// nothing is there.
func (m *Map) At(col, row int) string {
	if len(m.TileLayers) == 0 || col < 0 || row < 0 || col >= m.Width || row >= m.Height {
		return ""
	}

	l := m.TileLayers[0]
	index := row*m.Width + col
	if index >= len(l.decodedTiles) {
		return ""
	}

	gid := l.decodedTiles[index]
	if gid == 0 {
		return ""
	}

	for _, ts := range m.Tilesets {
		if gid < ts.FirstGID {
			continue
		}
		t, ok := ts.tileByID[gid-ts.FirstGID]
		if ok {
			return t.Image.Source
		}
	}
	return ""
}

// Encode the map as XML to an io.Writer stream
func (m *Map) Encode(w io.Writer) error {
	for _, tl := range m.TileLayers {
		tdata, err := tl.Data.encodeCSV(tl.Width, tl.Height, tl.decodedTiles)
		if err != nil {
			return err
		}
		tl.Data.RawData = tdata
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	return enc.Encode(m)
}

// Decode an input TMX map XML
func Decode(r io.Reader) (*Map, error) {
	m := &Map{}
	if err := xml.NewDecoder(r).Decode(m); err != nil {
		return nil, err
	}

	for _, ts := range m.Tilesets {
		ts.tileByID = map[uint]*Tile{}
		for _, t := range ts.Tiles {
			ts.tileByID[t.ID] = t
		}
	}

	for _, tl := range m.TileLayers {
		gids, err := tl.Data.decodeCSV()
		if err != nil {
			return nil, err
		}
		if len(gids) != tl.Width*tl.Height {
			return nil, fmt.Errorf("layer %q has %d tiles, expected %d", tl.Name, len(gids), tl.Width*tl.Height)
		}
		tl.decodedTiles = gids
	}

	return m, nil
}

// OpenManifest reads a .tmx file from disk
func OpenManifest(fname string) (*Map, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes the map to `fname`
func (m *Map) WriteFile(fname string) error {
	buff := bytes.Buffer{}
	err := m.Encode(&buff)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fname, buff.Bytes(), 0644)
}

// ManifestName is the file name of the manifest for a layer within it's tile dir
func ManifestName(layer int) string {
	return fmt.Sprintf("layer_%d.tmx", layer)
}

// WriteManifests writes one .tmx per (dir, layer) found in `in` under `root`.
// Returns the paths written, sorted.
func WriteManifests(root string, in []Entry) ([]string, error) {
	type key struct {
		dir   string
		layer int
	}

	groups := map[key][]Entry{}
	keys := []key{}
	for _, e := range in {
		k := key{e.Dir, e.Layer}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dir != keys[j].dir {
			return keys[i].dir < keys[j].dir
		}
		return keys[i].layer < keys[j].layer
	})

	written := []string{}
	for _, k := range keys {
		m, err := NewManifest(groups[k])
		if err != nil {
			return written, err
		}

		dir := filepath.Join(root, k.dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return written, err
		}

		fname := filepath.Join(dir, ManifestName(k.layer))
		if err := m.WriteFile(fname); err != nil {
			return written, err
		}
		written = append(written, fname)
	}

	return written, nil
}
