/* this file is a simplified set of structs for reading & writing TMX files.

We only need a small part of the TMX feature set in order to describe an
exported tile set so we only bother to parse / write those things.
see doc.mapeditor.org/en/stable/reference/tmx-map-format
*/
package mosaic

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Map is a TMX file structure representing the map as a whole.
// - one tileset, an "image collection" with one image per exported tile
// - one tile layer, CSV encoded without compression
// - 'orthogonal' orientation only
type Map struct {
	XMLName        xml.Name     `xml:"map"`
	Version        string       `xml:"version,attr"`
	Orientation    string       `xml:"orientation,attr"`
	RenderOrder    string       `xml:"renderorder,attr"`
	Width          int          `xml:"width,attr"`      // in tiles
	Height         int          `xml:"height,attr"`     // in tiles
	TileWidth      int          `xml:"tilewidth,attr"`  // in pixels
	TileHeight     int          `xml:"tileheight,attr"` // in pixels
	RootProperties []*Property  `xml:"properties>property"`
	Tilesets       []*Tileset   `xml:"tileset"`
	TileLayers     []*TileLayer `xml:"layer"`
}

// Tileset is a TMX file structure which represents a Tiled Tileset
type Tileset struct {
	FirstGID   uint    `xml:"firstgid,attr"`
	Name       string  `xml:"name,attr"`
	TileWidth  int     `xml:"tilewidth,attr"`
	TileHeight int     `xml:"tileheight,attr"`
	TileCount  int     `xml:"tilecount,attr"`
	Columns    int     `xml:"columns,attr"`
	Tiles      []*Tile `xml:"tile"`
	tileByID   map[uint]*Tile
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"`
}

// Image is an image file in TMX
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// Tile is a TMX tile (from a tileset)
type Tile struct {
	ID    uint   `xml:"id,attr"`
	Image *Image `xml:"image"`
}

// TileLayer is a TMX file structure for a layer of tiles.
type TileLayer struct {
	ID           uint   `xml:"id,attr"`
	Name         string `xml:"name,attr"`
	Width        int    `xml:"width,attr"`
	Height       int    `xml:"height,attr"`
	Data         Data   `xml:"data"`
	decodedTiles []uint // gids, 0 is the nil tile
}

// Data is a TMX file structure holding data.
type Data struct {
	Encoding string `xml:"encoding,attr"`
	RawData  []byte `xml:",innerxml"`
}

// newTileset makes a new empty tileset starting at `first`
func newTileset(name string, first uint, w, h int) *Tileset {
	return &Tileset{
		FirstGID:   first,
		Name:       name,
		TileWidth:  w,
		TileHeight: h,
		Tiles:      []*Tile{},
		tileByID:   map[uint]*Tile{},
	}
}

// add registers an image as the next tile in the set
func (ts *Tileset) add(source string, w, h int) *Tile {
	t := &Tile{
		ID:    uint(len(ts.Tiles)),
		Image: &Image{Source: source, Width: w, Height: h},
	}
	ts.Tiles = append(ts.Tiles, t)
	ts.tileByID[t.ID] = t
	ts.TileCount = len(ts.Tiles)
	return t
}

// newTileLayer makes an empty layer of the given size
func newTileLayer(id uint, name string, width, height int) *TileLayer {
	return &TileLayer{
		ID:           id,
		Name:         name,
		Width:        width,
		Height:       height,
		Data:         Data{Encoding: "csv"},
		decodedTiles: make([]uint, width*height),
	}
}

// encodeCSV turns our list of tile ids into csv format
func (d *Data) encodeCSV(width, height int, in []uint) ([]byte, error) {
	if len(in) != width*height {
		return nil, fmt.Errorf("have %d tiles for a %dx%d layer", len(in), width, height)
	}

	values := make([]string, height)
	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.Itoa(int(in[row*width+col]))
		}
		values[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(values, ",\n") + "\n"), nil
}

// decodeCSV reads csv encoded tile data
func (d *Data) decodeCSV() ([]uint, error) {
	cleaner := func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}

	clean := strings.Map(cleaner, string(d.RawData))
	if clean == "" {
		return []uint{}, nil
	}

	str := strings.Split(clean, ",")
	gids := make([]uint, len(str))
	for i, s := range str {
		d, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, err
		}
		gids[i] = uint(d)
	}
	return gids, nil
}
