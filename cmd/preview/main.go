package main

import (
	"fmt"
	"io/ioutil"
	"log"

	"github.com/alecthomas/kong"
	"github.com/fogleman/gg"

	"github.com/voidshard/mosaic"
)

const desc = `Draws where each source tile of a layer lands on the layer canvas. Tiles outside the canvas show in red.`

var cli struct {
	Config string `short:"c" help:"yaml config file. Built in defaults are used if not given."`
	Source string `short:"i" help:"directory of source tiles"`
	Output string `short:"o" help:"png to write. Defaults to layout_<layer>.png"`

	Layer int     `short:"l" default:"0" help:"layer to draw"`
	Scale float64 `short:"s" default:"0.02" help:"scale of the drawing relative to the full canvas"`
}

func main() {
	kong.Parse(&cli, kong.Name("preview"), kong.Description(desc))

	cfg := mosaic.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = mosaic.LoadConfig(cli.Config)
		if err != nil {
			panic(err)
		}
	}
	if cli.Source != "" {
		cfg.Source = cli.Source
	}
	cfg, err := cfg.ExpandPaths()
	if err != nil {
		panic(err)
	}

	if cli.Output == "" {
		cli.Output = fmt.Sprintf("layout_%d.png", cli.Layer)
	}

	tiles, err := mosaic.ListTiles(cfg.Source, cfg, log.New(ioutil.Discard, "", 0))
	if err != nil {
		panic(err)
	}

	img, err := mosaic.RenderLayout(tiles, cfg, cli.Layer, cli.Scale)
	if err != nil {
		panic(err)
	}

	err = gg.SavePNG(cli.Output, img)
	if err != nil {
		panic(err)
	}

	fmt.Printf("wrote %s\n", cli.Output)
}
