package main

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/voidshard/mosaic"
)

const desc = `Stitches <layer>_<x>_<y> screen tiles into one canvas per layer, then writes the tiles back out at each configured scale.

Each output directory is named for the scaled tile size plus the variant suffix (eg. 960x540_webp) and holds one
file per source tile with the same stem. All canvases are held in memory for the whole run.`

var cli struct {
	Config string `short:"c" help:"yaml config file. Built in defaults are used if not given."`

	// overrides for the config file
	Source string `short:"i" help:"directory of source tiles"`
	Output string `short:"o" help:"directory to write tile directories into"`
	Color  bool   `help:"stitch in full color rather than grayscale"`

	Index    string `help:"record every written tile in this sqlite file (created if needed)"`
	Manifest bool   `help:"write a .tmx manifest per output directory & layer"`

	Verbose bool `short:"v" help:"print progress"`
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("stitch"),
		kong.Description(desc),
	)

	logger := log.New(ioutil.Discard, "", 0)
	if cli.Verbose {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	p, err := mosaic.New(cfg, logger)
	if err != nil {
		panic(err)
	}

	if cli.Index != "" {
		idx, err := mosaic.OpenIndex(cli.Index)
		if err != nil {
			panic(err)
		}
		defer idx.Close()
		p.SetRecorder(idx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	written, err := p.Build(ctx)
	if err != nil {
		panic(err)
	}

	logger.Printf("wrote %d tiles\n", len(written))
}

// loadConfig reads --config (if given) and applies flag overrides
func loadConfig() (mosaic.Config, error) {
	cfg := mosaic.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = mosaic.LoadConfig(cli.Config)
		if err != nil {
			return cfg, err
		}
	}

	if cli.Source != "" {
		cfg.Source = cli.Source
	}
	if cli.Output != "" {
		cfg.Output = cli.Output
	}
	if cli.Color {
		cfg.Gray = false
	}
	if cli.Manifest {
		cfg.Manifest = true
	}

	return cfg.ExpandPaths()
}
