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

const desc = `Re-encodes each source tile at full size in the configured color mode & output variants, without stitching.`

var cli struct {
	Config string `short:"c" help:"yaml config file. Built in defaults are used if not given."`

	Source string `short:"i" help:"directory of source tiles"`
	Output string `short:"o" help:"directory to write tile directories into"`
	Color  bool   `help:"keep full color rather than converting to grayscale"`

	// the first pass over a new capture set is usually a single lossless copy
	Suffix   string `default:"_lossless" help:"output directory suffix"`
	Format   string `default:"webp" help:"output format (png, jpeg, webp, gif, bmp, tiff)"`
	Quality  int    `default:"100" help:"encoder quality 1-100"`
	Lossy    bool   `help:"lossy rather than lossless encoding (webp only)"`
	Variants bool   `help:"use the variants from the config file instead of --suffix/--format/--quality"`

	Verbose bool `short:"v" help:"print progress"`
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("convert"),
		kong.Description(desc),
	)

	logger := log.New(ioutil.Discard, "", 0)
	if cli.Verbose {
		logger.SetOutput(os.Stderr)
	}

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
	if cli.Output != "" {
		cfg.Output = cli.Output
	}
	if cli.Color {
		cfg.Gray = false
	}
	if !cli.Variants {
		lossless := cli.Format == "webp" && !cli.Lossy
		cfg.Variants = []mosaic.Variant{
			{Suffix: cli.Suffix, Format: cli.Format, Quality: cli.Quality, Lossless: lossless},
		}
	}

	cfg, err := cfg.ExpandPaths()
	if err != nil {
		panic(err)
	}

	p, err := mosaic.New(cfg, logger)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	written, err := p.Convert(ctx)
	if err != nil {
		panic(err)
	}

	logger.Printf("wrote %d tiles\n", len(written))
}
