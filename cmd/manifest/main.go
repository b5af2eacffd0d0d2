package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/voidshard/mosaic"
)

const desc = `Generates .tmx manifests for exported tile directories from an index database written by 'stitch --index'.`

var cli struct {
	Input  string `short:"i" required:"" help:"index database file"`
	Output string `short:"o" default:"." help:"root the tile directories live under"`

	Dir string `short:"d" help:"only this tile directory (eg. 960x540_webp). Defaults to all."`
}

func main() {
	kong.Parse(&cli, kong.Name("manifest"), kong.Description(desc))

	if !fileExists(cli.Input) {
		panic(fmt.Sprintf("input file not found: %s", cli.Input))
	}

	idx, err := mosaic.OpenIndex(cli.Input)
	if err != nil {
		panic(err)
	}
	defer idx.Close()

	dirs, err := idx.Dirs()
	if err != nil {
		panic(err)
	}
	if cli.Dir != "" {
		if !contains(dirs, cli.Dir) {
			panic(fmt.Sprintf("no tiles recorded for %s, have %v", cli.Dir, dirs))
		}
		dirs = []string{cli.Dir}
	}
	if len(dirs) == 0 {
		fmt.Println("no tiles recorded, nothing to do")
		return
	}

	for _, dir := range dirs {
		entries, err := idx.Entries(dir)
		if err != nil {
			panic(err)
		}

		written, err := mosaic.WriteManifests(cli.Output, entries)
		if err != nil {
			panic(err)
		}
		for _, fname := range written {
			fmt.Printf("wrote %s\n", fname)
		}
	}
}

func contains(in []string, s string) bool {
	for _, i := range in {
		if i == s {
			return true
		}
	}
	return false
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
