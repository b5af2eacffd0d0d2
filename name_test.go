package mosaic

import (
	"errors"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTileName(t *testing.T) {
	n, err := ParseTileName("/caps/1920x1080/2_-3_14.webp")

	require.Nil(t, err)
	assert.Equal(t, "/caps/1920x1080/2_-3_14.webp", n.Path)
	assert.Equal(t, "2_-3_14", n.Stem)
	assert.Equal(t, ".webp", n.Ext)
	assert.Equal(t, 2, n.Layer)
	assert.Equal(t, -3, n.X)
	assert.Equal(t, 14, n.Y)
	assert.Equal(t, "2_-3_14", n.String())

	// out of range layers still parse, the config decides what to skip
	n, err = ParseTileName("7_0_0.png")
	require.Nil(t, err)
	assert.Equal(t, 7, n.Layer)

	n, err = ParseTileName("0_2147483647_-2147483648.png")
	require.Nil(t, err)
	assert.Equal(t, 2147483647, n.X)
	assert.Equal(t, -2147483648, n.Y)
}

func TestParseTileNameMalformed(t *testing.T) {
	for _, name := range []string{
		"title.png",
		"0_1.png",
		"0_1_2_3.png",
		"0_a_1.png",
		"0_1_1.5.png",
		"-1_0_0.png",
		"_0_0.png",
		"0_2305843009213693952_0.png",
		"0_0_-2147483649.png",
	} {
		_, err := ParseTileName(name)
		assert.True(t, errors.Is(err, ErrMalformedName), "%s: got %v", name, err)
	}
}

func TestListTiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1_0_0.png", "0_1_0.png", "0_-1_0.png", "3_0_0.png", ".DS_Store"} {
		require.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), []byte{}, 0644))
	}
	require.Nil(t, os.Mkdir(filepath.Join(dir, "0_9_9"), 0755))

	tiles, err := ListTiles(dir, DefaultConfig(), log.New(ioutil.Discard, "", 0))
	require.Nil(t, err)

	stems := []string{}
	for _, tl := range tiles {
		stems = append(stems, tl.Stem)
	}
	assert.Equal(t, []string{"0_-1_0", "0_1_0", "1_0_0"}, stems)
}

func TestListTilesMalformed(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "0_0_0.png"), []byte{}, 0644))
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte{}, 0644))

	_, err := ListTiles(dir, DefaultConfig(), log.New(ioutil.Discard, "", 0))
	assert.True(t, errors.Is(err, ErrMalformedName))

	_, err = ListTiles(filepath.Join(dir, "missing"), DefaultConfig(), log.New(ioutil.Discard, "", 0))
	assert.NotNil(t, err)
}
