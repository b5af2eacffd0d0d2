package mosaic

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "index.sqlite")

	idx, err := OpenIndex(fname)
	require.Nil(t, err)
	assert.Equal(t, fname, idx.Filename())

	in := []Entry{
		{Layer: 1, X: 0, Y: 0, Scale: 0.5, Dir: "960x540_webp", File: "1_0_0.webp", Width: 960, Height: 540},
		{Layer: 0, X: 2, Y: -1, Scale: 0.5, Dir: "960x540_webp", File: "0_2_-1.webp", Width: 960, Height: 540},
		{Layer: 0, X: -3, Y: -1, Scale: 0.5, Dir: "960x540_webp", File: "0_-3_-1.webp", Width: 960, Height: 540},
		{Layer: 0, X: 0, Y: 0, Scale: 0.1, Dir: "192x108_webplossy", File: "0_0_0.webp", Width: 192, Height: 108},
	}
	for _, e := range in {
		require.Nil(t, idx.Record(e))
	}

	dirs, err := idx.Dirs()
	require.Nil(t, err)
	assert.Equal(t, []string{"192x108_webplossy", "960x540_webp"}, dirs)

	got, err := idx.Entries("960x540_webp")
	require.Nil(t, err)
	assert.Equal(t, []Entry{in[2], in[1], in[0]}, got)

	all, err := idx.Entries("")
	require.Nil(t, err)
	assert.Equal(t, []Entry{in[3], in[2], in[1], in[0]}, all)

	require.Nil(t, idx.Close())
}

func TestIndexRecordReplaces(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "index.sqlite"))
	require.Nil(t, err)
	defer idx.Close()

	e := Entry{Layer: 0, X: 1, Y: 1, Scale: 0.2, Dir: "384x216", File: "0_1_1.png", Width: 384, Height: 216}
	require.Nil(t, idx.Record(e))

	e.File = "0_1_1.webp"
	require.Nil(t, idx.Record(e))

	got, err := idx.Entries("384x216")
	require.Nil(t, err)
	assert.Equal(t, []Entry{e}, got)
}

func TestIndexReopen(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "index.sqlite")

	idx, err := OpenIndex(fname)
	require.Nil(t, err)
	e := Entry{Layer: 2, X: -4, Y: 3, Scale: 1, Dir: "1920x1080_lossless", File: "2_-4_3.webp", Width: 1920, Height: 1080}
	require.Nil(t, idx.Record(e))
	require.Nil(t, idx.Close())

	idx, err = OpenIndex(fname)
	require.Nil(t, err)
	defer idx.Close()

	got, err := idx.Entries("")
	require.Nil(t, err)
	assert.Equal(t, []Entry{e}, got)
}
