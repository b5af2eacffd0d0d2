package mosaic

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoder(t *testing.T) {
	cases := []struct {
		format   string
		quality  int
		lossless bool
		name     string
		ext      string
	}{
		{"png", 0, false, "png", ".png"},
		{".PNG", 0, true, "png", ".png"},
		{"jpg", 70, false, "jpeg", ".jpg"},
		{"jpeg", 100, false, "jpeg", ".jpg"},
		{"gif", 0, false, "gif", ".gif"},
		{"bmp", 0, false, "bmp", ".bmp"},
		{"tif", 0, false, "tiff", ".tif"},
		{"webp", 70, false, "webp", ".webp"},
		{"webp", 100, true, "webp", ".webp"},
	}

	for _, c := range cases {
		enc, err := NewEncoder(c.format, c.quality, c.lossless)
		require.Nil(t, err, c.format)
		assert.Equal(t, c.name, enc.Format())
		assert.Equal(t, c.ext, enc.Extension())
	}
}

func TestNewEncoderUnsupported(t *testing.T) {
	for _, c := range []struct {
		format   string
		quality  int
		lossless bool
	}{
		{"psd", 100, false},
		{"", 100, false},
		{"jpeg", 0, false},
		{"jpeg", 101, false},
		{"jpeg", 90, true},
		{"gif", 0, true},
	} {
		_, err := NewEncoder(c.format, c.quality, c.lossless)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "%v: got %v", c, err)
	}
}

func TestEncoderFor(t *testing.T) {
	tile := TileName{Stem: "0_1_2", Ext: ".png"}

	enc, fname, err := encoderFor(tile, Variant{Format: "webp", Quality: 70})
	require.Nil(t, err)
	assert.Equal(t, "webp", enc.Format())
	assert.Equal(t, "0_1_2.webp", fname)

	enc, fname, err = encoderFor(tile, Variant{})
	require.Nil(t, err)
	assert.Equal(t, "png", enc.Format())
	assert.Equal(t, "0_1_2.png", fname)

	_, _, err = encoderFor(TileName{Stem: "0_1_2", Ext: ".xcf"}, Variant{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestPNGEncoderKeepsGray(t *testing.T) {
	enc, err := NewEncoder("png", 0, false)
	require.Nil(t, err)

	src := ramp(8, 4, 1)
	buf := bytes.Buffer{}
	require.Nil(t, enc.Encode(&buf, src))

	back, err := png.Decode(&buf)
	require.Nil(t, err)
	g, ok := back.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Pix, g.Pix)
}

func TestWebpEncoder(t *testing.T) {
	for _, lossless := range []bool{true, false} {
		enc, err := NewEncoder("webp", 70, lossless)
		require.Nil(t, err)

		buf := bytes.Buffer{}
		require.Nil(t, enc.Encode(&buf, solid(16, 8, color.RGBA{10, 20, 30, 255})))

		data := buf.Bytes()
		require.True(t, len(data) > 12)
		assert.Equal(t, "RIFF", string(data[0:4]))
		assert.Equal(t, "WEBP", string(data[8:12]))
	}

	// gray canvases are accepted too
	enc, err := NewEncoder("webp", 100, true)
	require.Nil(t, err)
	assert.Nil(t, enc.Encode(&bytes.Buffer{}, ramp(8, 4, 0)))
}
