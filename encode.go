package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// registers webp with image.Decode (& so imaging.Open)
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned (wrapped) for an output format we can't write.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Encoder writes an image in one file format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error

	// Format returns the canonical format name (eg. "png", "webp")
	Format() string

	// Extension returns the file extension including the dot
	Extension() string
}

// NewEncoder returns an encoder for the given format.
// Quality is used by lossy formats (jpeg, webp) and should be 1-100.
// Lossless is only meaningful for webp; png is always lossless.
func NewEncoder(format string, quality int, lossless bool) (Encoder, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))

	switch format {
	case "webp":
		return newWebpEncoder(quality, lossless)
	case "png":
		return &imagingEncoder{
			format: imaging.PNG,
			name:   "png",
			ext:    ".png",
			opts:   []imaging.EncodeOption{imaging.PNGCompressionLevel(png.BestCompression)},
		}, nil
	}

	if lossless {
		return nil, fmt.Errorf("%w: %s cannot be lossless", ErrUnsupportedFormat, format)
	}

	switch format {
	case "jpg", "jpeg":
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("%w: jpeg quality %d", ErrUnsupportedFormat, quality)
		}
		return &imagingEncoder{
			format: imaging.JPEG,
			name:   "jpeg",
			ext:    ".jpg",
			opts:   []imaging.EncodeOption{imaging.JPEGQuality(quality)},
		}, nil
	case "gif":
		return &imagingEncoder{format: imaging.GIF, name: "gif", ext: ".gif"}, nil
	case "bmp":
		return &imagingEncoder{format: imaging.BMP, name: "bmp", ext: ".bmp"}, nil
	case "tif", "tiff":
		return &imagingEncoder{format: imaging.TIFF, name: "tiff", ext: ".tif"}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// encoderFor picks the encoder for writing `t` as variant `v`.
// A variant with no format keeps the tile's own format & extension.
func encoderFor(t TileName, v Variant) (Encoder, string, error) {
	if v.Format != "" {
		enc, err := NewEncoder(v.Format, v.Quality, v.Lossless)
		if err != nil {
			return nil, "", err
		}
		return enc, t.Stem + enc.Extension(), nil
	}

	quality := v.Quality
	if quality == 0 {
		quality = 100
	}

	enc, err := NewEncoder(t.Ext, quality, v.Lossless)
	if err != nil {
		return nil, "", err
	}
	return enc, t.Stem + t.Ext, nil
}

// imagingEncoder covers the formats imaging knows how to write
type imagingEncoder struct {
	format imaging.Format
	name   string
	ext    string
	opts   []imaging.EncodeOption
}

func (e *imagingEncoder) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, e.format, e.opts...)
}

func (e *imagingEncoder) Format() string {
	return e.name
}

func (e *imagingEncoder) Extension() string {
	return e.ext
}

// webpEncoder writes via libwebp
type webpEncoder struct {
	opts *encoder.Options
}

func newWebpEncoder(quality int, lossless bool) (*webpEncoder, error) {
	var (
		opts *encoder.Options
		err  error
	)
	if lossless {
		// for lossless quality is effort, 100 being the slowest / smallest
		opts, err = encoder.NewLosslessEncoderOptions(encoder.PresetDefault, quality*9/100)
	} else {
		opts, err = encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: webp: %v", ErrUnsupportedFormat, err)
	}
	return &webpEncoder{opts: opts}, nil
}

func (e *webpEncoder) Encode(w io.Writer, img image.Image) error {
	// webp has no gray mode, hand libwebp plain NRGBA
	return webp.Encode(w, imaging.Clone(img), e.opts)
}

func (e *webpEncoder) Format() string {
	return "webp"
}

func (e *webpEncoder) Extension() string {
	return ".webp"
}
