/*
Package thumbnail decodes the base64 thumbnail embedded by a slicer and
produces the resized previews.

The image format is guessed from the decoded bytes, any format with a
registered decoder is accepted: PNG, JPEG, GIF, BMP, WebP, TIFF and QOI.
Alpha is discarded before resampling as the display has no notion of
transparency. Previews are resampled with a Catmull-Rom filter to fit inside
a square of the requested size, keeping the aspect ratio of the original.
*/
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Unknown is the format reported when no decoder recognises the image
const Unknown = "UNKNOWN"

// Decoder names that differ from the file extension slicers and users know
// the format by
var extensions = map[string]string{
	"jpeg": "jpg",
}

// DecodeError is returned when the thumbnail is not valid base64 or cannot
// be decoded as an image.
type DecodeError struct {
	// Format is the guessed image format, empty if decoding failed before
	// the format could be guessed
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("cannot decode thumbnail: %v", e.Err)
	}
	return fmt.Sprintf("cannot decode thumbnail, guessed format %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var errEmpty = errors.New("thumbnail: image is empty")

func formatName(name string) string {
	if name == "" {
		return Unknown
	}
	if ext, ok := extensions[name]; ok {
		return ext
	}
	return name
}

// Unpack base64 decodes the thumbnail payload.
func Unpack(payload string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return b, nil
}

// Decode guesses the format of the image in r and decodes it. The guessed
// format is returned even if decoding fails.
func Decode(r io.Reader) (image.Image, string, error) {
	m, name, err := image.Decode(r)
	format := formatName(name)
	if err != nil {
		return nil, format, &DecodeError{Format: format, Err: err}
	}
	if m.Bounds().Empty() {
		return nil, format, &DecodeError{Format: format, Err: errEmpty}
	}
	return m, format, nil
}

func fit(width, height, size int) (int, int) {
	ratio := math.Min(float64(size)/float64(width), float64(size)/float64(height))
	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// flatten returns an opaque copy of m keeping the color channels of
// transparent pixels as they are
func flatten(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// Resize scales m to fit inside a size by size square. The result is
// always opaque.
func Resize(m image.Image, size int) *image.NRGBA {
	b := m.Bounds()
	w, h := fit(b.Dx(), b.Dy(), size)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), flatten(m), b, draw.Src, nil)
	return dst
}

// Quantize reduces m to at most colors colors. A value of zero or less
// returns m unchanged.
func Quantize(m image.Image, colors int) image.Image {
	if colors <= 0 {
		return m
	}
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Options control the previews produced by Render.
type Options struct {
	// Small and Large are the sizes of the bounding squares
	Small int
	Large int
	// Colors limits the palette of each preview, 0 keeps every color
	Colors int
}

// Result holds the previews rendered from a thumbnail.
type Result struct {
	Format string
	Width  int
	Height int

	Small image.Image
	Large image.Image
}

// Render decodes the thumbnail image in b and produces both previews.
func Render(b []byte, opts Options) (*Result, error) {
	m, format, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	return &Result{
		Format: format,
		Width:  m.Bounds().Dx(),
		Height: m.Bounds().Dy(),
		Small:  Quantize(Resize(m, opts.Small), opts.Colors),
		Large:  Quantize(Resize(m, opts.Large), opts.Colors),
	}, nil
}
