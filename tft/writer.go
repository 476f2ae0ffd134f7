package tft

import (
	"encoding/hex"
	"errors"
	"image"
	"image/color"
	"io"
)

var errEmpty = errors.New("tft: image is empty")

type encoder struct {
	w   io.Writer
	row []byte
	hex []byte
}

// pixel returns the non-premultiplied channels at (x, y). Alpha is dropped
// without compositing against any background.
func pixel(m image.Image, x, y int) (uint8, uint8, uint8) {
	if nm, ok := m.(*image.NRGBA); ok {
		i := nm.PixOffset(x, y)
		return nm.Pix[i+0], nm.Pix[i+1], nm.Pix[i+2]
	}
	c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}

func (e *encoder) encode(tag string, m image.Image) error {
	b := m.Bounds()

	if _, err := io.WriteString(e.w, tag+":"); err != nil {
		return err
	}

	e.row = make([]byte, 0, b.Dx()*2)
	e.hex = make([]byte, b.Dx()*pixelDigits)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		e.row = e.row[:0]
		for x := b.Min.X; x < b.Max.X; x++ {
			hi, lo := RGB565(pixel(m, x, y))
			// The firmware reads each pixel little-endian
			e.row = append(e.row, lo, hi)
		}
		hex.Encode(e.hex, e.row)

		if y > b.Min.Y {
			if _, err := io.WriteString(e.w, rowSeparator); err != nil {
				return err
			}
		}
		if _, err := e.w.Write(e.hex); err != nil {
			return err
		}
	}

	_, err := io.WriteString(e.w, "\n"+RepeatMarker+"\n")
	return err
}

// Encode writes the Image m to w as a TFT preview block labelled with tag.
func Encode(w io.Writer, tag string, m image.Image) error {
	if m.Bounds().Empty() {
		return errEmpty
	}

	e := encoder{w: w}

	return e.encode(tag, m)
}
