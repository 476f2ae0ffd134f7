package tft

import (
	"bufio"
	"encoding/hex"
	"errors"
	"image"
	"io"
	"strings"
)

var (
	errNoTag     = errors.New("tft: missing tag separator")
	errNoPixels  = errors.New("tft: no pixel data")
	errBadRow    = errors.New("tft: row length is not a whole number of pixels")
	errRagged    = errors.New("tft: rows are not all the same length")
	errNoTrailer = errors.New("tft: missing trailing repeat marker")
)

type decoder struct {
	r *bufio.Reader

	tag  string
	rows []string

	image *image.NRGBA
}

func (d *decoder) readBlock() error {
	line, err := d.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	line = strings.TrimSuffix(line, "\n")

	i := strings.IndexByte(line, ':')
	if i < 0 {
		return errNoTag
	}
	d.tag, line = line[:i], line[i+1:]
	if line == "" {
		return errNoPixels
	}
	d.rows = strings.Split(line, rowSeparator)

	trailer, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if strings.TrimRight(trailer, "\r\n") != RepeatMarker {
		return errNoTrailer
	}
	return nil
}

func (d *decoder) decode(r io.Reader) error {
	d.r = bufio.NewReader(r)

	if err := d.readBlock(); err != nil {
		return err
	}

	width := len(d.rows[0])
	if width%pixelDigits != 0 {
		return errBadRow
	}
	width /= pixelDigits

	d.image = image.NewNRGBA(image.Rect(0, 0, width, len(d.rows)))

	for y, row := range d.rows {
		if len(row) != width*pixelDigits {
			return errRagged
		}
		px, err := hex.DecodeString(row)
		if err != nil {
			return err
		}
		for x := 0; x < width; x++ {
			r, g, b := fromBytes(px[x*2+1], px[x*2]).RGB()
			i := d.image.PixOffset(x, y)
			d.image.Pix[i+0] = r
			d.image.Pix[i+1] = g
			d.image.Pix[i+2] = b
			d.image.Pix[i+3] = 0xff
		}
	}

	return nil
}

// Decode reads a single TFT preview block from r and returns its tag and the
// image it contains.
func Decode(r io.Reader) (string, image.Image, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return "", nil, err
	}
	return d.tag, d.image, nil
}
