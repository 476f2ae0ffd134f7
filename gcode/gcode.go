/*
Package gcode splits a slicer-produced G-code file around its embedded
thumbnail and reassembles it with the thumbnail replaced.

Slicers write the thumbnail as base64 text in comment lines between a line
containing THUMBNAIL_BLOCK_START and one containing THUMBNAIL_BLOCK_END. The
first comment line inside the block announces the thumbnail, for example
"thumbnail begin 300x300 12345", and the last one closes it. Everything
outside the block is kept byte for byte.
*/
package gcode

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// StartMarker opens the thumbnail block
	StartMarker = "THUMBNAIL_BLOCK_START"
	// EndMarker closes the thumbnail block
	EndMarker = "THUMBNAIL_BLOCK_END"
)

var (
	// ErrNoPayload is returned when the thumbnail block holds nothing
	// between its opening and closing lines
	ErrNoPayload = errors.New("gcode: thumbnail has no payload")
	// ErrUnterminated is returned for a thumbnail block with no end marker
	ErrUnterminated = errors.New("gcode: thumbnail block is not terminated")
)

// Document is a G-code file split around its thumbnail block.
type Document struct {
	// Header holds every line before the start marker without its
	// trailing newline
	Header []string
	// Thumbnail holds the non-empty lines inside the block with the
	// leading comment characters and surrounding whitespace removed
	Thumbnail []string
	// Trailer is everything after the end marker, unmodified
	Trailer string

	// Started records the start marker and Terminated an end marker
	// closing the block it opened
	Started    bool
	Terminated bool
}

// HasThumbnail reports whether the document carries any thumbnail lines.
func (d *Document) HasThumbnail() bool {
	return len(d.Thumbnail) > 0
}

// Payload returns the base64 text between the first and last thumbnail
// lines.
func (d *Document) Payload() (string, error) {
	if len(d.Thumbnail) < 2 {
		return "", ErrNoPayload
	}
	return strings.Join(d.Thumbnail[1:len(d.Thumbnail)-1], ""), nil
}

// Declaration is the information announced by the opening thumbnail line.
type Declaration struct {
	Format string
	Width  int
	Height int
	Length int
}

// Declared parses the opening thumbnail line. Both "thumbnail begin" and
// the format-qualified "thumbnail_JPG begin" forms are understood.
func (d *Document) Declared() (Declaration, bool) {
	if len(d.Thumbnail) == 0 {
		return Declaration{}, false
	}

	f := strings.Fields(d.Thumbnail[0])
	if len(f) != 4 || f[1] != "begin" || !strings.HasPrefix(f[0], "thumbnail") {
		return Declaration{}, false
	}

	var decl Declaration
	decl.Format = strings.TrimPrefix(strings.TrimPrefix(f[0], "thumbnail"), "_")

	dim := strings.SplitN(f[2], "x", 2)
	if len(dim) != 2 {
		return Declaration{}, false
	}

	var err error
	if decl.Width, err = strconv.Atoi(dim[0]); err != nil {
		return Declaration{}, false
	}
	if decl.Height, err = strconv.Atoi(dim[1]); err != nil {
		return Declaration{}, false
	}
	if decl.Length, err = strconv.Atoi(f[3]); err != nil {
		return Declaration{}, false
	}

	return decl, true
}
