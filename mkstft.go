/*
Package mkstft is a library for preparing slicer G-code for printers fitted
with an MKS TFT display.

Slicers embed a base64 thumbnail in the G-code but the display firmware only
understands its own RGB565 hex previews. A Converter replaces the thumbnail
with a small and a large preview in that format and leaves every other byte
of the file alone.
*/
package mkstft

import (
	"fmt"
	"log/slog"
)

const (
	// Name is the tool name recorded in processed files
	Name = "mkstft"
	// Repository is recorded in processed files next to the version
	Repository = "https://github.com/bodgit/mkstft"

	// DefaultSmallSize is the size of the preview shown in file listings
	DefaultSmallSize = 50
	// DefaultLargeSize is the size of the preview shown before printing
	DefaultLargeSize = 200

	maxSmallSize = 1<<8 - 1
	maxLargeSize = 1<<16 - 1
	maxColors    = 256
)

// Version is recorded in processed files
var Version = "1.0.0"

// Options configure the previews written by a Converter.
type Options struct {
	SmallSize int
	LargeSize int
	// Colors limits each preview to a palette of this many colors, 0
	// keeps every color
	Colors int
}

// Validate checks the options are within the limits of the firmware.
func (o Options) Validate() error {
	if o.SmallSize < 1 || o.SmallSize > maxSmallSize {
		return fmt.Errorf("simage size %d is not between 1 and %d", o.SmallSize, maxSmallSize)
	}
	if o.LargeSize < 1 || o.LargeSize > maxLargeSize {
		return fmt.Errorf("gimage size %d is not between 1 and %d", o.LargeSize, maxLargeSize)
	}
	if o.Colors != 0 && (o.Colors < 2 || o.Colors > maxColors) {
		return fmt.Errorf("number of colors %d is not between 2 and %d", o.Colors, maxColors)
	}
	return nil
}

// Converter rewrites G-code files with MKS TFT previews.
type Converter struct {
	db     *PreviewDB
	logger *slog.Logger
	opts   Options
}

// New returns a Converter. db is optional and caches rendered previews.
func New(db *PreviewDB, logger *slog.Logger, opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{
		db:     db,
		logger: logger,
		opts:   opts,
	}, nil
}
