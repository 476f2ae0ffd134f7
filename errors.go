package mkstft

import (
	"fmt"

	"github.com/bodgit/mkstft/thumbnail"
)

// ReadError is returned when a G-code file cannot be opened or read.
type ReadError struct {
	File string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read gcode file %q: %v", e.File, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when the thumbnail cannot be decoded.
type DecodeError = thumbnail.DecodeError

// WriteError is returned when a G-code file cannot be rewritten. The file
// may have been truncated.
type WriteError struct {
	File string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write gcode file %q: %v", e.File, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
