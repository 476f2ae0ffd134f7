package gcode

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Provenance describes the post-processing applied to a document. It is
// written as a comment in place of the removed thumbnail.
type Provenance struct {
	Tool       string
	Version    string
	Repository string

	// Format, Width and Height describe the removed thumbnail
	Format string
	Width  int
	Height int

	// Small and Large are the configured preview sizes
	Small int
	Large int
}

func (p Provenance) String() string {
	return fmt.Sprintf("\n; MKS_TFT_PREVIEW_POSTPROCESS\n"+
		"; Post processed by %s v%s (%s)\n"+
		";  The original %s image was removed from here. Its size was %dx%d\n"+
		";  simage = %d\n"+
		";  gimage = %d\n",
		p.Tool, p.Version, p.Repository,
		p.Format, p.Width, p.Height,
		p.Small, p.Large)
}

// Rewrite writes the document to w with the thumbnail block replaced by the
// given preview blocks followed by the provenance comment. The blocks go
// first as the firmware only looks for them at the start of the file.
func (d *Document) Rewrite(w io.Writer, p Provenance, blocks ...[]byte) error {
	for _, b := range blocks {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, strings.Join(d.Header, "\n")); err != nil {
		return err
	}

	if _, err := io.WriteString(w, p.String()); err != nil {
		return err
	}

	_, err := io.WriteString(w, d.Trailer)
	return err
}

// Bytes returns the document without its thumbnail block. For a document
// that never had one this is exactly the original input.
func (d *Document) Bytes() []byte {
	b := new(bytes.Buffer)
	b.WriteString(strings.Join(d.Header, "\n"))
	b.WriteString(d.Trailer)
	return b.Bytes()
}
