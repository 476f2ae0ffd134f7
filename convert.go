package mkstft

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"os"

	"github.com/bodgit/mkstft/gcode"
	"github.com/bodgit/mkstft/tft"
	"github.com/bodgit/mkstft/thumbnail"
)

func readFile(file string) (*gcode.Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, &ReadError{File: file, Err: err}
	}
	defer f.Close()

	d, err := gcode.Read(f)
	if err != nil {
		return nil, &ReadError{File: file, Err: err}
	}
	return d, nil
}

func (c *Converter) encode(r *thumbnail.Result) (*preview, error) {
	p := &preview{
		format: r.Format,
		width:  r.Width,
		height: r.Height,
	}

	c.logger.Debug("creating tft image", "tag", tft.SmallTag, "width", r.Small.Bounds().Dx(), "height", r.Small.Bounds().Dy())
	small := new(bytes.Buffer)
	if err := tft.Encode(small, tft.SmallTag, r.Small); err != nil {
		return nil, err
	}
	p.small = small.Bytes()

	c.logger.Debug("creating tft image", "tag", tft.LargeTag, "width", r.Large.Bounds().Dx(), "height", r.Large.Bounds().Dy())
	large := new(bytes.Buffer)
	if err := tft.Encode(large, tft.LargeTag, r.Large); err != nil {
		return nil, err
	}
	p.large = large.Bytes()

	return p, nil
}

func (c *Converter) render(b []byte) (*preview, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	if c.db != nil {
		p, err := c.db.find(sha, c.opts)
		switch {
		case err != nil:
			c.logger.Warn("cannot query preview cache", "sha1", sha, "error", err)
		case p != nil:
			c.logger.Debug("using cached previews", "sha1", sha, "format", p.format)
			return p, nil
		}
	}

	c.logger.Debug("decoding image")
	r, err := thumbnail.Render(b, thumbnail.Options{
		Small:  c.opts.SmallSize,
		Large:  c.opts.LargeSize,
		Colors: c.opts.Colors,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("image has been decoded", "format", r.Format, "width", r.Width, "height", r.Height)

	p, err := c.encode(r)
	if err != nil {
		return nil, err
	}

	if c.db != nil {
		if err := c.db.add(sha, c.opts, p); err != nil {
			c.logger.Warn("cannot update preview cache", "sha1", sha, "error", err)
		}
	}

	return p, nil
}

// Convert replaces the thumbnail in file with MKS TFT previews. A file
// without a thumbnail is left untouched and is not an error. Nothing is
// written unless the previews were rendered successfully, but a failure
// while writing can leave the file truncated.
func (c *Converter) Convert(file string) error {
	c.logger.Info("reading gcode", "file", file)
	d, err := readFile(file)
	if err != nil {
		return err
	}

	if !d.HasThumbnail() {
		c.logger.Warn("there is no image in gcode file, leaving the original file unchanged", "file", file)
		return nil
	}

	if !d.Terminated {
		return &DecodeError{Err: gcode.ErrUnterminated}
	}

	payload, err := d.Payload()
	if err != nil {
		return &DecodeError{Err: err}
	}

	if decl, ok := d.Declared(); ok && decl.Length != len(payload) {
		c.logger.Warn("thumbnail length does not match its declaration", "file", file, "declared", decl.Length, "actual", len(payload))
	}

	c.logger.Debug("decoding base64 image from gcode")
	b, err := thumbnail.Unpack(payload)
	if err != nil {
		return err
	}

	p, err := c.render(b)
	if err != nil {
		return err
	}

	out := new(bytes.Buffer)
	if err := d.Rewrite(out, gcode.Provenance{
		Tool:       Name,
		Version:    Version,
		Repository: Repository,
		Format:     p.format,
		Width:      p.width,
		Height:     p.height,
		Small:      c.opts.SmallSize,
		Large:      c.opts.LargeSize,
	}, p.small, p.large); err != nil {
		return &WriteError{File: file, Err: err}
	}

	c.logger.Debug("writing gcode with converted image", "file", file)
	f, err := os.Create(file)
	if err != nil {
		return &WriteError{File: file, Err: err}
	}

	if _, err := f.Write(out.Bytes()); err != nil {
		f.Close()
		return &WriteError{File: file, Err: err}
	}

	if err := f.Close(); err != nil {
		return &WriteError{File: file, Err: err}
	}

	return nil
}
