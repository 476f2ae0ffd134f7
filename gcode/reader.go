package gcode

import (
	"bufio"
	"io"
	"strings"
)

func cleanThumbnailLine(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, ";"))
}

// Read splits the G-code in r into a Document. Any content is accepted
// inside the thumbnail block; it is only validated once decoded.
func Read(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	d := new(Document)

scan:
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		eof := err == io.EOF
		line = strings.TrimSuffix(line, "\n")

		switch {
		case strings.Contains(line, StartMarker):
			d.Started = true
		case strings.Contains(line, EndMarker):
			// Any end marker stops scanning, one seen before the start
			// marker leaves the document without a thumbnail
			d.Terminated = d.Started
			break scan
		case d.Started:
			if clean := cleanThumbnailLine(line); clean != "" {
				d.Thumbnail = append(d.Thumbnail, clean)
			}
		default:
			// At EOF the last fragment is kept even when empty so that
			// joining the header restores a final newline
			d.Header = append(d.Header, line)
		}

		if eof {
			return d, nil
		}
	}

	b, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	d.Trailer = string(b)

	return d, nil
}
