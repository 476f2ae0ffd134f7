package mkstft

import (
	"bufio"
	"errors"
	"image"
	"io"
	"strings"

	"github.com/bodgit/mkstft/tft"
)

// ErrNoPreviews is returned by Previews when a file has no MKS TFT previews
var ErrNoPreviews = errors.New("no tft previews found")

// Previews returns the MKS TFT previews in an already converted file keyed
// by their tag.
func Previews(r io.Reader) (map[string]image.Image, error) {
	br := bufio.NewReader(r)
	previews := make(map[string]image.Image)

	for len(previews) < 2 {
		// Preview lines can be far longer than bufio.Scanner allows
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		if strings.HasPrefix(line, tft.SmallTag+":") || strings.HasPrefix(line, tft.LargeTag+":") {
			trailer, terr := br.ReadString('\n')
			if terr != nil && terr != io.EOF {
				return nil, terr
			}
			tag, m, derr := tft.Decode(strings.NewReader(line + trailer))
			if derr != nil {
				return nil, derr
			}
			previews[tag] = m
			err = terr
		}

		if err == io.EOF {
			break
		}
	}

	if len(previews) == 0 {
		return nil, ErrNoPreviews
	}

	return previews, nil
}
