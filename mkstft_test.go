package mkstft

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHeader  = "; generated by PrusaSlicer 2.6.0\n\n;\n"
	testTrailer = "\n; external perimeters extrusion width = 0.45mm\nG28\nG1 X10 Y10 ; THUMBNAIL_BLOCK_END\n"
)

var testOptions = Options{
	SmallSize: DefaultSmallSize,
	LargeSize: DefaultLargeSize,
}

func testPNG(t *testing.T, w, h int) []byte {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{uint8(x * 25), uint8(y * 25), 0xc0, 0xff})
		}
	}
	b := new(bytes.Buffer)
	require.Nil(t, png.Encode(b, m))
	return b.Bytes()
}

// testGCode wraps payload in a thumbnail block the way PrusaSlicer does
func testGCode(payload string) string {
	var sb strings.Builder
	sb.WriteString(testHeader)
	sb.WriteString("; THUMBNAIL_BLOCK_START\n;\n")
	fmt.Fprintf(&sb, "; thumbnail begin 10x10 %d\n", len(payload))
	for len(payload) > 78 {
		fmt.Fprintf(&sb, "; %s\n", payload[:78])
		payload = payload[78:]
	}
	fmt.Fprintf(&sb, "; %s\n", payload)
	sb.WriteString("; thumbnail end\n;\n; THUMBNAIL_BLOCK_END\n")
	sb.WriteString(testTrailer)
	return sb.String()
}

func writeTestFile(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "test.gcode")
	require.Nil(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func readTestFile(t *testing.T, file string) string {
	b, err := os.ReadFile(file)
	require.Nil(t, err)
	return string(b)
}

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestConverter(t *testing.T, db *PreviewDB, w io.Writer) *Converter {
	c, err := New(db, testLogger(w), testOptions)
	require.Nil(t, err)
	return c
}

func TestOptionsValidate(t *testing.T) {
	tables := []struct {
		opts Options
		ok   bool
	}{
		{Options{50, 200, 0}, true},
		{Options{255, 65535, 256}, true},
		{Options{1, 1, 2}, true},
		{Options{0, 200, 0}, false},
		{Options{256, 200, 0}, false},
		{Options{50, 0, 0}, false},
		{Options{50, 65536, 0}, false},
		{Options{50, 200, 1}, false},
		{Options{50, 200, 257}, false},
		{Options{50, 200, -1}, false},
	}

	for _, table := range tables {
		err := table.opts.Validate()
		if table.ok {
			assert.Nil(t, err, table.opts)
		} else {
			assert.NotNil(t, err, table.opts)
		}
	}

	_, err := New(nil, testLogger(io.Discard), Options{})
	assert.NotNil(t, err)
}
