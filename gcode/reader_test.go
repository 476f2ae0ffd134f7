package gcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGCode = "; generated by PrusaSlicer\n" +
	";\n" +
	"; THUMBNAIL_BLOCK_START\n" +
	";\n" +
	"; thumbnail begin 2x2 12\n" +
	"; aGVsbG8g\n" +
	"; d29ybGQ=\n" +
	"; thumbnail end\n" +
	";\n" +
	"; THUMBNAIL_BLOCK_END\n" +
	"\n" +
	"G28 ; home\n" +
	"G1 X10 Y10\n"

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(testGCode))
	require.Nil(t, err)

	assert.True(t, d.Started)
	assert.True(t, d.Terminated)
	assert.True(t, d.HasThumbnail())
	assert.Equal(t, []string{"; generated by PrusaSlicer", ";"}, d.Header)
	assert.Equal(t, []string{"thumbnail begin 2x2 12", "aGVsbG8g", "d29ybGQ=", "thumbnail end"}, d.Thumbnail)
	assert.Equal(t, "\nG28 ; home\nG1 X10 Y10\n", d.Trailer)

	payload, err := d.Payload()
	require.Nil(t, err)
	assert.Equal(t, "aGVsbG8gd29ybGQ=", payload)
}

func TestReadTrailerIsOpaque(t *testing.T) {
	input := "; THUMBNAIL_BLOCK_START\n; a\n; THUMBNAIL_BLOCK_END\nG1\r\n; THUMBNAIL_BLOCK_START\n\n  trailing"

	d, err := Read(strings.NewReader(input))
	require.Nil(t, err)
	assert.Empty(t, d.Header)
	assert.Equal(t, []string{"a"}, d.Thumbnail)
	assert.Equal(t, "G1\r\n; THUMBNAIL_BLOCK_START\n\n  trailing", d.Trailer)
}

func TestReadWithoutThumbnail(t *testing.T) {
	tables := []string{
		"",
		"\n",
		"G28",
		"G28\n",
		"G28\nG1 X1\n\n",
		"; header\r\nG28\r\nG1 X1\r\n",
	}

	for _, input := range tables {
		d, err := Read(strings.NewReader(input))
		require.Nil(t, err)
		assert.False(t, d.HasThumbnail())
		assert.Equal(t, input, string(d.Bytes()))
	}
}

func TestReadEndBeforeStart(t *testing.T) {
	input := "G28\n; THUMBNAIL_BLOCK_END\n; THUMBNAIL_BLOCK_START\n; thumbnail begin 1x1 4\n; AAAA\n; thumbnail end\n; THUMBNAIL_BLOCK_END\nG1 X1\n"

	d, err := Read(strings.NewReader(input))
	require.Nil(t, err)

	assert.False(t, d.Started)
	assert.False(t, d.Terminated)
	assert.False(t, d.HasThumbnail())
	assert.Equal(t, []string{"G28"}, d.Header)
	assert.Equal(t, "; THUMBNAIL_BLOCK_START\n; thumbnail begin 1x1 4\n; AAAA\n; thumbnail end\n; THUMBNAIL_BLOCK_END\nG1 X1\n", d.Trailer)
}

func TestReadUnterminated(t *testing.T) {
	d, err := Read(strings.NewReader("G28\n; THUMBNAIL_BLOCK_START\n; thumbnail begin 1x1 4\n; AAAA\nG1 X1\n"))
	require.Nil(t, err)

	assert.True(t, d.Started)
	assert.False(t, d.Terminated)
	assert.Equal(t, []string{"G28"}, d.Header)
	assert.Equal(t, []string{"thumbnail begin 1x1 4", "AAAA", "G1 X1"}, d.Thumbnail)
	assert.Equal(t, "", d.Trailer)
}

func TestReadKeepsCarriageReturns(t *testing.T) {
	d, err := Read(strings.NewReader("; a\r\n; b\r\n; THUMBNAIL_BLOCK_START\r\n; thumbnail begin\r\n; QUJD\r\n; thumbnail end\r\n; THUMBNAIL_BLOCK_END\r\nG28\r\n"))
	require.Nil(t, err)

	assert.Equal(t, []string{"; a\r", "; b\r"}, d.Header)
	assert.Equal(t, []string{"thumbnail begin", "QUJD", "thumbnail end"}, d.Thumbnail)
	assert.Equal(t, "G28\r\n", d.Trailer)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestReadError(t *testing.T) {
	_, err := Read(failingReader{})
	assert.EqualError(t, err, "boom")
}

func TestPayload(t *testing.T) {
	tables := []struct {
		lines   []string
		payload string
		err     error
	}{
		{nil, "", ErrNoPayload},
		{[]string{"thumbnail begin"}, "", ErrNoPayload},
		{[]string{"thumbnail begin", "thumbnail end"}, "", nil},
		{[]string{"thumbnail begin", "QU", "JD", "thumbnail end"}, "QUJD", nil},
	}

	for _, table := range tables {
		d := Document{Thumbnail: table.lines}
		payload, err := d.Payload()
		assert.Equal(t, table.err, err)
		assert.Equal(t, table.payload, payload)
	}
}

func TestDeclared(t *testing.T) {
	tables := []struct {
		line string
		decl Declaration
		ok   bool
	}{
		{"thumbnail begin 300x300 12345", Declaration{"", 300, 300, 12345}, true},
		{"thumbnail_JPG begin 16x12 400", Declaration{"JPG", 16, 12, 400}, true},
		{"thumbnail end", Declaration{}, false},
		{"thumbnail begin 300 12345", Declaration{}, false},
		{"thumbnail begin AxB 1", Declaration{}, false},
		{"iVBORw0KGgo", Declaration{}, false},
	}

	for _, table := range tables {
		d := Document{Thumbnail: []string{table.line}}
		decl, ok := d.Declared()
		assert.Equal(t, table.ok, ok, table.line)
		assert.Equal(t, table.decl, decl, table.line)
	}

	_, ok := new(Document).Declared()
	assert.False(t, ok)
}
