/*
Package tft implements the preview image format understood by the MKS TFT
family of printer displays.

Each image is a single G-code comment line. The line starts with a tag, such
as ";simage" or ";;gimage", followed by a colon and then one record per pixel
row. Every pixel is an RGB565 value written as four lowercase hex digits, low
byte first. Rows are separated by a carriage return and the M10086 command
which the firmware uses to continue the image, and the block is terminated
with a final M10086 line. There is no compression or header, the dimensions
are implied by the row count and row length.
*/
package tft

const (
	// RepeatMarker is the command the firmware expects before every row
	// after the first one and on its own line at the end of the block
	RepeatMarker = "M10086 ;"

	// SmallTag marks the preview shown in file listings
	SmallTag = ";simage"
	// LargeTag marks the preview shown before printing
	LargeTag = ";;gimage"

	rowSeparator = "\r" + RepeatMarker
	pixelDigits  = 4
)
