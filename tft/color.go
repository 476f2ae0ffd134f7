package tft

import "image/color"

// Color is a 16-bit color packed as 5 bits red, 6 bits green and 5 bits
// blue, most significant bits first.
type Color uint16

// RGB565 packs an 8-bit per channel color and returns the high and low bytes
// of the result. The channels are truncated, not rounded.
func RGB565(r, g, b uint8) (byte, byte) {
	c := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	return byte(c >> 8), byte(c)
}

func fromBytes(hi, lo byte) Color {
	return Color(uint16(hi)<<8 | uint16(lo))
}

// RGB returns the 8-bit per channel approximation of c. The lost low bits
// are left as zero.
func (c Color) RGB() (uint8, uint8, uint8) {
	return uint8(c>>11) << 3, uint8(c>>5&0x3f) << 2, uint8(c&0x1f) << 3
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := c.RGB()
	return color.RGBA{r, g, b, 0xff}.RGBA()
}

// Model converts any color.Color to a Color.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fromBytes(RGB565(n.R, n.G, n.B))
}
