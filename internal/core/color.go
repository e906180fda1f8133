package core

// Color is a floating point RGBA tint. Channels are nominally in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White returns opaque white, the default tint of every game object.
func White() Color {
	return Color{R: 1, G: 1, B: 1, A: 1}
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Set replaces all four channels.
func (c *Color) Set(r, g, b, a float64) {
	c.R, c.G, c.B, c.A = r, g, b, a
}

// RGBA8 converts the color to 8-bit channels, clamping out-of-range values.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return unit8(c.R), unit8(c.G), unit8(c.B), unit8(c.A)
}

func unit8(v float64) uint8 {
	return uint8(ClampF(v, 0, 1)*255 + 0.5)
}

// RGB8 is a terminal cell color with 8-bit channels.
type RGB8 struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB8) Hex() string {
	const digits = "0123456789abcdef"
	return string([]byte{
		'#',
		digits[c.R>>4], digits[c.R&0x0f],
		digits[c.G>>4], digits[c.G&0x0f],
		digits[c.B>>4], digits[c.B&0x0f],
	})
}

// TextureID selects which sprite texture an object is drawn with.
type TextureID uint8

const (
	TextureXchu TextureID = iota
	TextureBullet
)

// String returns the sprite name, which is also its file stem in the data directory.
func (t TextureID) String() string {
	switch t {
	case TextureXchu:
		return "xchu"
	case TextureBullet:
		return "bullet"
	default:
		return "unknown"
	}
}
