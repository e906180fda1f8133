// Package glyph caches rasterized glyph textures per font instance.
//
// An Atlas owns one rasterizer (the host font engine bound to a single font)
// and shares a GPU device. The first Lookup of a character rasterizes its
// coverage bitmap, expands it to RGBA, uploads it as an immutable texture and
// stores the result; later lookups are map hits. Whitespace characters are
// stored with metrics only.
package glyph

import (
	"github.com/vovakirdan/tui-stg/internal/gpu"
)

// GlyphMetrics describes one glyph's black box and pen movement in pixels.
// OriginX/OriginY locate the upper-left corner of the black box relative to
// the pen position on the baseline, with y growing upward.
type GlyphMetrics struct {
	BlackBoxX uint32
	BlackBoxY uint32
	OriginX   int32
	OriginY   int32
	CellIncX  int16
	CellIncY  int16
}

// GlyphData is a cache entry. View is nil for glyphs that have no texture
// (whitespace and empty black boxes).
type GlyphData struct {
	Metrics GlyphMetrics
	View    *gpu.ShaderResourceView
}

// HasTexture reports whether the glyph has something to draw.
func (g GlyphData) HasTexture() bool {
	return g.View != nil
}

// FontDescriptor selects a font. Only the rasterizer interprets it.
type FontDescriptor struct {
	Family  string `yaml:"family" toml:"family"`
	Size    int    `yaml:"size" toml:"size"` // pixel height
	Weight  int    `yaml:"weight" toml:"weight"`
	Italic  bool   `yaml:"italic" toml:"italic"`
	Charset string `yaml:"charset" toml:"charset"`
}

// TextMetrics are font-wide measurements in pixels.
type TextMetrics struct {
	Height          int
	Ascent          int
	Descent         int
	InternalLeading int
	AveCharWidth    int
	MaxCharWidth    int
}

// Format selects the bitmap a rasterizer returns.
type Format int

const (
	// FormatGray4 is one coverage sample per byte with 17 levels (0..16),
	// rows padded to a multiple of 4 bytes.
	FormatGray4 Format = iota
)

// CoverageLevels is the number of distinct FormatGray4 samples.
const CoverageLevels = 17

// Fixed is a 16.16 fixed point number.
type Fixed struct {
	Value    int16
	Fraction uint16
}

// Mat2 is the 2x2 glyph transform handed to the rasterizer.
type Mat2 struct {
	M11, M12 Fixed
	M21, M22 Fixed
}

// IdentityMat2 is the only transform the atlas uses.
var IdentityMat2 = Mat2{
	M11: Fixed{Value: 1},
	M22: Fixed{Value: 1},
}

// Rasterizer is the host font engine bound to one font.
type Rasterizer interface {
	// TextMetrics returns font-wide metrics.
	TextMetrics() TextMetrics

	// GlyphOutline measures code when buf is nil, returning the metrics and
	// the number of bytes the bitmap needs. With a buffer of at least that
	// size it also writes the bitmap.
	GlyphOutline(code rune, format Format, m Mat2, buf []byte) (GlyphMetrics, int, error)

	// Close releases the font and rendering surface.
	Close() error
}

// Opener realizes a font descriptor as a Rasterizer.
type Opener func(desc FontDescriptor) (Rasterizer, error)

// Device is the texture upload service the atlas needs.
type Device interface {
	CreateTexture2D(desc gpu.TextureDesc, init *gpu.SubresourceData) (*gpu.Texture, error)
	CreateShaderResourceView(tex *gpu.Texture) (*gpu.ShaderResourceView, error)
}

// Gray4Stride returns the padded row size in bytes for a FormatGray4 bitmap.
func Gray4Stride(width int) int {
	return (width + 3) &^ 3
}
