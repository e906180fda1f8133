// Package fontraster is the host glyph rasterizer behind the glyph atlas.
// It renders outlines from the Go font family, or any TrueType/OpenType file,
// into 17-level coverage bitmaps.
package fontraster

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/tui-stg/internal/glyph"
)

var (
	ErrUnsupportedTransform = errors.New("fontraster: only the identity transform is supported")
	ErrUnsupportedFormat    = errors.New("fontraster: unsupported bitmap format")
	ErrGlyphMissing         = errors.New("fontraster: glyph missing from font")
	ErrClosed               = errors.New("fontraster: face closed")
)

// BoldWeight is the lowest weight rendered with a bold face.
const BoldWeight = 600

// Face is an opened font at a fixed pixel size.
type Face struct {
	mu      sync.Mutex
	face    font.Face
	desc    glyph.FontDescriptor
	metrics glyph.TextMetrics
}

var _ glyph.Rasterizer = (*Face)(nil)

// Open resolves desc to font data and creates a face at desc.Size pixels.
// It satisfies glyph.Opener.
func Open(desc glyph.FontDescriptor) (*Face, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("fontraster: invalid size %d", desc.Size)
	}

	f, err := loadFont(desc)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(desc.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("fontraster: create face: %w", err)
	}

	fc := &Face{face: face, desc: desc}
	fc.metrics = measureText(face, desc.Size)
	return fc, nil
}

// Opener adapts Open to the glyph.Opener signature.
func Opener(desc glyph.FontDescriptor) (glyph.Rasterizer, error) {
	return Open(desc)
}

func loadFont(desc glyph.FontDescriptor) (*opentype.Font, error) {
	if data, ok := builtin(desc); ok {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("fontraster: parse builtin %q: %w", desc.Family, err)
		}
		return f, nil
	}

	data, err := os.ReadFile(desc.Family)
	if err != nil {
		return nil, fmt.Errorf("fontraster: read font: %w", err)
	}
	if strings.EqualFold(filepath.Ext(desc.Family), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("fontraster: parse collection %s: %w", desc.Family, err)
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("fontraster: collection %s: %w", desc.Family, err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontraster: parse %s: %w", desc.Family, err)
	}
	return f, nil
}

// builtin maps the Go font family names onto their embedded TTF data.
func builtin(desc glyph.FontDescriptor) ([]byte, bool) {
	bold := desc.Weight >= BoldWeight
	switch strings.ToLower(desc.Family) {
	case "", "go", "goregular", "go regular":
		switch {
		case bold && desc.Italic:
			return gobolditalic.TTF, true
		case bold:
			return gobold.TTF, true
		case desc.Italic:
			return goitalic.TTF, true
		}
		return goregular.TTF, true
	case "gomono", "go mono":
		switch {
		case bold && desc.Italic:
			return gomonobolditalic.TTF, true
		case bold:
			return gomonobold.TTF, true
		case desc.Italic:
			return gomonoitalic.TTF, true
		}
		return gomono.TTF, true
	}
	return nil, false
}

func measureText(face font.Face, size int) glyph.TextMetrics {
	m := face.Metrics()
	tm := glyph.TextMetrics{
		Ascent:  m.Ascent.Ceil(),
		Descent: m.Descent.Ceil(),
	}
	tm.Height = tm.Ascent + tm.Descent
	if tm.Height > size {
		tm.InternalLeading = tm.Height - size
	}
	if adv, ok := face.GlyphAdvance('x'); ok {
		tm.AveCharWidth = adv.Round()
	}
	for _, r := range "WM@" {
		if adv, ok := face.GlyphAdvance(r); ok && adv.Round() > tm.MaxCharWidth {
			tm.MaxCharWidth = adv.Round()
		}
	}
	return tm
}

// TextMetrics returns the font-wide metrics.
func (f *Face) TextMetrics() glyph.TextMetrics {
	return f.metrics
}

// Descriptor returns the descriptor the face was opened with.
func (f *Face) Descriptor() glyph.FontDescriptor {
	return f.desc
}

// GlyphOutline reports the metrics of code and the byte size of its GRAY4
// bitmap. When buf is non-nil the bitmap is also written to it, one coverage
// sample in [0,16] per byte and rows padded to four bytes.
func (f *Face) GlyphOutline(code rune, format glyph.Format, m glyph.Mat2, buf []byte) (glyph.GlyphMetrics, int, error) {
	if format != glyph.FormatGray4 {
		return glyph.GlyphMetrics{}, 0, ErrUnsupportedFormat
	}
	if m != glyph.IdentityMat2 {
		return glyph.GlyphMetrics{}, 0, ErrUnsupportedTransform
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.face == nil {
		return glyph.GlyphMetrics{}, 0, ErrClosed
	}

	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, code)
	if !ok {
		return glyph.GlyphMetrics{}, 0, fmt.Errorf("%w: %U", ErrGlyphMissing, code)
	}

	w, h := dr.Dx(), dr.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	gm := glyph.GlyphMetrics{
		BlackBoxX: uint32(w),
		BlackBoxY: uint32(h),
		OriginX:   int32(dr.Min.X),
		OriginY:   int32(-dr.Min.Y),
		CellIncX:  int16(advance.Round()),
	}
	stride := glyph.Gray4Stride(w)
	size := stride * h

	if buf == nil || size == 0 {
		return gm, size, nil
	}
	if len(buf) < size {
		return glyph.GlyphMetrics{}, 0, fmt.Errorf("fontraster: buffer has %d bytes, glyph %U needs %d", len(buf), code, size)
	}

	quantize(buf[:size], stride, w, h, mask, maskp)
	return gm, size, nil
}

// quantize copies the glyph mask into dst as 17-level coverage.
func quantize(dst []byte, stride, w, h int, mask image.Image, maskp image.Point) {
	clear(dst)
	if alpha, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			src := alpha.Pix[alpha.PixOffset(maskp.X, maskp.Y+y):]
			row := dst[y*stride:]
			for x := 0; x < w; x++ {
				row[x] = levelOf(uint32(src[x]) * 0x101)
			}
		}
		return
	}
	for y := 0; y < h; y++ {
		row := dst[y*stride:]
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			row[x] = levelOf(a)
		}
	}
}

// levelOf maps a 16-bit alpha onto [0,16].
func levelOf(a uint32) byte {
	return byte((a*16 + 0x7fff) / 0xffff)
}

// Close releases the face. Further outline requests fail with ErrClosed.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}
