package fontraster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/vovakirdan/tui-stg/internal/glyph"
)

func openDefault(t *testing.T) *Face {
	t.Helper()
	f, err := Open(glyph.FontDescriptor{Family: "go", Size: 30})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestOpenBuiltinFamilies(t *testing.T) {
	tests := []struct {
		family string
		weight int
		italic bool
	}{
		{"", 400, false},
		{"go", 700, false},
		{"goregular", 400, true},
		{"gomono", 400, false},
		{"GoMono", 700, true},
	}

	for _, tt := range tests {
		f, err := Open(glyph.FontDescriptor{Family: tt.family, Size: 16, Weight: tt.weight, Italic: tt.italic})
		if err != nil {
			t.Errorf("Open(%q) failed: %v", tt.family, err)
			continue
		}
		if f.TextMetrics().Height <= 0 {
			t.Errorf("Open(%q) height = %d", tt.family, f.TextMetrics().Height)
		}
		_ = f.Close()
	}
}

func TestOpenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(glyph.FontDescriptor{Family: path, Size: 20})
	if err != nil {
		t.Fatalf("Open(path) failed: %v", err)
	}
	defer f.Close()

	if _, _, err := f.GlyphOutline('a', glyph.FormatGray4, glyph.IdentityMat2, nil); err != nil {
		t.Errorf("GlyphOutline() failed: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(glyph.FontDescriptor{Family: "go", Size: 0}); err == nil {
		t.Error("zero size should fail")
	}
	if _, err := Open(glyph.FontDescriptor{Family: filepath.Join(t.TempDir(), "missing.ttf"), Size: 12}); err == nil {
		t.Error("missing file should fail")
	}

	junk := filepath.Join(t.TempDir(), "junk.ttf")
	if err := os.WriteFile(junk, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(glyph.FontDescriptor{Family: junk, Size: 12}); err == nil {
		t.Error("garbage font data should fail")
	}
}

func TestTextMetrics(t *testing.T) {
	tm := openDefault(t).TextMetrics()
	if tm.Ascent <= 0 || tm.Descent <= 0 {
		t.Errorf("ascent/descent = %d/%d", tm.Ascent, tm.Descent)
	}
	if tm.Height != tm.Ascent+tm.Descent {
		t.Errorf("height %d != ascent %d + descent %d", tm.Height, tm.Ascent, tm.Descent)
	}
	if tm.AveCharWidth <= 0 || tm.MaxCharWidth < tm.AveCharWidth {
		t.Errorf("char widths = %d/%d", tm.AveCharWidth, tm.MaxCharWidth)
	}
}

func TestGlyphOutlineTwoCalls(t *testing.T) {
	f := openDefault(t)

	gm, size, err := f.GlyphOutline('H', glyph.FormatGray4, glyph.IdentityMat2, nil)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	w, h := int(gm.BlackBoxX), int(gm.BlackBoxY)
	if w == 0 || h == 0 {
		t.Fatalf("black box = %dx%d", w, h)
	}
	stride := glyph.Gray4Stride(w)
	if size != stride*h {
		t.Errorf("size = %d, expected %d", size, stride*h)
	}
	if gm.OriginY <= 0 {
		t.Errorf("capital letter should rise above the baseline, OriginY = %d", gm.OriginY)
	}
	if gm.CellIncX <= 0 {
		t.Errorf("advance = %d", gm.CellIncX)
	}

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0xAA
	}
	gm2, size2, err := f.GlyphOutline('H', glyph.FormatGray4, glyph.IdentityMat2, buf)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gm2 != gm || size2 != size {
		t.Errorf("fetch metrics %+v/%d differ from measure %+v/%d", gm2, size2, gm, size)
	}

	var peak byte
	for y := 0; y < h; y++ {
		for x := 0; x < stride; x++ {
			c := buf[y*stride+x]
			if x >= w {
				if c != 0 {
					t.Fatalf("padding byte (%d,%d) = %d", x, y, c)
				}
				continue
			}
			if c > 16 {
				t.Fatalf("coverage (%d,%d) = %d exceeds 16", x, y, c)
			}
			peak = max(peak, c)
		}
	}
	if peak == 0 {
		t.Error("bitmap is blank")
	}
}

func TestGlyphOutlineSpace(t *testing.T) {
	f := openDefault(t)
	gm, _, err := f.GlyphOutline(' ', glyph.FormatGray4, glyph.IdentityMat2, nil)
	if err != nil {
		t.Fatalf("GlyphOutline(' ') failed: %v", err)
	}
	if gm.CellIncX <= 0 {
		t.Errorf("space advance = %d", gm.CellIncX)
	}
}

func TestGlyphOutlineErrors(t *testing.T) {
	f := openDefault(t)

	skew := glyph.IdentityMat2
	skew.M12 = glyph.Fixed{Fraction: 0x8000}
	if _, _, err := f.GlyphOutline('a', glyph.FormatGray4, skew, nil); !errors.Is(err, ErrUnsupportedTransform) {
		t.Errorf("transform error = %v", err)
	}
	if _, _, err := f.GlyphOutline('a', glyph.Format(9), glyph.IdentityMat2, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("format error = %v", err)
	}
	if _, _, err := f.GlyphOutline('W', glyph.FormatGray4, glyph.IdentityMat2, make([]byte, 1)); err == nil {
		t.Error("short buffer should fail")
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.GlyphOutline('a', glyph.FormatGray4, glyph.IdentityMat2, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("closed error = %v", err)
	}
}

func TestOpenerFeedsAtlas(t *testing.T) {
	var open glyph.Opener = Opener
	r, err := open(glyph.FontDescriptor{Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.TextMetrics().Height == 0 {
		t.Error("rasterizer has no metrics")
	}
}
