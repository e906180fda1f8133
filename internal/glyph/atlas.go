package glyph

import (
	"fmt"
	"io"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stg/internal/gpu"
)

// Stats counts cache activity since construction.
type Stats struct {
	Hits       uint64 // Lookup served from the cache
	Misses     uint64 // Lookup that had to measure the glyph
	Rasterized uint64 // glyphs uploaded as textures
	Whitespace uint64 // glyphs stored with metrics only
}

// Option configures an Atlas.
type Option func(*Atlas)

// WithLogger sets the logger used to report rasterization.
func WithLogger(l *log.Logger) Option {
	return func(a *Atlas) {
		a.logger = l
	}
}

// Atlas is the per-font glyph cache. It must not be copied; pass *Atlas.
//
// Lookup and the mutating methods are meant for the single render goroutine.
// The read-only accessors may be called concurrently with each other.
type Atlas struct {
	mu            sync.RWMutex
	device        Device
	rast          Rasterizer
	desc          FontDescriptor
	metrics       TextMetrics
	premultiplied bool
	glyphs        map[rune]GlyphData
	stats         Stats
	logger        *log.Logger
}

// New opens desc through open and returns an empty atlas that uploads
// glyph textures to dev. The atlas owns the rasterizer; Close releases it.
func New(dev Device, open Opener, desc FontDescriptor, premultiplied bool, opts ...Option) (*Atlas, error) {
	if dev == nil {
		return nil, &ConstructionError{Desc: desc, Err: fmt.Errorf("nil device")}
	}
	rast, err := open(desc)
	if err != nil {
		return nil, &ConstructionError{Desc: desc, Err: err}
	}

	a := &Atlas{
		device:        dev,
		rast:          rast,
		desc:          desc,
		metrics:       rast.TextMetrics(),
		premultiplied: premultiplied,
		glyphs:        make(map[rune]GlyphData),
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger.Debug("glyph atlas ready",
		"family", desc.Family,
		"size", desc.Size,
		"height", a.metrics.Height,
		"ascent", a.metrics.Ascent,
		"premultiplied", premultiplied,
	)
	return a, nil
}

// Lookup returns the glyph for code, rasterizing and uploading it on first use.
func (a *Atlas) Lookup(code rune) (GlyphData, error) {
	a.mu.RLock()
	g, ok := a.glyphs[code]
	closed := a.rast == nil
	a.mu.RUnlock()
	if ok {
		a.mu.Lock()
		a.stats.Hits++
		a.mu.Unlock()
		return g, nil
	}
	if closed {
		return GlyphData{}, ErrClosed
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if g, ok := a.glyphs[code]; ok {
		a.stats.Hits++
		return g, nil
	}
	if a.rast == nil {
		return GlyphData{}, ErrClosed
	}
	a.stats.Misses++

	g, err := a.build(code)
	if err != nil {
		a.logger.Error("glyph rasterization failed", "code", string(code), "error", err)
		return GlyphData{}, err
	}
	a.glyphs[code] = g
	return g, nil
}

// build runs the measure / fetch / expand / upload pipeline for one glyph.
// Nothing is cached when it fails.
func (a *Atlas) build(code rune) (GlyphData, error) {
	gm, size, err := a.rast.GlyphOutline(code, FormatGray4, IdentityMat2, nil)
	if err != nil {
		return GlyphData{}, &RasterizationError{Code: code, Stage: "measure", Err: err}
	}

	if unicode.IsSpace(code) {
		a.stats.Whitespace++
		return GlyphData{Metrics: gm}, nil
	}
	if gm.BlackBoxX == 0 || gm.BlackBoxY == 0 || size == 0 {
		// Nothing visible; a zero-sized texture is not creatable.
		return GlyphData{Metrics: gm}, nil
	}

	buf := make([]byte, size)
	gm, _, err = a.rast.GlyphOutline(code, FormatGray4, IdentityMat2, buf)
	if err != nil {
		return GlyphData{}, &RasterizationError{Code: code, Stage: "bitmap", Err: err}
	}

	w, h := int(gm.BlackBoxX), int(gm.BlackBoxY)
	if need := Gray4Stride(w) * h; len(buf) < need {
		return GlyphData{}, &RasterizationError{
			Code:  code,
			Stage: "bitmap",
			Err:   fmt.Errorf("bitmap has %d bytes, black box needs %d", len(buf), need),
		}
	}
	pix := ExpandCoverage(buf, w, h, a.premultiplied)

	desc := gpu.TextureDesc{
		Width:     w,
		Height:    h,
		Format:    gpu.FormatRGBA8,
		Usage:     gpu.UsageImmutable,
		BindFlags: gpu.BindShaderResource,
	}
	tex, err := a.device.CreateTexture2D(desc, &gpu.SubresourceData{Pix: pix, Pitch: w * 4})
	if err != nil {
		return GlyphData{}, &RasterizationError{Code: code, Stage: "upload", Err: err}
	}
	view, err := a.device.CreateShaderResourceView(tex)
	if err != nil {
		return GlyphData{}, &RasterizationError{Code: code, Stage: "upload", Err: err}
	}

	a.stats.Rasterized++
	a.logger.Debug("glyph rasterized", "code", string(code), "w", w, "h", h, "advance", gm.CellIncX)
	return GlyphData{Metrics: gm, View: view}, nil
}

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.glyphs)
}

// Empty reports whether nothing is cached.
func (a *Atlas) Empty() bool {
	return a.Len() == 0
}

// Find returns the cached glyph for code without rasterizing.
func (a *Atlas) Find(code rune) (GlyphData, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	g, ok := a.glyphs[code]
	return g, ok
}

// Count returns 1 if code is cached and 0 otherwise.
func (a *Atlas) Count(code rune) int {
	if _, ok := a.Find(code); ok {
		return 1
	}
	return 0
}

// At returns the cached glyph for code or ErrGlyphNotCached.
func (a *Atlas) At(code rune) (GlyphData, error) {
	g, ok := a.Find(code)
	if !ok {
		return GlyphData{}, fmt.Errorf("%w: %q", ErrGlyphNotCached, code)
	}
	return g, nil
}

// Range calls fn for every cached glyph in unspecified order until fn returns false.
func (a *Atlas) Range(fn func(code rune, g GlyphData) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for code, g := range a.glyphs {
		if !fn(code, g) {
			return
		}
	}
}

// Erase evicts code and returns the number of entries removed (0 or 1).
func (a *Atlas) Erase(code rune) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.glyphs[code]; !ok {
		return 0
	}
	delete(a.glyphs, code)
	return 1
}

// Clear evicts every glyph.
func (a *Atlas) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.glyphs)
}

// TextMetrics returns the font-wide metrics captured at construction.
func (a *Atlas) TextMetrics() TextMetrics {
	return a.metrics
}

// Descriptor returns the font the atlas was created with.
func (a *Atlas) Descriptor() FontDescriptor {
	return a.desc
}

// Premultiplied reports whether glyph textures use premultiplied alpha.
func (a *Atlas) Premultiplied() bool {
	return a.premultiplied
}

// Stats returns a snapshot of the cache counters.
func (a *Atlas) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Close releases the rasterizer. Cached glyphs stay readable; Lookup of an
// uncached character fails with ErrClosed. Close is idempotent.
func (a *Atlas) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rast == nil {
		return nil
	}
	err := a.rast.Close()
	a.rast = nil
	return err
}
