package glyph

import (
	"errors"
	"fmt"
)

// ErrGlyphNotCached is returned by At for a character that was never looked up.
var ErrGlyphNotCached = errors.New("glyph: not cached")

// ErrClosed is returned by Lookup after Close.
var ErrClosed = errors.New("glyph: atlas closed")

// ConstructionError means the font could not be realized.
type ConstructionError struct {
	Desc FontDescriptor
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("glyph: cannot create atlas for font %q (%dpx): %v", e.Desc.Family, e.Desc.Size, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// RasterizationError means one glyph could not be produced.
// Stage is "measure", "bitmap" or "upload".
type RasterizationError struct {
	Code  rune
	Stage string
	Err   error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("glyph: %s failed for %q (U+%04X): %v", e.Stage, e.Code, e.Code, e.Err)
}

func (e *RasterizationError) Unwrap() error {
	return e.Err
}
