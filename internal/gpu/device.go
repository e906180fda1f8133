// Package gpu is a software stand-in for the graphics device: it creates
// immutable RGBA textures from caller-supplied pixel buffers and hands out
// sampling views over them. Everything runs on the CPU.
package gpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
)

// Format is a texel layout.
type Format int

const (
	FormatUnknown Format = iota
	// FormatRGBA8 is four 8-bit unsigned normalized channels in R, G, B, A byte order.
	FormatRGBA8
)

// Usage describes who may write a texture after creation.
type Usage int

const (
	UsageDefault Usage = iota
	// UsageImmutable textures are fully defined by their initial data.
	UsageImmutable
)

// BindFlags describes how a texture may be bound to the pipeline.
type BindFlags uint32

const (
	BindShaderResource BindFlags = 1 << iota
)

// TextureDesc describes a 2D texture to create.
type TextureDesc struct {
	Width     int
	Height    int
	Format    Format
	Usage     Usage
	BindFlags BindFlags
}

// SubresourceData is the initial contents of a texture.
// Pitch is the distance in bytes between the starts of two rows.
type SubresourceData struct {
	Pix   []byte
	Pitch int
}

// ErrInvalidDesc is wrapped by errors caused by a bad texture description
// or initial data.
var ErrInvalidDesc = errors.New("gpu: invalid texture description")

// PlatformError is returned when the device cannot create a resource.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("gpu: %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Texture is an immutable 2D RGBA texture.
type Texture struct {
	desc TextureDesc
	img  *image.RGBA
}

// Desc returns the description the texture was created with.
func (t *Texture) Desc() TextureDesc {
	return t.desc
}

// ShaderResourceView is a read-only sampling view of a texture.
type ShaderResourceView struct {
	tex *Texture
}

// Texture returns the viewed texture.
func (v *ShaderResourceView) Texture() *Texture {
	return v.tex
}

// Bounds returns the texel rectangle of the view, anchored at (0, 0).
func (v *ShaderResourceView) Bounds() image.Rectangle {
	return v.tex.img.Rect
}

// Image exposes the texels as an image. Callers must not modify it.
func (v *ShaderResourceView) Image() *image.RGBA {
	return v.tex.img
}

// Sample returns the texel nearest to the normalized coordinate (u, v).
// Coordinates are clamped to the edge.
func (v *ShaderResourceView) Sample(u, vv float64) color.RGBA {
	img := v.tex.img
	w, h := img.Rect.Dx(), img.Rect.Dy()
	x := clampIndex(int(u*float64(w)), w)
	y := clampIndex(int(vv*float64(h)), h)
	i := img.PixOffset(x, y)
	return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Stats counts the resources created by a device.
type Stats struct {
	Textures uint64
	Views    uint64
	Failures uint64
}

// Device creates textures and views. It is safe for concurrent use.
type Device struct {
	textures atomic.Uint64
	views    atomic.Uint64
	failures atomic.Uint64
}

// NewDevice creates a software device.
func NewDevice() *Device {
	return &Device{}
}

// CreateTexture2D validates desc and copies init into a new texture.
// Immutable textures require initial data covering every row.
func (d *Device) CreateTexture2D(desc TextureDesc, init *SubresourceData) (*Texture, error) {
	if err := validate(desc, init); err != nil {
		d.failures.Add(1)
		return nil, &PlatformError{Op: "CreateTexture2D", Err: err}
	}

	img := image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	if init != nil {
		rowBytes := desc.Width * 4
		for y := 0; y < desc.Height; y++ {
			src := init.Pix[y*init.Pitch : y*init.Pitch+rowBytes]
			copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src)
		}
	}

	d.textures.Add(1)
	return &Texture{desc: desc, img: img}, nil
}

func validate(desc TextureDesc, init *SubresourceData) error {
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidDesc, desc.Width, desc.Height)
	}
	if desc.Format != FormatRGBA8 {
		return fmt.Errorf("%w: unsupported format %d", ErrInvalidDesc, desc.Format)
	}
	if init == nil {
		if desc.Usage == UsageImmutable {
			return fmt.Errorf("%w: immutable texture without initial data", ErrInvalidDesc)
		}
		return nil
	}
	if init.Pitch < desc.Width*4 {
		return fmt.Errorf("%w: pitch %d smaller than row size %d", ErrInvalidDesc, init.Pitch, desc.Width*4)
	}
	if need := init.Pitch*(desc.Height-1) + desc.Width*4; len(init.Pix) < need {
		return fmt.Errorf("%w: initial data has %d bytes, need %d", ErrInvalidDesc, len(init.Pix), need)
	}
	return nil
}

// CreateShaderResourceView derives a sampling view from tex.
func (d *Device) CreateShaderResourceView(tex *Texture) (*ShaderResourceView, error) {
	if tex == nil {
		d.failures.Add(1)
		return nil, &PlatformError{Op: "CreateShaderResourceView", Err: errors.New("nil texture")}
	}
	if tex.desc.BindFlags&BindShaderResource == 0 {
		d.failures.Add(1)
		return nil, &PlatformError{Op: "CreateShaderResourceView", Err: fmt.Errorf("%w: texture not bindable as shader resource", ErrInvalidDesc)}
	}
	d.views.Add(1)
	return &ShaderResourceView{tex: tex}, nil
}

// Stats returns creation counters.
func (d *Device) Stats() Stats {
	return Stats{
		Textures: d.textures.Load(),
		Views:    d.views.Load(),
		Failures: d.failures.Load(),
	}
}

// CreateImmutableRGBA is the common path for sprites and glyphs: upload an
// image as an immutable shader resource and return its view.
func (d *Device) CreateImmutableRGBA(img *image.RGBA) (*ShaderResourceView, error) {
	b := img.Bounds()
	desc := TextureDesc{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    FormatRGBA8,
		Usage:     UsageImmutable,
		BindFlags: BindShaderResource,
	}
	tex, err := d.CreateTexture2D(desc, &SubresourceData{Pix: img.Pix[img.PixOffset(b.Min.X, b.Min.Y):], Pitch: img.Stride})
	if err != nil {
		return nil, err
	}
	return d.CreateShaderResourceView(tex)
}
