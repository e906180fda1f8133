// Package render draws textured quads and atlas text into an RGBA
// framebuffer and presents it on the terminal as half-block cells.
package render

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/glyph"
	"github.com/vovakirdan/tui-stg/internal/gpu"
)

// SpriteSource resolves a texture ID to an uploaded sprite.
type SpriteSource interface {
	View(id core.TextureID) *gpu.ShaderResourceView
}

// GlyphSource is the glyph cache the compositor draws text from.
type GlyphSource interface {
	Lookup(code rune) (glyph.GlyphData, error)
	TextMetrics() glyph.TextMetrics
	Premultiplied() bool
}

// Options describes the framebuffer and camera.
type Options struct {
	Width   int
	Height  int
	FOV     float64 // vertical field of view, degrees
	CameraZ float64 // camera distance from the z=0 plane, looking at the origin
	Clear   core.Color
	Text    core.Color
}

// OptionsFromConfig converts the render section of the configuration.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		Width:   cfg.Width,
		Height:  cfg.Height,
		FOV:     cfg.FOV,
		CameraZ: cfg.CameraZ,
		Clear:   cfg.Clear.Color(),
		Text:    cfg.Text.Color(),
	}
}

// Compositor implements core.Canvas over an RGBA framebuffer.
type Compositor struct {
	opts    Options
	fb      *image.RGBA
	scale   float64 // framebuffer pixels per world unit at z=0
	sprites SpriteSource
	glyphs  GlyphSource
	scratch *image.RGBA
	present *image.RGBA
}

var _ core.Canvas = (*Compositor)(nil)

// New creates a compositor. glyphs may be nil when no text is drawn.
func New(opts Options, sprites SpriteSource, glyphs GlyphSource) (*Compositor, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid framebuffer size %dx%d", opts.Width, opts.Height)
	}
	if opts.FOV <= 0 || opts.FOV >= 180 || opts.CameraZ == 0 {
		return nil, fmt.Errorf("render: invalid camera fov=%g z=%g", opts.FOV, opts.CameraZ)
	}

	halfHeight := math.Abs(opts.CameraZ) * math.Tan(opts.FOV*math.Pi/360)
	c := &Compositor{
		opts:    opts,
		fb:      image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		scale:   float64(opts.Height) / 2 / halfHeight,
		sprites: sprites,
		glyphs:  glyphs,
	}
	c.Begin()
	return c, nil
}

// SetSprites swaps the sprite set, e.g. after a reload.
func (c *Compositor) SetSprites(s SpriteSource) {
	c.sprites = s
}

// Frame returns the framebuffer. It is overwritten by the next frame.
func (c *Compositor) Frame() *image.RGBA {
	return c.fb
}

// PixelsPerUnit returns how many framebuffer pixels one world unit spans.
func (c *Compositor) PixelsPerUnit() float64 {
	return c.scale
}

// Begin clears the framebuffer to the clear color.
func (c *Compositor) Begin() {
	r, g, b, _ := c.opts.Clear.RGBA8()
	pix := c.fb.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = 0xff
	}
}

// WorldToPixel projects a point on the z=0 plane to framebuffer
// coordinates. World y grows up; pixel y grows down.
func (c *Compositor) WorldToPixel(x, y float64) (px, py float64) {
	return float64(c.opts.Width)/2 + x*c.scale, float64(c.opts.Height)/2 - y*c.scale
}

// DrawQuad draws the quad's sprite stretched over its rectangle with point
// sampling, tinted and alpha blended.
func (c *Compositor) DrawQuad(q core.Quad) {
	if c.sprites == nil {
		return
	}
	view := c.sprites.View(q.Texture)
	if view == nil {
		return
	}

	x0, y0 := c.WorldToPixel(q.Rect.MinX, q.Rect.MaxY)
	x1, y1 := c.WorldToPixel(q.Rect.MaxX, q.Rect.MinY)
	dr := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	if dr.Empty() {
		return
	}
	vis := dr.Intersect(c.fb.Bounds())
	if vis.Empty() {
		return
	}

	scaled := c.scratchImage(dr.Dx(), dr.Dy())
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), view.Image(), view.Bounds(), xdraw.Src, nil)

	w, h := dr.Dx(), dr.Dy()
	for py := vis.Min.Y; py < vis.Max.Y; py++ {
		sy := py - dr.Min.Y
		if q.MirrorY {
			sy = h - 1 - sy
		}
		for px := vis.Min.X; px < vis.Max.X; px++ {
			sx := px - dr.Min.X
			if q.MirrorX {
				sx = w - 1 - sx
			}
			i := scaled.PixOffset(sx, sy)
			t := scaled.Pix[i : i+4 : i+4]
			c.blendPremultiplied(px, py, t[0], t[1], t[2], t[3], q.Color)
		}
	}
}

func (c *Compositor) scratchImage(w, h int) *image.RGBA {
	if c.scratch == nil || c.scratch.Rect.Dx() != w || c.scratch.Rect.Dy() != h {
		c.scratch = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return c.scratch
}

// DrawString draws s with its top-left corner at pixel (x, y). A newline
// returns to x and moves down one line; whitespace only advances the pen.
// Glyphs are drawn at their native size in the text color.
func (c *Compositor) DrawString(x, y float64, s string) error {
	if c.glyphs == nil {
		return fmt.Errorf("render: no glyph source")
	}
	tm := c.glyphs.TextMetrics()
	premultiplied := c.glyphs.Premultiplied()

	x0 := x
	for _, r := range s {
		if r == '\n' {
			x = x0
			y += float64(tm.Height)
			continue
		}

		g, err := c.glyphs.Lookup(r)
		if err != nil {
			return fmt.Errorf("render: draw %q: %w", r, err)
		}
		if g.HasTexture() {
			gx := int(math.Round(x)) + int(g.Metrics.OriginX)
			gy := int(math.Round(y)) + tm.Ascent - int(g.Metrics.OriginY)
			c.drawGlyph(gx, gy, g.View, premultiplied)
		}
		x += float64(g.Metrics.CellIncX)
	}
	return nil
}

func (c *Compositor) drawGlyph(gx, gy int, view *gpu.ShaderResourceView, premultiplied bool) {
	img := view.Image()
	b := img.Bounds()
	dr := image.Rect(gx, gy, gx+b.Dx(), gy+b.Dy())
	vis := dr.Intersect(c.fb.Bounds())

	for py := vis.Min.Y; py < vis.Max.Y; py++ {
		for px := vis.Min.X; px < vis.Max.X; px++ {
			i := img.PixOffset(b.Min.X+px-gx, b.Min.Y+py-gy)
			t := img.Pix[i : i+4 : i+4]
			if premultiplied {
				c.blendPremultiplied(px, py, t[0], t[1], t[2], t[3], c.opts.Text)
			} else {
				c.blendStraight(px, py, t[0], t[1], t[2], t[3], c.opts.Text)
			}
		}
	}
}

// blendStraight composites a straight-alpha texel tinted by tint:
// dst = src*srcA + dst*(1-srcA).
func (c *Compositor) blendStraight(px, py int, r, g, b, a uint8, tint core.Color) {
	sa := float64(a) / 255 * tint.A
	c.over(px, py,
		float64(r)/255*tint.R*sa,
		float64(g)/255*tint.G*sa,
		float64(b)/255*tint.B*sa,
		sa)
}

// blendPremultiplied composites a premultiplied texel tinted by tint:
// dst = src + dst*(1-srcA).
func (c *Compositor) blendPremultiplied(px, py int, r, g, b, a uint8, tint core.Color) {
	c.over(px, py,
		float64(r)/255*tint.R*tint.A,
		float64(g)/255*tint.G*tint.A,
		float64(b)/255*tint.B*tint.A,
		float64(a)/255*tint.A)
}

// over applies the premultiplied source-over operator at (px, py).
func (c *Compositor) over(px, py int, sr, sg, sb, sa float64) {
	if sa <= 0 && sr <= 0 && sg <= 0 && sb <= 0 {
		return
	}
	i := c.fb.PixOffset(px, py)
	d := c.fb.Pix[i : i+4 : i+4]
	k := 1 - sa
	d[0] = unit8(sr + float64(d[0])/255*k)
	d[1] = unit8(sg + float64(d[1])/255*k)
	d[2] = unit8(sb + float64(d[2])/255*k)
	d[3] = 0xff
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
