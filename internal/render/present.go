package render

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-stg/internal/core"
)

// HalfBlock is drawn in every presented cell: the foreground paints the
// upper pixel, the background the lower one.
const HalfBlock = '▀'

// Present scales the framebuffer into dst, two pixel rows per cell row,
// keeping the aspect ratio. Unused cells are black.
func (c *Compositor) Present(dst *core.Screen) {
	cols, rows := dst.Width(), dst.Height()
	if cols <= 0 || rows <= 0 {
		return
	}

	pw, ph := cols, rows*2
	if c.present == nil || c.present.Rect.Dx() != pw || c.present.Rect.Dy() != ph {
		c.present = image.NewRGBA(image.Rect(0, 0, pw, ph))
	} else {
		clear(c.present.Pix)
	}

	xdraw.ApproxBiLinear.Scale(c.present, fitRect(c.fb.Bounds(), pw, ph), c.fb, c.fb.Bounds(), xdraw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dst.SetCell(x, y, core.Cell{
				Rune: HalfBlock,
				Fg:   rgbAt(c.present, x, 2*y),
				Bg:   rgbAt(c.present, x, 2*y+1),
			})
		}
	}
}

// fitRect centres the largest rectangle with src's aspect ratio inside a
// w by h area.
func fitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	fw, fh := w, sh*w/sw
	if fh > h {
		fw, fh = sw*h/sh, h
	}
	x0, y0 := (w-fw)/2, (h-fh)/2
	return image.Rect(x0, y0, x0+fw, y0+fh)
}

func rgbAt(img *image.RGBA, x, y int) core.RGB8 {
	i := img.PixOffset(x, y)
	return core.RGB8{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}
