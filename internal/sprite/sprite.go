// Package sprite provides the game's textures: built-in procedural sprites,
// optionally replaced by image files from the data directory.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // xchu.png, bullet.png
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp" // xchu.bmp, bullet.bmp
	"golang.org/x/image/draw"

	"github.com/vovakirdan/tui-stg/internal/core"
	"github.com/vovakirdan/tui-stg/internal/gpu"
)

// Extensions are tried in order when looking for an override file.
var Extensions = []string{".png", ".bmp"}

// IDs lists every texture the game draws.
var IDs = []core.TextureID{core.TextureXchu, core.TextureBullet}

// Uploader creates immutable textures.
type Uploader interface {
	CreateImmutableRGBA(img *image.RGBA) (*gpu.ShaderResourceView, error)
}

// Set maps texture IDs to uploaded views.
type Set struct {
	views  map[core.TextureID]*gpu.ShaderResourceView
	source map[core.TextureID]string // file path, or "" for built-in
}

// Load uploads one view per texture ID. Files named after the texture
// (xchu.png, bullet.png, ...) in dataDir replace the built-in sprites.
func Load(dev Uploader, dataDir string, logger *log.Logger) (*Set, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Set{
		views:  make(map[core.TextureID]*gpu.ShaderResourceView, len(IDs)),
		source: make(map[core.TextureID]string, len(IDs)),
	}
	for _, id := range IDs {
		img, path, err := loadImage(id, dataDir)
		if err != nil {
			return nil, err
		}
		view, err := dev.CreateImmutableRGBA(img)
		if err != nil {
			return nil, fmt.Errorf("sprite: upload %s: %w", id, err)
		}
		s.views[id] = view
		s.source[id] = path

		if path == "" {
			logger.Debug("using built-in sprite", "texture", id.String())
		} else {
			logger.Info("loaded sprite", "texture", id.String(), "path", path, "size", img.Bounds().Size())
		}
	}
	return s, nil
}

// View returns the view for id, or nil if the set has none.
func (s *Set) View(id core.TextureID) *gpu.ShaderResourceView {
	return s.views[id]
}

// Source returns the file a texture was loaded from, or "" for built-in.
func (s *Set) Source(id core.TextureID) string {
	return s.source[id]
}

// loadImage finds the override file for id in dir, falling back to the
// built-in sprite when there is none.
func loadImage(id core.TextureID, dir string) (*image.RGBA, string, error) {
	if dir != "" {
		for _, ext := range Extensions {
			path := filepath.Join(dir, id.String()+ext)
			img, err := decodeFile(path)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, "", err
			}
			return img, path, nil
		}
	}
	return Builtin(id), "", nil
}

func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sprite: decode %s: %w", path, err)
	}
	return toRGBA(src), nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Builtin returns the procedural sprite for id.
func Builtin(id core.TextureID) *image.RGBA {
	switch id {
	case core.TextureBullet:
		return bullet()
	default:
		return xchu()
	}
}

// xchu draws a round creature with ears, eyes and cheeks on a transparent
// background. The body is near white so object tints show through.
func xchu() *image.RGBA {
	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	body := color.RGBA{R: 0xff, G: 0xf4, B: 0xd0, A: 0xff}
	outline := color.RGBA{R: 0x40, G: 0x30, B: 0x20, A: 0xff}
	eye := color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}
	cheek := color.RGBA{R: 0xf0, G: 0x60, B: 0x50, A: 0xff}

	// ears
	fillTriangle(img, 6, 2, 3, 14, 12, 10, outline)
	fillTriangle(img, 26, 2, 20, 10, 29, 14, outline)
	fillEllipse(img, 16, 18, 13, 12, outline)
	fillEllipse(img, 16, 18, 12, 11, body)
	fillEllipse(img, 11, 16, 2, 2.5, eye)
	fillEllipse(img, 21, 16, 2, 2.5, eye)
	fillEllipse(img, 8, 21, 2, 1.5, cheek)
	fillEllipse(img, 24, 21, 2, 1.5, cheek)
	return img
}

// bullet draws a glowing horizontal capsule.
func bullet() *image.RGBA {
	const w, h = 16, 8
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillEllipse(img, 8, 4, 7.5, 3.5, color.RGBA{R: 0xff, G: 0x90, B: 0x90, A: 0xff})
	fillEllipse(img, 8, 4, 5, 2, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return img
}

func fillEllipse(img *image.RGBA, cx, cy, rx, ry float64, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func fillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	minX := int(math.Floor(math.Min(x0, math.Min(x1, x2))))
	maxX := int(math.Ceil(math.Max(x0, math.Max(x1, x2))))
	minY := int(math.Floor(math.Min(y0, math.Min(y1, y2))))
	maxY := int(math.Ceil(math.Max(y0, math.Max(y1, y2))))

	edge := func(ax, ay, bx, by, px, py float64) float64 {
		return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	}
	area := edge(x0, y0, x1, y1, x2, y2)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 && image.Pt(x, y).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
