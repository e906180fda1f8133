package core

// Quad is one textured sprite draw in world units.
type Quad struct {
	Rect    Rect
	Color   Color
	Texture TextureID
	MirrorX bool
	MirrorY bool
}

// Canvas is the drawing surface a game renders into.
// DrawString positions are in framebuffer pixels from the top-left corner.
type Canvas interface {
	DrawQuad(q Quad)
	DrawString(x, y float64, s string) error
}
