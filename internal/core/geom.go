// Package core provides fundamental types and utilities for the shooting game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect is an axis-aligned box in world units used for collision and drawing.
// MinX <= MaxX and MinY <= MaxY are assumed but not enforced; a box that
// violates it never intersects anything reliably.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewRectCentered returns a w x h box centered on (x, y).
func NewRectCentered(x, y, w, h float64) Rect {
	return Rect{
		MinX: x - w/2,
		MinY: y - h/2,
		MaxX: x + w/2,
		MaxY: y + h/2,
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Intersects reports whether the two boxes overlap on both axes.
// Intervals are closed, so boxes that only touch along an edge intersect.
func (r Rect) Intersects(other Rect) bool {
	return (r.MinX <= other.MaxX && other.MinX <= r.MaxX) &&
		(r.MinY <= other.MaxY && other.MinY <= r.MaxY)
}

// Contains returns true if the point (x, y) is inside the closed box.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
