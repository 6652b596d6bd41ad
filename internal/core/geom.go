// Package core provides the engine-agnostic building blocks of tanker-run:
// collision boxes, intents, the glyph screen buffer and the runtime config.
// It has no dependency on Bubble Tea so simulation code stays pure.
package core

import "math"

// Box is an axis-aligned bounding box in world units (pixels of the playfield).
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// NewBox creates a box from its top-left corner and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Intersects reports whether two boxes overlap.
// Separation is open: boxes that only touch along an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.X < o.Right() && b.Right() > o.X &&
		b.Y < o.Bottom() && b.Bottom() > o.Y
}

// SweepX widens the box horizontally to cover a move of dx units that ended
// at the box's current position.
func (b Box) SweepX(dx float64) Box {
	start := b.X - dx
	return Box{
		X: math.Min(start, b.X),
		Y: b.Y,
		W: b.W + math.Abs(dx),
		H: b.H,
	}
}

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
