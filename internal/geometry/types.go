// Package geometry provides the value types and pure mapping functions that
// translate between pixel positions, display slots, and data indices of a grid.
package geometry

import "math"

// Point represents a 2D position.
type Point struct {
	X float64
	Y float64
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Size represents a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	Origin Point
	Size   Size
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() float64 {
	return r.Origin.X + r.Size.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Origin.Y + r.Size.Height
}

// Contains reports whether p lies inside the half-open rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.Y >= r.Origin.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// Clamp returns p limited to the rectangle edges.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Max(r.Origin.X, math.Min(p.X, r.Right())),
		Y: math.Max(r.Origin.Y, math.Min(p.Y, r.Bottom())),
	}
}

// RectFromCorners normalizes two corners into a rectangle with a
// non-negative size regardless of drag direction.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Origin: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Size:   Size{Width: math.Abs(b.X - a.X), Height: math.Abs(b.Y - a.Y)},
	}
}

// Insets holds per-side margins.
type Insets struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Uniform returns insets with the same value on every side.
func Uniform(v float64) Insets {
	return Insets{Left: v, Right: v, Top: v, Bottom: v}
}

// Symmetric returns insets with x applied left/right and y applied top/bottom.
func Symmetric(x, y float64) Insets {
	return Insets{Left: x, Right: x, Top: y, Bottom: y}
}

// Spacing holds the horizontal and vertical gap between cells.
type Spacing struct {
	X float64
	Y float64
}

// frac returns the fractional part of a non-negative value.
func frac(v float64) float64 {
	return v - math.Floor(v)
}
