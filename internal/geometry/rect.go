// Package geometry provides the rectangles and collision strategies used to
// turn pointer and contact geometry into drop candidates.
package geometry

import "math"

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the centre point.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() &&
		p.Y >= r.Top && p.Y <= r.Bottom()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Left: r.Left + d.X, Top: r.Top + d.Y, Width: r.Width, Height: r.Height}
}

// Intersection returns the overlapping area of r and o, or the zero Rect.
func (r Rect) Intersection(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// IntersectionRatio returns the overlap area divided by the union area, in [0, 1].
func (r Rect) IntersectionRatio(o Rect) float64 {
	in := r.Intersection(o)
	if in.Empty() {
		return 0
	}
	area := in.Width * in.Height
	union := r.Width*r.Height + o.Width*o.Height - area
	if union <= 0 {
		return 0
	}
	return area / union
}

// Lerp interpolates between r and o; t=0 yields r and t=1 yields o.
func (r Rect) Lerp(o Rect, t float64) Rect {
	return Rect{
		Left:   r.Left + (o.Left-r.Left)*t,
		Top:    r.Top + (o.Top-r.Top)*t,
		Width:  r.Width + (o.Width-r.Width)*t,
		Height: r.Height + (o.Height-r.Height)*t,
	}
}
