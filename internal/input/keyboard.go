package input

import (
	"math"

	"github.com/meur/tierboard/internal/geometry"
)

// Direction is an arrow-key direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directions = map[string]Direction{
	KeyUp:    Up,
	KeyDown:  Down,
	KeyLeft:  Left,
	KeyRight: Right,
}

// CoordinateGetter returns the next virtual coordinate for an arrow key.
type CoordinateGetter func(dir Direction, current geometry.Point) geometry.Point

// FixedStep moves the virtual coordinate by step pixels per key press.
func FixedStep(step float64) CoordinateGetter {
	return func(dir Direction, p geometry.Point) geometry.Point {
		switch dir {
		case Up:
			p.Y -= step
		case Down:
			p.Y += step
		case Left:
			p.X -= step
		case Right:
			p.X += step
		}
		return p
	}
}

// NearestInDirection jumps to the centre of the closest region lying in the
// direction of the key. Regions are fetched on every press so the getter follows
// the layout as it changes during the drag. Without a candidate it falls back to
// a fixed step.
func NearestInDirection(regions func() []geometry.Droppable, step float64) CoordinateGetter {
	fallback := FixedStep(step)
	return func(dir Direction, p geometry.Point) geometry.Point {
		best := math.Inf(1)
		var target geometry.Point
		found := false
		for _, d := range regions() {
			c := d.Rect.Center()
			if !ahead(dir, p, c) {
				continue
			}
			// penalize drift off the axis so Right prefers the same row
			along, across := axisDistances(dir, p, c)
			score := along + 2*across
			if score < best {
				best = score
				target = c
				found = true
			}
		}
		if !found {
			return fallback(dir, p)
		}
		return target
	}
}

func ahead(dir Direction, from, to geometry.Point) bool {
	const eps = 0.5
	switch dir {
	case Up:
		return to.Y < from.Y-eps
	case Down:
		return to.Y > from.Y+eps
	case Left:
		return to.X < from.X-eps
	case Right:
		return to.X > from.X+eps
	}
	return false
}

func axisDistances(dir Direction, from, to geometry.Point) (along, across float64) {
	dx := math.Abs(to.X - from.X)
	dy := math.Abs(to.Y - from.Y)
	if dir == Up || dir == Down {
		return dy, dx
	}
	return dx, dy
}
