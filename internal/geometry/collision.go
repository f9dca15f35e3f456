package geometry

import "sort"

// Droppable is a region that can receive the dragged item.
type Droppable struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

// Collision is a candidate drop target. Value is strategy specific: overlap ratio
// for RectIntersection, distance for ClosestCenter, zero for PointerWithin.
type Collision struct {
	ID    string
	Value float64
}

// Order ranks a candidate list in place. A nil Order keeps document order.
type Order func([]Collision)

// PointerWithin returns every region containing p, in document order.
func PointerWithin(p Point, regions []Droppable) []Collision {
	var out []Collision
	for _, d := range regions {
		if d.Rect.Contains(p) {
			out = append(out, Collision{ID: d.ID})
		}
	}
	return out
}

// RectIntersection returns every region overlapping active, in document order.
func RectIntersection(active Rect, regions []Droppable) []Collision {
	var out []Collision
	for _, d := range regions {
		if ratio := active.IntersectionRatio(d.Rect); ratio > 0 {
			out = append(out, Collision{ID: d.ID, Value: ratio})
		}
	}
	return out
}

// ClosestCenter returns every region sorted by the distance between its centre and
// the centre of target, nearest first. Ties keep document order.
func ClosestCenter(target Rect, regions []Droppable) []Collision {
	c := target.Center()
	out := make([]Collision, 0, len(regions))
	for _, d := range regions {
		out = append(out, Collision{ID: d.ID, Value: c.Distance(d.Rect.Center())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// ByIntersectionRatio orders RectIntersection candidates by overlap, largest first.
func ByIntersectionRatio(c []Collision) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Value > c[j].Value })
}

// FirstCollision returns the id of the first candidate after ordering.
func FirstCollision(c []Collision, order Order) (string, bool) {
	if len(c) == 0 {
		return "", false
	}
	if order != nil {
		order(c)
	}
	return c[0].ID, true
}

// Filter returns the regions whose id satisfies keep.
func Filter(regions []Droppable, keep func(id string) bool) []Droppable {
	out := make([]Droppable, 0, len(regions))
	for _, d := range regions {
		if keep(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the rect of the region with the given id.
func Find(regions []Droppable, id string) (Rect, bool) {
	for _, d := range regions {
		if d.ID == id {
			return d.Rect, true
		}
	}
	return Rect{}, false
}
