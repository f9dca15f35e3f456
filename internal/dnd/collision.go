package dnd

import (
	"math"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/geometry"
)

// Geometry is what the resolver knows about the gesture at one instant.
type Geometry struct {
	ActiveID   string
	ActiveRect geometry.Rect
	Pointer    geometry.Point
	HasPointer bool
	Regions    []geometry.Droppable
}

// Fallback carries the session state consulted when nothing collides.
type Fallback struct {
	LastOverID    string
	RecentlyMoved bool
}

// Resolver picks the drop target for a gesture. It has no side effects.
type Resolver struct {
	// Order ranks candidates before the first one is taken; nil keeps document order.
	Order geometry.Order
}

// Resolve returns the id the gesture is over: an item id, or a container id when
// the container is empty. ok is false when nothing matched and there is no
// previous target to fall back to.
func (r Resolver) Resolve(b *board.Board, g Geometry, fb Fallback) (overID string, ok bool) {
	if b.IsContainer(g.ActiveID) {
		containers := geometry.Filter(g.Regions, b.IsContainer)
		return geometry.FirstCollision(geometry.ClosestCenter(g.ActiveRect, containers), nil)
	}

	var candidates []geometry.Collision
	if g.HasPointer {
		candidates = geometry.PointerWithin(g.Pointer, g.Regions)
	}
	if len(candidates) == 0 {
		candidates = geometry.RectIntersection(g.ActiveRect, g.Regions)
	}

	if overID, ok = geometry.FirstCollision(candidates, r.Order); ok {
		if b.IsContainer(overID) {
			overID = r.narrow(b, overID, g)
		}
		return overID, true
	}

	// Reflow after a cross-container move can leave the pointer over nothing.
	// The item's new position is then the most stable answer.
	if fb.RecentlyMoved && b.IsItem(g.ActiveID) {
		return g.ActiveID, true
	}
	if fb.LastOverID != "" && (b.IsItem(fb.LastOverID) || b.IsContainer(fb.LastOverID)) {
		return fb.LastOverID, true
	}
	return "", false
}

// narrow resolves a container hit to its closest item.
func (r Resolver) narrow(b *board.Board, containerID string, g Geometry) string {
	ids := b.ItemIDs(containerID)
	if len(ids) == 0 {
		return containerID
	}
	held := make(map[string]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}
	items := geometry.Filter(g.Regions, func(id string) bool { return held[id] })
	if id, ok := geometry.FirstCollision(geometry.ClosestCenter(g.ActiveRect, items), nil); ok {
		return id
	}
	return containerID
}

// Target is a resolved insertion point.
type Target struct {
	ContainerID string
	Index       int
}

// Locate turns an over id into an insertion point for the active item.
//
// Over a container the item is appended. Over an item of the active item's own
// container the active item takes that item's index (a stable array move). Over
// an item of another container the active item goes before it, or after it when
// the active rect's centre has passed the item's centre along the flow.
func Locate(b *board.Board, g Geometry, overID string) (Target, bool) {
	if b.IsContainer(overID) {
		ids := b.ItemIDs(overID)
		n := len(ids)
		for _, id := range ids {
			if id == g.ActiveID {
				n--
			}
		}
		return Target{ContainerID: overID, Index: n}, true
	}

	overContainer, overIndex, ok := b.Locate(overID)
	if !ok {
		return Target{}, false
	}
	activeContainer, _, _ := b.Locate(g.ActiveID)
	if overID == g.ActiveID || overContainer == activeContainer {
		return Target{ContainerID: overContainer, Index: overIndex}, true
	}

	if after(g.ActiveRect, g.Regions, overID) {
		overIndex++
	}
	return Target{ContainerID: overContainer, Index: overIndex}, true
}

func after(active geometry.Rect, regions []geometry.Droppable, overID string) bool {
	over, ok := geometry.Find(regions, overID)
	if !ok || active.Empty() {
		return true
	}
	a, o := active.Center(), over.Center()
	// items flow left to right and wrap into rows
	if dy := a.Y - o.Y; math.Abs(dy) > over.Height/2 {
		return dy > 0
	}
	return a.X > o.X
}
