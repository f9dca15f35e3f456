package render

import (
	"time"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/geometry"
)

// AnimationDuration and AnimationEasing describe layout transitions.
const (
	AnimationDuration = 250 * time.Millisecond
	AnimationEasing   = "ease-in-out"
)

// AnimationKind says why a node animates.
type AnimationKind string

const (
	AnimateMove  AnimationKind = "move"
	AnimateEnter AnimationKind = "enter"
	AnimateLeave AnimationKind = "leave"
)

// Animation is a transition of one node between two layouts.
type Animation struct {
	ID          string        `json:"id"`
	Kind        AnimationKind `json:"kind"`
	From        geometry.Rect `json:"from"`
	To          geometry.Rect `json:"to"`
	FromOpacity float64       `json:"fromOpacity"`
	ToOpacity   float64       `json:"toOpacity"`
	Duration    time.Duration `json:"duration"`
	Easing      string        `json:"easing"`
}

// At returns the interpolated rect and opacity after elapsed time.
func (a Animation) At(elapsed time.Duration) (geometry.Rect, float64) {
	t := 1.0
	if a.Duration > 0 && elapsed < a.Duration {
		t = float64(elapsed) / float64(a.Duration)
	}
	if t < 0 {
		t = 0
	}
	e := easeInOut(t)
	return a.From.Lerp(a.To, e), a.FromOpacity + (a.ToOpacity-a.FromOpacity)*e
}

func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Frame is one rendered state of the board.
type Frame struct {
	Version    uint64      `json:"version"`
	Tree       *Node       `json:"tree"`
	Animations []Animation `json:"animations"`
}

// Reconciler renders successive snapshots and animates the differences. Change
// is detected by snapshot identity: rendering the same *board.Board twice yields
// no animations.
type Reconciler struct {
	layouter *Layouter

	prev       *board.Board
	prevLayout *Layout
	version    uint64
}

// NewReconciler creates a reconciler over a layouter.
func NewReconciler(l *Layouter) *Reconciler {
	return &Reconciler{layouter: l}
}

// Layouter returns the layouter in use.
func (r *Reconciler) Layouter() *Layouter {
	return r.layouter
}

// SetShowBench toggles the bench drawer; the next frame animates the reflow.
func (r *Reconciler) SetShowBench(show bool) {
	if r.layouter.ShowBench == show {
		return
	}
	r.layouter.ShowBench = show
	r.prev = nil
}

// Render produces the frame for b. The overlay follows drag directly and is never
// part of the animation list.
func (r *Reconciler) Render(b *board.Board, drag *DragView) Frame {
	if b == r.prev && r.prevLayout != nil {
		return Frame{Version: r.version, Tree: Build(r.prevLayout, drag)}
	}

	next := r.layouter.Layout(b)
	var anims []Animation
	if r.prevLayout != nil {
		anims = diff(r.prevLayout, next)
	}
	r.prev = b
	r.prevLayout = next
	r.version++
	return Frame{Version: r.version, Tree: Build(next, drag), Animations: anims}
}

func diff(prev, next *Layout) []Animation {
	var out []Animation
	move := func(id string, from, to geometry.Rect) {
		if from != to {
			out = append(out, newAnimation(id, AnimateMove, from, to, 1, 1))
		}
	}

	for _, id := range next.Board.ContainerIDs() {
		to := next.Tiers[id]
		if from, ok := prev.Tiers[id]; ok {
			move(id, from, to)
		} else {
			out = append(out, newAnimation(id, AnimateEnter, to, to, 0, 1))
		}
		for _, itemID := range next.Board.ItemIDs(id) {
			to := next.Items[itemID]
			if from, ok := prev.Items[itemID]; ok {
				move(itemID, from, to)
			} else {
				out = append(out, newAnimation(itemID, AnimateEnter, to, to, 0, 1))
			}
		}
	}

	for _, id := range prev.Board.ContainerIDs() {
		if _, ok := next.Tiers[id]; !ok {
			from := prev.Tiers[id]
			out = append(out, newAnimation(id, AnimateLeave, from, from, 1, 0))
		}
		for _, itemID := range prev.Board.ItemIDs(id) {
			if _, ok := next.Items[itemID]; !ok {
				from := prev.Items[itemID]
				out = append(out, newAnimation(itemID, AnimateLeave, from, from, 1, 0))
			}
		}
	}
	return out
}

func newAnimation(id string, kind AnimationKind, from, to geometry.Rect, fromOpacity, toOpacity float64) Animation {
	return Animation{
		ID:          id,
		Kind:        kind,
		From:        from,
		To:          to,
		FromOpacity: fromOpacity,
		ToOpacity:   toOpacity,
		Duration:    AnimationDuration,
		Easing:      AnimationEasing,
	}
}
