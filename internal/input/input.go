// Package input normalizes pointer, touch and keyboard input into one drag
// protocol: start, move, end and cancel events.
//
// Pointer drags activate after the pointer travels a minimum distance, so a
// short press still reaches click handlers. Touch drags activate only after a
// hold delay during which the contact stays within a tolerance, which keeps
// scroll gestures from picking items up. Keyboard drags step virtual
// coordinates through a CoordinateGetter.
package input

import (
	"time"

	"github.com/meur/tierboard/internal/geometry"
)

// Source identifies the device behind an event.
type Source string

const (
	SourcePointer  Source = "pointer"
	SourceTouch    Source = "touch"
	SourceKeyboard Source = "keyboard"
)

// RawKind is the kind of a device event.
type RawKind string

const (
	RawDown   RawKind = "down"
	RawMove   RawKind = "move"
	RawUp     RawKind = "up"
	RawCancel RawKind = "cancel"
	RawKey    RawKind = "key"
)

// Raw is a device event as delivered by the client.
type Raw struct {
	Kind      RawKind        `json:"kind"`
	Source    Source         `json:"source"`
	SubjectID string         `json:"subjectId,omitempty"`
	Point     geometry.Point `json:"point"`
	Key       string         `json:"key,omitempty"`
	At        time.Time      `json:"at"`
}

// EventType is the kind of a normalized drag event.
type EventType string

const (
	DragStart  EventType = "start"
	DragMove   EventType = "move"
	DragEnd    EventType = "end"
	DragCancel EventType = "cancel"
)

// Event is a normalized drag event. Keyboard events carry no pointer: Pointer then
// holds the virtual coordinate and HasPointer is false.
type Event struct {
	Type       EventType
	Source     Source
	SubjectID  string
	Pointer    geometry.Point
	HasPointer bool
	Delta      geometry.Point
	At         time.Time
}

// Constraints are the activation thresholds of the sensors.
type Constraints struct {
	PointerDistance float64       // px the pointer travels before a drag starts
	TouchDelay      time.Duration // hold time before a touch drag starts
	TouchTolerance  float64       // px a touch may drift during the hold
	KeyboardStep    float64       // px per arrow key when no getter is installed
}

// DefaultConstraints returns the stock thresholds.
func DefaultConstraints() Constraints {
	return Constraints{
		PointerDistance: 5,
		TouchDelay:      100 * time.Millisecond,
		TouchTolerance:  5,
		KeyboardStep:    25,
	}
}

// Key names understood by the keyboard sensor.
const (
	KeySpace  = " "
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
	KeyUp     = "ArrowUp"
	KeyDown   = "ArrowDown"
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
)

type phase int

const (
	phaseIdle phase = iota
	phasePending
	phaseActive
)

// Adapter turns raw device events into drag events. One gesture at a time:
// presses from another source are ignored until the current gesture finishes.
type Adapter struct {
	c      Constraints
	coords CoordinateGetter

	phase     phase
	source    Source
	subject   string
	origin    geometry.Point
	current   geometry.Point
	pressedAt time.Time
}

// NewAdapter creates an adapter with the given constraints.
func NewAdapter(c Constraints) *Adapter {
	return &Adapter{c: c, coords: FixedStep(c.KeyboardStep)}
}

// SetCoordinateGetter installs the keyboard stepping strategy.
func (a *Adapter) SetCoordinateGetter(g CoordinateGetter) {
	if g == nil {
		g = FixedStep(a.c.KeyboardStep)
	}
	a.coords = g
}

// Active reports whether a drag is in progress.
func (a *Adapter) Active() bool {
	return a.phase == phaseActive
}

// Pending reports whether a press is waiting for activation.
func (a *Adapter) Pending() bool {
	return a.phase == phasePending
}

// Reset drops any pending or active gesture without emitting events.
func (a *Adapter) Reset() {
	a.phase = phaseIdle
	a.source = ""
	a.subject = ""
	a.origin = geometry.Point{}
	a.current = geometry.Point{}
	a.pressedAt = time.Time{}
}

// Handle processes one raw event and returns the drag events it produces.
func (a *Adapter) Handle(r Raw) []Event {
	if r.Kind == RawKey {
		return a.handleKey(r)
	}
	if r.Source == SourceKeyboard {
		return nil
	}

	switch r.Kind {
	case RawDown:
		if a.phase != phaseIdle || r.SubjectID == "" {
			return nil
		}
		a.phase = phasePending
		a.source = r.Source
		a.subject = r.SubjectID
		a.origin = r.Point
		a.current = r.Point
		a.pressedAt = r.At
		return nil

	case RawMove:
		if a.phase == phaseIdle || r.Source != a.source {
			return nil
		}
		a.current = r.Point
		if a.phase == phaseActive {
			return []Event{a.event(DragMove, r.At)}
		}
		return a.tryActivate(r.At)

	case RawUp:
		if r.Source != a.source {
			return nil
		}
		if a.phase == phaseActive {
			a.current = r.Point
			ev := a.event(DragEnd, r.At)
			a.Reset()
			return []Event{ev}
		}
		// released before activation: a click, not a drag
		a.Reset()
		return nil

	case RawCancel:
		if r.Source != a.source {
			return nil
		}
		return a.cancel(r.At)
	}
	return nil
}

// Tick activates a touch press whose hold delay has elapsed without movement.
func (a *Adapter) Tick(now time.Time) []Event {
	if a.phase != phasePending || a.source != SourceTouch {
		return nil
	}
	if now.Sub(a.pressedAt) < a.c.TouchDelay {
		return nil
	}
	return a.activate(now)
}

func (a *Adapter) tryActivate(at time.Time) []Event {
	moved := a.current.Distance(a.origin)
	switch a.source {
	case SourcePointer:
		if moved >= a.c.PointerDistance {
			return a.activate(at)
		}
	case SourceTouch:
		if at.Sub(a.pressedAt) >= a.c.TouchDelay {
			return a.activate(at)
		}
		if moved > a.c.TouchTolerance {
			// drifted during the hold: treat as a scroll
			a.Reset()
		}
	}
	return nil
}

func (a *Adapter) activate(at time.Time) []Event {
	a.phase = phaseActive
	start := a.event(DragStart, at)
	if a.current == a.origin {
		return []Event{start}
	}
	return []Event{start, a.event(DragMove, at)}
}

func (a *Adapter) cancel(at time.Time) []Event {
	if a.phase != phaseActive {
		a.Reset()
		return nil
	}
	ev := a.event(DragCancel, at)
	a.Reset()
	return []Event{ev}
}

func (a *Adapter) handleKey(r Raw) []Event {
	switch r.Key {
	case KeyEscape:
		return a.cancel(r.At)

	case KeySpace, KeyEnter:
		switch {
		case a.phase == phaseIdle && r.SubjectID != "":
			a.phase = phaseActive
			a.source = SourceKeyboard
			a.subject = r.SubjectID
			a.origin = r.Point
			a.current = r.Point
			a.pressedAt = r.At
			return []Event{a.event(DragStart, r.At)}
		case a.phase == phaseActive && a.source == SourceKeyboard:
			ev := a.event(DragEnd, r.At)
			a.Reset()
			return []Event{ev}
		}
		return nil
	}

	dir, ok := directions[r.Key]
	if !ok || a.phase != phaseActive || a.source != SourceKeyboard {
		return nil
	}
	a.current = a.coords(dir, a.current)
	return []Event{a.event(DragMove, r.At)}
}

func (a *Adapter) event(t EventType, at time.Time) Event {
	return Event{
		Type:       t,
		Source:     a.source,
		SubjectID:  a.subject,
		Pointer:    a.current,
		HasPointer: a.source != SourceKeyboard,
		Delta:      a.current.Sub(a.origin),
		At:         at,
	}
}
