// Package dnd implements the drag session state machine.
//
// A Machine moves between Idle, Dragging, Committing and Cancelling. Starting a
// drag snapshots the board; drag-over moves the item into another container as
// soon as the resolver points there; drag-end settles the final index; cancel
// restores the snapshot. The last target and the just-moved flag are fields of
// an explicit Session owned by the Machine, so machines never share state.
package dnd

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/geometry"
	"github.com/meur/tierboard/internal/input"
)

// State is a drag lifecycle state.
type State int

const (
	Idle State = iota
	Dragging
	Committing
	Cancelling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Cancelling:
		return "cancelling"
	}
	return "unknown"
}

// Measurer reports the droppable regions of a board as currently laid out.
type Measurer interface {
	Measure(b *board.Board) []geometry.Droppable
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(b *board.Board) []geometry.Droppable

// Measure implements Measurer.
func (f MeasureFunc) Measure(b *board.Board) []geometry.Droppable { return f(b) }

// Session is the state of one gesture. It exists only while Dragging.
type Session struct {
	ActiveItemID  string
	Snapshot      *board.Board // board before the drag, for rollback
	LastOverID    string
	RecentlyMoved bool
	InitialRect   geometry.Rect
	ActiveRect    geometry.Rect
	Pointer       geometry.Point
	HasPointer    bool
}

// Transition describes one state change.
type Transition struct {
	From   State
	To     State
	ItemID string
}

// Machine drives drag sessions against a board model.
type Machine struct {
	model    *board.Model
	measure  Measurer
	resolver Resolver
	logger   *log.Logger
	hooks    []func(Transition)

	state   State
	session *Session
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger; transitions are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithResolver replaces the default resolver.
func WithResolver(r Resolver) Option {
	return func(m *Machine) {
		m.resolver = r
	}
}

// WithTransitionHook registers a callback for state changes.
func WithTransitionHook(fn func(Transition)) Option {
	return func(m *Machine) {
		m.hooks = append(m.hooks, fn)
	}
}

// New creates an idle machine.
func New(model *board.Model, measure Measurer, opts ...Option) *Machine {
	m := &Machine{
		model:   model,
		measure: measure,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns a copy of the active session.
func (m *Machine) Session() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Handle feeds one normalized input event to the machine and reports whether the
// board changed.
func (m *Machine) Handle(ev input.Event) bool {
	switch ev.Type {
	case input.DragStart:
		if !m.Start(ev.SubjectID) {
			return false
		}
		m.track(ev)
		return false
	case input.DragMove:
		if m.state != Dragging {
			return false
		}
		m.track(ev)
		return m.Over()
	case input.DragEnd:
		if m.state != Dragging {
			return false
		}
		m.track(ev)
		return m.End()
	case input.DragCancel:
		return m.Cancel()
	}
	return false
}

func (m *Machine) track(ev input.Event) {
	s := m.session
	s.ActiveRect = s.InitialRect.Translate(ev.Delta)
	s.Pointer = ev.Pointer
	s.HasPointer = ev.HasPointer
}

// Start begins a drag of subjectID. Only items can be dragged; containers and
// unknown ids leave the machine idle.
func (m *Machine) Start(subjectID string) bool {
	if m.state != Idle {
		return false
	}
	b := m.model.Board()
	if !b.IsItem(subjectID) {
		m.logger.Debug("drag start ignored", "subject", subjectID, "container", b.IsContainer(subjectID))
		return false
	}

	rect, _ := geometry.Find(m.measure.Measure(b), subjectID)
	m.session = &Session{
		ActiveItemID: subjectID,
		Snapshot:     b,
		InitialRect:  rect,
		ActiveRect:   rect,
		Pointer:      rect.Center(),
	}
	m.transition(Dragging)
	return true
}

// Over retargets the drag. When the resolved container differs from the item's
// current one, the item is moved there immediately.
func (m *Machine) Over() bool {
	if m.state != Dragging {
		return false
	}
	s := m.session
	b := m.model.Board()
	g := m.geometry(b)

	overID, ok := m.resolver.Resolve(b, g, Fallback{LastOverID: s.LastOverID, RecentlyMoved: s.RecentlyMoved})
	if !ok {
		return false
	}
	s.LastOverID = overID

	target, ok := Locate(b, g, overID)
	if !ok {
		return false
	}
	current, _, _ := b.Locate(s.ActiveItemID)
	if target.ContainerID == current {
		return false
	}

	if !m.model.MoveItem(s.ActiveItemID, target.ContainerID, target.Index) {
		return false
	}
	s.RecentlyMoved = true
	m.logger.Debug("moved across containers", "item", s.ActiveItemID, "to", target.ContainerID, "index", target.Index)
	return true
}

// End finishes the drag. With a target the item settles at the resolved index;
// without one the board is rolled back.
func (m *Machine) End() bool {
	if m.state != Dragging {
		return false
	}
	s := m.session
	b := m.model.Board()
	g := m.geometry(b)

	overID, ok := m.resolver.Resolve(b, g, Fallback{LastOverID: s.LastOverID, RecentlyMoved: s.RecentlyMoved})
	if !ok {
		return m.rollback()
	}
	target, ok := Locate(b, g, overID)
	if !ok {
		return m.rollback()
	}

	m.transition(Committing)
	changed := m.model.MoveItem(s.ActiveItemID, target.ContainerID, target.Index)
	m.transition(Idle)
	m.session = nil
	return changed
}

// Cancel aborts the drag and restores the pre-drag board.
func (m *Machine) Cancel() bool {
	if m.state != Dragging {
		return false
	}
	return m.rollback()
}

// Frame marks the passing of one animation frame, ending the window in which a
// just-moved item is preferred as the fallback target.
func (m *Machine) Frame() {
	if m.session != nil {
		m.session.RecentlyMoved = false
	}
}

func (m *Machine) rollback() bool {
	m.transition(Cancelling)
	changed := m.model.Restore(m.session.Snapshot)
	m.transition(Idle)
	m.session = nil
	return changed
}

func (m *Machine) geometry(b *board.Board) Geometry {
	s := m.session
	return Geometry{
		ActiveID:   s.ActiveItemID,
		ActiveRect: s.ActiveRect,
		Pointer:    s.Pointer,
		HasPointer: s.HasPointer,
		Regions:    m.measure.Measure(b),
	}
}

func (m *Machine) transition(to State) {
	t := Transition{From: m.state, To: to}
	if m.session != nil {
		t.ItemID = m.session.ActiveItemID
	}
	m.state = to
	m.logger.Debug("drag transition", "from", t.From, "to", t.To, "item", t.ItemID)
	for _, h := range m.hooks {
		h(t)
	}
}
