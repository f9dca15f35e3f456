package board

import (
	"github.com/google/uuid"
)

// Listener is called after the model publishes a new snapshot.
type Listener func(prev, next *Board)

// Model owns the current snapshot and publishes every change to its listeners.
// It is not safe for concurrent use; callers serialize access (see editor.Editor).
type Model struct {
	current   *Board
	newID     func() string
	listeners []Listener
}

// Option configures a Model.
type Option func(*Model)

// WithIDFunc overrides the id generator used for new containers and items.
func WithIDFunc(fn func() string) Option {
	return func(m *Model) {
		m.newID = fn
	}
}

// NewModel creates a model starting at b. A nil board starts from Default().
func NewModel(b *Board, opts ...Option) *Model {
	if b == nil {
		b = Default()
	}
	m := &Model{
		current: b,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Board returns the current snapshot.
func (m *Model) Board() *Board {
	return m.current
}

// Subscribe registers a listener for published snapshots.
func (m *Model) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Restore replaces the current snapshot verbatim.
func (m *Model) Restore(b *Board) bool {
	if b == nil {
		return false
	}
	return m.publish(b)
}

// AddContainer adds an empty tier and returns its id, or "" when nothing was added.
func (m *Model) AddContainer(anchorID string, pos Position) string {
	next, id := m.current.AddContainer(anchorID, pos, m.newID())
	m.publish(next)
	return id
}

// AddItem appends an image to a container and returns the new item id.
func (m *Model) AddItem(containerID, imageRef string) string {
	next, id := m.current.AddItem(containerID, imageRef, m.newID())
	m.publish(next)
	return id
}

// RemoveItem removes an item.
func (m *Model) RemoveItem(itemID string) bool {
	return m.publish(m.current.RemoveItem(itemID))
}

// RenameContainer renames a container.
func (m *Model) RenameContainer(containerID, title string) bool {
	return m.publish(m.current.RenameContainer(containerID, title))
}

// RemoveContainer deletes a container and its items.
func (m *Model) RemoveContainer(containerID string) bool {
	return m.publish(m.current.RemoveContainer(containerID))
}

// MoveContainerUp moves a tier one position up.
func (m *Model) MoveContainerUp(containerID string) bool {
	return m.publish(m.current.MoveContainerUp(containerID))
}

// MoveContainerDown moves a tier one position down.
func (m *Model) MoveContainerDown(containerID string) bool {
	return m.publish(m.current.MoveContainerDown(containerID))
}

// MoveItem relocates an item.
func (m *Model) MoveItem(itemID, containerID string, index int) bool {
	return m.publish(m.current.MoveItem(itemID, containerID, index))
}

// SetImageRef replaces an item's image reference.
func (m *Model) SetImageRef(itemID, ref string) bool {
	return m.publish(m.current.SetImageRef(itemID, ref))
}

func (m *Model) publish(next *Board) bool {
	if next == m.current {
		return false
	}
	prev := m.current
	m.current = next
	for _, l := range m.listeners {
		l(prev, next)
	}
	return true
}
