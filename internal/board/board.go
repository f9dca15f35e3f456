// Package board implements the tier-list container model.
//
// A Board is an immutable snapshot of the ordered containers (tiers plus the
// bench) and the ordered items inside each. Every operation returns a Board:
// a fresh one when something changed, or the receiver itself when the call was
// a no-op, so consumers can detect change by pointer identity.
//
// Operations are total. Unknown ids and out-of-range positions never fail; they
// leave the snapshot untouched.
package board

import (
	"fmt"

	"github.com/meur/tierboard/internal/models"
)

// Position says where AddContainer places the new container relative to its anchor.
type Position string

const (
	Above Position = "above"
	Below Position = "below"
	End   Position = "end"
)

// NewTierTitle is the title given to containers created by AddContainer.
const NewTierTitle = "New Tier"

// Board is one immutable snapshot of the container sequence.
type Board struct {
	containers []models.Container
}

// Default returns the starter board: four empty tiers "A".."D" and an empty bench.
func Default() *Board {
	return &Board{containers: []models.Container{
		{ID: "container1", Title: "A", Items: []models.Item{}},
		{ID: "container2", Title: "B", Items: []models.Item{}},
		{ID: "container3", Title: "C", Items: []models.Item{}},
		{ID: "container4", Title: "D", Items: []models.Item{}},
		{ID: models.BenchID, Title: "Bench", Items: []models.Item{}},
	}}
}

// Hydrate builds a board from serialized content.
// Duplicate container or item ids are dropped (first occurrence wins), items whose
// id collides with a container id are dropped, and the bench is synthesized when
// missing and always placed last.
func Hydrate(content []models.Container) *Board {
	containerIDs := make(map[string]bool, len(content))
	for _, c := range content {
		if c.ID != "" {
			containerIDs[c.ID] = true
		}
	}

	seenContainers := make(map[string]bool, len(content))
	seenItems := make(map[string]bool)
	out := make([]models.Container, 0, len(content)+1)
	var bench *models.Container

	for _, c := range content {
		if c.ID == "" || seenContainers[c.ID] {
			continue
		}
		seenContainers[c.ID] = true

		items := make([]models.Item, 0, len(c.Items))
		for _, it := range c.Items {
			if it.ID == "" || seenItems[it.ID] || containerIDs[it.ID] {
				continue
			}
			seenItems[it.ID] = true
			items = append(items, it)
		}

		cc := models.Container{ID: c.ID, Title: c.Title, Items: items}
		if cc.IsBench() {
			bench = &cc
			continue
		}
		out = append(out, cc)
	}

	if bench == nil {
		bench = &models.Container{ID: models.BenchID, Title: "Bench", Items: []models.Item{}}
	}
	out = append(out, *bench)

	return &Board{containers: out}
}

// --- Queries ---

// Containers returns a deep copy of the container sequence, suitable for persistence.
func (b *Board) Containers() []models.Container {
	out := make([]models.Container, len(b.containers))
	for i, c := range b.containers {
		out[i] = copyContainer(c)
	}
	return out
}

// Ranked returns a deep copy of every container except the bench, in rank order.
func (b *Board) Ranked() []models.Container {
	out := make([]models.Container, 0, len(b.containers))
	for _, c := range b.containers {
		if c.IsBench() {
			continue
		}
		out = append(out, copyContainer(c))
	}
	return out
}

// ContainerIDs returns container ids in display order.
func (b *Board) ContainerIDs() []string {
	ids := make([]string, len(b.containers))
	for i, c := range b.containers {
		ids[i] = c.ID
	}
	return ids
}

// Container returns a copy of the container with the given id.
func (b *Board) Container(id string) (models.Container, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return models.Container{}, false
	}
	return copyContainer(b.containers[i]), true
}

// ItemIDs returns the ids of the items held by a container, in order.
func (b *Board) ItemIDs(containerID string) []string {
	i := b.indexOf(containerID)
	if i < 0 {
		return nil
	}
	items := b.containers[i].Items
	ids := make([]string, len(items))
	for j, it := range items {
		ids[j] = it.ID
	}
	return ids
}

// Item returns the item with the given id.
func (b *Board) Item(id string) (models.Item, bool) {
	ci, ii := b.find(id)
	if ci < 0 {
		return models.Item{}, false
	}
	return b.containers[ci].Items[ii], true
}

// Locate returns the owning container id and index of an item.
func (b *Board) Locate(itemID string) (containerID string, index int, ok bool) {
	ci, ii := b.find(itemID)
	if ci < 0 {
		return "", -1, false
	}
	return b.containers[ci].ID, ii, true
}

// IsContainer reports whether id names a container.
func (b *Board) IsContainer(id string) bool {
	return b.indexOf(id) >= 0
}

// IsItem reports whether id names an item.
func (b *Board) IsItem(id string) bool {
	ci, _ := b.find(id)
	return ci >= 0
}

// ItemCount returns the number of items across all containers.
func (b *Board) ItemCount() int {
	n := 0
	for _, c := range b.containers {
		n += len(c.Items)
	}
	return n
}

func (b *Board) indexOf(containerID string) int {
	for i, c := range b.containers {
		if c.ID == containerID {
			return i
		}
	}
	return -1
}

func (b *Board) find(itemID string) (int, int) {
	for ci, c := range b.containers {
		for ii, it := range c.Items {
			if it.ID == itemID {
				return ci, ii
			}
		}
	}
	return -1, -1
}

// --- Operations ---

// AddContainer inserts an empty container with id newID next to anchorID.
// An empty anchor or the End position inserts just before the bench; the bench
// itself as anchor does the same, so the bench stays last.
func (b *Board) AddContainer(anchorID string, pos Position, newID string) (*Board, string) {
	if !b.freeID(newID) {
		return b, ""
	}

	bench := b.indexOf(models.BenchID)
	if bench < 0 {
		bench = len(b.containers)
	}

	at := bench
	if anchorID != "" && pos != End {
		ai := b.indexOf(anchorID)
		if ai < 0 {
			return b, ""
		}
		switch {
		case anchorID == models.BenchID:
			at = bench
		case pos == Above:
			at = ai
		case pos == Below:
			at = ai + 1
		}
	}

	next := make([]models.Container, 0, len(b.containers)+1)
	next = append(next, b.containers[:at]...)
	next = append(next, models.Container{ID: newID, Title: NewTierTitle, Items: []models.Item{}})
	next = append(next, b.containers[at:]...)
	return &Board{containers: next}, newID
}

// AddItem appends a new item titled "Item N" to a container.
func (b *Board) AddItem(containerID, imageRef, newID string) (*Board, string) {
	ci := b.indexOf(containerID)
	if ci < 0 || !b.freeID(newID) {
		return b, ""
	}
	c := b.containers[ci]
	items := make([]models.Item, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	items = append(items, models.Item{
		ID:       newID,
		Title:    fmt.Sprintf("Item %d", len(c.Items)+1),
		ImageRef: imageRef,
	})
	return b.replace(ci, models.Container{ID: c.ID, Title: c.Title, Items: items}), newID
}

// RemoveItem removes an item from whichever container holds it.
func (b *Board) RemoveItem(itemID string) *Board {
	ci, ii := b.find(itemID)
	if ci < 0 {
		return b
	}
	c := b.containers[ci]
	return b.replace(ci, models.Container{ID: c.ID, Title: c.Title, Items: without(c.Items, ii)})
}

// RenameContainer sets the title of a container.
func (b *Board) RenameContainer(containerID, title string) *Board {
	ci := b.indexOf(containerID)
	if ci < 0 || b.containers[ci].Title == title {
		return b
	}
	c := b.containers[ci]
	return b.replace(ci, models.Container{ID: c.ID, Title: title, Items: c.Items})
}

// RemoveContainer deletes a container together with every item it holds.
// The bench cannot be removed.
func (b *Board) RemoveContainer(containerID string) *Board {
	ci := b.indexOf(containerID)
	if ci < 0 || containerID == models.BenchID {
		return b
	}
	next := make([]models.Container, 0, len(b.containers)-1)
	next = append(next, b.containers[:ci]...)
	next = append(next, b.containers[ci+1:]...)
	return &Board{containers: next}
}

// MoveContainerUp swaps a tier with the one above it.
func (b *Board) MoveContainerUp(containerID string) *Board {
	ci := b.indexOf(containerID)
	if ci <= 0 || containerID == models.BenchID {
		return b
	}
	return b.swap(ci, ci-1)
}

// MoveContainerDown swaps a tier with the one below it. Tiers never move past the bench.
func (b *Board) MoveContainerDown(containerID string) *Board {
	ci := b.indexOf(containerID)
	if ci < 0 || containerID == models.BenchID {
		return b
	}
	if ci+1 >= len(b.containers) || b.containers[ci+1].IsBench() {
		return b
	}
	return b.swap(ci, ci+1)
}

// MoveItem moves an item to targetIndex inside the target container.
// The index is clamped: negative values insert first, values past the end append.
// Moving an item onto its current position returns the receiver unchanged.
func (b *Board) MoveItem(itemID, targetContainerID string, targetIndex int) *Board {
	si, ii := b.find(itemID)
	ti := b.indexOf(targetContainerID)
	if si < 0 || ti < 0 {
		return b
	}

	src := b.containers[si]
	item := src.Items[ii]

	if si == ti {
		idx := clamp(targetIndex, 0, len(src.Items)-1)
		if idx == ii {
			return b
		}
		return b.replace(si, models.Container{ID: src.ID, Title: src.Title, Items: arrayMove(src.Items, ii, idx)})
	}

	dst := b.containers[ti]
	idx := clamp(targetIndex, 0, len(dst.Items))
	items := make([]models.Item, 0, len(dst.Items)+1)
	items = append(items, dst.Items[:idx]...)
	items = append(items, item)
	items = append(items, dst.Items[idx:]...)

	next := make([]models.Container, len(b.containers))
	copy(next, b.containers)
	next[si] = models.Container{ID: src.ID, Title: src.Title, Items: without(src.Items, ii)}
	next[ti] = models.Container{ID: dst.ID, Title: dst.Title, Items: items}
	return &Board{containers: next}
}

// SetImageRef replaces the image reference of an item.
func (b *Board) SetImageRef(itemID, ref string) *Board {
	ci, ii := b.find(itemID)
	if ci < 0 || b.containers[ci].Items[ii].ImageRef == ref {
		return b
	}
	c := b.containers[ci]
	items := make([]models.Item, len(c.Items))
	copy(items, c.Items)
	items[ii].ImageRef = ref
	return b.replace(ci, models.Container{ID: c.ID, Title: c.Title, Items: items})
}

// --- helpers ---

func (b *Board) freeID(id string) bool {
	return id != "" && !b.IsContainer(id) && !b.IsItem(id)
}

func (b *Board) replace(i int, c models.Container) *Board {
	next := make([]models.Container, len(b.containers))
	copy(next, b.containers)
	next[i] = c
	return &Board{containers: next}
}

func (b *Board) swap(i, j int) *Board {
	next := make([]models.Container, len(b.containers))
	copy(next, b.containers)
	next[i], next[j] = next[j], next[i]
	return &Board{containers: next}
}

func copyContainer(c models.Container) models.Container {
	items := make([]models.Item, len(c.Items))
	copy(items, c.Items)
	return models.Container{ID: c.ID, Title: c.Title, Items: items}
}

func without(items []models.Item, i int) []models.Item {
	out := make([]models.Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// arrayMove returns a copy of items with the element at from relocated to to.
func arrayMove(items []models.Item, from, to int) []models.Item {
	out := without(items, from)
	out = append(out, models.Item{})
	copy(out[to+1:], out[to:])
	out[to] = items[from]
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
