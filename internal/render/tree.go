package render

import (
	"github.com/meur/tierboard/internal/geometry"
	"github.com/meur/tierboard/internal/models"
)

// Kind is the role of a view node.
type Kind string

const (
	KindRoot    Kind = "root"
	KindTitle   Kind = "title"
	KindTier    Kind = "tier"
	KindHeader  Kind = "header"
	KindItem    Kind = "item"
	KindControl Kind = "control"
	KindBench   Kind = "bench"
	KindOverlay Kind = "overlay"
)

// Opacity of an item whose overlay copy is being dragged.
const DraggingOpacity = 0.1

// Node is one element of the view tree.
type Node struct {
	Kind     Kind          `json:"kind"`
	ID       string        `json:"id,omitempty"`
	Text     string        `json:"text,omitempty"`
	ImageRef string        `json:"imageRef,omitempty"`
	Rect     geometry.Rect `json:"rect"`
	Opacity  float64       `json:"opacity"`
	Hidden   bool          `json:"hidden,omitempty"`
	Classes  []string      `json:"classes,omitempty"`
	Children []*Node       `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node of the given kind and id.
func (n *Node) Find(kind Kind, id string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if x.Kind == kind && x.ID == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// Prune returns a deep copy of n without the descendants for which drop is true.
func (n *Node) Prune(drop func(*Node) bool) *Node {
	cp := *n
	cp.Classes = append([]string(nil), n.Classes...)
	cp.Children = nil
	for _, c := range n.Children {
		if drop(c) {
			continue
		}
		cp.Children = append(cp.Children, c.Prune(drop))
	}
	return &cp
}

// DragView is what the tree needs to know about an active drag.
type DragView struct {
	ActiveID   string
	ActiveRect geometry.Rect
}

// Build creates the view tree of a layout. With a drag in progress the active
// item stays at its model position at reduced opacity and an overlay copy is
// appended at the dragged rect.
func Build(l *Layout, drag *DragView) *Node {
	root := &Node{
		Kind:    KindRoot,
		Rect:    geometry.Rect{Width: widthOf(l), Height: l.Height},
		Opacity: 1,
	}

	var overlay *Node
	for _, c := range l.Board.Containers() {
		var n *Node
		if c.IsBench() {
			n = &Node{Kind: KindBench, ID: c.ID, Text: c.Title, Rect: l.Tiers[c.ID], Opacity: 1, Hidden: !l.ShowBench}
		} else {
			n = &Node{Kind: KindTier, ID: c.ID, Text: c.Title, Rect: l.Tiers[c.ID], Opacity: 1}
			n.Children = append(n.Children, &Node{Kind: KindHeader, ID: c.ID, Text: c.Title, Rect: l.Headers[c.ID], Opacity: 1})
		}

		for _, it := range c.Items {
			in := itemNode(l, it)
			if drag != nil && it.ID == drag.ActiveID {
				in.Opacity = DraggingOpacity
				overlay = &Node{
					Kind:     KindOverlay,
					ID:       it.ID,
					Text:     it.Title,
					ImageRef: it.ImageRef,
					Rect:     drag.ActiveRect,
					Opacity:  1,
					Classes:  []string{"no-transition"},
				}
			}
			if c.IsBench() {
				in.Children = append(in.Children, &Node{Kind: KindControl, ID: it.ID, Text: "remove", Classes: []string{"setting-button"}, Opacity: 1})
			}
			n.Children = append(n.Children, in)
		}

		if !c.IsBench() {
			n.Children = append(n.Children, &Node{Kind: KindControl, ID: c.ID, Text: "settings", Classes: []string{"setting-button"}, Opacity: 1})
		}
		root.Children = append(root.Children, n)
	}

	if overlay != nil {
		root.Children = append(root.Children, overlay)
	}
	return root
}

func itemNode(l *Layout, it models.Item) *Node {
	return &Node{
		Kind:     KindItem,
		ID:       it.ID,
		Text:     it.Title,
		ImageRef: it.ImageRef,
		Rect:     l.Items[it.ID],
		Opacity:  1,
	}
}

func widthOf(l *Layout) float64 {
	w := 0.0
	for _, r := range l.Tiers {
		if r.Right() > w {
			w = r.Right()
		}
	}
	return w
}
