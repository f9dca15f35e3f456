package render

import (
	"github.com/meur/tierboard/internal/geometry"
)

// TitleHeight is the height of the title row added to exports.
const TitleHeight = 48

// Export returns the read-only projection handed to rasterizers: the board title
// on top, the ranked tiers below it, and neither the bench nor any controls.
func Export(l *Layout, title string) *Node {
	full := Build(l, nil)
	out := full.Prune(func(n *Node) bool {
		return n.Kind == KindBench || n.Kind == KindControl || n.Kind == KindOverlay
	})

	shift := geometry.Point{Y: TitleHeight}
	height := 0.0
	out.Walk(func(n *Node) bool {
		if n.Kind != KindRoot {
			n.Rect = n.Rect.Translate(shift)
			if n.Rect.Bottom() > height {
				height = n.Rect.Bottom()
			}
		}
		return true
	})

	titleNode := &Node{
		Kind:    KindTitle,
		Text:    title,
		Rect:    geometry.Rect{Width: out.Rect.Width, Height: TitleHeight},
		Opacity: 1,
	}
	out.Children = append([]*Node{titleNode}, out.Children...)
	if height < TitleHeight {
		height = TitleHeight
	}
	out.Rect.Height = height
	return out
}
