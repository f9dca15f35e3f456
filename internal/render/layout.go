// Package render projects a board onto a view tree.
//
// Layout assigns every container and item a rectangle; those rectangles are
// both what the client draws and the droppable regions the collision resolver
// measures. A Reconciler turns consecutive board snapshots into frames carrying
// the animations needed to move items smoothly between positions.
package render

import (
	"math"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/geometry"
	"github.com/meur/tierboard/internal/models"
)

// Metrics are the fixed sizes of the board layout, in pixels.
type Metrics struct {
	Width         float64 `json:"width"`
	HeaderWidth   float64 `json:"headerWidth"`
	ControlWidth  float64 `json:"controlWidth"`
	ItemSize      float64 `json:"itemSize"`
	Gap           float64 `json:"gap"`
	Padding       float64 `json:"padding"`
	MinTierHeight float64 `json:"minTierHeight"`
	BenchGap      float64 `json:"benchGap"`
}

// DefaultMetrics match the stock stylesheet.
func DefaultMetrics() Metrics {
	return Metrics{
		Width:         1200,
		HeaderWidth:   96,
		ControlWidth:  56,
		ItemSize:      100,
		Gap:           8,
		Padding:       8,
		MinTierHeight: 116,
		BenchGap:      24,
	}
}

// Layout is the geometry of one board snapshot.
type Layout struct {
	Board      *board.Board
	Tiers      map[string]geometry.Rect // whole tier rows
	Headers    map[string]geometry.Rect
	Containers map[string]geometry.Rect // droppable item areas
	Items      map[string]geometry.Rect
	Regions    []geometry.Droppable // container first, then its items, in display order
	ShowBench  bool
	Height     float64
}

// Layouter computes layouts.
type Layouter struct {
	Metrics   Metrics
	ShowBench bool
}

// NewLayouter returns a layouter with default metrics and a visible bench.
func NewLayouter() *Layouter {
	return &Layouter{Metrics: DefaultMetrics(), ShowBench: true}
}

// Measure implements dnd.Measurer.
func (l *Layouter) Measure(b *board.Board) []geometry.Droppable {
	return l.Layout(b).Regions
}

// Layout places every container and item of b.
func (l *Layouter) Layout(b *board.Board) *Layout {
	m := l.Metrics
	out := &Layout{
		Board:      b,
		Tiers:      map[string]geometry.Rect{},
		Headers:    map[string]geometry.Rect{},
		Containers: map[string]geometry.Rect{},
		Items:      map[string]geometry.Rect{},
		ShowBench:  l.ShowBench,
	}

	y := 0.0
	var bench *models.Container
	for _, c := range b.Containers() {
		if c.IsBench() {
			cc := c
			bench = &cc
			continue
		}
		area := geometry.Rect{
			Left:  m.HeaderWidth,
			Top:   y,
			Width: m.Width - m.HeaderWidth - m.ControlWidth,
		}
		area.Height = l.areaHeight(area.Width, len(c.Items))

		out.Tiers[c.ID] = geometry.Rect{Left: 0, Top: y, Width: m.Width, Height: area.Height}
		out.Headers[c.ID] = geometry.Rect{Left: 0, Top: y, Width: m.HeaderWidth, Height: area.Height}
		l.place(out, c, area)
		y += area.Height + m.Gap
	}

	if bench != nil {
		y += m.BenchGap
		area := geometry.Rect{Left: 0, Top: y, Width: m.Width}
		area.Height = l.areaHeight(area.Width, len(bench.Items))
		out.Tiers[bench.ID] = area
		if l.ShowBench {
			l.place(out, *bench, area)
			y += area.Height
		} else {
			// the drawer sits off-canvas; its items keep rects but are not droppable
			for i, it := range bench.Items {
				out.Items[it.ID] = l.itemRect(area, i)
			}
			out.Containers[bench.ID] = area
		}
	}

	out.Height = y
	return out
}

func (l *Layouter) place(out *Layout, c models.Container, area geometry.Rect) {
	out.Containers[c.ID] = area
	out.Regions = append(out.Regions, geometry.Droppable{ID: c.ID, Rect: area})
	for i, it := range c.Items {
		r := l.itemRect(area, i)
		out.Items[it.ID] = r
		out.Regions = append(out.Regions, geometry.Droppable{ID: it.ID, Rect: r})
	}
}

func (l *Layouter) perRow(width float64) int {
	m := l.Metrics
	n := int(math.Floor((width - 2*m.Padding + m.Gap) / (m.ItemSize + m.Gap)))
	if n < 1 {
		return 1
	}
	return n
}

func (l *Layouter) areaHeight(width float64, items int) float64 {
	m := l.Metrics
	rows := (items + l.perRow(width) - 1) / l.perRow(width)
	h := 2*m.Padding + float64(rows)*m.ItemSize + float64(max(rows-1, 0))*m.Gap
	return math.Max(h, m.MinTierHeight)
}

func (l *Layouter) itemRect(area geometry.Rect, i int) geometry.Rect {
	m := l.Metrics
	n := l.perRow(area.Width)
	row, col := i/n, i%n
	return geometry.Rect{
		Left:   area.Left + m.Padding + float64(col)*(m.ItemSize+m.Gap),
		Top:    area.Top + m.Padding + float64(row)*(m.ItemSize+m.Gap),
		Width:  m.ItemSize,
		Height: m.ItemSize,
	}
}
