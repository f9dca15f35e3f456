package geometry

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{110, 60}, true},
		{Point{60, 35}, true},
		{Point{9, 35}, false},
		{Point{60, 61}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestIntersectionRatio(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want float64
	}{
		{"identical", a, 1},
		{"disjoint", Rect{Left: 20, Top: 20, Width: 10, Height: 10}, 0},
		{"touching edge", Rect{Left: 10, Top: 0, Width: 10, Height: 10}, 0},
		{"half overlap", Rect{Left: 5, Top: 0, Width: 10, Height: 10}, 50.0 / 150.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.IntersectionRatio(tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("IntersectionRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointerWithinKeepsDocumentOrder(t *testing.T) {
	regions := []Droppable{
		{ID: "tier", Rect: Rect{Left: 0, Top: 0, Width: 500, Height: 120}},
		{ID: "item", Rect: Rect{Left: 100, Top: 8, Width: 100, Height: 100}},
		{ID: "other", Rect: Rect{Left: 0, Top: 200, Width: 500, Height: 120}},
	}
	got := PointerWithin(Point{150, 50}, regions)
	if len(got) != 2 || got[0].ID != "tier" || got[1].ID != "item" {
		t.Errorf("PointerWithin = %v", got)
	}
	if got := PointerWithin(Point{600, 600}, regions); len(got) != 0 {
		t.Errorf("PointerWithin outside = %v", got)
	}
}

func TestClosestCenter(t *testing.T) {
	regions := []Droppable{
		{ID: "far", Rect: Rect{Left: 300, Top: 0, Width: 100, Height: 100}},
		{ID: "near", Rect: Rect{Left: 110, Top: 0, Width: 100, Height: 100}},
		{ID: "mid", Rect: Rect{Left: 200, Top: 0, Width: 100, Height: 100}},
	}
	got := ClosestCenter(Rect{Left: 100, Top: 0, Width: 100, Height: 100}, regions)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if ids[0] != "near" || ids[1] != "mid" || ids[2] != "far" {
		t.Errorf("ClosestCenter order = %v", ids)
	}
}

func TestFirstCollision(t *testing.T) {
	if _, ok := FirstCollision(nil, nil); ok {
		t.Error("empty candidates must not resolve")
	}
	c := []Collision{{ID: "a", Value: 0.2}, {ID: "b", Value: 0.7}}
	if id, _ := FirstCollision(c, nil); id != "a" {
		t.Errorf("document order first = %q", id)
	}
	if id, _ := FirstCollision(c, ByIntersectionRatio); id != "b" {
		t.Errorf("ratio order first = %q", id)
	}
}

func TestLerp(t *testing.T) {
	from := Rect{Left: 0, Top: 0, Width: 100, Height: 100}
	to := Rect{Left: 100, Top: 50, Width: 100, Height: 100}
	mid := from.Lerp(to, 0.5)
	if mid.Left != 50 || mid.Top != 25 {
		t.Errorf("Lerp(0.5) = %+v", mid)
	}
}
