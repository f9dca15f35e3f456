package input

import (
	"testing"
	"time"

	"github.com/meur/tierboard/internal/geometry"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPointerActivationDistance(t *testing.T) {
	tests := []struct {
		name string
		move geometry.Point
		want []EventType
	}{
		{"below threshold", geometry.Point{X: 103, Y: 100}, []EventType{}},
		{"at threshold", geometry.Point{X: 105, Y: 100}, []EventType{DragStart, DragMove}},
		{"diagonal past threshold", geometry.Point{X: 104, Y: 104}, []EventType{DragStart, DragMove}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(DefaultConstraints())
			a.Handle(Raw{Kind: RawDown, Source: SourcePointer, SubjectID: "x", Point: geometry.Point{X: 100, Y: 100}, At: at(0)})
			got := types(a.Handle(Raw{Kind: RawMove, Source: SourcePointer, Point: tt.move, At: at(10)}))
			if !equalTypes(got, tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointerClickIsNotADrag(t *testing.T) {
	a := NewAdapter(DefaultConstraints())
	a.Handle(Raw{Kind: RawDown, Source: SourcePointer, SubjectID: "x", Point: geometry.Point{X: 10, Y: 10}, At: at(0)})
	a.Handle(Raw{Kind: RawMove, Source: SourcePointer, Point: geometry.Point{X: 12, Y: 10}, At: at(5)})
	if got := a.Handle(Raw{Kind: RawUp, Source: SourcePointer, Point: geometry.Point{X: 12, Y: 10}, At: at(10)}); len(got) != 0 {
		t.Errorf("click produced %v", types(got))
	}
	if a.Active() || a.Pending() {
		t.Error("adapter should be idle after a click")
	}
}

func TestPointerDragLifecycle(t *testing.T) {
	a := NewAdapter(DefaultConstraints())
	a.Handle(Raw{Kind: RawDown, Source: SourcePointer, SubjectID: "x", Point: geometry.Point{X: 0, Y: 0}, At: at(0)})
	a.Handle(Raw{Kind: RawMove, Source: SourcePointer, Point: geometry.Point{X: 10, Y: 0}, At: at(1)})

	move := a.Handle(Raw{Kind: RawMove, Source: SourcePointer, Point: geometry.Point{X: 40, Y: 30}, At: at(2)})
	if len(move) != 1 || move[0].Delta != (geometry.Point{X: 40, Y: 30}) || !move[0].HasPointer {
		t.Fatalf("move = %+v", move)
	}
	if move[0].SubjectID != "x" {
		t.Errorf("subject = %q", move[0].SubjectID)
	}

	// a second press while dragging is ignored
	if got := a.Handle(Raw{Kind: RawDown, Source: SourceTouch, SubjectID: "y", At: at(3)}); got != nil {
		t.Errorf("concurrent press produced %v", types(got))
	}

	end := a.Handle(Raw{Kind: RawUp, Source: SourcePointer, Point: geometry.Point{X: 50, Y: 30}, At: at(4)})
	if len(end) != 1 || end[0].Type != DragEnd || end[0].Pointer != (geometry.Point{X: 50, Y: 30}) {
		t.Errorf("end = %+v", end)
	}
}

func TestTouchActivation(t *testing.T) {
	tests := []struct {
		name  string
		moves []Raw
		tick  time.Time
		want  []EventType
	}{
		{
			name: "hold then tick activates",
			tick: at(100),
			want: []EventType{DragStart},
		},
		{
			name: "tick before delay waits",
			tick: at(99),
			want: []EventType{},
		},
		{
			name: "drift within tolerance keeps pending",
			moves: []Raw{
				{Kind: RawMove, Source: SourceTouch, Point: geometry.Point{X: 4, Y: 0}, At: at(50)},
			},
			tick: at(120),
			want: []EventType{DragStart, DragMove},
		},
		{
			name: "drift beyond tolerance is a scroll",
			moves: []Raw{
				{Kind: RawMove, Source: SourceTouch, Point: geometry.Point{X: 0, Y: 30}, At: at(40)},
			},
			tick: at(200),
			want: []EventType{},
		},
		{
			name: "move after the delay activates and moves",
			moves: []Raw{
				{Kind: RawMove, Source: SourceTouch, Point: geometry.Point{X: 20, Y: 0}, At: at(150)},
			},
			want: []EventType{DragStart, DragMove},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(DefaultConstraints())
			a.Handle(Raw{Kind: RawDown, Source: SourceTouch, SubjectID: "x", At: at(0)})
			var got []EventType
			for _, m := range tt.moves {
				got = append(got, types(a.Handle(m))...)
			}
			if !tt.tick.IsZero() {
				got = append(got, types(a.Tick(tt.tick))...)
			}
			if got == nil {
				got = []EventType{}
			}
			if !equalTypes(got, tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyboardMatchesPointerProtocol(t *testing.T) {
	a := NewAdapter(DefaultConstraints())
	origin := geometry.Point{X: 50, Y: 50}

	var got []Event
	got = append(got, a.Handle(Raw{Kind: RawKey, Key: KeySpace, SubjectID: "x", Point: origin, At: at(0)})...)
	got = append(got, a.Handle(Raw{Kind: RawKey, Key: KeyRight, At: at(1)})...)
	got = append(got, a.Handle(Raw{Kind: RawKey, Key: KeyDown, At: at(2)})...)
	got = append(got, a.Handle(Raw{Kind: RawKey, Key: KeyEnter, At: at(3)})...)

	want := []EventType{DragStart, DragMove, DragMove, DragEnd}
	if !equalTypes(types(got), want) {
		t.Fatalf("events = %v, want %v", types(got), want)
	}
	for _, e := range got {
		if e.HasPointer || e.Source != SourceKeyboard || e.SubjectID != "x" {
			t.Errorf("keyboard event = %+v", e)
		}
	}
	if got[2].Delta != (geometry.Point{X: 25, Y: 25}) {
		t.Errorf("delta = %+v", got[2].Delta)
	}
}

func TestEscapeCancels(t *testing.T) {
	for _, src := range []Source{SourcePointer, SourceKeyboard} {
		t.Run(string(src), func(t *testing.T) {
			a := NewAdapter(DefaultConstraints())
			if src == SourceKeyboard {
				a.Handle(Raw{Kind: RawKey, Key: KeyEnter, SubjectID: "x", At: at(0)})
			} else {
				a.Handle(Raw{Kind: RawDown, Source: src, SubjectID: "x", At: at(0)})
				a.Handle(Raw{Kind: RawMove, Source: src, Point: geometry.Point{X: 9}, At: at(1)})
			}
			got := a.Handle(Raw{Kind: RawKey, Key: KeyEscape, At: at(2)})
			if len(got) != 1 || got[0].Type != DragCancel {
				t.Errorf("escape = %v", types(got))
			}
			if a.Active() {
				t.Error("adapter still active after cancel")
			}
		})
	}
}

func TestNearestInDirection(t *testing.T) {
	regions := []geometry.Droppable{
		{ID: "left", Rect: geometry.Rect{Left: 0, Top: 0, Width: 100, Height: 100}},
		{ID: "right", Rect: geometry.Rect{Left: 108, Top: 0, Width: 100, Height: 100}},
		{ID: "below", Rect: geometry.Rect{Left: 0, Top: 124, Width: 100, Height: 100}},
		{ID: "far-right-below", Rect: geometry.Rect{Left: 216, Top: 124, Width: 100, Height: 100}},
	}
	g := NearestInDirection(func() []geometry.Droppable { return regions }, 25)
	start := geometry.Point{X: 50, Y: 50}

	if got := g(Right, start); got != (geometry.Point{X: 158, Y: 50}) {
		t.Errorf("Right = %+v", got)
	}
	if got := g(Down, start); got != (geometry.Point{X: 50, Y: 174}) {
		t.Errorf("Down = %+v", got)
	}
	if got := g(Up, start); got != (geometry.Point{X: 50, Y: 25}) {
		t.Errorf("Up fallback = %+v", got)
	}
}
