package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/dnd"
	"github.com/meur/tierboard/internal/drafts"
	"github.com/meur/tierboard/internal/geometry"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/input"
	"github.com/meur/tierboard/internal/models"
	"github.com/meur/tierboard/internal/render"
)

const pixel = "data:image/png;base64,iVBORw0KGgo="

type memDrafts struct {
	mu      sync.Mutex
	saved   map[string]models.Draft
	saves   int
	deletes int
}

func newMemDrafts() *memDrafts {
	return &memDrafts{saved: map[string]models.Draft{}}
}

func (m *memDrafts) Save(d *models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.saved[d.ID] = *d
	return nil
}

func (m *memDrafts) Load(id string) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.saved[id]
	if !ok {
		return nil, drafts.ErrNotFound
	}
	return &d, nil
}

func (m *memDrafts) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.saved, id)
	return nil
}

func sampleBoard() *board.Board {
	return board.Hydrate([]models.Container{
		{ID: "A", Title: "S", Items: []models.Item{}},
		{ID: "B", Title: "A", Items: []models.Item{
			{ID: "i1", Title: "Item 1", ImageRef: pixel},
			{ID: "i2", Title: "Item 2", ImageRef: "https://cdn.example/i2.png"},
		}},
	})
}

func shape(b *board.Board) string {
	var parts []string
	for _, c := range b.Containers() {
		var ids []string
		for _, it := range c.Items {
			ids = append(ids, it.ID)
		}
		parts = append(parts, c.ID+":["+strings.Join(ids, " ")+"]")
	}
	return strings.Join(parts, " ")
}

func newEditor(t *testing.T) (*Editor, *memDrafts) {
	t.Helper()
	d := newMemDrafts()
	cfg := DefaultConfig()
	cfg.Drafts = d
	return New("ed1", "Snacks", sampleBoard(), cfg), d
}

func center(e *Editor, id string) geometry.Point {
	l := render.NewLayouter().Layout(e.Board())
	if r, ok := l.Items[id]; ok {
		return r.Center()
	}
	return l.Containers[id].Center()
}

func TestApply(t *testing.T) {
	e, d := newEditor(t)

	res, err := e.Apply(Op{Type: OpAddItem, ContainerID: models.BenchID, ImageRef: pixel})
	if err != nil || !res.Changed || res.ID == "" {
		t.Fatalf("addItem = %+v, %v", res, err)
	}
	if it, ok := e.Board().Item(res.ID); !ok || it.Title != "Item 1" {
		t.Errorf("new item = %+v", it)
	}

	if _, err := e.Apply(Op{Type: OpAddItem, ContainerID: "A", ImageRef: "data:image/png;base64,!!"}); !errors.Is(err, images.ErrInvalidDataURI) {
		t.Errorf("bad image error = %v", err)
	}

	res, _ = e.Apply(Op{Type: OpAddContainer, ContainerID: "B", Position: board.Above})
	if ids := e.Board().ContainerIDs(); ids[1] != res.ID {
		t.Errorf("containers = %v, new %s", ids, res.ID)
	}

	if res, _ := e.Apply(Op{Type: OpRenameContainer, ContainerID: "A", Title: "Top"}); !res.Changed {
		t.Error("rename reported no change")
	}
	if res, _ := e.Apply(Op{Type: OpRemoveContainer, ContainerID: models.BenchID}); res.Changed {
		t.Error("bench removed")
	}
	if res, _ := e.Apply(Op{Type: OpMoveItem, ItemID: "i2", ContainerID: "A", Index: 0}); !res.Changed {
		t.Error("move reported no change")
	}
	if res, _ := e.Apply(Op{Type: OpSetDescription, Description: "crunchy"}); !res.Changed {
		t.Error("description reported no change")
	}
	if _, err := e.Apply(Op{Type: "explode"}); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("unknown op error = %v", err)
	}

	saved, err := d.Load("ed1")
	if err != nil {
		t.Fatalf("draft not autosaved: %v", err)
	}
	if saved.Title != "Snacks" || saved.Description != "crunchy" || models.RankedItemCount(saved.Content) != 2 {
		t.Errorf("draft = %+v", saved)
	}
}

func TestPointerDragAutosavesAfterDrop(t *testing.T) {
	e, d := newEditor(t)
	from, to := center(e, "i1"), center(e, "A")

	e.Input(input.Raw{Kind: input.RawDown, Source: input.SourcePointer, SubjectID: "i1", Point: from})
	if !e.Input(input.Raw{Kind: input.RawMove, Source: input.SourcePointer, Point: to}) {
		t.Fatal("drag over A did not move the item")
	}
	if e.State() != dnd.Dragging {
		t.Fatalf("state = %v", e.State())
	}
	if d.saves != 0 {
		t.Errorf("draft saved %d times mid-drag", d.saves)
	}
	if _, err := e.Apply(Op{Type: OpRemoveItem, ItemID: "i2"}); !errors.Is(err, ErrBusy) {
		t.Errorf("edit during drag error = %v", err)
	}

	view := e.View()
	if view.State != "dragging" || view.Frame.Tree.Find(render.KindOverlay, "i1") == nil {
		t.Errorf("drag view = %s, overlay missing", view.State)
	}

	e.Input(input.Raw{Kind: input.RawUp, Source: input.SourcePointer, Point: to})
	if got, want := shape(e.Board()), "A:[i1] B:[i2] bench:[]"; got != want {
		t.Errorf("board = %q, want %q", got, want)
	}
	if d.saves != 1 {
		t.Errorf("saves = %d, want 1", d.saves)
	}
}

func TestKeyboardDrag(t *testing.T) {
	e, _ := newEditor(t)
	key := func(k, subject string) {
		e.Input(input.Raw{Kind: input.RawKey, Source: input.SourceKeyboard, Key: k, SubjectID: subject})
	}

	key(input.KeySpace, "i1")
	if e.State() != dnd.Dragging {
		t.Fatalf("state = %v after space", e.State())
	}
	key(input.KeyUp, "")
	if got, want := shape(e.Board()), "A:[i1] B:[i2] bench:[]"; got != want {
		t.Fatalf("board = %q, want %q", got, want)
	}
	key(input.KeyEnter, "")
	if e.State() != dnd.Idle {
		t.Errorf("state = %v after enter", e.State())
	}
	if got, want := shape(e.Board()), "A:[i1] B:[i2] bench:[]"; got != want {
		t.Errorf("board = %q, want %q", got, want)
	}
}

func TestKeyboardPickupOfContainerIsIgnored(t *testing.T) {
	e, _ := newEditor(t)
	before := e.Board()

	e.Input(input.Raw{Kind: input.RawKey, Source: input.SourceKeyboard, Key: input.KeySpace, SubjectID: "A"})
	e.Input(input.Raw{Kind: input.RawKey, Source: input.SourceKeyboard, Key: input.KeyDown})
	if e.State() != dnd.Idle || e.Board() != before {
		t.Errorf("state = %v, board changed = %v", e.State(), e.Board() != before)
	}

	// a later pickup of an item still works
	e.Input(input.Raw{Kind: input.RawKey, Source: input.SourceKeyboard, Key: input.KeySpace, SubjectID: "i1"})
	if e.State() != dnd.Dragging {
		t.Errorf("state = %v", e.State())
	}
}

func TestShowBench(t *testing.T) {
	e, _ := newEditor(t)
	if res, _ := e.Apply(Op{Type: OpShowBench, Show: false}); !res.Changed {
		t.Error("hiding the bench reported no change")
	}
	v := e.View()
	if v.ShowBench {
		t.Error("bench still shown")
	}
	if n := v.Frame.Tree.Find(render.KindBench, models.BenchID); n == nil || !n.Hidden {
		t.Errorf("bench node = %+v", n)
	}
}

func TestExport(t *testing.T) {
	e, _ := newEditor(t)
	out := e.Export()
	if out.Children[0].Kind != render.KindTitle || out.Children[0].Text != "Snacks" {
		t.Errorf("title node = %+v", out.Children[0])
	}
	if out.Find(render.KindBench, models.BenchID) != nil {
		t.Error("export contains the bench")
	}
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, img images.DataURI) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	return "https://cdn.example/" + img.MediaType, nil
}

type fakePublisher struct {
	got *models.TierListCreate
	err error
}

func (f *fakePublisher) CreateTierList(tl *models.TierListCreate) (*models.TierList, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = tl
	return &models.TierList{ID: "tl1", Title: tl.Title, Content: tl.Content, ShareCode: "abcd1234"}, nil
}

func TestPublish(t *testing.T) {
	e, d := newEditor(t)
	e.Apply(Op{Type: OpSetDescription, Description: "desc"})
	up, store := &fakeUploader{}, &fakePublisher{}

	tl, err := e.Publish(context.Background(), up, store, PublishRequest{CoverImage: pixel, AuthorName: "sam"})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if tl.ID != "tl1" || up.calls != 2 {
		t.Errorf("tierlist = %+v, uploads = %d", tl, up.calls)
	}
	if store.got.CoverImage != "https://cdn.example/image/png" || store.got.Description != "desc" || store.got.AuthorName != "sam" {
		t.Errorf("create = %+v", store.got)
	}
	for _, c := range store.got.Content {
		for _, it := range c.Items {
			if images.IsDataURI(it.ImageRef) {
				t.Errorf("stored item %s still inline", it.ID)
			}
		}
	}
	if it, _ := e.Board().Item("i1"); it.ImageRef != "https://cdn.example/image/png" {
		t.Errorf("model ref = %q", it.ImageRef)
	}
	if _, err := d.Load("ed1"); !errors.Is(err, drafts.ErrNotFound) {
		t.Error("draft should be cleared after publish")
	}
}

func TestPublishFailureLeavesEditorIntact(t *testing.T) {
	tests := []struct {
		name  string
		up    *fakeUploader
		store *fakePublisher
	}{
		{"upload", &fakeUploader{err: errors.New("bucket down")}, &fakePublisher{}},
		{"store", &fakeUploader{}, &fakePublisher{err: errors.New("disk full")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, d := newEditor(t)
			e.Apply(Op{Type: OpSetDescription, Description: "desc"})
			before := e.Board()

			if _, err := e.Publish(context.Background(), tt.up, tt.store, PublishRequest{}); err == nil {
				t.Fatal("expected an error")
			}
			if e.Board() != before {
				t.Error("model changed on failed publish")
			}
			if d.deletes != 0 {
				t.Error("draft cleared on failed publish")
			}
		})
	}
}

func TestPublishRequiresTitle(t *testing.T) {
	e := New("x", "  ", sampleBoard(), DefaultConfig())
	if _, err := e.Publish(context.Background(), &fakeUploader{}, &fakePublisher{}, PublishRequest{}); !errors.Is(err, ErrUntitled) {
		t.Errorf("error = %v", err)
	}
}
