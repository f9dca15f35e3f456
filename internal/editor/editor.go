// Package editor ties one editing session together: the board model, the drag
// state machine, the input adapter and the reconciler. An Editor serializes every
// mutation behind its mutex, so a board is only ever changed by one goroutine at
// a time.
package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/dnd"
	"github.com/meur/tierboard/internal/geometry"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/input"
	"github.com/meur/tierboard/internal/logging"
	"github.com/meur/tierboard/internal/models"
	"github.com/meur/tierboard/internal/render"
)

var (
	// ErrNotFound is returned for an unknown editor id.
	ErrNotFound = errors.New("editor not found")
	// ErrBusy is returned for edits attempted while a drag is in progress.
	ErrBusy = errors.New("drag in progress")
	// ErrUnknownOp is returned by Apply for an unsupported operation type.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrUntitled is returned when publishing a board without a title.
	ErrUntitled = errors.New("tier list needs a title")
)

// Drafts is the local cache an editor autosaves to.
type Drafts interface {
	Save(d *models.Draft) error
	Load(id string) (*models.Draft, error)
	Delete(id string) error
}

// Config configures new editors.
type Config struct {
	Constraints input.Constraints
	Metrics     render.Metrics
	Drafts      Drafts
	Logger      *log.Logger
}

// DefaultConfig returns the stock constraints and metrics without a draft cache.
func DefaultConfig() Config {
	return Config{
		Constraints: input.DefaultConstraints(),
		Metrics:     render.DefaultMetrics(),
	}
}

// Editor is one editing session.
type Editor struct {
	mu sync.Mutex

	id          string
	title       string
	description string

	model      *board.Model
	machine    *dnd.Machine
	adapter    *input.Adapter
	reconciler *render.Reconciler
	drafts     Drafts
	logger     *log.Logger

	dirty bool
}

// New creates an editor over b. A nil board starts from the default tiers.
func New(id, title string, b *board.Board, cfg Config) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("editor", id)

	if cfg.Metrics == (render.Metrics{}) {
		cfg.Metrics = render.DefaultMetrics()
	}
	if cfg.Constraints == (input.Constraints{}) {
		cfg.Constraints = input.DefaultConstraints()
	}

	lay := &render.Layouter{Metrics: cfg.Metrics, ShowBench: true}
	e := &Editor{
		id:         id,
		title:      title,
		model:      board.NewModel(b),
		adapter:    input.NewAdapter(cfg.Constraints),
		reconciler: render.NewReconciler(lay),
		drafts:     cfg.Drafts,
		logger:     logger,
	}
	e.machine = dnd.New(e.model, lay, dnd.WithLogger(logger))
	e.adapter.SetCoordinateGetter(input.NearestInDirection(func() []geometry.Droppable {
		return lay.Measure(e.model.Board())
	}, cfg.Constraints.KeyboardStep))
	e.model.Subscribe(func(prev, next *board.Board) {
		e.dirty = true
	})
	return e
}

// ID returns the editor id, which is also its draft id.
func (e *Editor) ID() string {
	return e.id
}

// Board returns the current snapshot.
func (e *Editor) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Board()
}

// Content returns the serializable board content.
func (e *Editor) Content() []models.Container {
	return e.Board().Containers()
}

// State returns the drag state.
func (e *Editor) State() dnd.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// --- Operations ---

// Op types accepted by Apply.
const (
	OpAddContainer      = "addContainer"
	OpAddItem           = "addItem"
	OpRemoveItem        = "removeItem"
	OpRenameContainer   = "renameContainer"
	OpRemoveContainer   = "removeContainer"
	OpMoveContainerUp   = "moveContainerUp"
	OpMoveContainerDown = "moveContainerDown"
	OpMoveItem          = "moveItem"
	OpSetTitle          = "setTitle"
	OpSetDescription    = "setDescription"
	OpShowBench         = "showBench"
)

// Op is one discrete edit.
type Op struct {
	Type        string         `json:"type"`
	ContainerID string         `json:"containerId,omitempty"`
	ItemID      string         `json:"itemId,omitempty"`
	Position    board.Position `json:"position,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	ImageRef    string         `json:"imageRef,omitempty"`
	Index       int            `json:"index,omitempty"`
	Show        bool           `json:"show,omitempty"`
}

// Result reports the outcome of an Op. ID is set for operations that create.
type Result struct {
	Changed bool   `json:"changed"`
	ID      string `json:"id,omitempty"`
}

// Apply performs op. Board edits are refused while a drag is in progress.
func (e *Editor) Apply(op Op) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.machine.State() != dnd.Idle && op.Type != OpSetTitle && op.Type != OpSetDescription {
		return Result{}, ErrBusy
	}

	var res Result
	switch op.Type {
	case OpAddContainer:
		res.ID = e.model.AddContainer(op.ContainerID, op.Position)
		res.Changed = res.ID != ""
	case OpAddItem:
		if images.IsDataURI(op.ImageRef) {
			if _, err := images.ParseDataURI(op.ImageRef); err != nil {
				return Result{}, err
			}
		}
		res.ID = e.model.AddItem(op.ContainerID, op.ImageRef)
		res.Changed = res.ID != ""
	case OpRemoveItem:
		res.Changed = e.model.RemoveItem(op.ItemID)
	case OpRenameContainer:
		res.Changed = e.model.RenameContainer(op.ContainerID, op.Title)
	case OpRemoveContainer:
		res.Changed = e.model.RemoveContainer(op.ContainerID)
	case OpMoveContainerUp:
		res.Changed = e.model.MoveContainerUp(op.ContainerID)
	case OpMoveContainerDown:
		res.Changed = e.model.MoveContainerDown(op.ContainerID)
	case OpMoveItem:
		res.Changed = e.model.MoveItem(op.ItemID, op.ContainerID, op.Index)
	case OpSetTitle:
		res.Changed = e.title != op.Title
		e.title = op.Title
		e.dirty = e.dirty || res.Changed
	case OpSetDescription:
		res.Changed = e.description != op.Description
		e.description = op.Description
		e.dirty = e.dirty || res.Changed
	case OpShowBench:
		lay := e.reconciler.Layouter()
		res.Changed = lay.ShowBench != op.Show
		e.reconciler.SetShowBench(op.Show)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
	}

	e.logger.Debug("op", "type", op.Type, "changed", res.Changed, "id", res.ID)
	e.settle()
	return res, nil
}

// Input feeds one raw device event through the adapter and the drag machine and
// reports whether the board changed.
func (e *Editor) Input(r input.Raw) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	// keyboard pickups start from the subject's centre
	if r.Kind == input.RawKey && (r.Key == input.KeySpace || r.Key == input.KeyEnter) &&
		!e.adapter.Active() && r.SubjectID != "" && r.Point == (geometry.Point{}) {
		if rect, ok := e.reconciler.Layouter().Layout(e.model.Board()).Items[r.SubjectID]; ok {
			r.Point = rect.Center()
		}
	}
	return e.feed(e.adapter.Handle(r))
}

// Tick advances time for press-and-hold activation.
func (e *Editor) Tick(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feed(e.adapter.Tick(now))
}

func (e *Editor) feed(events []input.Event) bool {
	changed := false
	for _, ev := range events {
		if e.machine.Handle(ev) {
			changed = true
		}
	}
	// the adapter picked up something the machine refused, like a container
	if e.adapter.Active() && e.machine.State() == dnd.Idle {
		e.adapter.Reset()
	}
	e.settle()
	return changed
}

// settle autosaves the draft once the board is at rest.
func (e *Editor) settle() {
	if !e.dirty || e.drafts == nil || e.machine.State() != dnd.Idle {
		return
	}
	if err := e.drafts.Save(e.draftLocked()); err != nil {
		e.logger.Warn("draft autosave failed", "err", err)
		return
	}
	e.dirty = false
}

// Flush cancels any drag in progress and writes unsaved changes to the draft
// cache. A published board with no later edits is not written back.
func (e *Editor) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.State() != dnd.Idle {
		e.machine.Cancel()
		e.adapter.Reset()
	}
	if !e.dirty || e.drafts == nil {
		return nil
	}
	if err := e.drafts.Save(e.draftLocked()); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", e.id, err)
	}
	e.dirty = false
	return nil
}

// --- Views ---

// View is what a client draws.
type View struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	State       string       `json:"state"`
	ShowBench   bool         `json:"showBench"`
	Frame       render.Frame `json:"frame"`
}

// View renders the current board.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Frame ends one animation frame and renders the board.
func (e *Editor) Frame() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Frame()
	return e.viewLocked()
}

func (e *Editor) viewLocked() View {
	var drag *render.DragView
	if s, ok := e.machine.Session(); ok {
		drag = &render.DragView{ActiveID: s.ActiveItemID, ActiveRect: s.ActiveRect}
	}
	return View{
		ID:          e.id,
		Title:       e.title,
		Description: e.description,
		State:       e.machine.State().String(),
		ShowBench:   e.reconciler.Layouter().ShowBench,
		Frame:       e.reconciler.Render(e.model.Board(), drag),
	}
}

// Export returns the read-only projection of the board for rasterizers.
func (e *Editor) Export() *render.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.Export(e.reconciler.Layouter().Layout(e.model.Board()), e.title)
}

// Draft returns the board as a draft record.
func (e *Editor) Draft() *models.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftLocked()
}

func (e *Editor) draftLocked() *models.Draft {
	return &models.Draft{
		ID:          e.id,
		Title:       e.title,
		Description: e.description,
		Content:     e.model.Board().Containers(),
	}
}
