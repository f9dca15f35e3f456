package editor

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/drafts"
	"github.com/meur/tierboard/internal/models"
	"github.com/meur/tierboard/internal/templates"
)

// OpenRequest says how to start an editor. DraftID restores a cached draft;
// otherwise Content is hydrated when present, else Template is used.
type OpenRequest struct {
	DraftID  string             `json:"draft_id,omitempty"`
	Template string             `json:"template,omitempty"`
	Title    string             `json:"title,omitempty"`
	Content  []models.Container `json:"content,omitempty"`
}

// Hub tracks the open editors of a process.
type Hub struct {
	cfg       Config
	templates *templates.Registry
	fallback  string

	mu      sync.RWMutex
	editors map[string]*Editor
}

// NewHub creates a hub. defaultTemplate names the template used when an open
// request does not pick one.
func NewHub(cfg Config, tpl *templates.Registry, defaultTemplate string) *Hub {
	if tpl == nil {
		tpl = templates.Builtin()
	}
	return &Hub{
		cfg:       cfg,
		templates: tpl,
		fallback:  defaultTemplate,
		editors:   map[string]*Editor{},
	}
}

// Open starts an editor, or returns the open editor of a restored draft.
func (h *Hub) Open(req OpenRequest) (*Editor, error) {
	if req.DraftID != "" {
		if e, err := h.Get(req.DraftID); err == nil {
			return e, nil
		}
		return h.restore(req.DraftID)
	}

	var b *board.Board
	if req.Content != nil {
		b = board.Hydrate(req.Content)
	} else {
		name := req.Template
		if name == "" {
			name = h.fallback
		}
		t, err := h.templates.Get(name)
		if err != nil {
			return nil, err
		}
		b = t.Board()
	}
	e := New(uuid.New().String(), req.Title, b, h.cfg)
	// not in the cache yet
	e.dirty = true
	return h.add(e), nil
}

func (h *Hub) restore(id string) (*Editor, error) {
	if h.cfg.Drafts == nil {
		return nil, ErrNotFound
	}
	d, err := h.cfg.Drafts.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to restore draft %s: %w", id, err)
	}
	e := New(d.ID, d.Title, board.Hydrate(d.Content), h.cfg)
	e.description = d.Description
	return h.add(e), nil
}

func (h *Hub) add(e *Editor) *Editor {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.editors[e.id]; ok {
		return existing
	}
	h.editors[e.id] = e
	return e
}

// Get returns an open editor.
func (h *Hub) Get(id string) (*Editor, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.editors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Close forgets an editor after writing unsaved changes to the draft cache.
func (h *Hub) Close(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.editors[id]
	if !ok {
		return ErrNotFound
	}
	if err := e.Flush(); err != nil {
		return err
	}
	delete(h.editors, id)
	return nil
}

// IDs returns the ids of the open editors, sorted.
func (h *Hub) IDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.editors))
	for id := range h.editors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsNotFound reports whether err means a missing editor, draft or template.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, templates.ErrNotFound) || errors.Is(err, drafts.ErrNotFound)
}
