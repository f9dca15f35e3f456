package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meur/tierboard/internal/editor"
	"github.com/meur/tierboard/internal/logging"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/input"
	"github.com/meur/tierboard/internal/render"
)

// editorFor loads the editor named in the URL, writing a 404 when it is missing
func (s *Server) editorFor(w http.ResponseWriter, r *http.Request) (*editor.Editor, bool) {
	e, err := s.hub.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Editor not found")
		return nil, false
	}
	return e, true
}

// handleOpenEditor starts an editing session from a template, content or a cached draft
func (s *Server) handleOpenEditor(w http.ResponseWriter, r *http.Request) {
	var req editor.OpenRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	e, err := s.hub.Open(req)
	if err != nil {
		if editor.IsNotFound(err) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		logging.FromContext(r.Context()).Error("open editor", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to open editor")
		return
	}

	respondJSON(w, http.StatusCreated, e.View())
}

// handleListEditors returns the ids of the open editing sessions
func (s *Server) handleListEditors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"editors": s.hub.IDs()})
}

// handleGetEditor returns the current view
func (s *Server) handleGetEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, e.View())
}

// handleCloseEditor ends a session; its draft stays cached
func (s *Server) handleCloseEditor(w http.ResponseWriter, r *http.Request) {
	err := s.hub.Close(chi.URLParam(r, "id"))
	if errors.Is(err, editor.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Editor not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("close editor", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to close editor")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

type opResponse struct {
	Result editor.Result `json:"result"`
	View   editor.View   `json:"view"`
}

// handleEditorOp applies one discrete edit
func (s *Server) handleEditorOp(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}

	var op editor.Op
	if err := decodeJSON(r, &op); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := e.Apply(op)
	switch {
	case errors.Is(err, editor.ErrBusy):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, editor.ErrUnknownOp), errors.Is(err, images.ErrInvalidDataURI):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to apply operation")
		return
	}

	respondJSON(w, http.StatusOK, opResponse{Result: res, View: e.View()})
}

// rawBatch accepts either a single raw event or an array of them
type rawBatch []input.Raw

func (b *rawBatch) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var many []input.Raw
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*b = many
		return nil
	}
	var one input.Raw
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*b = rawBatch{one}
	return nil
}

type inputResponse struct {
	Changed bool        `json:"changed"`
	View    editor.View `json:"view"`
}

// handleEditorInput feeds raw device events, one object or an array of them
func (s *Server) handleEditorInput(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}

	var batch rawBatch
	if err := decodeJSON(r, &batch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	changed := false
	now := time.Now()
	for _, raw := range batch {
		if raw.At.IsZero() {
			raw.At = now
		}
		if e.Input(raw) {
			changed = true
		}
	}

	respondJSON(w, http.StatusOK, inputResponse{Changed: changed, View: e.View()})
}

// handleEditorTick lets press-and-hold touches activate without further input
func (s *Server) handleEditorTick(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}

	var req struct {
		At time.Time `json:"at"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.At.IsZero() {
		req.At = time.Now()
	}

	changed := e.Tick(req.At)
	respondJSON(w, http.StatusOK, inputResponse{Changed: changed, View: e.View()})
}

// handleEditorFrame ends one animation frame
func (s *Server) handleEditorFrame(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, e.Frame())
}

// handleEditorExport returns the export projection, as JSON or as terminal text
func (s *Server) handleEditorExport(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}

	out := e.Export()
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, render.RenderText(out, queryInt(r, "width", 100))); err != nil {
			logging.FromContext(r.Context()).Warn("write text export", "err", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// handlePublish uploads inline images and stores the board as a tier list
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editorFor(w, r)
	if !ok {
		return
	}

	req := editor.PublishRequest{IsPublic: true}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tl, err := e.Publish(r.Context(), s.images, s.store, req)
	switch {
	case errors.Is(err, editor.ErrBusy):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, editor.ErrUntitled), errors.Is(err, images.ErrInvalidDataURI):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "Failed to publish tier list")
		return
	}

	respondJSON(w, http.StatusCreated, tl)
}
