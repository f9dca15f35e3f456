package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/logging"
	"github.com/meur/tierboard/internal/models"
)

// handleCreateTierList stores a tier list submitted as finished content
func (s *Server) handleCreateTierList(w http.ResponseWriter, r *http.Request) {
	var req models.TierListCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	// normalize ids and make sure the bench exists
	req.Content = board.Hydrate(req.Content).Containers()

	tierList, err := s.store.CreateTierList(&req)
	if err != nil {
		logging.FromContext(r.Context()).Error("create tier list", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to create tier list")
		return
	}

	respondJSON(w, http.StatusCreated, tierList)
}

// handleListTierLists returns one page of published tier lists, newest first
func (s *Server) handleListTierLists(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	items, err := s.store.ListTierLists(page, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("list tier lists", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to list tier lists")
		return
	}
	total, err := s.store.CountTierLists()
	if err != nil {
		logging.FromContext(r.Context()).Error("count tier lists", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to list tier lists")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// handleRandomTierLists returns a random selection of published tier lists
func (s *Server) handleRandomTierLists(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListRandomTierLists(queryInt(r, "limit", 10))
	if err != nil {
		logging.FromContext(r.Context()).Error("random tier lists", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to list tier lists")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// handleGetTierList returns a tier list by ID
func (s *Server) handleGetTierList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tierList, err := s.store.GetTierList(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tier list")
		return
	}
	if tierList == nil {
		respondError(w, http.StatusNotFound, "Tier list not found")
		return
	}

	respondJSON(w, http.StatusOK, tierList)
}

// handleUpdateTierList updates an existing tier list
func (s *Server) handleUpdateTierList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.TierListUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Content != nil {
		update.Content = board.Hydrate(update.Content).Containers()
	}

	found, err := s.store.UpdateTierList(id, &update)
	if err != nil {
		logging.FromContext(r.Context()).Error("update tier list", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to update tier list")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Tier list not found")
		return
	}

	// Return updated tier list
	updated, _ := s.store.GetTierList(id)
	respondJSON(w, http.StatusOK, updated)
}

// handleGetTierListByCode returns a tier list by share code
func (s *Server) handleGetTierListByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	tierList, err := s.store.GetTierListByShareCode(code)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tier list")
		return
	}
	if tierList == nil {
		respondError(w, http.StatusNotFound, "Tier list not found")
		return
	}

	respondJSON(w, http.StatusOK, tierList)
}

// handleDeleteTierList deletes a tier list by ID
func (s *Server) handleDeleteTierList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteTierList(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete tier list")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Tier list not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
