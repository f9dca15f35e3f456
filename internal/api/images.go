package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meur/tierboard/internal/images"
)

// handleGetImage serves an uploaded image
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	data, mediaType, err := s.images.Get(chi.URLParam(r, "key"))
	if errors.Is(err, images.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read image")
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
