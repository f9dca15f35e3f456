package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meur/tierboard/internal/editor"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/logging"
	"github.com/meur/tierboard/internal/storage"
)

// Server holds the HTTP server dependencies
type Server struct {
	store  *storage.Store
	hub    *editor.Hub
	images *images.Store
	logger *log.Logger
	router chi.Router
}

// New creates a new API server
func New(store *storage.Store, hub *editor.Hub, imgs *images.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		store:  store,
		hub:    hub,
		images: imgs,
		logger: logger,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the router so callers can mount more routes, like static files.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*.tierboard.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// TierLists
		r.Post("/tierlists", s.handleCreateTierList)
		r.Get("/tierlists", s.handleListTierLists)
		r.Get("/tierlists/random", s.handleRandomTierLists)
		r.Get("/tierlists/{id}", s.handleGetTierList)
		r.Put("/tierlists/{id}", s.handleUpdateTierList)
		r.Delete("/tierlists/{id}", s.handleDeleteTierList)

		// Share links
		r.Get("/s/{code}", s.handleGetTierListByCode)

		// Editing sessions
		r.Get("/editors", s.handleListEditors)
		r.Post("/editors", s.handleOpenEditor)
		r.Route("/editors/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetEditor)
			r.Delete("/", s.handleCloseEditor)
			r.Post("/ops", s.handleEditorOp)
			r.Post("/input", s.handleEditorInput)
			r.Post("/tick", s.handleEditorTick)
			r.Post("/frame", s.handleEditorFrame)
			r.Get("/view", s.handleGetEditor)
			r.Get("/export", s.handleEditorExport)
			r.Post("/publish", s.handlePublish)
		})
	})

	// Uploaded images
	s.router.Get("/images/{key}", s.handleGetImage)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
