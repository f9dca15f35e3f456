package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/meur/tierboard/internal/api"
	"github.com/meur/tierboard/internal/drafts"
	"github.com/meur/tierboard/internal/editor"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/input"
	"github.com/meur/tierboard/internal/render"
	"github.com/meur/tierboard/internal/templates"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the static frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				c.Config.Server.Port = port
			}
			srv, cleanup, err := c.buildServer()
			if err != nil {
				return err
			}
			defer cleanup()
			return c.listen(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "server port (overrides config)")
	return cmd
}

// buildServer wires storage, the draft cache, the image store and the editor
// hub into the API.
func (c *CLI) buildServer() (*http.Server, func(), error) {
	cfg := c.Config

	store, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}

	registry := templates.Builtin()
	if err := registry.LoadDir(cfg.Editor.TemplatesDir); err != nil {
		store.Close()
		return nil, nil, err
	}

	hub := editor.NewHub(editor.Config{
		Constraints: input.Constraints{
			PointerDistance: cfg.Input.PointerDistance,
			TouchDelay:      cfg.Input.TouchDelay,
			TouchTolerance:  cfg.Input.TouchTolerance,
			KeyboardStep:    cfg.Input.KeyboardStep,
		},
		Metrics: render.DefaultMetrics(),
		Drafts:  drafts.New(cfg.Drafts.Path),
		Logger:  c.Logger,
	}, registry, cfg.Editor.Template)

	s := api.New(store, hub, images.NewStore(cfg.Images.Path, cfg.Images.BaseURL), c.Logger)

	// Serve frontend static files (for production deployment)
	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		FileServer(s.Router(), "/", http.Dir(cfg.Server.StaticDir))
		c.Logger.Info("serving static files", "dir", cfg.Server.StaticDir)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, func() { store.Close() }, nil
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("tierboard API starting", "addr", "http://localhost"+srv.Addr, "db", c.Config.Database.Path)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
