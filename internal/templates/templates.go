// Package templates provides the starter boards new editors can open with.
// Built-in templates are embedded TOML files; more can be loaded from a directory.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/models"
)

//go:embed builtin/*.toml
var builtin embed.FS

// DefaultName is the template used when none is requested.
const DefaultName = "default"

// ErrNotFound is returned for an unknown template name.
var ErrNotFound = errors.New("template not found")

// Tier is one ranked row of a template.
type Tier struct {
	Title string `toml:"title"`
	Color string `toml:"color"`
}

// Template is a named list of starting tiers.
type Template struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Tiers       []Tier `toml:"tier"`
}

// Board builds the starting board: one empty container per tier plus the bench.
func (t Template) Board() *board.Board {
	content := make([]models.Container, 0, len(t.Tiers)+1)
	for i, tier := range t.Tiers {
		content = append(content, models.Container{
			ID:    fmt.Sprintf("container%d", i+1),
			Title: tier.Title,
			Items: []models.Item{},
		})
	}
	return board.Hydrate(content)
}

// Parse decodes one template.
func Parse(data []byte) (Template, error) {
	var t Template
	if err := toml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("parse template: %w", err)
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return Template{}, fmt.Errorf("template: name is required")
	}
	if len(t.Tiers) == 0 {
		return Template{}, fmt.Errorf("template %q: at least one tier is required", t.Name)
	}
	for i, tier := range t.Tiers {
		if strings.TrimSpace(tier.Title) == "" {
			return Template{}, fmt.Errorf("template %q: tier[%d]: title is required", t.Name, i)
		}
	}
	return t, nil
}

// Registry holds templates by name.
type Registry struct {
	byName map[string]Template
}

// Builtin returns a registry of the embedded templates.
func Builtin() *Registry {
	r := &Registry{byName: map[string]Template{}}
	if err := r.loadFS(builtin, "builtin"); err != nil {
		panic(fmt.Sprintf("templates: broken builtin template: %v", err))
	}
	return r
}

// LoadDir adds every *.toml template in dir, replacing built-ins of the same name.
// A missing directory is not an error.
func (r *Registry) LoadDir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return r.loadFS(os.DirFS(dir), ".")
}

func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	paths, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.toml")))
	if err != nil {
		return err
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		t, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		r.byName[t.Name] = t
	}
	return nil
}

// Get returns the named template; an empty name means DefaultName.
func (r *Registry) Get(name string) (Template, error) {
	if name == "" {
		name = DefaultName
	}
	t, ok := r.byName[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// List returns all templates sorted by name.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
