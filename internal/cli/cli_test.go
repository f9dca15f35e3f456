package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meur/tierboard/internal/drafts"
	"github.com/meur/tierboard/internal/models"
	"github.com/meur/tierboard/internal/storage"
	"github.com/meur/tierboard/internal/templates"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")
	defer SetVersion("dev", "", "")

	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("version = %q %q %q", version, commit, date)
	}
}

// writeConfig points every path of the config at dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tierboard.toml")
	body := `
[database]
path = "` + filepath.Join(dir, "db", "tierboard.db") + `"

[drafts]
path = "` + filepath.Join(dir, "drafts") + `"

[editor]
template = "classic"
templates_dir = "` + filepath.Join(dir, "templates") + `"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := New(&out).RootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestSeedListShow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	run(t, "--config", cfg, "seed", "--seeds", filepath.Join(dir, "none"))

	out := run(t, "--config", cfg, "list")
	for _, tpl := range templates.Builtin().List() {
		if !strings.Contains(out, "Sample "+tpl.Name+" tier list") {
			t.Errorf("list output missing %s:\n%s", tpl.Name, out)
		}
	}

	store, err := storage.New(filepath.Join(dir, "db", "tierboard.db"))
	if err != nil {
		t.Fatal(err)
	}
	items, err := store.ListTierLists(1, 1)
	store.Close()
	if err != nil || len(items) != 1 {
		t.Fatalf("ListTierLists() = %v, %v", items, err)
	}

	out = run(t, "--config", cfg, "show", items[0].ShareCode)
	if !strings.Contains(out, items[0].Title) || !strings.Contains(out, "Sample 1") {
		t.Errorf("show output:\n%s", out)
	}
}

func TestSeedFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	seeds := filepath.Join(dir, "seeds")
	if err := os.MkdirAll(seeds, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"fruit.json": `{"title": "Fruit", "is_public": true, "content": [{"id": "s", "title": "S", "items": [{"id": "apple", "title": "Apple", "src": "https://cdn.example/apple.png"}]}]}`,
		"broken.json": `{"title": `,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(seeds, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	run(t, "--config", cfg, "seed", "--seeds", seeds)

	out := run(t, "--config", cfg, "list")
	if !strings.Contains(out, "Fruit") || strings.Contains(out, "Sample") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestShowMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	root := New(&bytes.Buffer{}).RootCommand()
	root.SetArgs([]string{"--config", cfg, "show", "nope"})
	if err := root.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
}

func TestTemplatesCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "name = \"movies\"\ndescription = \"Watch list\"\n\n[[tier]]\ntitle = \"Must see\"\n\n[[tier]]\ntitle = \"Skip\"\n"
	if err := os.WriteFile(filepath.Join(dir, "templates", "movies.toml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	out := run(t, "--config", cfg, "templates")
	for _, want := range []string{"classic *", "default", "ternary", "movies", "Must see", "Watch list"} {
		if !strings.Contains(out, want) {
			t.Errorf("templates output missing %q:\n%s", want, out)
		}
	}
}

func TestDraftsCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	store := drafts.New(filepath.Join(dir, "drafts"))
	err := store.Save(&models.Draft{ID: "d1", Title: "Cheeses", Content: []models.Container{
		{ID: "s", Title: "S", Items: []models.Item{{ID: "brie", Title: "Brie"}}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	out := run(t, "--config", cfg, "drafts")
	if !strings.Contains(out, "d1") || !strings.Contains(out, "Cheeses") {
		t.Errorf("drafts output:\n%s", out)
	}

	run(t, "--config", cfg, "drafts", "rm", "d1")
	if out := run(t, "--config", cfg, "drafts"); strings.Contains(out, "Cheeses") {
		t.Errorf("draft still listed:\n%s", out)
	}
}

func TestFileServer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FileServer should reject URL parameters")
		}
	}()
	FileServer(nil, "/{id}", nil)
}
