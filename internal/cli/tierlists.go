package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/meur/tierboard/internal/board"
	"github.com/meur/tierboard/internal/models"
	"github.com/meur/tierboard/internal/render"
	"github.com/meur/tierboard/internal/storage"
	"github.com/meur/tierboard/internal/templates"
)

func (c *CLI) seedCommand() *cobra.Command {
	var seedsDir string

	cmd := &cobra.Command{
		Use:   "seed [file.json...]",
		Short: "Load tier lists into the database",
		Long: `Seed creates tier lists from JSON files shaped like the create request of the API.
Without arguments every *.json file in --seeds is used; when there are none, one
sample tier list per built-in template is created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			files := args
			if len(files) == 0 {
				files, _ = filepath.Glob(filepath.Join(seedsDir, "*.json"))
			}
			if len(files) == 0 {
				return c.seedTemplates(store)
			}

			for _, file := range files {
				tl, err := seedFile(store, file)
				if err != nil {
					c.Logger.Warn("failed to seed", "file", file, "err", err)
					continue
				}
				c.Logger.Info("seeded tier list", "file", file, "id", tl.ID, "code", tl.ShareCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seedsDir, "seeds", "./seeds", "seeds directory")
	return cmd
}

func seedFile(store *storage.Store, path string) (*models.TierList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var req models.TierListCreate
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	req.Content = board.Hydrate(req.Content).Containers()
	return store.CreateTierList(&req)
}

// seedTemplates creates one public sample per template with an item in each tier.
func (c *CLI) seedTemplates(store *storage.Store) error {
	for _, t := range templates.Builtin().List() {
		content := t.Board().Containers()
		for i := range content {
			if content[i].ID == models.BenchID {
				continue
			}
			content[i].Items = []models.Item{{
				ID:    fmt.Sprintf("%s-item%d", t.Name, i+1),
				Title: "Sample " + strconv.Itoa(i+1),
			}}
		}

		tl, err := store.CreateTierList(&models.TierListCreate{
			Title:       "Sample " + t.Name + " tier list",
			Description: t.Description,
			Content:     content,
			AuthorName:  "tierboard",
			IsPublic:    true,
		})
		if err != nil {
			return fmt.Errorf("seed template %s: %w", t.Name, err)
		}
		c.Logger.Info("seeded tier list", "template", t.Name, "id", tl.ID, "code", tl.ShareCode)
	}
	return nil
}

func (c *CLI) listCommand() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published tier lists, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.ListTierLists(page, limit)
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 48
			tbl.AddRow("ID", "CODE", "TITLE", "ITEMS", "AUTHOR", "CREATED")
			for _, tl := range items {
				author := tl.AuthorName
				if author == "" {
					author = "guest"
				}
				tbl.AddRow(tl.ID, tl.ShareCode, tl.Title, tl.ItemCount, author, tl.CreatedAt.Format("2006-01-02 15:04"))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "tier lists per page")
	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show <id|share-code>",
		Short: "Print a tier list to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tl, err := store.GetTierList(args[0])
			if err == nil && tl == nil {
				tl, err = store.GetTierListByShareCode(args[0])
			}
			if err != nil {
				return err
			}
			if tl == nil {
				return fmt.Errorf("tier list %q not found", args[0])
			}

			layout := render.NewLayouter().Layout(board.Hydrate(tl.Content))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.RenderText(render.Export(layout, tl.Title), width))
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 100, "output width in columns")
	return cmd
}
