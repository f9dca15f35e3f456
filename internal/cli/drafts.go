package cli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/meur/tierboard/internal/drafts"
	"github.com/meur/tierboard/internal/models"
)

func (c *CLI) draftsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List unpublished drafts in the local cache, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := drafts.New(c.Config.Drafts.Path).List(cmd.Context())
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("ID", "TITLE", "RANKED", "SAVED")
			for _, d := range list {
				title := d.Title
				if title == "" {
					title = "(untitled)"
				}
				tbl.AddRow(d.ID, title, models.RankedItemCount(d.Content), d.SavedAt.Local().Format("2006-01-02 15:04"))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}
	cmd.AddCommand(c.draftsDeleteCommand())
	return cmd
}

func (c *CLI) draftsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete drafts from the local cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := drafts.New(c.Config.Drafts.Path)
			for _, id := range args {
				if err := store.Delete(id); err != nil {
					return err
				}
				c.Logger.Info("draft deleted", "id", id)
			}
			return nil
		},
	}
}
