// Package cli implements the tierboard command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meur/tierboard/internal/config"
	"github.com/meur/tierboard/internal/logging"
	"github.com/meur/tierboard/internal/storage"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. It is
// called by main with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands. Config and Logger are filled in by
// the root command before any subcommand runs.
type CLI struct {
	Config config.Config
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a CLI writing command output to out.
func New(out io.Writer) *CLI {
	return &CLI{out: out, Logger: logging.Discard()}
}

// Execute runs the tierboard CLI.
func Execute(ctx context.Context) error {
	return New(os.Stdout).RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tierboard",
		Short:         "Tierboard builds, edits and shares tier lists",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tierboard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.SetOut(c.out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("TIERBOARD_CONFIG"), "config file (TOML)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.draftsCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}

	c.Config = cfg
	c.Logger = logging.New(os.Stderr, level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
	return nil
}

// openStore opens the tier list database named by the config.
func (c *CLI) openStore() (*storage.Store, error) {
	if err := ensureParent(c.Config.Database.Path); err != nil {
		return nil, err
	}
	store, err := storage.New(c.Config.Database.Path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("database opened", "path", c.Config.Database.Path)
	return store, nil
}
