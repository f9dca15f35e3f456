package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/meur/tierboard/internal/render"
	"github.com/meur/tierboard/internal/templates"
)

var (
	templateNameStyle = lipgloss.NewStyle().Bold(true)
	templateDescStyle = lipgloss.NewStyle().Faint(true)
	swatchStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#1a1a1a"))
)

func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Show the tier templates new boards can start from",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := templates.Builtin()
			if err := registry.LoadDir(c.Config.Editor.TemplatesDir); err != nil {
				return err
			}
			for _, t := range registry.List() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), templateLine(t, t.Name == c.Config.Editor.Template))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// templateLine renders a template as its name followed by one colour swatch per tier.
func templateLine(t templates.Template, isDefault bool) string {
	name := t.Name
	if isDefault {
		name += " *"
	}

	swatches := make([]string, 0, len(t.Tiers))
	for i, tier := range t.Tiers {
		color := tier.Color
		if color == "" {
			color = render.TierColors[i%len(render.TierColors)]
		}
		swatches = append(swatches, swatchStyle.Background(lipgloss.Color(color)).Render(tier.Title))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		templateNameStyle.Width(12).Render(name),
		lipgloss.JoinHorizontal(lipgloss.Top, swatches...),
	)
	if t.Description == "" {
		return line
	}
	return line + "\n" + templateDescStyle.PaddingLeft(12).Render(t.Description)
}
