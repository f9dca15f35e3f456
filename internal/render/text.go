package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TierColors is the header palette, applied to tiers in rank order.
var TierColors = []string{"#ff7f7f", "#ffbf7f", "#ffff7f", "#7fff7f", "#7fbfff", "#ff7fff"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Width(8).Align(lipgloss.Center).Foreground(lipgloss.Color("#000000"))
	itemStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	emptyStyle  = lipgloss.NewStyle().Faint(true).Padding(1, 1)
)

// RenderText rasterizes an export projection to styled terminal text, one row
// per tier with a coloured header and a box per item.
func RenderText(root *Node, width int) string {
	var rows []string
	rank := 0
	for _, n := range root.Children {
		switch n.Kind {
		case KindTitle:
			rows = append(rows, titleStyle.Render(n.Text))
		case KindTier:
			rows = append(rows, tierRow(n, rank, width))
			rank++
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func tierRow(tier *Node, rank, width int) string {
	header := headerStyle.Background(lipgloss.Color(TierColors[rank%len(TierColors)]))

	var boxes []string
	for _, c := range tier.Children {
		if c.Kind == KindItem {
			boxes = append(boxes, itemStyle.Render(c.Text))
		}
	}

	body := emptyStyle.Render("(empty)")
	if len(boxes) > 0 {
		body = wrap(boxes, width-lipgloss.Width(header.Render(tier.Text)))
	}
	h := lipgloss.Height(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, header.Height(h).Render(tier.Text), " ", body)
}

// wrap lays boxes out left to right, starting a new line when width runs out.
func wrap(boxes []string, width int) string {
	var lines []string
	var line []string
	used := 0
	for _, b := range boxes {
		w := lipgloss.Width(b)
		if len(line) > 0 && width > 0 && used+w > width {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, used = nil, 0
		}
		line = append(line, b)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(lines, "\n")
}
