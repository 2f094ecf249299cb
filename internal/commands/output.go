package commands

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/netchat/internal/config"
	"github.com/diogo/netchat/internal/render"
)

const (
	minBubbleWidth = 40
	maxBubbleWidth = 120
)

// bubbleWidth clamps the reply box to the terminal width
func bubbleWidth(termWidth int) int {
	if termWidth <= 0 {
		termWidth = 80
	}
	w := termWidth - 4
	if w < minBubbleWidth {
		w = minBubbleWidth
	}
	if w > maxBubbleWidth {
		w = maxBubbleWidth
	}
	return w
}

// renderReply draws a labelled bubble around the reply. Error replies are
// shown as plain text in the error color.
func renderReply(text, modelName string, termWidth int, md config.MarkdownConfig, p render.Palette, failed bool) string {
	width := bubbleWidth(termWidth)

	border := p.Title
	body := strings.TrimRight(text, "\n")
	if failed {
		border = p.Error
		body = lipgloss.NewStyle().Foreground(p.Error).Render(body)
	} else {
		opts := render.FromConfig(md).WithWidth(width - 4).WithCompact(true)
		body = strings.TrimRight(render.MarkdownOrPlain(text, opts), "\n")
	}

	label := lipgloss.NewStyle().Foreground(border).Bold(true).Render("✦ " + modelName)
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(p.Text).
		Padding(0, 1).
		MarginTop(1).
		Width(width).
		Render(body)

	return label + "\n" + bubble
}
