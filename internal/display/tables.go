package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableRenderer renders a Markdown-compatible table
type TableRenderer interface {
	Name() string
	Render(headers []string, rows [][]string) string
}

// SelectTableRenderer returns the renderer for a config value. Unknown values get the
// plain renderer, which needs nothing beyond string joining.
func SelectTableRenderer(mode string) TableRenderer {
	if mode == "markdown" {
		return LipglossTableRenderer{}
	}
	return PlainTableRenderer{}
}

// LipglossTableRenderer draws aligned GitHub-style tables
type LipglossTableRenderer struct{}

func (LipglossTableRenderer) Name() string { return "markdown" }

func (LipglossTableRenderer) Render(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(escapeRow(headers)...)
	for _, row := range rows {
		t.Row(escapeRow(row)...)
	}
	return t.String()
}

// PlainTableRenderer joins cells with pipes, without column alignment
type PlainTableRenderer struct{}

func (PlainTableRenderer) Name() string { return "plain" }

func (PlainTableRenderer) Render(headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(escapeRow(headers), " | "))
	sb.WriteByte('\n')

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString(strings.Join(sep, " | "))

	for _, row := range rows {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(escapeRow(row), " | "))
	}
	return sb.String()
}

func escapeRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
