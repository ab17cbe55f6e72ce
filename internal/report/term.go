package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	columnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Bold(true)
)

// barWidth is the total cell width of the terminal bar chart.
const barWidth = 40

// Terminal materializes a display tree for an ANSI terminal using lipgloss
// styles. The bar chart is drawn with colored block runs.
func Terminal(t *Tree) string {
	var b strings.Builder
	for _, n := range t.Nodes {
		switch node := n.(type) {
		case Heading:
			b.WriteString(headingStyle.Render(node.Text) + "\n")
		case Text:
			if node.Error {
				b.WriteString(errorStyle.Render(node.Body) + "\n")
			} else {
				b.WriteString(node.Body + "\n")
			}
		case Table:
			writeTerminalTable(&b, node)
		case BarChart:
			writeTerminalChart(&b, node)
		case Legend:
			for _, item := range node.Items {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(item.Color)).Render("■")
				b.WriteString(swatch + " " + item.Label + "\n")
			}
		}
	}
	return b.String()
}

func writeTerminalTable(b *strings.Builder, t Table) {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = pad(col, widths[i])
	}
	b.WriteString(columnStyle.Render(strings.Join(header, "  ")) + "\n")

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}
}

func writeTerminalChart(b *strings.Builder, c BarChart) {
	used := 0
	for i, seg := range c.Segments {
		cells := int(seg.Percent/100*barWidth + 0.5)
		// The widest (last) remainder absorbs rounding drift.
		if i == len(c.Segments)-1 && used+cells < barWidth && seg.Percent > 0 {
			cells = barWidth - used
		}
		if used+cells > barWidth {
			cells = barWidth - used
		}
		if cells <= 0 {
			continue
		}
		used += cells
		run := strings.Repeat("█", cells)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color)).Render(run))
	}
	b.WriteString("\n")
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
