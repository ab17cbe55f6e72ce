package report

import (
	"fmt"
	"strings"
)

// Markdown materializes a display tree as a markdown fragment suitable for
// writing back into a vault document. The bar chart becomes an inline-styled
// HTML row so widths and colors survive in rendered markdown.
func Markdown(t *Tree) string {
	var b strings.Builder
	for _, n := range t.Nodes {
		switch node := n.(type) {
		case Heading:
			b.WriteString("### " + node.Text + "\n\n")
		case Text:
			if node.Error {
				b.WriteString("> ⚠ " + node.Body + "\n\n")
			} else {
				b.WriteString("**" + node.Body + "**\n\n")
			}
		case Table:
			writeMarkdownTable(&b, node)
		case BarChart:
			writeMarkdownChart(&b, node)
		case Legend:
			for _, item := range node.Items {
				fmt.Fprintf(&b, "- <span style=\"color:%s\">■</span> %s\n", item.Color, item.Label)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMarkdownTable(b *strings.Builder, t Table) {
	b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func writeMarkdownChart(b *strings.Builder, c BarChart) {
	b.WriteString("<div style=\"display:flex;height:20px;border-radius:4px;overflow:hidden\">")
	for _, seg := range c.Segments {
		fmt.Fprintf(b,
			"<span title=\"%s\" style=\"width:%.1f%%;background-color:%s\"></span>",
			seg.Label, seg.Percent, seg.Color)
	}
	b.WriteString("</div>\n\n")
}
