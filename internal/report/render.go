package report

import "fmt"

// palette is the fixed chart palette. Colors are assigned by position in the
// sorted totals (palette[i%7]), so a project's color follows its rank, not
// its identity. Simple and deterministic; a known limitation when ranks
// shift between renders.
var palette = [7]string{
	"#4E79A7",
	"#F28E2B",
	"#E15759",
	"#76B7B2",
	"#59A14F",
	"#EDC948",
	"#B07AA1",
}

// noEntriesMessage is the fixed line shown when a query matched nothing.
const noEntriesMessage = "No time entries found."

// Render projects an aggregated view into a display tree. It is a pure
// function: the same view always yields a byte-identical tree.
func Render(v View) *Tree {
	switch view := v.(type) {
	case EmptyView:
		return &Tree{Nodes: []Node{
			Heading{Text: rangeHeading(view.Query.From.String(), view.Query.To.String())},
			Text{Body: noEntriesMessage},
		}}
	case ListView:
		return renderList(view)
	case SummaryView:
		return renderSummary(view)
	default:
		return ErrorTree(fmt.Sprintf("unsupported view %T", v))
	}
}

func renderList(v ListView) *Tree {
	t := &Tree{}
	t.append(Heading{Text: rangeHeading(v.Query.From.String(), v.Query.To.String())})

	table := Table{Columns: []string{"Project", "Task", "Date", "Hours"}}
	for _, row := range v.Rows {
		table.Rows = append(table.Rows, []string{
			row.Project,
			row.Task,
			row.Date.String(),
			fmt.Sprintf("%.2f", row.Hours),
		})
	}
	t.append(table)
	return t
}

func renderSummary(v SummaryView) *Tree {
	t := &Tree{}
	t.append(
		Heading{Text: rangeHeading(v.Query.From.String(), v.Query.To.String())},
		Text{Body: fmt.Sprintf("Total: %.2f hours", v.TotalHours)},
	)

	chart := BarChart{}
	legend := Legend{}
	for i, p := range v.Projects {
		color := palette[i%len(palette)]
		chart.Segments = append(chart.Segments, BarSegment{
			Label:   p.Project,
			Percent: share(p.Hours, v.TotalHours),
			Color:   color,
		})
		legend.Items = append(legend.Items, LegendItem{
			Label: fmt.Sprintf("%s: %.2fh", p.Project, p.Hours),
			Color: color,
		})
	}
	t.append(chart, legend)
	return t
}

// share returns hours as a percentage of total, defined as 0 when the total
// is 0 to keep an all-zero summary renderable.
func share(hours, total float64) float64 {
	if total == 0 {
		return 0
	}
	return hours / total * 100
}

func rangeHeading(from, to string) string {
	if from == to {
		return "Time report " + from
	}
	return fmt.Sprintf("Time report %s to %s", from, to)
}
