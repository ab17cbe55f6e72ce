// Package report turns a query's matched time entries into a display tree:
// either a detailed list table or a per-project summary with a proportional
// bar chart. Aggregation and rendering are pure; materializers project the
// tree to terminal text or markdown.
package report

import (
	"sort"

	"harvestql/internal/domain"
	"harvestql/internal/hql"
)

// View is the aggregated form of a query result. Exactly one of ListView,
// SummaryView or EmptyView.
type View interface {
	view()
}

// ListRow is one entry projected for the detail table, in input order.
type ListRow struct {
	Project string
	Task    string
	Date    domain.Date
	Hours   float64
}

// ListView preserves the fetched entries unchanged, in input order.
type ListView struct {
	Query hql.Query
	Rows  []ListRow
}

// ProjectTotal is the aggregated hours for one project. Totals are keyed by
// project name: two project ids sharing a display name merge into one total.
type ProjectTotal struct {
	Project string
	Hours   float64
}

// SummaryView holds per-project totals sorted by hours descending, ties
// keeping first-encountered order. TotalHours is the exact sum of the input
// entries' hours; nothing is rounded before render time.
type SummaryView struct {
	Query      hql.Query
	TotalHours float64
	Projects   []ProjectTotal
}

// EmptyView distinguishes "no entries matched" from a zero-hours summary.
type EmptyView struct {
	Query hql.Query
}

func (ListView) view()    {}
func (SummaryView) view() {}
func (EmptyView) view()   {}

// Aggregate computes the view for q over entries. Entries are never mutated.
func Aggregate(entries []domain.TimeEntry, q hql.Query) View {
	if len(entries) == 0 {
		return EmptyView{Query: q}
	}

	if q.Type == hql.ListReport {
		rows := make([]ListRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, ListRow{
				Project: e.Project.Name,
				Task:    e.Task.Name,
				Date:    e.SpentDate,
				Hours:   e.Hours,
			})
		}
		return ListView{Query: q, Rows: rows}
	}

	totals := make(map[string]float64, len(entries))
	var order []string
	var total float64
	for _, e := range entries {
		if _, seen := totals[e.Project.Name]; !seen {
			order = append(order, e.Project.Name)
		}
		totals[e.Project.Name] += e.Hours
		total += e.Hours
	}

	projects := make([]ProjectTotal, 0, len(order))
	for _, name := range order {
		projects = append(projects, ProjectTotal{Project: name, Hours: totals[name]})
	}
	// Stable sort keeps first-encountered order for equal totals.
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Hours > projects[j].Hours
	})

	return SummaryView{Query: q, TotalHours: total, Projects: projects}
}
