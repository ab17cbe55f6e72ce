package report

// Node is one element of a display tree. The tree is renderer-agnostic:
// materializers project it to terminal text or markdown without changing
// content or order.
type Node interface {
	node()
}

// Heading is a section title.
type Heading struct {
	Text string
}

// Text is a plain line. Error marks failure states rendered in place of a
// report (parse errors, fetch failures, the no-entries message).
type Text struct {
	Body  string
	Error bool
}

// Table is a fixed-column table with pre-formatted cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// BarSegment is one slice of the proportional chart. Percent is the
// segment's share of total hours in [0, 100].
type BarSegment struct {
	Label   string
	Percent float64
	Color   string
}

// BarChart is a horizontal proportional chart, segments in legend order.
type BarChart struct {
	Segments []BarSegment
}

// LegendItem pairs a color swatch with its label.
type LegendItem struct {
	Label string
	Color string
}

// Legend reproduces the chart's order with swatches and hour labels.
type Legend struct {
	Items []LegendItem
}

func (Heading) node()  {}
func (Text) node()     {}
func (Table) node()    {}
func (BarChart) node() {}
func (Legend) node()   {}

// Tree is an ordered list of display nodes.
type Tree struct {
	Nodes []Node
}

func (t *Tree) append(nodes ...Node) {
	t.Nodes = append(t.Nodes, nodes...)
}

// ErrorTree wraps a single failure message in a display tree.
func ErrorTree(msg string) *Tree {
	return &Tree{Nodes: []Node{Text{Body: msg, Error: true}}}
}
