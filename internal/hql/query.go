// Package hql implements the small report query language embedded in
// document code blocks: <LIST|SUMMARY> <time range> [--static].
package hql

import (
	"fmt"
	"strings"

	"harvestql/internal/domain"
)

// ReportType selects between the two report shapes.
type ReportType int

const (
	ListReport ReportType = iota + 1
	SummaryReport
)

func (t ReportType) String() string {
	switch t {
	case ListReport:
		return "LIST"
	case SummaryReport:
		return "SUMMARY"
	default:
		return fmt.Sprintf("ReportType(%d)", int(t))
	}
}

// Query is a parsed, validated query. From never falls after To.
type Query struct {
	Type ReportType
	From domain.Date
	To   domain.Date
}

// StaticFlag marks a block that is frozen into static markup instead of
// being re-evaluated on every view. It is an orchestration convention, not
// part of the grammar: strip it with SplitStaticFlag before parsing.
const StaticFlag = "--static"

// SplitStaticFlag removes every occurrence of the static flag from source,
// wherever it appears, and reports whether it was present.
func SplitStaticFlag(source string) (string, bool) {
	if !strings.Contains(source, StaticFlag) {
		return source, false
	}
	return strings.TrimSpace(strings.ReplaceAll(source, StaticFlag, " ")), true
}

// Parse tokenizes and validates query source against today's date.
// Keywords are case-insensitive; tokens are separated by runs of whitespace.
// Errors are *ParseError, *UnknownRangeError or *InvalidRangeError, all
// carrying user-presentable messages.
func Parse(source string, today domain.Date) (Query, error) {
	tokens := strings.Fields(strings.TrimSpace(source))
	if len(tokens) < 2 {
		return Query{}, &ParseError{Reason: fmt.Sprintf("incomplete query %q: expected <LIST|SUMMARY> <time range>", strings.TrimSpace(source))}
	}
	for i, tok := range tokens {
		tokens[i] = strings.ToUpper(tok)
	}

	var typ ReportType
	switch tokens[0] {
	case "LIST":
		typ = ListReport
	case "SUMMARY":
		typ = SummaryReport
	default:
		return Query{}, &ParseError{Reason: fmt.Sprintf("unknown report type %q: expected LIST or SUMMARY", tokens[0])}
	}

	from, to, err := resolveRange(tokens[1:], today)
	if err != nil {
		return Query{}, err
	}
	return Query{Type: typ, From: from, To: to}, nil
}
