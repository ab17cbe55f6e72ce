package hql

import "fmt"

// ParseError reports malformed query source: missing tokens, an unknown
// report type, or invalid range arguments. The message is meant to be shown
// verbatim to the user next to the offending block.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

// UnknownRangeError reports a time-range keyword the grammar does not know.
type UnknownRangeError struct {
	Token string
}

func (e *UnknownRangeError) Error() string {
	return fmt.Sprintf("unknown time range %q (expected TODAY, WEEK, MONTH, PAST or FROM)", e.Token)
}

// InvalidRangeError reports a recognized range keyword with malformed
// arguments, such as a non-numeric day count or a bad date literal.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string { return e.Reason }
