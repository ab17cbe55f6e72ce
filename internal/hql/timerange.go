package hql

import (
	"fmt"
	"strconv"

	"harvestql/internal/domain"
)

// resolveRange turns an uppercased time-range token sequence into a concrete
// inclusive [from, to] pair relative to today.
//
// Supported forms:
//
//	TODAY
//	WEEK                    Monday..Sunday of the week containing today
//	MONTH                   1st..last day of the month containing today
//	PAST <n> DAYS           today-(n-1)..today
//	FROM <date> TO <date>   both canonical YYYY-MM-DD
func resolveRange(tokens []string, today domain.Date) (domain.Date, domain.Date, error) {
	if len(tokens) == 0 {
		return domain.Date{}, domain.Date{}, &InvalidRangeError{Reason: "missing time range"}
	}
	keyword, args := tokens[0], tokens[1:]

	switch keyword {
	case "TODAY":
		return today, today, nil

	case "WEEK":
		monday := today.StartOfWeek()
		return monday, monday.AddDays(6), nil

	case "MONTH":
		return today.StartOfMonth(), today.EndOfMonth(), nil

	case "PAST":
		if len(args) != 2 || args[1] != "DAYS" {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{Reason: "expected PAST <n> DAYS"}
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{
				Reason: fmt.Sprintf("invalid day count %q: expected a positive integer", args[0]),
			}
		}
		return today.AddDays(-(n - 1)), today, nil

	case "FROM":
		if len(args) != 3 || args[1] != "TO" {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{Reason: "expected FROM <date> TO <date>"}
		}
		from, err := domain.ParseDate(args[0])
		if err != nil {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{Reason: err.Error()}
		}
		to, err := domain.ParseDate(args[2])
		if err != nil {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{Reason: err.Error()}
		}
		if to.Before(from) {
			return domain.Date{}, domain.Date{}, &InvalidRangeError{
				Reason: fmt.Sprintf("range end %s is before start %s", to, from),
			}
		}
		return from, to, nil

	default:
		return domain.Date{}, domain.Date{}, &UnknownRangeError{Token: keyword}
	}
}
