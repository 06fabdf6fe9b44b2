package fundrecon

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical ISO-8601 representation of a Date.
const DateFormat = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date as YYYY-MM-DD.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according to the layout defined by the argument.
//
//	See the documentation for the [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// AddMonth returns a new Date with the given number of months added.
//
// Days overflowing the target month are normalized like time.Date does,
// use EndOf(Monthly) to stay on month-ends.
func (d Date) AddMonth(i int) Date { return NewDate(d.y, d.m+time.Month(i), d.d) }

// StartOf returns the date of begining of a given period
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Monthly:
		return NewDate(d.y, d.m, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the date of end of a given period
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Monthly:
		return NewDate(d.y, d.m+1, 0)
	default:
		panic("unknown period")
	}
}

// IsMonthEnd reports whether d is the last calendar day of its month.
func (d Date) IsMonthEnd() bool { return d == d.EndOf(Monthly) }

// MonthEnds returns every month-end date in [from, to], in ascending order.
//
// The first element is the first month-end on or after from. Consecutive
// elements are one calendar month apart.
func MonthEnds(from, to Date) []Date {
	if from.After(to) {
		return nil
	}
	var ends []Date
	// step on the first day of each month to avoid day overflow.
	for m := from.StartOf(Monthly); ; m = m.AddMonth(1) {
		end := m.EndOf(Monthly)
		if end.After(to) {
			break
		}
		ends = append(ends, end)
	}
	return ends
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(str string) (Date, error) {
	return ParseDateLayout(strings.TrimSpace(str), DateFormat)
}

// ParseDateLayout parses a date using a Go time layout.
//
// Any time of day carried by the layout is discarded.
func ParseDateLayout(str, layout string) (Date, error) {
	on, err := time.Parse(layout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, layout, err)
	}
	return NewDate(on.Date()), nil
}

// MustParse is like ParseDate but panics on error.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}
