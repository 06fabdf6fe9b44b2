package fundrecon

import (
	"fmt"
	"iter"
)

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// MonthEnds returns an iterator over the month-end dates within the range.
func (r Range) MonthEnds() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for _, d := range MonthEnds(r.From, r.To) {
			if !yield(d) {
				return
			}
		}
	}
}

// return the period of this range if it's a standard one.
func (r Range) Period() (p Period, ok bool) {
	switch {
	case r.From == r.To:
		return Daily, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	default:
		return Daily, false
	}
}

// Identifier compute a unique identifier for the Range.
// Monthly ranges are named YYYY-MM, which is the month key of performance reports.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Daily:
		return r.From.String()
	case Monthly:
		return r.From.Format("2006-01")
	default:
		panic("unknown period")
	}
}

// MonthKey returns the calendar year-month identifier of d, e.g. "2023-03".
func MonthKey(d Date) string { return Monthly.Range(d).Identifier() }
