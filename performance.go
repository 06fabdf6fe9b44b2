package fundrecon

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrMissingValue is returned when a required cell is null.
var ErrMissingValue = errors.New("missing value")

// PerfColumns names the fund position columns read by FundPerformances.
type PerfColumns struct {
	Date        string
	Fund        string
	MarketValue string
	RealizedPL  string
}

// DefaultPerfColumns returns the column names of the published fund table.
func DefaultPerfColumns() PerfColumns {
	return PerfColumns{
		Date:        "DATETIME",
		Fund:        "FUND NAME",
		MarketValue: "MARKET VALUE",
		RealizedPL:  "REALISED P/L",
	}
}

// Columns of the best fund table.
const (
	ColMonth      = "MONTH"
	ColBestFund   = "BEST FUND"
	ColReturn     = "RATE OF RETURN"
	ColStartValue = "START MV"
	ColEndValue   = "END MV"
	ColRealized   = "REALIZED PL"
)

type position struct {
	fund  string
	month string
	date  Date
	mv    decimal.Decimal
	pl    decimal.Decimal
}

// FundPerformances computes the performance of every fund in every month
// present in t, sorted by fund then month.
//
// Dates are dates or ISO strings. A null market value is an error, a null
// realized P&L counts as zero.
func FundPerformances(t *Table, cols PerfColumns, currency string) ([]Performance, error) {
	if err := t.Require(cols.Date, cols.Fund, cols.MarketValue, cols.RealizedPL); err != nil {
		return nil, err
	}
	positions := make([]position, 0, t.Len())
	for i, r := range t.Rows() {
		d, ok := r[cols.Date].Date()
		if !ok {
			return nil, fmt.Errorf("%w: row %d: %s %q is not a date", ErrSchema, i, cols.Date, r[cols.Date])
		}
		fund := r[cols.Fund].String()
		mv, ok := r[cols.MarketValue].Decimal()
		if !ok {
			return nil, fmt.Errorf("%w: row %d: %s of %q on %s", ErrMissingValue, i, cols.MarketValue, fund, d)
		}
		pl, _ := r[cols.RealizedPL].Decimal()
		positions = append(positions, position{fund: fund, month: MonthKey(d), date: d, mv: mv, pl: pl})
	}
	slices.SortStableFunc(positions, func(a, b position) int {
		return cmp.Or(
			cmp.Compare(a.fund, b.fund),
			cmp.Compare(a.month, b.month),
			a.date.Compare(b.date),
		)
	})

	var perfs []Performance
	for start := 0; start < len(positions); {
		first := positions[start]
		end := start
		realized := decimal.Zero
		for end < len(positions) && positions[end].fund == first.fund && positions[end].month == first.month {
			realized = realized.Add(positions[end].pl)
			end++
		}
		last := positions[end-1]
		p := NewPerformance(M(first.mv, currency), M(last.mv, currency), M(realized, currency))
		p.Fund, p.Month = first.fund, first.month
		p.StartDate, p.EndDate = first.date, last.date
		perfs = append(perfs, p)
		start = end
	}
	return perfs, nil
}

// BestFundPerMonth selects the fund with the highest rate of return in each
// month, ordered by month. Equal rates go to the first fund by name.
func BestFundPerMonth(perfs []Performance) []Performance {
	byMonth := make(map[string]Performance)
	for _, p := range perfs {
		best, ok := byMonth[p.Month]
		if !ok || better(p, best) {
			byMonth[p.Month] = p
		}
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	slices.Sort(months)
	res := make([]Performance, len(months))
	for i, m := range months {
		res[i] = byMonth[m]
	}
	return res
}

func better(p, q Performance) bool {
	if c := p.Return.Compare(q.Return); c != 0 {
		return c > 0
	}
	return p.Fund < q.Fund
}

// BestFundTable lays out the best funds, one row per month.
func BestFundTable(best []Performance) *Table {
	t := NewTable(
		Column{ColMonth, StringKind},
		Column{ColBestFund, StringKind},
		Column{ColReturn, FloatKind},
		Column{ColStartValue, FloatKind},
		Column{ColEndValue, FloatKind},
		Column{ColRealized, FloatKind},
	)
	for _, p := range best {
		t.rows = append(t.rows, []Value{
			StringValue(p.Month),
			StringValue(p.Fund),
			p.Return.Value(),
			p.Start.Value(),
			p.End.Value(),
			p.RealizedPL.Value(),
		})
	}
	return t
}
