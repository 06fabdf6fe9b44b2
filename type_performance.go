package fundrecon

import (
	"math"

	"github.com/shopspring/decimal"
)

// Rate is a rate of return. It is undefined when the starting value is zero.
type Rate struct {
	value   decimal.Decimal
	defined bool
}

// NewRate returns change/start, undefined when start is zero.
func NewRate(change, start decimal.Decimal) Rate {
	if start.IsZero() {
		return Rate{}
	}
	return Rate{value: change.Div(start), defined: true}
}

func (r Rate) Defined() bool            { return r.defined }
func (r Rate) Decimal() decimal.Decimal { return r.value }

// Float returns the rate, NaN if undefined.
func (r Rate) Float() float64 {
	if !r.defined {
		return math.NaN()
	}
	return r.value.InexactFloat64()
}

// Percent returns the rate as a percentage.
func (r Rate) Percent() Percent { return Percent(r.value.Shift(2).InexactFloat64()) }

// Compare orders rates, undefined ones below any defined rate.
func (r Rate) Compare(s Rate) int {
	switch {
	case !r.defined && !s.defined:
		return 0
	case !r.defined:
		return -1
	case !s.defined:
		return 1
	}
	return r.value.Cmp(s.value)
}

func (r Rate) String() string {
	if !r.defined {
		return "n/a"
	}
	return r.Percent().String()
}

// Value returns the rate as a float cell, null when undefined.
func (r Rate) Value() Value {
	if !r.defined {
		return Null
	}
	return FloatValue(r.value.InexactFloat64())
}

// Performance holds the values of one fund over one month.
type Performance struct {
	Fund               string
	Month              string // YYYY-MM
	StartDate, EndDate Date
	Start, End         Money // market value on StartDate and EndDate
	RealizedPL         Money // summed over the month
	Return             Rate
}

// NewPerformance computes the rate of return (end - start + realized) / start.
func NewPerformance(start, end, realized Money) Performance {
	p := Performance{Start: start, End: end, RealizedPL: realized}
	p.Return = NewRate(p.Change().Decimal(), start.Decimal())
	return p
}

// Change is the gain over the month, realized P&L included.
func (p Performance) Change() Money {
	return p.End.Sub(p.Start).Add(p.RealizedPL)
}
