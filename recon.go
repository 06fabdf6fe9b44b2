package fundrecon

import (
	"slices"
	"strconv"
	"strings"
)

// MaxSheetName is the longest sheet name a spreadsheet accepts.
const MaxSheetName = 31

// SheetName truncates name to MaxSheetName characters.
func SheetName(name string) string {
	r := []rune(name)
	if len(r) <= MaxSheetName {
		return name
	}
	return string(r[:MaxSheetName])
}

// uniqueSheetName returns SheetName(name), or when it is already used
// (ignoring case), the name with its tail replaced by "~2", "~3", and so on.
func uniqueSheetName(name string, used map[string]bool) string {
	sheet := SheetName(name)
	for n := 2; used[strings.ToLower(sheet)]; n++ {
		suffix := "~" + strconv.Itoa(n)
		r := []rune(name)
		if keep := MaxSheetName - len(suffix); len(r) > keep {
			r = r[:keep]
		}
		sheet = string(r) + suffix
	}
	used[strings.ToLower(sheet)] = true
	return sheet
}

// ReconColumns names the columns read and written by Reconcile.
type ReconColumns struct {
	Date      string // join key
	Symbol    string // join key
	Fund      string // fund name, on the fund side
	FundPrice string
	RefPrice  string
	Diff      string // computed FundPrice - RefPrice
}

// DefaultReconColumns returns the column names of the published tables.
func DefaultReconColumns() ReconColumns {
	return ReconColumns{
		Date:      "DATETIME",
		Symbol:    "SYMBOL",
		Fund:      "FUND NAME",
		FundPrice: "PRICE_FUND",
		RefPrice:  "PRICE_REF",
		Diff:      "PRICE_DIFF",
	}
}

// FundGroup is the reconciled rows of one active fund.
type FundGroup struct {
	Fund  string
	Sheet string // Fund, truncated to MaxSheetName and unique in the Reconciliation
	Rows  *Table
}

// Reconciliation is the outcome of Reconcile.
type Reconciliation struct {
	Groups   []FundGroup // in active fund order
	Missing  []string    // active funds without any reconciled row
	Dropped  []string    // reference columns shadowed by fund columns
	Unpriced int         // joined rows lacking a numeric fund or reference price
}

// Reconcile joins fund positions to reference prices on date and symbol and
// computes the price difference of every joined row, then splits the result
// per active fund.
//
// Reference columns also present on the fund side are dropped before the
// join, except the join keys and the fund column. Rows without both prices
// are left out and counted in Unpriced. Active funds without rows are
// reported in Missing. Sheet names are unique even when truncation makes two
// fund names collide.
func Reconcile(funds, refs *Table, activeFunds []string, cols ReconColumns) (*Reconciliation, error) {
	keys := []string{cols.Date, cols.Symbol}
	if err := funds.Require(cols.Date, cols.Symbol, cols.Fund); err != nil {
		return nil, err
	}
	if err := refs.Require(keys...); err != nil {
		return nil, err
	}

	res := &Reconciliation{}
	for _, c := range refs.schema {
		if funds.Has(c.Name) && !slices.Contains(keys, c.Name) && c.Name != cols.Fund {
			res.Dropped = append(res.Dropped, c.Name)
		}
	}
	refs = refs.Drop(res.Dropped...)

	// joined schema is the fund schema then the remaining reference columns.
	schema := slices.Clone(funds.schema)
	var refIdx []int
	for j, c := range refs.schema {
		if slices.Contains(keys, c.Name) {
			continue
		}
		if schema.Index(c.Name) >= 0 {
			c.Name += "_right"
		}
		schema = append(schema, c)
		refIdx = append(refIdx, j)
	}
	if err := (&Table{schema: schema}).Require(cols.FundPrice, cols.RefPrice); err != nil {
		return nil, err
	}
	schema = append(schema, Column{Name: cols.Diff, Kind: FloatKind})
	fundPrice, refPrice := schema.Index(cols.FundPrice), schema.Index(cols.RefPrice)

	index := make(map[string][]int)
	rd, rs := refs.schema.Index(cols.Date), refs.schema.Index(cols.Symbol)
	for i, row := range refs.rows {
		if row[rd].IsNull() || row[rs].IsNull() {
			continue
		}
		k := keyOf(row[rd], row[rs])
		index[k] = append(index[k], i)
	}

	joined := &Table{schema: schema}
	fd, fs := funds.schema.Index(cols.Date), funds.schema.Index(cols.Symbol)
	for _, row := range funds.rows {
		if row[fd].IsNull() || row[fs].IsNull() {
			continue
		}
		for _, i := range index[keyOf(row[fd], row[fs])] {
			out := make([]Value, 0, len(schema))
			out = append(out, row...)
			for _, j := range refIdx {
				out = append(out, refs.rows[i][j])
			}
			fp, ok1 := out[fundPrice].Decimal()
			rp, ok2 := out[refPrice].Decimal()
			if !ok1 || !ok2 {
				res.Unpriced++
				continue
			}
			out = append(out, FloatValue(fp.Sub(rp).InexactFloat64()))
			joined.rows = append(joined.rows, out)
		}
	}

	used := make(map[string]bool)
	for _, fund := range activeFunds {
		rows := joined.Filter(func(r Row) bool {
			v := r[cols.Fund]
			return !v.IsNull() && v.String() == fund
		})
		if rows.Len() == 0 {
			res.Missing = append(res.Missing, fund)
			continue
		}
		res.Groups = append(res.Groups, FundGroup{Fund: fund, Sheet: uniqueSheetName(fund, used), Rows: rows})
	}
	return res, nil
}
