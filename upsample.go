package fundrecon

import (
	"fmt"
	"slices"
	"strings"
)

// keyOf builds a lookup key out of cells. Dates and ISO strings of the same
// day share a key, nulls have a key of their own.
func keyOf(vals ...Value) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v.IsNull() {
			b.WriteByte(0)
			continue
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// group is a partition of a table on some key columns.
type group struct {
	key  []Value
	rows []int // row indexes in the source table, in table order
}

// partition groups the rows of t on cols, in first seen order.
func partition(t *Table, cols ...string) []*group {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.schema.Index(c)
	}
	var groups []*group
	byKey := make(map[string]*group)
	for r, row := range t.rows {
		key := make([]Value, len(idx))
		for i, j := range idx {
			key[i] = row[j]
		}
		k := keyOf(key...)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: key}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	return groups
}

// UpsampleMonthEnd returns t with a synthetic row for every month-end date
// missing from each group.
//
// Month-ends span the earliest to the latest date of the whole table, not of
// each group. A synthetic row holds the group key, the month-end date, and
// the last non-null value of every other column among the group rows dated
// before it. Columns with no earlier value stay null. Existing rows are kept
// as they are. The result is sorted on the group columns then the date.
func UpsampleMonthEnd(t *Table, dateCol string, groupCols ...string) (*Table, error) {
	sortCols := slices.Concat(groupCols, []string{dateCol})
	if err := t.Require(sortCols...); err != nil {
		return nil, err
	}
	if k := t.Kind(dateCol); k != DateKind && k != NullKind {
		return nil, fmt.Errorf("%w: column %q is %s, want date", ErrSchema, dateCol, k)
	}
	dateIdx := t.schema.Index(dateCol)

	var span Range
	found := false
	for _, row := range t.rows {
		d, ok := row[dateIdx].Date()
		if !ok {
			continue
		}
		if !found {
			span, found = Range{From: d, To: d}, true
			continue
		}
		if d.Before(span.From) {
			span.From = d
		}
		if d.After(span.To) {
			span.To = d
		}
	}
	if !found {
		return t.SortBy(sortCols...)
	}

	keyIdx := make([]int, len(groupCols))
	for i, c := range groupCols {
		keyIdx[i] = t.schema.Index(c)
	}

	synthetic := t.clone()
	for _, g := range partition(t, groupCols...) {
		present := make(map[Date]bool)
		for _, r := range g.rows {
			if d, ok := t.rows[r][dateIdx].Date(); ok {
				present[d] = true
			}
		}

		type entry struct {
			row       []Value
			synthetic bool
		}
		var seq []entry
		for d := range span.MonthEnds() {
			if present[d] {
				continue
			}
			row := make([]Value, len(t.schema))
			for i, j := range keyIdx {
				row[j] = g.key[i]
			}
			row[dateIdx] = DateValue(d)
			seq = append(seq, entry{row: row, synthetic: true})
		}
		if len(seq) == 0 {
			continue
		}
		for _, r := range g.rows {
			seq = append(seq, entry{row: t.rows[r]})
		}
		slices.SortStableFunc(seq, func(a, b entry) int {
			return compareValues(a.row[dateIdx], b.row[dateIdx])
		})

		// carry the last non-null value of each column forward.
		last := make([]Value, len(t.schema))
		for _, e := range seq {
			if e.synthetic {
				for j, v := range e.row {
					if v.IsNull() {
						e.row[j] = last[j]
					}
				}
				synthetic.rows = append(synthetic.rows, e.row)
			}
			for j, v := range e.row {
				if !v.IsNull() {
					last[j] = v
				}
			}
		}
	}

	out, err := Concat(t, synthetic)
	if err != nil {
		return nil, err
	}
	return out.SortBy(sortCols...)
}
