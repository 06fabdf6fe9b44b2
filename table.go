package fundrecon

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a table.
	ErrMissingColumn = errors.New("missing column")
	// ErrSchema is returned when a cell does not fit the kind of its column.
	ErrSchema = errors.New("schema mismatch")
)

// Column describes a named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of columns of a Table.
type Schema []Column

// Index returns the position of the column named name, or -1.
func (s Schema) Index(name string) int {
	return slices.IndexFunc(s, func(c Column) bool { return c.Name == name })
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Row is a single record, keyed by column name.
type Row map[string]Value

// Table is an ordered sequence of rows sharing one schema.
//
// Tables are built with Append and never modified afterwards: every
// transformation returns a new Table.
type Table struct {
	schema Schema
	rows   [][]Value // aligned with schema
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{schema: slices.Clone(Schema(columns))}
}

// FromRecords builds a table from positional records, inferring column kinds.
//
// Integer and float columns are promoted to float, any other conflict
// degrades the column to string.
func FromRecords(names []string, records [][]Value) (*Table, error) {
	schema := make(Schema, len(names))
	for i, n := range names {
		schema[i] = Column{Name: n}
	}
	for r, rec := range records {
		if len(rec) != len(names) {
			return nil, fmt.Errorf("%w: record %d has %d cells, want %d", ErrSchema, r, len(rec), len(names))
		}
		for i, v := range rec {
			k, ok := unify(schema[i].Kind, v.Kind())
			if !ok {
				k = StringKind
			}
			schema[i].Kind = k
		}
	}
	t := &Table{schema: schema, rows: make([][]Value, 0, len(records))}
	for _, rec := range records {
		row := make([]Value, len(rec))
		for i, v := range rec {
			row[i] = v.as(schema[i].Kind)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Schema returns a copy of the table schema.
func (t *Table) Schema() Schema { return slices.Clone(t.schema) }

// Columns returns the column names.
func (t *Table) Columns() []string { return t.schema.Names() }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has a column named name.
func (t *Table) Has(name string) bool { return t.schema.Index(name) >= 0 }

// Kind returns the kind of column name, NullKind if absent.
func (t *Table) Kind(name string) Kind {
	if i := t.schema.Index(name); i >= 0 {
		return t.schema[i].Kind
	}
	return NullKind
}

// Require returns ErrMissingColumn listing every name absent from the table.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.schema))
	for j, c := range t.schema {
		row[c.Name] = t.rows[i][j]
	}
	return row
}

// Rows iterates over the rows in order.
func (t *Table) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range t.rows {
			if !yield(i, t.Row(i)) {
				return
			}
		}
	}
}

// Record returns a copy of the i-th row aligned with the schema.
func (t *Table) Record(i int) []Value { return slices.Clone(t.rows[i]) }

// Values returns the cells of column name, nil if absent.
func (t *Table) Values(name string) []Value {
	j := t.schema.Index(name)
	if j < 0 {
		return nil
	}
	vals := make([]Value, len(t.rows))
	for i, r := range t.rows {
		vals[i] = r[j]
	}
	return vals
}

// Append adds a row. Columns missing from r are null, unknown columns and
// kind mismatches are rejected with ErrSchema.
func (t *Table) Append(r Row) error {
	for name := range r {
		if !t.Has(name) {
			return fmt.Errorf("%w: unknown column %q", ErrSchema, name)
		}
	}
	row := make([]Value, len(t.schema))
	for j, c := range t.schema {
		v := r[c.Name]
		k, ok := unify(c.Kind, v.Kind())
		if !ok {
			return fmt.Errorf("%w: column %q is %s, got %s", ErrSchema, c.Name, c.Kind, v.Kind())
		}
		if k != c.Kind {
			// a null or int column widening to the first concrete kind seen.
			t.widen(j, k)
		}
		row[j] = v.as(k)
	}
	t.rows = append(t.rows, row)
	return nil
}

// widen changes the kind of column j, converting existing cells.
func (t *Table) widen(j int, k Kind) {
	t.schema[j].Kind = k
	for _, r := range t.rows {
		r[j] = r[j].as(k)
	}
}

// clone returns an empty table with the same schema.
func (t *Table) clone() *Table { return &Table{schema: slices.Clone(t.schema)} }

// Select returns a table with only the named columns, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	idx := make([]int, len(names))
	out := &Table{schema: make(Schema, len(names)), rows: make([][]Value, len(t.rows))}
	for i, n := range names {
		idx[i] = t.schema.Index(n)
		out.schema[i] = t.schema[idx[i]]
	}
	for r, row := range t.rows {
		sel := make([]Value, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.rows[r] = sel
	}
	return out, nil
}

// Drop returns a table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	var keep []string
	for _, c := range t.schema {
		if !slices.Contains(names, c.Name) {
			keep = append(keep, c.Name)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := t.clone()
	for i, row := range t.rows {
		if keep(t.Row(i)) {
			out.rows = append(out.rows, slices.Clone(row))
		}
	}
	return out
}

// SortBy returns the rows stably sorted on the named columns, ascending.
// Nulls sort first.
func (t *Table) SortBy(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = t.schema.Index(n)
	}
	out := t.clone()
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = slices.Clone(row)
	}
	slices.SortStableFunc(out.rows, func(a, b []Value) int {
		for _, j := range idx {
			if c := compareValues(a[j], b[j]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

// WithColumn returns a table with column name set to f(row) for every row.
// An existing column is replaced in place, a new one is appended last.
func (t *Table) WithColumn(name string, f func(Row) Value) (*Table, error) {
	vals := make([]Value, len(t.rows))
	kind := NullKind
	for i := range t.rows {
		v := f(t.Row(i))
		k, ok := unify(kind, v.Kind())
		if !ok {
			return nil, fmt.Errorf("%w: column %q mixes %s and %s", ErrSchema, name, kind, v.Kind())
		}
		kind, vals[i] = k, v
	}
	out := t.clone()
	j := out.schema.Index(name)
	if j < 0 {
		out.schema = append(out.schema, Column{Name: name})
		j = len(out.schema) - 1
	}
	out.schema[j].Kind = kind
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(out.schema))
		copy(r, row)
		r[j] = vals[i].as(kind)
		out.rows[i] = r
	}
	return out, nil
}

// Concat stacks tables vertically on the union of their schemas, in first
// seen column order. Cells of columns missing from a table are null.
func Concat(tables ...*Table) (*Table, error) {
	out := &Table{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.schema {
			j := out.schema.Index(c.Name)
			if j < 0 {
				out.schema = append(out.schema, c)
				continue
			}
			k, ok := unify(out.schema[j].Kind, c.Kind)
			if !ok {
				return nil, fmt.Errorf("%w: column %q is both %s and %s", ErrSchema, c.Name, out.schema[j].Kind, c.Kind)
			}
			out.schema[j].Kind = k
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		pos := make([]int, len(t.schema))
		for i, c := range t.schema {
			pos[i] = out.schema.Index(c.Name)
		}
		for _, row := range t.rows {
			r := make([]Value, len(out.schema))
			for i, v := range row {
				r[pos[i]] = v.as(out.schema[pos[i]].Kind)
			}
			out.rows = append(out.rows, r)
		}
	}
	return out, nil
}

// ParseDates converts the string column name into a date column using a Go
// time layout. Cells that do not parse become null.
func (t *Table) ParseDates(name, layout string) (*Table, error) {
	if err := t.Require(name); err != nil {
		return nil, err
	}
	return t.WithColumn(name, func(r Row) Value {
		v := r[name]
		if d, ok := v.Date(); ok && v.Kind() == DateKind {
			return DateValue(d)
		}
		s, ok := v.Str()
		if !ok {
			return Null
		}
		d, err := ParseDateLayout(strings.TrimSpace(s), layout)
		if err != nil {
			return Null
		}
		return DateValue(d)
	})
}

// FormatDates converts the date column name into ISO strings.
func (t *Table) FormatDates(name string) (*Table, error) {
	if err := t.Require(name); err != nil {
		return nil, err
	}
	return t.WithColumn(name, func(r Row) Value {
		v := r[name]
		if v.Kind() == DateKind {
			return StringValue(v.String())
		}
		return v
	})
}
