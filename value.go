package fundrecon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a cell in a Table.
type Kind int

const (
	NullKind Kind = iota // unknown yet, unifies with any other kind
	StringKind
	IntKind
	FloatKind
	DateKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case DateKind:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// unify returns the kind able to hold values of both a and b.
// Integers and floats unify to floats, null unifies with anything.
func unify(a, b Kind) (Kind, bool) {
	switch {
	case a == b:
		return a, true
	case a == NullKind:
		return b, true
	case b == NullKind:
		return a, true
	case a == IntKind && b == FloatKind, a == FloatKind && b == IntKind:
		return FloatKind, true
	}
	return NullKind, false
}

// Value is a typed scalar cell. The zero value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	d    Date
}

// Null is the null Value.
var Null = Value{}

func StringValue(s string) Value    { return Value{kind: StringKind, s: s} }
func IntValue(i int64) Value        { return Value{kind: IntKind, i: i} }
func FloatValue(f float64) Value    { return Value{kind: FloatKind, f: f} }
func DateValue(d Date) Value        { return Value{kind: DateKind, d: d} }
func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsNull() bool        { return v.kind == NullKind }
func (v Value) Str() (string, bool) { return v.s, v.kind == StringKind }

// Float returns the numeric value of an int or float cell.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case IntKind:
		return float64(v.i), true
	case FloatKind:
		return v.f, true
	}
	return 0, false
}

// Decimal returns the exact decimal value of a numeric cell, or of a string
// cell holding a number.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case IntKind:
		return decimal.NewFromInt(v.i), true
	case FloatKind:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v.f), true
	case StringKind:
		d, err := decimal.NewFromString(strings.TrimSpace(v.s))
		return d, err == nil
	}
	return decimal.Zero, false
}

// Date returns the date of a date cell, or of a string cell in ISO format.
func (v Value) Date() (Date, bool) {
	switch v.kind {
	case DateKind:
		return v.d, true
	case StringKind:
		d, err := ParseDate(v.s)
		return d, err == nil
	}
	return Date{}, false
}

// String returns the cell as text. Null is the empty string.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.s
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case DateKind:
		return v.d.String()
	}
	return ""
}

// Any returns the cell as a plain Go value: nil, string, int64 or float64.
// Dates are returned in ISO text.
func (v Value) Any() any {
	switch v.kind {
	case StringKind:
		return v.s
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case DateKind:
		return v.d.String()
	}
	return nil
}

// Equal reports whether v and w hold the same value. Ints and floats compare numerically.
func (v Value) Equal(w Value) bool {
	if v.IsNull() || w.IsNull() {
		return v.IsNull() && w.IsNull()
	}
	return compareValues(v, w) == 0
}

// as converts v to kind k, assuming unify(v.kind, k) holds or k is string.
func (v Value) as(k Kind) Value {
	if v.IsNull() || v.kind == k {
		return v
	}
	switch k {
	case FloatKind:
		if f, ok := v.Float(); ok {
			return FloatValue(f)
		}
	case StringKind:
		return StringValue(v.String())
	}
	return v
}

// compareValues orders values: nulls first, then numbers, strings and dates
// in their natural order. Values of unrelated kinds are ordered by kind.
func compareValues(a, b Value) int {
	if a.IsNull() || b.IsNull() {
		switch {
		case a.IsNull() && b.IsNull():
			return 0
		case a.IsNull():
			return -1
		default:
			return 1
		}
	}
	if a.kind == IntKind && b.kind == IntKind {
		return cmpInt64(a.i, b.i)
	}
	af, aok := a.Float()
	bf, bok := b.Float()
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	if a.kind != b.kind {
		return cmpInt(int(a.kind), int(b.kind))
	}
	switch a.kind {
	case StringKind:
		return strings.Compare(a.s, b.s)
	case DateKind:
		return a.d.Compare(b.d)
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseValue infers a cell from text: empty is null, then integer, float,
// and string as the last resort.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Null
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(s)
}

// ValueOf converts a value scanned from a database driver.
func ValueOf(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null, nil
	case string:
		return StringValue(x), nil
	case []byte:
		return StringValue(string(x)), nil
	case int64:
		return IntValue(x), nil
	case int32:
		return IntValue(int64(x)), nil
	case int:
		return IntValue(int64(x)), nil
	case float64:
		return FloatValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	case bool:
		if x {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case time.Time:
		return DateValue(NewDate(x.Date())), nil
	case decimal.Decimal:
		return FloatValue(x.InexactFloat64()), nil
	default:
		return Null, fmt.Errorf("%w: unsupported cell type %T", ErrSchema, x)
	}
}
