package fundrecon

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func reconFixture(t *testing.T) (funds, refs *Table) {
	t.Helper()
	funds = newTestTable(t, []string{"DATETIME", "FUND NAME", "SYMBOL", "PRICE_FUND", "QUANTITY"},
		[]any{"2024-01-31", "Alpha", "AAPL", 150.0, 10},
		[]any{"2024-01-31", "Beta", "MSFT", 200.0, 5},
		[]any{"2024-01-31", "Gamma", "TSLA", 90.0, 1},
		[]any{"2024-01-31", "Beta", "AAPL", nil, 3},
	)
	refs = newTestTable(t, []string{"DATETIME", "SYMBOL", "PRICE_REF", "QUANTITY", "SECTOR"},
		[]any{"2024-01-31", "AAPL", 148.0, 999, "Tech"},
		[]any{"2024-01-31", "MSFT", 202.0, 999, "Tech"},
		[]any{"2024-02-29", "TSLA", 91.0, 999, "Auto"},
	)
	return funds, refs
}

func TestReconcile(t *testing.T) {
	funds, refs := reconFixture(t)
	res, err := Reconcile(funds, refs, []string{"Alpha", "Beta", "Gamma", "Delta"}, DefaultReconColumns())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"QUANTITY"}, res.Dropped); diff != "" {
		t.Errorf("Dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Gamma", "Delta"}, res.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if res.Unpriced != 1 {
		t.Errorf("Unpriced = %d, want 1", res.Unpriced)
	}
	if len(res.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(res.Groups))
	}

	wantColumns := []string{"DATETIME", "FUND NAME", "SYMBOL", "PRICE_FUND", "QUANTITY", "PRICE_REF", "SECTOR", "PRICE_DIFF"}
	tests := []struct {
		fund     string
		diff     float64
		quantity int64
	}{
		{"Alpha", 2.0, 10},
		{"Beta", -2.0, 5},
	}
	for i, tt := range tests {
		g := res.Groups[i]
		if g.Fund != tt.fund || g.Sheet != tt.fund {
			t.Errorf("group %d = %q (%q), want %q", i, g.Fund, g.Sheet, tt.fund)
		}
		if diff := cmp.Diff(wantColumns, g.Rows.Columns()); diff != "" {
			t.Errorf("%s columns mismatch (-want +got):\n%s", tt.fund, diff)
		}
		if g.Rows.Len() != 1 {
			t.Fatalf("%s has %d rows, want 1", tt.fund, g.Rows.Len())
		}
		row := g.Rows.Row(0)
		if got, _ := row["PRICE_DIFF"].Float(); got != tt.diff {
			t.Errorf("%s PRICE_DIFF = %v, want %v", tt.fund, got, tt.diff)
		}
		// fund side wins on overlapping columns.
		if got, _ := row["QUANTITY"].Float(); int64(got) != tt.quantity {
			t.Errorf("%s QUANTITY = %v, want %d", tt.fund, got, tt.quantity)
		}
	}
}

func TestReconcile_NeverFabricatesRows(t *testing.T) {
	funds, refs := reconFixture(t)
	// duplicated reference rows are propagated as they are.
	dup, err := Concat(refs, refs)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Reconcile(funds, dup, []string{"Alpha"}, DefaultReconColumns())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if got := res.Groups[0].Rows.Len(); got != 2 {
		t.Errorf("Alpha rows = %d, want 2", got)
	}
	for _, g := range res.Groups {
		for _, v := range g.Rows.Values("PRICE_DIFF") {
			if v.IsNull() {
				t.Errorf("%s has a null PRICE_DIFF", g.Fund)
			}
		}
	}
}

func TestReconcile_SheetNameTruncated(t *testing.T) {
	long := "The Extremely Long Global Opportunities Fund"
	funds := newTestTable(t, []string{"DATETIME", "FUND NAME", "SYMBOL", "PRICE_FUND"},
		[]any{"2024-01-31", long, "AAPL", 1.5},
	)
	refs := newTestTable(t, []string{"DATETIME", "SYMBOL", "PRICE_REF"},
		[]any{"2024-01-31", "AAPL", 1.25},
	)
	res, err := Reconcile(funds, refs, []string{long}, DefaultReconColumns())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	g := res.Groups[0]
	if g.Fund != long {
		t.Errorf("Fund = %q, want %q", g.Fund, long)
	}
	if len(g.Sheet) != MaxSheetName || !strings.HasPrefix(long, g.Sheet) {
		t.Errorf("Sheet = %q, want the first %d characters of %q", g.Sheet, MaxSheetName, long)
	}
	if got, _ := g.Rows.Row(0)["PRICE_DIFF"].Float(); got != 0.25 {
		t.Errorf("PRICE_DIFF = %v, want 0.25", got)
	}
}

func TestReconcile_MissingColumns(t *testing.T) {
	funds, refs := reconFixture(t)
	if _, err := Reconcile(funds.Drop("SYMBOL"), refs, nil, DefaultReconColumns()); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("fund side without SYMBOL error = %v, want ErrMissingColumn", err)
	}
	if _, err := Reconcile(funds, refs.Drop("PRICE_REF"), nil, DefaultReconColumns()); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("reference side without PRICE_REF error = %v, want ErrMissingColumn", err)
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("Alpha"); got != "Alpha" {
		t.Errorf("SheetName(Alpha) = %q", got)
	}
	name := strings.Repeat("é", 40)
	if got := []rune(SheetName(name)); len(got) != MaxSheetName {
		t.Errorf("SheetName() kept %d runes, want %d", len(got), MaxSheetName)
	}
}

func TestReconcile_UniqueSheetNames(t *testing.T) {
	classA := "Global Emerging Markets Equity Fund Class A"
	classB := "Global Emerging Markets Equity Fund Class B"
	classC := "Global Emerging Markets Equity Fund Class C"
	funds := newTestTable(t, []string{"DATETIME", "FUND NAME", "SYMBOL", "PRICE_FUND"},
		[]any{"2024-01-31", classA, "AAPL", 2.0},
		[]any{"2024-01-31", classB, "AAPL", 3.0},
		[]any{"2024-01-31", classC, "AAPL", 4.0},
		[]any{"2024-01-31", "Alpha", "AAPL", 5.0},
		[]any{"2024-01-31", "ALPHA", "AAPL", 6.0},
	)
	refs := newTestTable(t, []string{"DATETIME", "SYMBOL", "PRICE_REF"},
		[]any{"2024-01-31", "AAPL", 1.0},
	)
	res, err := Reconcile(funds, refs, []string{classA, classB, classC, "Alpha", "ALPHA"}, DefaultReconColumns())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	var got []string
	for _, g := range res.Groups {
		if n := len([]rune(g.Sheet)); n > MaxSheetName {
			t.Errorf("Sheet %q has %d characters, want at most %d", g.Sheet, n, MaxSheetName)
		}
		got = append(got, g.Sheet)
	}
	want := []string{
		"Global Emerging Markets Equity ",
		"Global Emerging Markets Equit~2",
		"Global Emerging Markets Equit~3",
		"Alpha",
		"ALPHA~2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sheet names mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_NumericFundName(t *testing.T) {
	funds := newTestTable(t, []string{"DATETIME", "FUND NAME", "SYMBOL", "PRICE_FUND"},
		[]any{"2024-01-31", 123, "AAPL", 2.0},
	)
	refs := newTestTable(t, []string{"DATETIME", "SYMBOL", "PRICE_REF"},
		[]any{"2024-01-31", "AAPL", 1.0},
	)
	res, err := Reconcile(funds, refs, []string{"123"}, DefaultReconColumns())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if len(res.Missing) != 0 || len(res.Groups) != 1 {
		t.Fatalf("Reconcile() groups = %d, missing = %v, want 1 group", len(res.Groups), res.Missing)
	}
	if g := res.Groups[0]; g.Fund != "123" || g.Sheet != "123" || g.Rows.Len() != 1 {
		t.Errorf("group = %q (%q) with %d rows, want 123 with 1 row", g.Fund, g.Sheet, g.Rows.Len())
	}
}
