package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fundrecon"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.csv":   "",
		"a.csv":   "",
		"c.txt":   "",
		"d.CSV.x": "",
	})
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0755); err != nil {
		t.Fatal(err)
	}
	got, err := ListFiles(dir, "*.csv")
	if err != nil {
		t.Fatalf("ListFiles() unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListFiles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ListFiles(filepath.Join(dir, "missing"), "*.csv"); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("ListFiles(missing) error = %v, want ErrNoDirectory", err)
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("typed cells", func(t *testing.T) {
		tbl, err := readCSV(strings.NewReader("\ufeffSYMBOL, PRICE ,QUANTITY,NOTE\nAAPL,150.5,10,\nMSFT,202,,held\n"))
		if err != nil {
			t.Fatalf("readCSV() unexpected error: %v", err)
		}
		wantSchema := fundrecon.Schema{
			{Name: "SYMBOL", Kind: fundrecon.StringKind},
			{Name: "PRICE", Kind: fundrecon.FloatKind},
			{Name: "QUANTITY", Kind: fundrecon.IntKind},
			{Name: "NOTE", Kind: fundrecon.StringKind},
		}
		if diff := cmp.Diff(wantSchema, tbl.Schema()); diff != "" {
			t.Errorf("Schema() mismatch (-want +got):\n%s", diff)
		}
		if v := tbl.Row(1)["QUANTITY"]; !v.IsNull() {
			t.Errorf("empty cell = %v, want null", v)
		}
	})
	t.Run("duplicate header", func(t *testing.T) {
		if _, err := readCSV(strings.NewReader("A,A\n1,2\n")); !errors.Is(err, fundrecon.ErrSchema) {
			t.Errorf("readCSV() error = %v, want ErrSchema", err)
		}
	})
	t.Run("ragged rows", func(t *testing.T) {
		if _, err := readCSV(strings.NewReader("A,B\n1\n")); err == nil {
			t.Errorf("readCSV() expected an error")
		}
	})
}

func TestFundMatcher(t *testing.T) {
	m := NewFundMatcher([]string{"Alpha", "Alpha Growth", "Fund (A+)", "alpha", ""})
	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"ALPHA.2024-01-31.csv", "Alpha", true},
		{"alpha growth.2024-01-31.csv", "Alpha Growth", true},
		{"Fund (A+).2024-01-31.csv", "Fund (A+)", true},
		{"Fund A.2024-01-31.csv", "", false},
		{"Beta.2024-01-31.csv", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.filename)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Match(%q) = %q, %v, want %q, %v", tt.filename, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := NewFundMatcher(nil).Match("Alpha.csv"); ok {
		t.Errorf("an empty matcher matched")
	}
}

func TestScanAndLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"rpt-Alpha.2024-01-31.csv":        "SYMBOL,PRICE_FUND,DATETIME\nAAPL,150,old\n",
		"Beta report 02-29-2024.csv":      "SYMBOL,PRICE_FUND,SECTOR\nMSFT,202.5,Tech\nTSLA,90,Auto\n",
		"Gamma.2024-01-31.csv":            "SYMBOL\nX\n",
		"Alpha without date.csv":          "SYMBOL\nY\n",
		"TT_monthly_Beta.20240131.notcsv": "SYMBOL\nZ\n",
	})
	files, err := Scan(dir, NewFundMatcher([]string{"Alpha", "Beta"}), fundrecon.MonthFirst, zerolog.Nop())
	if err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	var got []string
	for _, f := range files {
		got = append(got, f.Fund+"@"+f.Date.String())
	}
	if diff := cmp.Diff([]string{"Beta@2024-02-29", "Alpha@2024-01-31"}, got); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}

	tbl, err := Load(files)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	wantCols := []string{"DATETIME", "SYMBOL", "PRICE_FUND", "SECTOR", "FUND NAME"}
	if diff := cmp.Diff(wantCols, tbl.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	var rows [][]any
	for i := 0; i < tbl.Len(); i++ {
		var r []any
		for _, v := range tbl.Record(i) {
			r = append(r, v.Any())
		}
		rows = append(rows, r)
	}
	want := [][]any{
		{"2024-02-29", "MSFT", 202.5, "Tech", "Beta"},
		{"2024-02-29", "TSLA", 90.0, "Auto", "Beta"},
		{"2024-01-31", "AAPL", 150.0, nil, "Alpha"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}
