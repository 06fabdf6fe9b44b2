package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/fundrecon"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func diffTable(t *testing.T, rows ...[]any) *fundrecon.Table {
	t.Helper()
	var records [][]fundrecon.Value
	for _, r := range rows {
		records = append(records, []fundrecon.Value{fundrecon.StringValue(r[0].(string)), fundrecon.FloatValue(r[1].(float64))})
	}
	tbl, err := fundrecon.FromRecords([]string{"SYMBOL", "PRICE_DIFF"}, records)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestNewReconSummary(t *testing.T) {
	rec := &fundrecon.Reconciliation{
		Groups: []fundrecon.FundGroup{
			{Fund: "Alpha", Sheet: "Alpha", Rows: diffTable(t,
				[]any{"TSLA", -2.25},
				[]any{"MSFT", 0.0},
				[]any{"AAPL", 1.5},
				[]any{"AAPL", -0.5},
			)},
			{Fund: "Beta", Sheet: "Beta", Rows: diffTable(t, []any{"MSFT", 0.0})},
		},
		Missing:  []string{"Delta"},
		Dropped:  []string{"QUANTITY", "SECTOR"},
		Unpriced: 2,
	}
	got := NewReconSummary(fundrecon.NewDate(2024, time.March, 31), rec, fundrecon.DefaultReconColumns())
	want := []ReconFund{
		{Fund: "Alpha", Sheet: "Alpha", Rows: 4, MaxDiff: "2.2500", Breaks: "AAPL, TSLA"},
		{Fund: "Beta", Sheet: "Beta", Rows: 1, MaxDiff: "0.0000"},
	}
	if diff := cmp.Diff(want, got.Funds); diff != "" {
		t.Errorf("Funds mismatch (-want +got):\n%s", diff)
	}

	md := ReconMarkdown(got.Date, rec, fundrecon.DefaultReconColumns())
	for _, line := range []string{
		"# Reconciliation on 2024-03-31",
		"| Alpha | Alpha | 4 | 2.2500 | AAPL, TSLA |",
		"| Beta | Beta | 1 | 0.0000 |  |",
		"## Funds without data",
		"* Delta",
		"2 joined rows lacked a fund or reference price and were left out.",
		"Reference columns shadowed by fund columns: QUANTITY, SECTOR.",
	} {
		if !strings.Contains(md, line+"\n") {
			t.Errorf("ReconMarkdown() lacks line %q:\n%s", line, md)
		}
	}
}

func TestReconMarkdown_Empty(t *testing.T) {
	md := ReconMarkdown(fundrecon.NewDate(2024, time.March, 31), &fundrecon.Reconciliation{}, fundrecon.DefaultReconColumns())
	if !strings.Contains(md, "No reconciled position.") {
		t.Errorf("ReconMarkdown() = %q", md)
	}
	if strings.Contains(md, "##") || strings.Contains(md, "error") {
		t.Errorf("ReconMarkdown() has unexpected sections:\n%s", md)
	}
}

func TestPerformanceMarkdown(t *testing.T) {
	p := fundrecon.NewPerformance(
		fundrecon.M(1000, "USD"),
		fundrecon.M(1200, "USD"),
		fundrecon.M(decimal.RequireFromString("100"), "USD"),
	)
	p.Fund, p.Month = "Alpha", "2024-01"
	undefined := fundrecon.NewPerformance(fundrecon.M(0, "USD"), fundrecon.M(10, "USD"), fundrecon.M(0, "USD"))
	undefined.Fund, undefined.Month = "Beta", "2024-02"

	md := PerformanceMarkdown(fundrecon.NewDate(2024, time.February, 29), []fundrecon.Performance{p, undefined})
	for _, want := range []string{
		"# Best performing funds up to 2024-02-29",
		"| 2024-01 | Alpha | 30.00% |",
		"| 2024-02 | Beta | n/a |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("PerformanceMarkdown() lacks %q:\n%s", want, md)
		}
	}

	if md := PerformanceMarkdown(fundrecon.NewDate(2024, time.February, 29), nil); !strings.Contains(md, "No fund position.") {
		t.Errorf("PerformanceMarkdown(nil) = %q", md)
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML("# Title\n\n| Fund | Rate |\n|:---|---:|\n| Alpha | 30.00% |\n")
	if err != nil {
		t.Fatalf("HTML() unexpected error: %v", err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<table>", "Alpha", "30.00%"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() lacks %q:\n%s", want, html)
		}
	}
}
