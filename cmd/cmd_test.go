package cmd

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/fundrecon"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

func TestPrintDates(t *testing.T) {
	files := []string{
		"data/rpt-Catalysm.2022-09-30.csv",
		"01-02-2023.csv",
		"Fund Whitestone.txt",
	}
	tests := []struct {
		order fundrecon.ReportDateOrder
		want  string
	}{
		{fundrecon.MonthFirst, "rpt-Catalysm.2022-09-30.csv => 2022-09-30\n01-02-2023.csv => 2023-01-02\nFund Whitestone.txt => none\n"},
		{fundrecon.DayFirst, "rpt-Catalysm.2022-09-30.csv => 2022-09-30\n01-02-2023.csv => 2023-02-01\nFund Whitestone.txt => none\n"},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			var b bytes.Buffer
			printDates(&b, tt.order, files)
			if diff := cmp.Diff(tt.want, b.String()); diff != "" {
				t.Errorf("printDates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnvFiles(t *testing.T) {
	var e envFiles
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&e, "env", "")
	if err := fs.Parse([]string{"-env", "a.env", "-env", "b.env"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(envFiles{"a.env", "b.env"}, e); diff != "" {
		t.Errorf("envFiles mismatch (-want +got):\n%s", diff)
	}
	if got := e.String(); got != "a.env,b.env" {
		t.Errorf("String() = %q, want %q", got, "a.env,b.env")
	}
}

// TestCompletion checks that every registered command can be completed.
func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("fundrecon", flag.ContinueOnError), "fundrecon")
	Register(commander)
	var registered []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		registered = append(registered, c.Name())
	})
	var completed []string
	for name := range Completion().Sub {
		completed = append(completed, name)
	}
	slices.Sort(registered)
	slices.Sort(completed)
	if diff := cmp.Diff(registered, completed); diff != "" {
		t.Errorf("completed commands mismatch (-registered +completed):\n%s", diff)
	}
}

func TestWriteHTML(t *testing.T) {
	workbook := filepath.Join(t.TempDir(), "recon.xlsx")
	if err := writeHTML(workbook, "# Reconciliation\n"); err != nil {
		t.Fatalf("writeHTML() unexpected error: %v", err)
	}
	b, err := os.ReadFile(strings.TrimSuffix(workbook, ".xlsx") + ".html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<h1>Reconciliation</h1>") {
		t.Errorf("HTML = %q", b)
	}
}
