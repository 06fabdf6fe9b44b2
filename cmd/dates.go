package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/fundrecon"
	"github.com/google/subcommands"
)

type datesCmd struct {
	order string
}

func (*datesCmd) Name() string     { return "dates" }
func (*datesCmd) Synopsis() string { return "show the report date read from file names" }
func (*datesCmd) Usage() string {
	return `fundrecon dates [-order month-first|day-first] <file>...

  Prints "<file> => <date>" for every file, or "none" when no report date is
  found and the file would be skipped by ingest.
`
}

func (c *datesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.order, "order", "month-first", "Order of 2-2-4 digit dates (month-first, day-first)")
}

func (c *datesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one file name is required")
		return subcommands.ExitUsageError
	}
	order, err := fundrecon.ParseReportDateOrder(c.order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printDates(os.Stdout, order, f.Args())
	return subcommands.ExitSuccess
}

func printDates(w io.Writer, order fundrecon.ReportDateOrder, files []string) {
	for _, file := range files {
		name := filepath.Base(file)
		date := "none"
		if d, ok := order.ExtractReportDate(name); ok {
			date = d.String()
		}
		fmt.Fprintf(w, "%s => %s\n", name, date)
	}
}
