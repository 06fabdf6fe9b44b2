package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundrecon/etl"
	"github.com/google/subcommands"
)

type reconCmd struct {
	html bool
}

func (*reconCmd) Name() string     { return "recon" }
func (*reconCmd) Synopsis() string { return "reconcile fund prices against reference prices" }
func (*reconCmd) Usage() string {
	return `fundrecon recon [-html]

  Joins the published fund positions to the published reference prices and
  writes one sheet per active fund to the reconciliation workbook.
`
}

func (c *reconCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "Also write the summary as HTML next to the workbook")
}

func (c *reconCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	step := &etl.ReconReport{}
	if status := runSteps(ctx, step); status != subcommands.ExitSuccess {
		return status
	}
	return showReport(step.Summary, step.Path, c.html)
}

type perfCmd struct {
	html bool
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "report the best performing fund of every month" }
func (*perfCmd) Usage() string {
	return `fundrecon perf [-html]

  Computes every fund's monthly rate of return from the published fund
  positions and writes the best fund of each month to the performance workbook.
`
}

func (c *perfCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "Also write the summary as HTML next to the workbook")
}

func (c *perfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	step := &etl.PerfReport{}
	if status := runSteps(ctx, step); status != subcommands.ExitSuccess {
		return status
	}
	return showReport(step.Summary, step.Path, c.html)
}

type runCmd struct {
	html bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run every stage of the pipeline" }
func (*runCmd) Usage() string {
	return `fundrecon run [-html]

  Runs setup, ingest, preprocess, publish, recon and perf in that order,
  stopping at the first failure.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "Also write the summaries as HTML next to the workbooks")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	steps := etl.Pipeline()
	if status := runSteps(ctx, steps...); status != subcommands.ExitSuccess {
		return status
	}
	for _, s := range steps {
		var status subcommands.ExitStatus
		switch s := s.(type) {
		case *etl.ReconReport:
			status = showReport(s.Summary, s.Path, c.html)
		case *etl.PerfReport:
			status = showReport(s.Summary, s.Path, c.html)
		}
		if status != subcommands.ExitSuccess {
			return status
		}
	}
	return subcommands.ExitSuccess
}

// showReport prints the summary, and writes it as HTML next to the workbook when asked.
func showReport(summary, workbook string, html bool) subcommands.ExitStatus {
	printMarkdown(summary)
	if !html || workbook == "" {
		return subcommands.ExitSuccess
	}
	if err := writeHTML(workbook, summary); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing HTML summary: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
