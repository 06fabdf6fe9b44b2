package cmd

import (
	"context"
	"flag"

	"github.com/etnz/fundrecon/etl"
	"github.com/google/subcommands"
)

type setupCmd struct{}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "create the database and its base tables" }
func (*setupCmd) Usage() string {
	return `fundrecon setup

  Runs the reference data and base table scripts against the database.
`
}

func (c *setupCmd) SetFlags(f *flag.FlagSet) {}

func (c *setupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runSteps(ctx, &etl.Setup{})
}

type ingestCmd struct{}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "load the active funds files into the raw fund table" }
func (*ingestCmd) Usage() string {
	return `fundrecon ingest

  Appends every CSV file of FUNDS_FOLDER naming an active fund and carrying a
  report date to the raw fund table.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runSteps(ctx, &etl.Ingest{})
}

type preprocessCmd struct{}

func (*preprocessCmd) Name() string     { return "preprocess" }
func (*preprocessCmd) Synopsis() string { return "fill reference prices to month ends and stage the data" }
func (*preprocessCmd) Usage() string {
	return `fundrecon preprocess

  Fills every symbol's reference prices to all month ends, then writes the
  staging tables.
`
}

func (c *preprocessCmd) SetFlags(f *flag.FlagSet) {}

func (c *preprocessCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runSteps(ctx, &etl.Preprocess{})
}

type publishCmd struct{}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "copy the staging tables to the published tables" }
func (*publishCmd) Usage() string {
	return `fundrecon publish

  Replaces the content of every published table with its staging table.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runSteps(ctx, &etl.Publish{})
}
