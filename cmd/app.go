// Package cmd implements the fundrecon command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundrecon/config"
	"github.com/etnz/fundrecon/etl"
	"github.com/etnz/fundrecon/logger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&setupCmd{}, "pipeline")
	c.Register(&ingestCmd{}, "pipeline")
	c.Register(&preprocessCmd{}, "pipeline")
	c.Register(&publishCmd{}, "pipeline")
	c.Register(&reconCmd{}, "pipeline")
	c.Register(&perfCmd{}, "pipeline")
	c.Register(&runCmd{}, "pipeline")

	c.Register(&datesCmd{}, "tools")
	c.Register(&topicCmd{}, "tools")
}

// envFiles collects the repeated -env flag.
type envFiles []string

func (e *envFiles) String() string     { return strings.Join(*e, ",") }
func (e *envFiles) Set(v string) error { *e = append(*e, v); return nil }

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var envPaths envFiles
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides LOG_LEVEL")
var prettyLogs = flag.Bool("pretty", false, "Write logs for a terminal instead of JSON lines")

func init() {
	flag.Var(&envPaths, "env", "Dotenv file to read, can be repeated (default .env)")
}

// openEnv loads the configuration and opens the pipeline environment.
func openEnv(ctx context.Context) (*etl.Env, error) {
	cfg, err := config.Load(envPaths...)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	return etl.Open(ctx, cfg, logger.New(os.Stderr, level, *prettyLogs))
}

// runSteps opens the environment and runs the given steps.
func runSteps(ctx context.Context, steps ...etl.Step) subcommands.ExitStatus {
	env, err := openEnv(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening pipeline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer env.Close()

	if err := etl.RunSteps(ctx, env, steps...); err != nil {
		fmt.Fprintf(os.Stderr, "Error running pipeline: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
