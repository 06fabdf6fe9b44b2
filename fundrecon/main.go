// Command fundrecon loads fund positions and reference prices, reconciles them
// and reports on fund performance.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundrecon/cmd"
	"github.com/google/subcommands"
)

func main() {
	// answers shell completion requests, when COMP_LINE is set, and exits.
	cmd.Completion().Complete("fundrecon")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
