// Command fintrackctl runs maintenance jobs against the fintrack database:
// migrations, the recurring generator, price sync, reports and demo data.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "database")
	commander.Register(&seedCmd{}, "database")
	commander.Register(&recurringCmd{}, "jobs")
	commander.Register(&syncPricesCmd{}, "jobs")
	commander.Register(&reportCmd{}, "reports")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
