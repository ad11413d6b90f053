package main

import (
	"context"
	"flag"

	"fintrack/pkg/postgres"

	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply database migrations" }
func (*migrateCmd) Usage() string {
	return `fintrackctl migrate

  Applies the embedded SQL migrations up to the latest version.
`
}

func (*migrateCmd) SetFlags(f *flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if err := postgres.Migrate(ctx, e.db, e.logger); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
