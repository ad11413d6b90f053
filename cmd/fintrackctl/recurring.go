package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/calendar"

	"github.com/google/subcommands"
)

type recurringCmd struct {
	asOf  string
	email string
}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "generate due recurring transactions" }
func (*recurringCmd) Usage() string {
	return `fintrackctl recurring [-d <date>] [-user <email>]

  Realizes every due occurrence of active recurring templates, for all users
  or for one. Safe to run repeatedly: occurrences are never generated twice.
`
}

func (c *recurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "d", "", "generate up to this day, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.email, "user", "", "only this user's templates")
}

func (c *recurringCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := calendar.Today()
	if c.asOf != "" {
		d, err := time.Parse(calendar.DateFormat, c.asOf)
		if err != nil {
			fail(fmt.Errorf("invalid date %q: %w", c.asOf, err))
			return subcommands.ExitUsageError
		}
		asOf = d
	}

	e, err := openEnv(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	userID, err := e.userID(ctx, c.email)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	svc := service.NewRecurringService(
		repository.NewRecurringRepository(e.db, e.logger),
		repository.NewWalletRepository(e.db, e.logger),
		repository.NewCategoryRepository(e.db, e.logger),
		&e.cfg.Cron,
		e.logger,
	)
	report, err := svc.GenerateDue(ctx, userID, asOf)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("as of %s: %d processed, %d generated, %d deactivated, %d skipped, %d failed\n",
		asOf.Format(calendar.DateFormat), report.Processed, report.Generated,
		report.Deactivated, report.Skipped, report.Failed)
	if report.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
