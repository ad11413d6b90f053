package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fintrack/internal/report"
	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type reportCmd struct {
	email  string
	month  string
	format string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print a user's monthly report" }
func (*reportCmd) Usage() string {
	return `fintrackctl report -user <email> [-month YYYY-MM] [-format ansi|markdown|html|json]

  Prints income, expense and net for the month with the category breakdown,
  wallet balances and budget progress.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "user", "", "report owner (required)")
	f.StringVar(&c.month, "month", time.Now().UTC().Format("2006-01"), "month to report, YYYY-MM")
	f.StringVar(&c.format, "format", "ansi", "ansi, markdown, html or json")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	month, err := time.Parse("2006-01", c.month)
	if err != nil {
		fail(fmt.Errorf("invalid month %q: %w", c.month, err))
		return subcommands.ExitUsageError
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

	txRepo := repository.NewTransactionRepository(e.db, e.logger)
	walletRepo := repository.NewWalletRepository(e.db, e.logger)
	categoryRepo := repository.NewCategoryRepository(e.db, e.logger)
	budgets := service.NewBudgetService(repository.NewBudgetRepository(e.db, e.logger), txRepo, categoryRepo, e.logger)
	svc := service.NewReportService(txRepo, walletRepo, budgets, e.logger)

	m, err := svc.Monthly(ctx, *userID, month.Year(), month.Month())
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	out, err := render(m, c.format)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

func render(m *report.Monthly, format string) (string, error) {
	if format == "json" {
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	}

	md, err := report.Markdown(m)
	if err != nil {
		return "", err
	}
	switch format {
	case "markdown", "md":
		return md, nil
	case "html":
		return report.HTML(md)
	case "ansi":
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return "", err
		}
		return r.Render(md)
	}
	return "", errors.New("unknown format " + format)
}
