package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/cache"
	"fintrack/pkg/marketdata"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type syncPricesCmd struct {
	email string
}

func (*syncPricesCmd) Name() string     { return "sync-prices" }
func (*syncPricesCmd) Synopsis() string { return "refresh asset prices from the market data provider" }
func (*syncPricesCmd) Usage() string {
	return `fintrackctl sync-prices [-user <email>]

  Fetches the latest quote for every asset with a symbol and stores it as the
  current price. Cash assets are left alone.
`
}

func (c *syncPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "user", "", "only this user's assets")
}

func (c *syncPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var quoteCache *cache.JSONCache
	rdb, err := cache.NewRedis(ctx, &e.cfg.Redis, e.logger)
	if err != nil {
		e.logger.Warn("Redis unavailable, quotes will not be cached", zap.Error(err))
	} else if rdb != nil {
		defer rdb.Close()
		quoteCache = cache.NewJSONCache(rdb, "fintrack:quote:", e.cfg.Redis.QuoteTTL)
	}
	quotes := marketdata.NewCachingProvider(marketdata.NewClient(&e.cfg.Market, e.logger), quoteCache, e.logger)

	svc := service.NewAssetService(repository.NewAssetRepository(e.db, e.logger), quotes, e.logger)
	report, err := svc.SyncPrices(ctx, userID)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d assets: %d updated, %d skipped, %d failed\n",
		report.Total, report.Updated, report.Skipped, report.Failed)
	symbols := make([]string, 0, len(report.Errors))
	for s := range report.Errors {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		fmt.Printf("  %s: %s\n", s, report.Errors[s])
	}
	return subcommands.ExitSuccess
}
