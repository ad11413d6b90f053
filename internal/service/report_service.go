package service

import (
	"context"
	"time"

	"fintrack/internal/report"
	"fintrack/internal/repository"
	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportService struct {
	txRepo     repository.TransactionStore
	walletRepo repository.WalletStore
	budgets    *BudgetService
	logger     *zap.Logger
}

func NewReportService(txRepo repository.TransactionStore, walletRepo repository.WalletStore, budgets *BudgetService, logger *zap.Logger) *ReportService {
	return &ReportService{txRepo: txRepo, walletRepo: walletRepo, budgets: budgets, logger: logger}
}

// Monthly builds the summary for one calendar month. Amounts are summed
// as stored; the report currency is the one of the user's first wallet.
func (s *ReportService) Monthly(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*report.Monthly, error) {
	if month < time.January || month > time.December || year < 1970 || year > 9999 {
		return nil, invalid("invalid month %d-%d", year, month)
	}
	rng := calendar.MonthRange(year, month)

	totals, err := s.txRepo.TotalsByCategory(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	wallets, err := s.walletRepo.List(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	currency := defaultCurrency
	if len(wallets) > 0 {
		currency = wallets[0].Currency
	}
	m := report.NewMonthly(year, month, currency, totals)

	for _, w := range wallets {
		b, err := s.walletRepo.Totals(ctx, userID, w.ID)
		if err != nil {
			return nil, err
		}
		m.Wallets = append(m.Wallets, report.WalletLine{Name: w.Name, Currency: w.Currency, Balance: b.Total()})
	}

	progress, err := s.budgets.ProgressAll(ctx, userID, rng.To)
	if err != nil {
		return nil, err
	}
	m.Budgets = append(m.Budgets, progress...)
	return m, nil
}
