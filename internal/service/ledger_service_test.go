package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestDebtService_RecordPayment(t *testing.T) {
	user := uuid.New()
	debt := &models.Debt{ID: uuid.New(), UserID: user, Principal: dec("100"), Remaining: dec("30")}
	s := NewDebtService(&fakeDebts{byID: map[uuid.UUID]*models.Debt{debt.ID: debt}}, zap.NewNop())
	ctx := context.Background()

	for _, amount := range []string{"0", "-3", "0.004"} {
		if _, err := s.RecordPayment(ctx, user, debt.ID, dec(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("RecordPayment(%s) error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
	if !debt.Remaining.Equal(dec("30")) {
		t.Errorf("rejected payments changed remaining to %s", debt.Remaining)
	}
	if _, err := s.RecordPayment(ctx, user, debt.ID, dec("30.01")); !errors.Is(err, ErrOverpayment) {
		t.Errorf("overpayment error = %v, want %v", err, ErrOverpayment)
	}
	if _, err := s.RecordPayment(ctx, uuid.New(), debt.ID, dec("1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign debt error = %v, want %v", err, ErrNotFound)
	}

	got, err := s.RecordPayment(ctx, user, debt.ID, dec("10"))
	if err != nil {
		t.Fatalf("RecordPayment() unexpected error = %v", err)
	}
	if !got.Remaining.Equal(dec("20")) || got.IsSettled {
		t.Errorf("after partial payment remaining = %s settled = %v", got.Remaining, got.IsSettled)
	}

	got, err = s.RecordPayment(ctx, user, debt.ID, dec("20"))
	if err != nil {
		t.Fatalf("RecordPayment() unexpected error = %v", err)
	}
	if !got.Remaining.IsZero() || !got.IsSettled {
		t.Errorf("after final payment remaining = %s settled = %v", got.Remaining, got.IsSettled)
	}
}

func TestDebtService_CreateDefaultsRemaining(t *testing.T) {
	s := NewDebtService(&fakeDebts{byID: map[uuid.UUID]*models.Debt{}}, zap.NewNop())
	ctx := context.Background()
	user := uuid.New()

	d, err := s.Create(ctx, user, &dto.DebtRequest{Name: "Car loan", Direction: "i_owe", Principal: dec("5000")})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}
	if !d.Remaining.Equal(d.Principal) {
		t.Errorf("Remaining = %s, want principal %s", d.Remaining, d.Principal)
	}

	_, err = s.Create(ctx, user, &dto.DebtRequest{Name: "Dust", Direction: "i_owe", Principal: dec("0.004")})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Create() sub-cent principal error = %v, want %v", err, ErrInvalidAmount)
	}

	tooMuch := dec("6000")
	_, err = s.Create(ctx, user, &dto.DebtRequest{Name: "Car loan", Direction: "i_owe", Principal: dec("5000"), Remaining: &tooMuch})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() error = %v, want %v", err, ErrValidation)
	}
}

func TestGoalService_Contribute(t *testing.T) {
	user := uuid.New()
	goal := &models.Goal{ID: uuid.New(), UserID: user, TargetAmount: dec("100"), CurrentAmount: dec("60"), Status: models.GoalStatusActive}
	s := NewGoalService(&fakeGoals{byID: map[uuid.UUID]*models.Goal{goal.ID: goal}}, zap.NewNop())
	ctx := context.Background()

	for _, amount := range []string{"0", "-1", "0.004"} {
		if _, err := s.Contribute(ctx, user, goal.ID, dec(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Contribute(%s) error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
	if !goal.CurrentAmount.Equal(dec("60")) {
		t.Errorf("rejected contributions changed current amount to %s", goal.CurrentAmount)
	}
	if _, err := s.Contribute(ctx, uuid.New(), goal.ID, dec("1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign goal error = %v, want %v", err, ErrNotFound)
	}

	got, err := s.Contribute(ctx, user, goal.ID, dec("40"))
	if err != nil {
		t.Fatalf("Contribute() unexpected error = %v", err)
	}
	if got.Status != models.GoalStatusCompleted {
		t.Errorf("Status = %s, want %s", got.Status, models.GoalStatusCompleted)
	}
}

func TestBudgetProgress(t *testing.T) {
	window := calendar.Range{From: day("2024-03-01"), To: day("2024-03-31")}
	testCases := []struct {
		name         string
		amount       string
		spent        string
		wantPercent  string
		wantExceeded bool
	}{
		{name: "untouched", amount: "200", spent: "0", wantPercent: "0"},
		{name: "partial", amount: "300", spent: "100", wantPercent: "33.33"},
		{name: "exact", amount: "50", spent: "50", wantPercent: "100"},
		{name: "over", amount: "50", spent: "75", wantPercent: "150", wantExceeded: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := &models.Budget{Amount: dec(tc.amount)}
			p := budgetProgress(b, window, dec(tc.spent))
			if !p.Percent.Equal(dec(tc.wantPercent)) {
				t.Errorf("Percent = %s, want %s", p.Percent, tc.wantPercent)
			}
			if p.Exceeded != tc.wantExceeded {
				t.Errorf("Exceeded = %v, want %v", p.Exceeded, tc.wantExceeded)
			}
			if want := dec(tc.amount).Sub(dec(tc.spent)); !p.Remaining.Equal(want) {
				t.Errorf("Remaining = %s, want %s", p.Remaining, want)
			}
		})
	}
}

type fakeBudgets struct {
	byID map[uuid.UUID]*models.Budget
}

func (f *fakeBudgets) Create(_ context.Context, b *models.Budget) error {
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBudgets) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	b, ok := f.byID[id]
	if !ok || b.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeBudgets) List(_ context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	var out []*models.Budget
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBudgets) Update(_ context.Context, b *models.Budget) error {
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBudgets) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func TestBudgetService_ProgressUsesWindow(t *testing.T) {
	f := newLedgerFixture()
	food := f.food.ID
	budget := &models.Budget{
		ID:         uuid.New(),
		UserID:     f.user,
		CategoryID: &food,
		Amount:     dec("200"),
		Period:     calendar.PeriodMonthly,
		StartDate:  day("2024-01-15"),
	}
	expense := func(date, amount string, cat *uuid.UUID) *models.Transaction {
		return &models.Transaction{
			ID: uuid.New(), UserID: f.user, WalletID: f.checking.ID, CategoryID: cat,
			Type: models.TransactionTypeExpense, Amount: dec(amount), Date: day(date),
		}
	}
	txs := newFakeTransactions(
		expense("2024-03-14", "999", &food), // previous window
		expense("2024-03-15", "120", &food),
		expense("2024-04-14", "100", &food),
		expense("2024-03-20", "50", nil),
	)
	s := NewBudgetService(&fakeBudgets{byID: map[uuid.UUID]*models.Budget{budget.ID: budget}}, txs, f.cats, zap.NewNop())

	p, err := s.Progress(context.Background(), f.user, budget.ID, day("2024-04-01"))
	if err != nil {
		t.Fatalf("Progress() unexpected error = %v", err)
	}
	if !p.From.Equal(day("2024-03-15")) || !p.To.Equal(day("2024-04-14")) {
		t.Errorf("window = %s..%s, want 2024-03-15..2024-04-14", p.From.Format(calendar.DateFormat), p.To.Format(calendar.DateFormat))
	}
	if !p.Spent.Equal(dec("220")) || !p.Exceeded {
		t.Errorf("Spent = %s Exceeded = %v, want 220 true", p.Spent, p.Exceeded)
	}

	if _, err := s.Progress(context.Background(), uuid.New(), budget.ID, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Progress() foreign user error = %v, want %v", err, ErrNotFound)
	}
}

func TestAssetService_SyncPrices(t *testing.T) {
	user := uuid.New()
	asset := func(symbol string, typ models.AssetType) *models.Asset {
		return &models.Asset{ID: uuid.New(), UserID: user, Symbol: symbol, Type: typ, Quantity: decimal.NewFromInt(1)}
	}
	apple1 := asset("AAPL.US", models.AssetTypeStock)
	apple2 := asset("aapl.us", models.AssetTypeStock)
	btc := asset("BTC-USD.CC", models.AssetTypeCrypto)
	unknown := asset("NOPE", models.AssetTypeStock)
	noSymbol := asset("", models.AssetTypeOther)
	cash := asset("USD", models.AssetTypeCash)

	repo := &fakeAssets{
		assets: []*models.Asset{apple1, apple2, btc, unknown, noSymbol, cash},
		prices: map[uuid.UUID]decimal.Decimal{},
	}
	quotes := &fakeQuotes{
		prices: map[string]string{"AAPL.US": "212.49", "BTC-USD.CC": "64000"},
		calls:  map[string]int{},
	}
	s := NewAssetService(repo, quotes, zap.NewNop())

	report, err := s.SyncPrices(context.Background(), &user)
	if err != nil {
		t.Fatalf("SyncPrices() unexpected error = %v", err)
	}
	if report.Total != 5 || report.Updated != 3 || report.Skipped != 1 || report.Failed != 1 {
		t.Errorf("report = %+v, want total 5, updated 3, skipped 1, failed 1", report)
	}
	if _, ok := report.Errors["NOPE"]; !ok {
		t.Errorf("Errors = %v, want an entry for NOPE", report.Errors)
	}
	if quotes.calls["AAPL.US"] != 1 {
		t.Errorf("AAPL.US quoted %d times, want once", quotes.calls["AAPL.US"])
	}
	if !repo.prices[apple2.ID].Equal(dec("212.49")) {
		t.Errorf("lower-case symbol price = %s, want 212.49", repo.prices[apple2.ID])
	}
	if _, ok := repo.prices[cash.ID]; ok {
		t.Error("cash asset was priced")
	}
}

func TestAssetService_SyncPricesCancelled(t *testing.T) {
	user := uuid.New()
	repo := &fakeAssets{
		assets: []*models.Asset{
			{ID: uuid.New(), UserID: user, Symbol: "AAPL.US", Type: models.AssetTypeStock},
			{ID: uuid.New(), UserID: user, Symbol: "MSFT.US", Type: models.AssetTypeStock},
		},
		prices: map[uuid.UUID]decimal.Decimal{},
	}
	quotes := &fakeQuotes{prices: map[string]string{"AAPL.US": "1", "MSFT.US": "2"}, calls: map[string]int{}}
	s := NewAssetService(repo, quotes, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SyncPrices(ctx, &user); !errors.Is(err, context.Canceled) {
		t.Errorf("SyncPrices() error = %v, want %v", err, context.Canceled)
	}
	if len(repo.prices) != 0 {
		t.Errorf("%d prices stored after cancellation", len(repo.prices))
	}
}
