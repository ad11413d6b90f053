package service

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// walletTotals reports fixed movement sums on top of the stored wallet.
type walletTotals struct {
	*fakeWallets
	movements models.WalletBalance
}

func (w *walletTotals) Totals(ctx context.Context, userID, id uuid.UUID) (*models.WalletBalance, error) {
	b, err := w.fakeWallets.Totals(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b.Income = w.movements.Income
	b.Expense = w.movements.Expense
	b.TransfersIn = w.movements.TransfersIn
	b.TransfersOut = w.movements.TransfersOut
	return b, nil
}

func TestWalletService_Balance(t *testing.T) {
	user := uuid.New()
	wallet := &models.Wallet{ID: uuid.New(), UserID: user, Currency: "EUR", InitialBalance: dec("100")}
	store := &walletTotals{
		fakeWallets: newFakeWallets(wallet),
		movements: models.WalletBalance{
			Income:       dec("2500"),
			Expense:      dec("740.25"),
			TransfersIn:  dec("50"),
			TransfersOut: dec("300"),
		},
	}
	s := NewWalletService(store, zap.NewNop())

	b, err := s.Balance(context.Background(), user, wallet.ID)
	if err != nil {
		t.Fatalf("Balance() unexpected error = %v", err)
	}
	if !b.Balance.Equal(dec("1609.75")) {
		t.Errorf("Balance = %s, want 1609.75", b.Balance)
	}
	if b.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", b.Currency)
	}

	if _, err := s.Balance(context.Background(), uuid.New(), wallet.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Balance() foreign user error = %v, want %v", err, ErrNotFound)
	}
}

func TestWalletService_Create(t *testing.T) {
	user := uuid.New()
	s := NewWalletService(newFakeWallets(), zap.NewNop())

	w, err := s.Create(context.Background(), user, &dto.WalletRequest{
		Name:           "  Cash  ",
		Type:           "cash",
		InitialBalance: dec("10.005"),
	})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}
	if w.Name != "Cash" || w.Currency != defaultCurrency || !w.InitialBalance.Equal(dec("10.01")) {
		t.Errorf("Create() = %+v", w)
	}

	if _, err := s.Create(context.Background(), user, &dto.WalletRequest{Name: "x", Type: "vault"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Create() bad type error = %v, want %v", err, ErrValidation)
	}
}
