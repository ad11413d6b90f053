package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "USD"

type WalletService struct {
	walletRepo repository.WalletStore
	logger     *zap.Logger
}

func NewWalletService(walletRepo repository.WalletStore, logger *zap.Logger) *WalletService {
	return &WalletService{walletRepo: walletRepo, logger: logger}
}

func (s *WalletService) Create(ctx context.Context, userID uuid.UUID, req *dto.WalletRequest) (*models.Wallet, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := time.Now().UTC()
	w := &models.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
	}
	applyWallet(w, req, now)
	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, storeErr(err)
	}
	return w, nil
}

func applyWallet(w *models.Wallet, req *dto.WalletRequest, now time.Time) {
	w.Name = cleanText(req.Name)
	w.Type = models.WalletType(req.Type)
	w.Currency = strings.ToUpper(req.Currency)
	if w.Currency == "" {
		w.Currency = defaultCurrency
	}
	w.InitialBalance = req.InitialBalance.Round(2)
	w.IsArchived = req.IsArchived
	w.UpdatedAt = now
}

func (s *WalletService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return w, nil
}

func (s *WalletService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*models.Wallet, error) {
	wallets, err := s.walletRepo.List(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []*models.Wallet{}
	}
	return wallets, nil
}

func (s *WalletService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.WalletRequest) (*models.Wallet, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	w, err := s.walletRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	applyWallet(w, req, time.Now().UTC())
	if err := s.walletRepo.Update(ctx, w); err != nil {
		return nil, storeErr(err)
	}
	return w, nil
}

func (s *WalletService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.walletRepo.Delete(ctx, userID, id))
}

// Balance derives the current balance from the wallet's transactions.
func (s *WalletService) Balance(ctx context.Context, userID, id uuid.UUID) (*models.WalletBalance, error) {
	b, err := s.walletRepo.Totals(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	b.Balance = b.Total()
	return b, nil
}
