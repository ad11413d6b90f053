package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxListLimit = 500

type TransactionService struct {
	txRepo       repository.TransactionStore
	walletRepo   repository.WalletStore
	categoryRepo repository.CategoryStore
	now          func() time.Time
	logger       *zap.Logger
}

func NewTransactionService(
	txRepo repository.TransactionStore,
	walletRepo repository.WalletStore,
	categoryRepo repository.CategoryStore,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

// Save inserts a new transaction, or updates the one named by editingID.
// A non-positive amount is rejected before anything else.
func (s *TransactionService) Save(ctx context.Context, userID uuid.UUID, editingID *uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	amount, err := positiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	t := &models.Transaction{
		UserID:      userID,
		WalletID:    req.WalletID,
		ToWalletID:  req.ToWalletID,
		CategoryID:  req.CategoryID,
		Type:        models.TransactionType(req.Type),
		Amount:      amount,
		Description: cleanText(req.Description),
		Note:        cleanText(req.Note),
		Date:        req.Date.Or(calendar.Day(now)),
		TagIDs:      req.TagIDs,
		UpdatedAt:   now,
	}
	refs := ledgerRefs{walletRepo: s.walletRepo, categoryRepo: s.categoryRepo}
	if err := refs.check(ctx, userID, t.Type, t.WalletID, &t.ToWalletID, &t.CategoryID); err != nil {
		return nil, err
	}

	if editingID != nil {
		existing, err := s.txRepo.GetByID(ctx, userID, *editingID)
		if err != nil {
			return nil, storeErr(err)
		}
		t.ID = existing.ID
		t.RecurringID = existing.RecurringID
		t.CreatedAt = existing.CreatedAt
		if err := s.txRepo.Update(ctx, t); err != nil {
			return nil, storeErr(err)
		}
		s.logger.Debug("Transaction updated", zap.String("id", t.ID.String()))
		return t, nil
	}

	t.ID = uuid.New()
	t.CreatedAt = now
	if err := s.txRepo.Create(ctx, t); err != nil {
		return nil, storeErr(err)
	}
	s.logger.Debug("Transaction created", zap.String("id", t.ID.String()))
	return t, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, f models.TransactionFilter) ([]*models.Transaction, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, invalid("from must not be after to")
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalid("unknown transaction type %q", f.Type)
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	f.Search = strings.TrimSpace(f.Search)

	transactions, err := s.txRepo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	return transactions, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.txRepo.Delete(ctx, userID, id))
}

// ledgerRefs checks that the wallets and category a transaction or template
// points at belong to the user and fit its type.
type ledgerRefs struct {
	walletRepo   repository.WalletStore
	categoryRepo repository.CategoryStore
}

func (r ledgerRefs) check(ctx context.Context, userID uuid.UUID, typ models.TransactionType, walletID uuid.UUID, toWalletID, categoryID **uuid.UUID) error {
	if _, err := r.walletRepo.GetByID(ctx, userID, walletID); err != nil {
		if repository.IsNotFound(err) {
			return invalid("wallet %s does not exist", walletID)
		}
		return err
	}

	if typ == models.TransactionTypeTransfer {
		to := *toWalletID
		if to == nil {
			return invalid("transfer requires to_wallet_id")
		}
		if *to == walletID {
			return invalid("transfer source and destination must differ")
		}
		if _, err := r.walletRepo.GetByID(ctx, userID, *to); err != nil {
			if repository.IsNotFound(err) {
				return invalid("wallet %s does not exist", *to)
			}
			return err
		}
		// transfers are not categorized
		*categoryID = nil
		return nil
	}

	*toWalletID = nil
	if *categoryID == nil {
		return nil
	}
	c, err := r.categoryRepo.GetByID(ctx, userID, **categoryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return invalid("category %s does not exist", **categoryID)
		}
		return err
	}
	if string(c.Type) != string(typ) {
		return invalid("category %q is for %s, not %s", c.Name, c.Type, typ)
	}
	return nil
}
