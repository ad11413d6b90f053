package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DebtService struct {
	debtRepo repository.DebtStore
	logger   *zap.Logger
}

func NewDebtService(debtRepo repository.DebtStore, logger *zap.Logger) *DebtService {
	return &DebtService{debtRepo: debtRepo, logger: logger}
}

func (s *DebtService) Create(ctx context.Context, userID uuid.UUID, req *dto.DebtRequest) (*models.Debt, error) {
	now := time.Now().UTC()
	d := &models.Debt{ID: uuid.New(), UserID: userID, CreatedAt: now}
	if err := applyDebt(d, req, now); err != nil {
		return nil, err
	}
	if err := s.debtRepo.Create(ctx, d); err != nil {
		return nil, storeErr(err)
	}
	return d, nil
}

// applyDebt defaults the remaining balance to the principal.
func applyDebt(d *models.Debt, req *dto.DebtRequest, now time.Time) error {
	principal, err := positiveAmount(req.Principal)
	if err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	remaining := principal
	if req.Remaining != nil {
		remaining = req.Remaining.Round(2)
	}
	if remaining.IsNegative() || remaining.GreaterThan(principal) {
		return invalid("remaining must be between 0 and principal")
	}
	if req.InterestRate.IsNegative() {
		return invalid("interest_rate must not be negative")
	}

	d.Name = cleanText(req.Name)
	d.Counterparty = cleanText(req.Counterparty)
	d.Direction = models.DebtDirection(req.Direction)
	d.Principal = principal
	d.Remaining = remaining
	d.InterestRate = req.InterestRate.Round(3)
	d.DueDate = req.DueDate.Ptr()
	d.IsSettled = d.Remaining.IsZero()
	d.UpdatedAt = now
	return nil
}

func (s *DebtService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Debt, error) {
	d, err := s.debtRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return d, nil
}

func (s *DebtService) List(ctx context.Context, userID uuid.UUID) ([]*models.Debt, error) {
	debts, err := s.debtRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if debts == nil {
		debts = []*models.Debt{}
	}
	return debts, nil
}

func (s *DebtService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.DebtRequest) (*models.Debt, error) {
	d, err := s.debtRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if req.Remaining == nil {
		remaining := d.Remaining
		req.Remaining = &remaining
	}
	if err := applyDebt(d, req, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.debtRepo.Update(ctx, d); err != nil {
		return nil, storeErr(err)
	}
	return d, nil
}

func (s *DebtService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.debtRepo.Delete(ctx, userID, id))
}

// RecordPayment reduces the remaining balance. Paying more than what is
// left is rejected; the debt is settled when nothing remains.
func (s *DebtService) RecordPayment(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (*models.Debt, error) {
	amount, err := positiveAmount(amount)
	if err != nil {
		return nil, err
	}

	d, err := s.debtRepo.ApplyPayment(ctx, userID, id, amount, time.Now().UTC())
	if err == nil {
		if d.IsSettled {
			s.logger.Info("Debt settled", zap.String("debt_id", d.ID.String()))
		}
		return d, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	// the conditional update matched nothing: missing row or overpayment
	if _, getErr := s.debtRepo.GetByID(ctx, userID, id); getErr != nil {
		return nil, storeErr(getErr)
	}
	return nil, ErrOverpayment
}
