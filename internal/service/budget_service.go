package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type BudgetService struct {
	budgetRepo   repository.BudgetStore
	txRepo       repository.TransactionStore
	categoryRepo repository.CategoryStore
	logger       *zap.Logger
}

func NewBudgetService(
	budgetRepo repository.BudgetStore,
	txRepo repository.TransactionStore,
	categoryRepo repository.CategoryStore,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, req *dto.BudgetRequest) (*models.Budget, error) {
	now := time.Now().UTC()
	b := &models.Budget{ID: uuid.New(), UserID: userID, CreatedAt: now}
	if err := s.apply(ctx, b, req, now); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Create(ctx, b); err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BudgetService) apply(ctx context.Context, b *models.Budget, req *dto.BudgetRequest, now time.Time) error {
	amount, err := positiveAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.CategoryID != nil {
		c, err := s.categoryRepo.GetByID(ctx, b.UserID, *req.CategoryID)
		if err != nil {
			if repository.IsNotFound(err) {
				return invalid("category %s does not exist", *req.CategoryID)
			}
			return err
		}
		if c.Type != models.CategoryTypeExpense {
			return invalid("budgets track expense categories only")
		}
	}

	b.CategoryID = req.CategoryID
	b.Name = cleanText(req.Name)
	b.Amount = amount
	b.Period = calendar.Period(req.Period)
	b.StartDate = req.StartDate.Or(calendar.Day(now))
	b.UpdatedAt = now
	return nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	b, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	budgets, err := s.budgetRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []*models.Budget{}
	}
	return budgets, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.BudgetRequest) (*models.Budget, error) {
	b, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := s.apply(ctx, b, req, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.budgetRepo.Delete(ctx, userID, id))
}

// Progress reports spending inside the budget window that contains on.
func (s *BudgetService) Progress(ctx context.Context, userID, id uuid.UUID, on time.Time) (*models.BudgetProgress, error) {
	b, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.progress(ctx, b, on)
}

// ProgressAll reports every budget of the user.
func (s *BudgetService) ProgressAll(ctx context.Context, userID uuid.UUID, on time.Time) ([]*models.BudgetProgress, error) {
	budgets, err := s.budgetRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := s.progress(ctx, b, on)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *BudgetService) progress(ctx context.Context, b *models.Budget, on time.Time) (*models.BudgetProgress, error) {
	window := calendar.Window(b.Period, b.StartDate, on)
	spent, err := s.txRepo.Spent(ctx, b.UserID, b.CategoryID, window)
	if err != nil {
		return nil, fmt.Errorf("budget %s spent: %w", b.ID, err)
	}
	return budgetProgress(b, window, spent), nil
}

func budgetProgress(b *models.Budget, window calendar.Range, spent decimal.Decimal) *models.BudgetProgress {
	p := &models.BudgetProgress{
		Budget:    b,
		From:      window.From,
		To:        window.To,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
		Exceeded:  spent.GreaterThan(b.Amount),
	}
	if b.Amount.IsPositive() {
		p.Percent = spent.Div(b.Amount).Mul(hundred).Round(2)
	}
	return p
}
