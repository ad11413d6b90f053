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

type GoalService struct {
	goalRepo repository.GoalStore
	logger   *zap.Logger
}

func NewGoalService(goalRepo repository.GoalStore, logger *zap.Logger) *GoalService {
	return &GoalService{goalRepo: goalRepo, logger: logger}
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, req *dto.GoalRequest) (*models.Goal, error) {
	now := time.Now().UTC()
	g := &models.Goal{ID: uuid.New(), UserID: userID, CreatedAt: now}
	if err := applyGoal(g, req, now); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Create(ctx, g); err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

func applyGoal(g *models.Goal, req *dto.GoalRequest, now time.Time) error {
	target, err := positiveAmount(req.TargetAmount)
	if err != nil {
		return err
	}
	if req.CurrentAmount.IsNegative() {
		return invalid("current_amount must not be negative")
	}
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	g.Name = cleanText(req.Name)
	g.TargetAmount = target
	g.CurrentAmount = req.CurrentAmount.Round(2)
	g.Deadline = req.Deadline.Ptr()
	g.Status = g.StatusFor()
	g.UpdatedAt = now
	return nil
}

func (s *GoalService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	g, err := s.goalRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	goals, err := s.goalRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	return goals, nil
}

func (s *GoalService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.GoalRequest) (*models.Goal, error) {
	g, err := s.goalRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := applyGoal(g, req, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Update(ctx, g); err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.goalRepo.Delete(ctx, userID, id))
}

// Contribute adds to the saved amount. The goal completes once the saved
// amount reaches the target.
func (s *GoalService) Contribute(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (*models.Goal, error) {
	amount, err := positiveAmount(amount)
	if err != nil {
		return nil, err
	}
	g, err := s.goalRepo.Contribute(ctx, userID, id, amount, time.Now().UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	if g.Status == models.GoalStatusCompleted {
		s.logger.Info("Goal completed", zap.String("goal_id", g.ID.String()))
	}
	return g, nil
}
