package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/calendar"
	"fintrack/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationReport summarizes one generator run.
type GenerationReport struct {
	Processed    int                   `json:"processed"`
	Generated    int                   `json:"generated"`
	Deactivated  int                   `json:"deactivated"`
	Skipped      int                   `json:"skipped"`
	Failed       int                   `json:"failed"`
	Transactions []*models.Transaction `json:"transactions"`
}

type RecurringService struct {
	recurringRepo repository.RecurringStore
	refs          ledgerRefs
	batchSize     int
	maxCatchUp    int
	now           func() time.Time
	logger        *zap.Logger
}

func NewRecurringService(
	recurringRepo repository.RecurringStore,
	walletRepo repository.WalletStore,
	categoryRepo repository.CategoryStore,
	cfg *config.CronConfig,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
		refs:          ledgerRefs{walletRepo: walletRepo, categoryRepo: categoryRepo},
		batchSize:     cfg.BatchSize,
		maxCatchUp:    cfg.MaxCatchUp,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}
}

func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, req *dto.RecurringRequest) (*models.RecurringTransaction, error) {
	now := s.now()
	rt := &models.RecurringTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
	}
	if err := s.apply(ctx, rt, req, now); err != nil {
		return nil, err
	}
	rt.NextOccurrence = rt.StartDate
	if err := s.recurringRepo.Create(ctx, rt); err != nil {
		return nil, storeErr(err)
	}
	return rt, nil
}

func (s *RecurringService) apply(ctx context.Context, rt *models.RecurringTransaction, req *dto.RecurringRequest, now time.Time) error {
	amount, err := positiveAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	start := req.StartDate.Or(calendar.Day(now))
	if end := req.EndDate.Ptr(); end != nil && end.Before(start) {
		return invalid("end_date must not be before start_date")
	}

	rt.WalletID = req.WalletID
	rt.ToWalletID = req.ToWalletID
	rt.CategoryID = req.CategoryID
	rt.Type = models.TransactionType(req.Type)
	if err := s.refs.check(ctx, rt.UserID, rt.Type, rt.WalletID, &rt.ToWalletID, &rt.CategoryID); err != nil {
		return err
	}
	rt.Amount = amount
	rt.Description = cleanText(req.Description)
	rt.Frequency = calendar.Frequency(req.Frequency)
	rt.StartDate = start
	rt.EndDate = req.EndDate.Ptr()
	rt.AutoGenerate = req.AutoGenerate == nil || *req.AutoGenerate
	rt.IsActive = req.IsActive == nil || *req.IsActive
	rt.UpdatedAt = now
	return nil
}

func (s *RecurringService) Get(ctx context.Context, userID, id uuid.UUID) (*models.RecurringTransaction, error) {
	rt, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return rt, nil
}

func (s *RecurringService) List(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	list, err := s.recurringRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.RecurringTransaction{}
	}
	return list, nil
}

// Update rewrites the template. The schedule restarts from the new start
// date only while nothing has been generated yet.
func (s *RecurringService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.RecurringRequest) (*models.RecurringTransaction, error) {
	rt, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := s.apply(ctx, rt, req, s.now()); err != nil {
		return nil, err
	}
	if rt.LastGenerated == nil {
		rt.NextOccurrence = rt.StartDate
	}
	if err := s.recurringRepo.Update(ctx, rt); err != nil {
		return nil, storeErr(err)
	}
	return rt, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.recurringRepo.Delete(ctx, userID, id))
}

// GenerateDue realizes every due occurrence of active auto-generating
// templates up to asOf. A nil userID runs across all users. Templates that
// fail are logged and counted, the rest still run.
func (s *RecurringService) GenerateDue(ctx context.Context, userID *uuid.UUID, asOf time.Time) (*GenerationReport, error) {
	asOf = calendar.Day(asOf)
	report := &GenerationReport{Transactions: []*models.Transaction{}}
	var seen []uuid.UUID

	for {
		// processed templates are excluded so that failed or locked ones,
		// which stay due, do not starve the rest
		ids, err := s.recurringRepo.ListDue(ctx, userID, asOf, seen, s.batchSize)
		if err != nil {
			return report, fmt.Errorf("list due templates: %w", err)
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			seen = append(seen, id)
			s.record(report, id, s.realize(ctx, id, asOf, false))
		}
		if len(ids) == 0 || len(ids) < s.batchSize {
			break
		}
	}

	s.logger.Info("Recurring generation finished",
		zap.Time("as_of", asOf),
		zap.Int("processed", report.Processed),
		zap.Int("generated", report.Generated),
		zap.Int("deactivated", report.Deactivated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// GenerateOne realizes the template's next occurrence on demand, even when
// it is not yet due or auto_generate is off, and then catches up to asOf.
func (s *RecurringService) GenerateOne(ctx context.Context, userID, id uuid.UUID, asOf time.Time) (*GenerationReport, error) {
	if _, err := s.recurringRepo.GetByID(ctx, userID, id); err != nil {
		return nil, storeErr(err)
	}
	report := &GenerationReport{Transactions: []*models.Transaction{}}
	res := s.realize(ctx, id, calendar.Day(asOf), true)
	if res.err != nil {
		return nil, res.err
	}
	s.record(report, id, res)
	return report, nil
}

type realization struct {
	generated   []*models.Transaction
	deactivated bool
	skipped     bool
	err         error
}

func (s *RecurringService) record(report *GenerationReport, id uuid.UUID, res realization) {
	report.Processed++
	switch {
	case res.err != nil:
		report.Failed++
		s.logger.Error("Failed to generate recurring transaction",
			zap.String("recurring_id", id.String()), zap.Error(res.err))
		return
	case res.skipped:
		report.Skipped++
		return
	}
	report.Generated += len(res.generated)
	report.Transactions = append(report.Transactions, res.generated...)
	if res.deactivated {
		report.Deactivated++
	}
}

// realize runs one template inside a transaction that holds its row lock:
// each due occurrence is inserted and the schedule advanced, and the
// template is deactivated once the schedule passes its end date.
func (s *RecurringService) realize(ctx context.Context, id uuid.UUID, asOf time.Time, force bool) realization {
	var res realization
	err := s.recurringRepo.WithinTx(ctx, func(u repository.RecurringUnit) error {
		res = realization{}
		rt, err := u.Lock(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				res.skipped = true
				return nil
			}
			return err
		}
		if !rt.IsActive {
			res.skipped = true
			return nil
		}

		now := s.now()
		changed := false
		for i := 0; i < s.maxCatchUp; i++ {
			due := calendar.Day(rt.NextOccurrence)
			if due.After(asOf) && !(force && i == 0) {
				break
			}
			changed = true
			if rt.PastEnd(due) {
				rt.IsActive = false
				res.deactivated = true
				break
			}

			if !rt.Realized(due) {
				t := rt.Instantiate(due, now)
				inserted, err := u.InsertTransaction(ctx, t)
				if err != nil {
					return fmt.Errorf("insert occurrence %s: %w", due.Format(calendar.DateFormat), err)
				}
				if inserted {
					res.generated = append(res.generated, t)
				}
			}

			next, err := calendar.Advance(due, rt.Frequency)
			if err != nil {
				return err
			}
			rt.NextOccurrence = next
			rt.LastGenerated = &due
			if rt.PastEnd(next) {
				rt.IsActive = false
				res.deactivated = true
				break
			}
		}

		if !changed {
			res.skipped = true
			return nil
		}
		rt.UpdatedAt = now
		return u.SaveSchedule(ctx, rt)
	})
	if err != nil {
		return realization{err: err}
	}
	return res
}
