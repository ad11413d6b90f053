package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/calendar"
	"fintrack/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTemplate(user uuid.UUID, freq calendar.Frequency, start string) *models.RecurringTransaction {
	s := day(start)
	return &models.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         user,
		WalletID:       uuid.New(),
		Type:           models.TransactionTypeExpense,
		Amount:         dec("9.99"),
		Description:    "Subscription",
		Frequency:      freq,
		StartDate:      s,
		NextOccurrence: s,
		AutoGenerate:   true,
		IsActive:       true,
	}
}

func newTestRecurringService(repo *fakeRecurring, batch int) *RecurringService {
	f := newLedgerFixture()
	s := NewRecurringService(repo, f.wallets, f.cats, &config.CronConfig{BatchSize: batch, MaxCatchUp: 366}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) }
	return s
}

func dates(txs []*models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.Date.Format(calendar.DateFormat))
	}
	return out
}

func TestRecurringService_GenerateDueMonthlyClamp(t *testing.T) {
	user := uuid.New()
	rt := newTemplate(user, calendar.Monthly, "2024-01-31")
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateDue(context.Background(), nil, day("2024-02-29"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if report.Processed != 1 || report.Generated != 2 || report.Failed != 0 {
		t.Errorf("report = %+v, want 1 processed, 2 generated", report)
	}

	got := dates(repo.generatedFor(rt.ID))
	want := []string{"2024-01-31", "2024-02-29"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("generated dates = %v, want %v", got, want)
	}
	stored := repo.templates[rt.ID]
	if next := stored.NextOccurrence.Format(calendar.DateFormat); next != "2024-03-29" {
		t.Errorf("NextOccurrence = %s, want 2024-03-29", next)
	}
	if stored.LastGenerated == nil || !stored.LastGenerated.Equal(day("2024-02-29")) {
		t.Errorf("LastGenerated = %v, want 2024-02-29", stored.LastGenerated)
	}
	for _, tx := range repo.generatedFor(rt.ID) {
		if tx.UserID != user || !tx.Amount.Equal(rt.Amount) || tx.Description != rt.Description {
			t.Errorf("generated transaction does not copy the template: %+v", tx)
		}
	}
}

func TestRecurringService_GenerateDueIsIdempotent(t *testing.T) {
	rt := newTemplate(uuid.New(), calendar.Weekly, "2024-05-01")
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)
	asOf := day("2024-05-20")

	first, err := s.GenerateDue(context.Background(), nil, asOf)
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if first.Generated != 3 {
		t.Errorf("first run generated = %d, want 3", first.Generated)
	}

	second, err := s.GenerateDue(context.Background(), nil, asOf)
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if second.Generated != 0 || second.Processed != 0 {
		t.Errorf("second run = %+v, want nothing processed", second)
	}
	if n := len(repo.generatedFor(rt.ID)); n != 3 {
		t.Errorf("stored occurrences = %d, want 3", n)
	}
}

func TestRecurringService_AlreadyRealizedOccurrence(t *testing.T) {
	rt := newTemplate(uuid.New(), calendar.Monthly, "2024-04-15")
	// a crash after the insert left the schedule behind
	last := day("2024-04-15")
	rt.LastGenerated = &last
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateDue(context.Background(), nil, day("2024-05-15"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if got := dates(repo.generatedFor(rt.ID)); len(got) != 1 || got[0] != "2024-05-15" {
		t.Errorf("generated dates = %v, want [2024-05-15]", got)
	}
	if report.Generated != 1 {
		t.Errorf("Generated = %d, want 1", report.Generated)
	}
}

func TestRecurringService_EndDateDeactivates(t *testing.T) {
	rt := newTemplate(uuid.New(), calendar.Monthly, "2024-01-10")
	end := day("2024-03-01")
	rt.EndDate = &end
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateDue(context.Background(), nil, day("2024-06-01"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if got := dates(repo.generatedFor(rt.ID)); len(got) != 2 {
		t.Errorf("generated dates = %v, want Jan and Feb only", got)
	}
	if report.Deactivated != 1 {
		t.Errorf("Deactivated = %d, want 1", report.Deactivated)
	}
	if repo.templates[rt.ID].IsActive {
		t.Error("template still active after its end date")
	}
}

func TestRecurringService_FailureDoesNotStopOthers(t *testing.T) {
	user := uuid.New()
	broken := newTemplate(user, calendar.Daily, "2024-05-30")
	healthy := newTemplate(user, calendar.Daily, "2024-05-31")
	repo := newFakeRecurring(broken, healthy)
	repo.failInsert[broken.ID] = errors.New("disk full")
	s := newTestRecurringService(repo, 1)

	report, err := s.GenerateDue(context.Background(), &user, day("2024-05-31"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if report.Failed != 1 || report.Generated != 1 || report.Processed != 2 {
		t.Errorf("report = %+v, want 2 processed, 1 failed, 1 generated", report)
	}
	if !repo.templates[broken.ID].NextOccurrence.Equal(day("2024-05-30")) {
		t.Errorf("failed template advanced to %v", repo.templates[broken.ID].NextOccurrence)
	}
	if n := len(repo.generatedFor(broken.ID)); n != 0 {
		t.Errorf("failed template left %d transactions", n)
	}
}

func TestRecurringService_CatchUpIsBounded(t *testing.T) {
	rt := newTemplate(uuid.New(), calendar.Daily, "2023-01-01")
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)
	s.maxCatchUp = 30

	first, err := s.GenerateDue(context.Background(), nil, day("2023-12-31"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if first.Generated != 30 {
		t.Errorf("Generated = %d, want 30", first.Generated)
	}
	if next := repo.templates[rt.ID].NextOccurrence; !next.Equal(day("2023-01-31")) {
		t.Errorf("NextOccurrence = %v, want 2023-01-31", next)
	}
}

func TestRecurringService_SkipsInactiveAndManualTemplates(t *testing.T) {
	user := uuid.New()
	inactive := newTemplate(user, calendar.Daily, "2024-05-01")
	inactive.IsActive = false
	manual := newTemplate(user, calendar.Daily, "2024-05-01")
	manual.AutoGenerate = false
	repo := newFakeRecurring(inactive, manual)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateDue(context.Background(), nil, day("2024-05-10"))
	if err != nil {
		t.Fatalf("GenerateDue() unexpected error = %v", err)
	}
	if report.Processed != 0 || len(repo.txs) != 0 {
		t.Errorf("report = %+v with %d transactions, want nothing", report, len(repo.txs))
	}
}

func TestRecurringService_GenerateOne(t *testing.T) {
	user := uuid.New()
	rt := newTemplate(user, calendar.Monthly, "2024-07-01")
	rt.AutoGenerate = false
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateOne(context.Background(), user, rt.ID, day("2024-06-01"))
	if err != nil {
		t.Fatalf("GenerateOne() unexpected error = %v", err)
	}
	if report.Generated != 1 || dates(report.Transactions)[0] != "2024-07-01" {
		t.Errorf("report = %+v, want the 2024-07-01 occurrence", report)
	}
	if next := repo.templates[rt.ID].NextOccurrence; !next.Equal(day("2024-08-01")) {
		t.Errorf("NextOccurrence = %v, want 2024-08-01", next)
	}

	if _, err := s.GenerateOne(context.Background(), uuid.New(), rt.ID, day("2024-06-01")); !errors.Is(err, ErrNotFound) {
		t.Errorf("GenerateOne() foreign user error = %v, want %v", err, ErrNotFound)
	}
}

func TestRecurringService_GenerateOneInactive(t *testing.T) {
	user := uuid.New()
	rt := newTemplate(user, calendar.Monthly, "2024-05-01")
	rt.IsActive = false
	repo := newFakeRecurring(rt)
	s := newTestRecurringService(repo, 10)

	report, err := s.GenerateOne(context.Background(), user, rt.ID, day("2024-06-01"))
	if err != nil {
		t.Fatalf("GenerateOne() unexpected error = %v", err)
	}
	if report.Skipped != 1 || report.Generated != 0 {
		t.Errorf("report = %+v, want skipped", report)
	}
}
