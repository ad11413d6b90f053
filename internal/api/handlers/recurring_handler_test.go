package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/calendar"
	"fintrack/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memRecurring struct {
	byID map[uuid.UUID]*models.RecurringTransaction
	txs  []*models.Transaction
}

func (m *memRecurring) Create(_ context.Context, r *models.RecurringTransaction) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memRecurring) GetByID(_ context.Context, userID, id uuid.UUID) (*models.RecurringTransaction, error) {
	r, ok := m.byID[id]
	if !ok || r.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *memRecurring) List(context.Context, uuid.UUID) ([]*models.RecurringTransaction, error) {
	return nil, nil
}

func (m *memRecurring) Update(_ context.Context, r *models.RecurringTransaction) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memRecurring) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func (m *memRecurring) ListDue(_ context.Context, userID *uuid.UUID, asOf time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	skip := map[uuid.UUID]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	var out []uuid.UUID
	for id, r := range m.byID {
		if skip[id] || !r.IsActive || !r.AutoGenerate || r.NextOccurrence.After(asOf) {
			continue
		}
		if userID != nil && r.UserID != *userID {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRecurring) WithinTx(_ context.Context, fn func(repository.RecurringUnit) error) error {
	return fn(m)
}

func (m *memRecurring) Lock(_ context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *memRecurring) InsertTransaction(_ context.Context, t *models.Transaction) (bool, error) {
	m.txs = append(m.txs, t)
	return true, nil
}

func (m *memRecurring) SaveSchedule(_ context.Context, r *models.RecurringTransaction) error {
	m.byID[r.ID] = r
	return nil
}

func weeklyTemplate(userID uuid.UUID, start time.Time) *models.RecurringTransaction {
	return &models.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       uuid.New(),
		Type:           models.TransactionTypeExpense,
		Amount:         decimal.RequireFromString("15"),
		Description:    "Cleaning",
		Frequency:      calendar.Weekly,
		StartDate:      start,
		NextOccurrence: start,
		AutoGenerate:   true,
		IsActive:       true,
	}
}

func newRecurringApp(userID uuid.UUID, store *memRecurring) *fiber.App {
	svc := service.NewRecurringService(store, nil, nil, &config.CronConfig{BatchSize: 10, MaxCatchUp: 10}, zap.NewNop())
	h := NewRecurringHandler(svc, zap.NewNop())
	app := fiber.New()
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals("userID", userID.String())
		return c.Next()
	})
	api.Post("/recurring/generate", h.GenerateDue)
	api.Post("/recurring/:id/generate", h.Generate)
	return app
}

func TestRecurringHandler_GenerateDue(t *testing.T) {
	user := uuid.New()
	store := &memRecurring{byID: map[uuid.UUID]*models.RecurringTransaction{}}
	mine := weeklyTemplate(user, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	theirs := weeklyTemplate(uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store.byID[mine.ID] = mine
	store.byID[theirs.ID] = theirs
	app := newRecurringApp(user, store)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/recurring/generate?as_of=2024-01-15", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %v)", resp.StatusCode, body)
	}
	if body["processed"] != float64(1) || body["generated"] != float64(3) || body["failed"] != float64(0) {
		t.Errorf("report = %v, want 1 processed, 3 generated", body)
	}
	if txs, _ := body["transactions"].([]any); len(txs) != 3 {
		t.Errorf("report lists %d transactions, want 3", len(txs))
	}
	if got := store.byID[theirs.ID].NextOccurrence; !got.Equal(theirs.StartDate) {
		t.Errorf("another user's template advanced to %s", got)
	}
}

func TestRecurringHandler_GenerateDueRejectsBadAsOf(t *testing.T) {
	tomorrow := calendar.Today().AddDate(0, 0, 1).Format(calendar.DateFormat)
	for _, asOf := range []string{"15.01.2024", "2024-13-01", tomorrow} {
		t.Run(asOf, func(t *testing.T) {
			store := &memRecurring{byID: map[uuid.UUID]*models.RecurringTransaction{}}
			resp, body := doJSON(t, newRecurringApp(uuid.New(), store), http.MethodPost, "/api/v1/recurring/generate?as_of="+asOf, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %v)", resp.StatusCode, body)
			}
		})
	}
}

func TestRecurringHandler_Generate(t *testing.T) {
	user := uuid.New()
	store := &memRecurring{byID: map[uuid.UUID]*models.RecurringTransaction{}}
	upcoming := weeklyTemplate(user, calendar.Today().AddDate(0, 0, 30))
	store.byID[upcoming.ID] = upcoming
	app := newRecurringApp(user, store)

	testCases := []struct {
		name string
		path string
		want int
	}{
		{name: "malformed id", path: "/api/v1/recurring/not-a-uuid/generate", want: http.StatusBadRequest},
		{name: "unknown id", path: "/api/v1/recurring/" + uuid.NewString() + "/generate", want: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, tc.path, "")
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d (body %v)", resp.StatusCode, tc.want, body)
			}
		})
	}
	if len(store.txs) != 0 {
		t.Fatalf("failed requests generated %d transactions", len(store.txs))
	}

	// the next occurrence is realized on demand even though it is not due
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/recurring/"+upcoming.ID.String()+"/generate", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %v)", resp.StatusCode, body)
	}
	if body["generated"] != float64(1) || len(store.txs) != 1 {
		t.Errorf("report = %v, stored %d transactions, want 1", body, len(store.txs))
	}
	if want := upcoming.StartDate.AddDate(0, 0, 7); !store.byID[upcoming.ID].NextOccurrence.Equal(want) {
		t.Errorf("NextOccurrence = %s, want %s", store.byID[upcoming.ID].NextOccurrence, want)
	}
}
