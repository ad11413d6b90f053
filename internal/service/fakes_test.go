package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/calendar"
	"fintrack/pkg/marketdata"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(calendar.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeWallets struct {
	byID map[uuid.UUID]*models.Wallet
}

func newFakeWallets(ws ...*models.Wallet) *fakeWallets {
	f := &fakeWallets{byID: map[uuid.UUID]*models.Wallet{}}
	for _, w := range ws {
		f.byID[w.ID] = w
	}
	return f
}

func (f *fakeWallets) Create(_ context.Context, w *models.Wallet) error {
	f.byID[w.ID] = w
	return nil
}

func (f *fakeWallets) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Wallet, error) {
	w, ok := f.byID[id]
	if !ok || w.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWallets) List(_ context.Context, userID uuid.UUID, _ bool) ([]*models.Wallet, error) {
	var out []*models.Wallet
	for _, w := range f.byID {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWallets) Update(_ context.Context, w *models.Wallet) error {
	if _, ok := f.byID[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[w.ID] = w
	return nil
}

func (f *fakeWallets) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeWallets) Totals(ctx context.Context, userID, id uuid.UUID) (*models.WalletBalance, error) {
	w, err := f.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &models.WalletBalance{WalletID: w.ID, Currency: w.Currency, Initial: w.InitialBalance}, nil
}

type fakeCategories struct {
	byID map[uuid.UUID]*models.Category
}

func newFakeCategories(cs ...*models.Category) *fakeCategories {
	f := &fakeCategories{byID: map[uuid.UUID]*models.Category{}}
	for _, c := range cs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategories) CreateBatch(ctx context.Context, cs []*models.Category) error {
	for _, c := range cs {
		f.byID[c.ID] = c
	}
	return nil
}

func (f *fakeCategories) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) List(_ context.Context, userID uuid.UUID, _ models.CategoryType) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeTransactions struct {
	byID    map[uuid.UUID]*models.Transaction
	created int
	updated int
}

func newFakeTransactions(ts ...*models.Transaction) *fakeTransactions {
	f := &fakeTransactions{byID: map[uuid.UUID]*models.Transaction{}}
	for _, t := range ts {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTransactions) Create(_ context.Context, t *models.Transaction) error {
	f.created++
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTransactions) Update(_ context.Context, t *models.Transaction) error {
	existing, ok := f.byID[t.ID]
	if !ok || existing.UserID != t.UserID {
		return pgx.ErrNoRows
	}
	f.updated++
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTransactions) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTransactions) List(_ context.Context, userID uuid.UUID, _ models.TransactionFilter) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range f.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) Delete(_ context.Context, userID, id uuid.UUID) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTransactions) Spent(_ context.Context, userID uuid.UUID, categoryID *uuid.UUID, r calendar.Range) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range f.byID {
		if t.UserID != userID || t.Type != models.TransactionTypeExpense || !r.Contains(t.Date) {
			continue
		}
		if categoryID != nil && (t.CategoryID == nil || *t.CategoryID != *categoryID) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

func (f *fakeTransactions) TotalsByCategory(context.Context, uuid.UUID, calendar.Range) ([]models.CategoryTotal, error) {
	return nil, nil
}

// fakeRecurring keeps templates and generated transactions in memory.
// WithinTx restores both on error to mimic a rollback.
type fakeRecurring struct {
	templates  map[uuid.UUID]*models.RecurringTransaction
	txs        []*models.Transaction
	failInsert map[uuid.UUID]error
	locked     map[uuid.UUID]bool
}

func newFakeRecurring(rts ...*models.RecurringTransaction) *fakeRecurring {
	f := &fakeRecurring{
		templates:  map[uuid.UUID]*models.RecurringTransaction{},
		failInsert: map[uuid.UUID]error{},
		locked:     map[uuid.UUID]bool{},
	}
	for _, rt := range rts {
		f.templates[rt.ID] = rt
	}
	return f
}

func (f *fakeRecurring) Create(_ context.Context, rt *models.RecurringTransaction) error {
	f.templates[rt.ID] = rt
	return nil
}

func (f *fakeRecurring) GetByID(_ context.Context, userID, id uuid.UUID) (*models.RecurringTransaction, error) {
	rt, ok := f.templates[id]
	if !ok || rt.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRecurring) List(_ context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	var out []*models.RecurringTransaction
	for _, rt := range f.templates {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRecurring) Update(_ context.Context, rt *models.RecurringTransaction) error {
	f.templates[rt.ID] = rt
	return nil
}

func (f *fakeRecurring) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.templates, id)
	return nil
}

func (f *fakeRecurring) ListDue(_ context.Context, userID *uuid.UUID, asOf time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	skip := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var due []*models.RecurringTransaction
	for _, rt := range f.templates {
		if skip[rt.ID] || !rt.IsActive || !rt.AutoGenerate || rt.NextOccurrence.After(asOf) {
			continue
		}
		if userID != nil && rt.UserID != *userID {
			continue
		}
		due = append(due, rt)
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].NextOccurrence.Equal(due[j].NextOccurrence) {
			return due[i].ID.String() < due[j].ID.String()
		}
		return due[i].NextOccurrence.Before(due[j].NextOccurrence)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, 0, len(due))
	for _, rt := range due {
		ids = append(ids, rt.ID)
	}
	return ids, nil
}

func (f *fakeRecurring) WithinTx(_ context.Context, fn func(repository.RecurringUnit) error) error {
	saved := make(map[uuid.UUID]models.RecurringTransaction, len(f.templates))
	for id, rt := range f.templates {
		saved[id] = *rt
	}
	savedTxs := append([]*models.Transaction(nil), f.txs...)

	if err := fn(&fakeRecurringUnit{f: f}); err != nil {
		for id, rt := range saved {
			rt := rt
			f.templates[id] = &rt
		}
		f.txs = savedTxs
		return err
	}
	return nil
}

func (f *fakeRecurring) generatedFor(id uuid.UUID) []*models.Transaction {
	var out []*models.Transaction
	for _, t := range f.txs {
		if t.RecurringID != nil && *t.RecurringID == id {
			out = append(out, t)
		}
	}
	return out
}

type fakeRecurringUnit struct {
	f *fakeRecurring
}

func (u *fakeRecurringUnit) Lock(_ context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	rt, ok := u.f.templates[id]
	if !ok || u.f.locked[id] {
		return nil, pgx.ErrNoRows
	}
	cp := *rt
	return &cp, nil
}

func (u *fakeRecurringUnit) InsertTransaction(_ context.Context, t *models.Transaction) (bool, error) {
	if err := u.f.failInsert[*t.RecurringID]; err != nil {
		return false, err
	}
	for _, existing := range u.f.txs {
		if *existing.RecurringID == *t.RecurringID && existing.Date.Equal(t.Date) {
			return false, nil
		}
	}
	u.f.txs = append(u.f.txs, t)
	return true, nil
}

func (u *fakeRecurringUnit) SaveSchedule(_ context.Context, rt *models.RecurringTransaction) error {
	cp := *rt
	u.f.templates[rt.ID] = &cp
	return nil
}

type fakeDebts struct {
	byID map[uuid.UUID]*models.Debt
}

func (f *fakeDebts) Create(_ context.Context, d *models.Debt) error {
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDebts) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Debt, error) {
	d, ok := f.byID[id]
	if !ok || d.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDebts) List(context.Context, uuid.UUID) ([]*models.Debt, error) { return nil, nil }

func (f *fakeDebts) Update(_ context.Context, d *models.Debt) error {
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDebts) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeDebts) ApplyPayment(_ context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Debt, error) {
	d, ok := f.byID[id]
	if !ok || d.UserID != userID || d.Remaining.LessThan(amount) {
		return nil, pgx.ErrNoRows
	}
	d.Remaining = d.Remaining.Sub(amount)
	d.IsSettled = d.Remaining.IsZero()
	d.UpdatedAt = at
	cp := *d
	return &cp, nil
}

type fakeGoals struct {
	byID map[uuid.UUID]*models.Goal
}

func (f *fakeGoals) Create(_ context.Context, g *models.Goal) error {
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGoals) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	g, ok := f.byID[id]
	if !ok || g.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoals) List(context.Context, uuid.UUID) ([]*models.Goal, error) { return nil, nil }

func (f *fakeGoals) Update(_ context.Context, g *models.Goal) error {
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGoals) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeGoals) Contribute(_ context.Context, userID, id uuid.UUID, amount decimal.Decimal, at time.Time) (*models.Goal, error) {
	g, ok := f.byID[id]
	if !ok || g.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.Status = g.StatusFor()
	g.UpdatedAt = at
	cp := *g
	return &cp, nil
}

type fakeAssets struct {
	mu     sync.Mutex
	assets []*models.Asset
	prices map[uuid.UUID]decimal.Decimal
}

func (f *fakeAssets) Create(_ context.Context, a *models.Asset) error {
	f.assets = append(f.assets, a)
	return nil
}

func (f *fakeAssets) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Asset, error) {
	for _, a := range f.assets {
		if a.ID == id && a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAssets) List(context.Context, uuid.UUID) ([]*models.Asset, error) { return f.assets, nil }
func (f *fakeAssets) Update(context.Context, *models.Asset) error               { return nil }
func (f *fakeAssets) Delete(context.Context, uuid.UUID, uuid.UUID) error        { return nil }

func (f *fakeAssets) ListSyncable(_ context.Context, userID *uuid.UUID) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, a := range f.assets {
		if a.Type == models.AssetTypeCash {
			continue
		}
		if userID != nil && a.UserID != *userID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssets) UpdatePrice(_ context.Context, id uuid.UUID, price, _ decimal.Decimal, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[id] = price
	return nil
}

type fakeQuotes struct {
	mu     sync.Mutex
	prices map[string]string
	calls  map[string]int
}

func (q *fakeQuotes) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls[symbol]++
	p, ok := q.prices[symbol]
	if !ok {
		return nil, marketdata.ErrNoPrice
	}
	return &marketdata.Quote{Symbol: symbol, Price: dec(p), Timestamp: time.Now()}, nil
}
