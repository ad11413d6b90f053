package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/marketdata"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const quoteConcurrency = 4

// SyncReport summarizes a price sync. Errors are keyed by symbol.
type SyncReport struct {
	Total   int               `json:"total"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type AssetService struct {
	assetRepo repository.AssetStore
	quotes    marketdata.Provider
	logger    *zap.Logger
}

func NewAssetService(assetRepo repository.AssetStore, quotes marketdata.Provider, logger *zap.Logger) *AssetService {
	return &AssetService{assetRepo: assetRepo, quotes: quotes, logger: logger}
}

func (s *AssetService) Create(ctx context.Context, userID uuid.UUID, req *dto.AssetRequest) (*models.Asset, error) {
	now := time.Now().UTC()
	a := &models.Asset{ID: uuid.New(), UserID: userID, CreatedAt: now}
	if err := applyAsset(a, req, now); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Create(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

func applyAsset(a *models.Asset, req *dto.AssetRequest, now time.Time) error {
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Quantity.IsNegative() || req.PurchasePrice.IsNegative() || req.CurrentPrice.IsNegative() {
		return invalid("quantity and prices must not be negative")
	}
	a.Name = cleanText(req.Name)
	a.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	a.Type = models.AssetType(req.Type)
	a.Quantity = req.Quantity
	a.PurchasePrice = req.PurchasePrice
	a.CurrentPrice = req.CurrentPrice
	if a.CurrentPrice.IsZero() {
		a.CurrentPrice = a.PurchasePrice
	}
	a.Currency = strings.ToUpper(req.Currency)
	if a.Currency == "" {
		a.Currency = defaultCurrency
	}
	a.UpdatedAt = now
	return nil
}

func (s *AssetService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Asset, error) {
	a, err := s.assetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

func (s *AssetService) List(ctx context.Context, userID uuid.UUID) ([]*models.Asset, error) {
	assets, err := s.assetRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []*models.Asset{}
	}
	return assets, nil
}

func (s *AssetService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.AssetRequest) (*models.Asset, error) {
	a, err := s.assetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := applyAsset(a, req, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Update(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

func (s *AssetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.assetRepo.Delete(ctx, userID, id))
}

// SyncPrices refreshes current prices from the market data provider. Each
// distinct symbol is quoted once; assets without a symbol are skipped and a
// failed quote only fails the assets that use it. A nil userID syncs all
// users.
func (s *AssetService) SyncPrices(ctx context.Context, userID *uuid.UUID) (*SyncReport, error) {
	assets, err := s.assetRepo.ListSyncable(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Total: len(assets), Errors: map[string]string{}}
	bySymbol := make(map[string][]*models.Asset)
	for _, a := range assets {
		symbol := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if symbol == "" {
			report.Skipped++
			continue
		}
		bySymbol[symbol] = append(bySymbol[symbol], a)
	}

	var (
		mu     sync.Mutex
		quotes = make(map[string]*marketdata.Quote, len(bySymbol))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)
	for symbol := range bySymbol {
		symbol := symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := s.quotes.Quote(gctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// a cancelled caller aborts the run, a bad symbol does not
				if ctx.Err() != nil {
					return ctx.Err()
				}
				report.Errors[symbol] = err.Error()
				s.logger.Warn("Quote failed", zap.String("symbol", symbol), zap.Error(err))
				return nil
			}
			quotes[symbol] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("sync prices: %w", err)
	}

	now := time.Now().UTC()
	for symbol, group := range bySymbol {
		q, ok := quotes[symbol]
		if !ok {
			report.Failed += len(group)
			continue
		}
		for _, a := range group {
			if err := s.assetRepo.UpdatePrice(ctx, a.ID, q.Price, q.ChangePercent, now); err != nil {
				report.Failed++
				report.Errors[symbol] = err.Error()
				s.logger.Error("Failed to store price", zap.String("asset_id", a.ID.String()), zap.Error(err))
				continue
			}
			report.Updated++
		}
	}

	s.logger.Info("Price sync finished",
		zap.Int("total", report.Total),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}
