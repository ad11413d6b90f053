package marketdata

import (
	"context"
	"strings"

	"fintrack/pkg/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachingProvider serves quotes from a JSON cache and collapses concurrent
// lookups of the same symbol. A nil cache only de-duplicates.
type CachingProvider struct {
	next   Provider
	cache  *cache.JSONCache
	sf     singleflight.Group
	logger *zap.Logger
}

func NewCachingProvider(next Provider, c *cache.JSONCache, logger *zap.Logger) *CachingProvider {
	return &CachingProvider{next: next, cache: c, logger: logger}
}

func (p *CachingProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	v, err, _ := p.sf.Do(key, func() (interface{}, error) {
		if p.cache != nil {
			var q Quote
			hit, err := p.cache.Get(ctx, key, &q)
			if err != nil {
				p.logger.Warn("Quote cache read failed", zap.String("symbol", key), zap.Error(err))
			} else if hit {
				return &q, nil
			}
		}

		q, err := p.next.Quote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			if err := p.cache.Set(ctx, key, q); err != nil {
				p.logger.Warn("Quote cache write failed", zap.String("symbol", key), zap.Error(err))
			}
		}
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Quote), nil
}
