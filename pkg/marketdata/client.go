// Package marketdata fetches latest quotes from an EODHD style real-time
// endpoint and remaps the provider's payload into a Quote.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/pkg/config"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNoPrice = errors.New("quote has no price")

// Quote is the provider independent view of a latest price.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Provider returns the latest quote for a symbol.
type Provider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// FieldPaths are JSONPath expressions locating quote fields in the payload.
type FieldPaths struct {
	Price     string
	Change    string
	Timestamp string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	paths      FieldPaths
	logger     *zap.Logger
}

func NewClient(cfg *config.MarketConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		paths: FieldPaths{
			Price:     cfg.PricePath,
			Change:    cfg.ChangePath,
			Timestamp: cfg.TimestampPath,
		},
		logger: logger,
	}
}

// Quote calls GET {base}/real-time/{symbol}?api_token=..&fmt=json.
//
//	{
//	  "code": "AAPL.US",
//	  "timestamp": 1718395200,
//	  "open": 213.85,
//	  "close": 212.49,
//	  "previousClose": 214.24,
//	  "change": -1.75,
//	  "change_p": -0.8168
//	}
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	var payload any
	if err := c.jget(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	price, err := c.decimalAt(c.paths.Price, payload)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if price.IsZero() {
		return nil, fmt.Errorf("quote %s: %w", symbol, ErrNoPrice)
	}

	q := &Quote{Symbol: symbol, Price: price, Timestamp: time.Now().UTC()}
	if c.paths.Change != "" {
		if change, err := c.decimalAt(c.paths.Change, payload); err == nil {
			q.ChangePercent = change
		}
	}
	if c.paths.Timestamp != "" {
		if ts, err := c.decimalAt(c.paths.Timestamp, payload); err == nil && ts.IsPositive() {
			q.Timestamp = time.Unix(ts.IntPart(), 0).UTC()
		}
	}
	return q, nil
}

func (c *Client) jget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("Market data request",
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
	)
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}

// decimalAt evaluates path against payload and reads a number from it. The
// provider answers numbers as JSON numbers, numeric strings or "NA".
func (c *Client) decimalAt(path string, payload any) (decimal.Decimal, error) {
	val, err := jsonpath.Get(path, payload)
	if err != nil {
		return decimal.Zero, fmt.Errorf("path %q: %w", path, err)
	}
	// jsonpath may answer a list of one element for filter expressions
	if list, ok := val.([]any); ok && len(list) > 0 {
		val = list[0]
	}
	switch v := val.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v), ",", "."))
		if err != nil {
			return decimal.Zero, fmt.Errorf("path %q: not a number: %q", path, v)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("path %q: unexpected value %v", path, val)
}
