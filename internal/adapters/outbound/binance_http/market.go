package binance_http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ServerTime fetches the exchange clock. Used as the connectivity check
// before trading and to spot local clock skew that would invalidate
// signed requests.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	body, status, err := c.get(ctx, "/fapi/v1/time", nil, false)
	if err != nil {
		return time.Time{}, err
	}
	if status < 200 || status >= 300 {
		return time.Time{}, apiError(status, body)
	}

	var resp struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal server time: %w", err)
	}
	return time.UnixMilli(resp.ServerTime), nil
}

// LastPrice returns the latest traded price for symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	body, status, err := c.get(ctx, "/fapi/v1/ticker/price", q, false)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if status < 200 || status >= 300 {
		return decimal.Decimal{}, apiError(status, body)
	}

	var resp struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("unmarshal ticker: %w", err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", resp.Price, err)
	}
	return price, nil
}
