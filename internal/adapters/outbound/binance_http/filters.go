package binance_http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"futuresbot/internal/core/execution"
	"futuresbot/internal/core/order"
	"futuresbot/internal/telemetry"
)

var _ execution.FilterSource = (*FilterCache)(nil)

// FilterCache serves per-symbol trading filters from /fapi/v1/exchangeInfo.
// The endpoint returns every symbol at once, so one fetch fills the whole
// cache; concurrent first lookups are collapsed through singleflight.
type FilterCache struct {
	client *Client

	mu     sync.RWMutex
	loaded bool
	bySym  map[string]order.Filters

	group singleflight.Group
}

func NewFilterCache(client *Client) *FilterCache {
	return &FilterCache{
		client: client,
		bySym:  make(map[string]order.Filters),
	}
}

// SymbolFilters implements execution.FilterSource. ok=false means the
// exchange does not list the symbol.
func (fc *FilterCache) SymbolFilters(ctx context.Context, symbol string) (order.Filters, bool, error) {
	fc.mu.RLock()
	if fc.loaded {
		f, ok := fc.bySym[symbol]
		fc.mu.RUnlock()
		return f, ok, nil
	}
	fc.mu.RUnlock()

	_, err, _ := fc.group.Do("exchangeInfo", func() (any, error) {
		return nil, fc.refresh(ctx)
	})
	if err != nil {
		return order.Filters{}, false, err
	}

	fc.mu.RLock()
	defer fc.mu.RUnlock()
	f, ok := fc.bySym[symbol]
	return f, ok, nil
}

type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol  string `json:"symbol"`
		Status  string `json:"status"`
		Filters []struct {
			FilterType string `json:"filterType"`
			MinQty     string `json:"minQty"`
			MaxQty     string `json:"maxQty"`
			StepSize   string `json:"stepSize"`
			MinPrice   string `json:"minPrice"`
			MaxPrice   string `json:"maxPrice"`
			TickSize   string `json:"tickSize"`
			Notional   string `json:"notional"`
			// spot spells it minNotional; accept both
			MinNotional string `json:"minNotional"`
		} `json:"filters"`
	} `json:"symbols"`
}

func (fc *FilterCache) refresh(ctx context.Context) error {
	body, status, err := fc.client.get(ctx, "/fapi/v1/exchangeInfo", nil, false)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError(status, body)
	}

	var resp exchangeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("unmarshal exchange info: %w", err)
	}

	bySym := make(map[string]order.Filters, len(resp.Symbols))
	for _, s := range resp.Symbols {
		f := order.Filters{Trading: s.Status == "TRADING"}
		for _, flt := range s.Filters {
			switch flt.FilterType {
			case "LOT_SIZE":
				f.MinQty = dec(flt.MinQty)
				f.MaxQty = dec(flt.MaxQty)
				f.StepQty = dec(flt.StepSize)
			case "PRICE_FILTER":
				f.MinPrice = dec(flt.MinPrice)
				f.MaxPrice = dec(flt.MaxPrice)
				f.TickPrice = dec(flt.TickSize)
			case "MIN_NOTIONAL":
				if flt.Notional != "" {
					f.MinNotional = dec(flt.Notional)
				} else {
					f.MinNotional = dec(flt.MinNotional)
				}
			}
		}
		bySym[s.Symbol] = f
	}

	fc.mu.Lock()
	fc.bySym = bySym
	fc.loaded = true
	fc.mu.Unlock()

	telemetry.Debugf("binance_http: exchange info loaded, %d symbols", len(bySym))
	return nil
}
