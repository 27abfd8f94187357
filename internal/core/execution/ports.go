package execution

import (
	"context"

	"futuresbot/internal/core/order"
)

// OrderPlacer abstracts the ability to place a single order on the
// exchange. Satisfied by *binance_http.Client.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.Request) (*order.Result, error)
}

// FilterSource provides the exchange trading filters for a symbol.
// ok=false means the symbol is unknown to the exchange.
// Satisfied by *binance_http.FilterCache.
type FilterSource interface {
	SymbolFilters(ctx context.Context, symbol string) (f order.Filters, ok bool, err error)
}

// Journal records every submission attempt and its outcome for audit.
// Satisfied by *audit.Store.
type Journal interface {
	Record(ctx context.Context, req order.Request, res *order.Result, submitErr error) error
}
