package execution

import (
	"fmt"

	"futuresbot/internal/config"
	"futuresbot/internal/core/order"
)

// LimitsGuard enforces the local per-symbol caps from trade_limits.yaml.
// Symbols without an entry pass unchecked.
type LimitsGuard struct {
	limits config.TradeLimits
}

func NewLimitsGuard(limits config.TradeLimits) *LimitsGuard {
	return &LimitsGuard{limits: limits}
}

// Check returns a *ValidationError when the request exceeds a cap.
// Notional is only checkable for LIMIT orders; MARKET fills at an
// unknown price, so only the quantity cap applies there.
func (g *LimitsGuard) Check(req order.Request) error {
	sl, ok := g.limits.SymbolLimit(req.Symbol)
	if !ok {
		return nil
	}

	if sl.MaxQuantity.Sign() > 0 && req.Quantity.GreaterThan(sl.MaxQuantity) {
		return &order.ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("%s exceeds local cap %s for %s", req.Quantity, sl.MaxQuantity, req.Symbol),
		}
	}

	if sl.MaxNotional.Sign() > 0 && req.Type == order.TypeLimit {
		if notional := req.Notional(); notional.GreaterThan(sl.MaxNotional) {
			return &order.ValidationError{
				Field:  "price",
				Reason: fmt.Sprintf("notional %s exceeds local cap %s for %s", notional, sl.MaxNotional, req.Symbol),
			}
		}
	}

	return nil
}
