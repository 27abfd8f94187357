package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide accepts user input in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("side must be BUY or SELL, got %q", s)
}

type Type string

const (
	TypeMarket Type = "MARKET"
	TypeLimit  Type = "LIMIT"
)

func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeMarket:
		return TypeMarket, nil
	case TypeLimit:
		return TypeLimit, nil
	}
	return "", fmt.Errorf("order type must be MARKET or LIMIT, got %q", s)
}

// DefaultTimeInForce is applied to LIMIT orders that do not specify one.
const DefaultTimeInForce = "GTC"

// Request is a single order to be submitted. Constructed fresh per
// invocation and discarded once the exchange call returns.
type Request struct {
	Symbol        string
	Side          Side
	Type          Type
	Quantity      decimal.Decimal
	Price         decimal.Decimal // LIMIT only
	TimeInForce   string          // LIMIT only; GTC when empty
	ReduceOnly    bool
	ClientOrderID string
}

// Validate checks the request fields locally. It never contacts the
// exchange. A failure is always a *ValidationError naming the field.
func (r Request) Validate() error {
	if r.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	switch r.Side {
	case SideBuy, SideSell:
	default:
		return &ValidationError{Field: "side", Reason: fmt.Sprintf("must be BUY or SELL, got %q", string(r.Side))}
	}
	switch r.Type {
	case TypeMarket, TypeLimit:
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("must be MARKET or LIMIT, got %q", string(r.Type))}
	}
	if r.Quantity.Sign() <= 0 {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive, got %s", r.Quantity)}
	}
	if r.Type == TypeLimit && r.Price.Sign() <= 0 {
		return &ValidationError{Field: "price", Reason: "limit orders require a positive price"}
	}
	return nil
}

// Normalized returns a copy with defaults applied: LIMIT orders get GTC
// when no time-in-force was given, MARKET orders drop price fields the
// exchange would reject.
func (r Request) Normalized() Request {
	if r.Type == TypeLimit && r.TimeInForce == "" {
		r.TimeInForce = DefaultTimeInForce
	}
	if r.Type == TypeMarket {
		r.Price = decimal.Decimal{}
		r.TimeInForce = ""
	}
	return r
}

// Notional is quantity * price; zero for MARKET orders where the fill
// price is not known locally.
func (r Request) Notional() decimal.Decimal {
	if r.Type != TypeLimit {
		return decimal.Decimal{}
	}
	return r.Quantity.Mul(r.Price)
}

// Result is the exchange's acknowledgement of a placed (or queried) order.
type Result struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          Side
	Type          Type
	Status        string // NEW, PARTIALLY_FILLED, FILLED, CANCELED, ...
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	ExecutedQty   decimal.Decimal
	AvgPrice      decimal.Decimal
	UpdateTime    int64 // exchange timestamp, ms
}
