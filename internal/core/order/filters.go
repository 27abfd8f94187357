package order

import "github.com/shopspring/decimal"

// Filters are the exchange-side trading constraints for one symbol,
// taken from the LOT_SIZE, PRICE_FILTER and MIN_NOTIONAL filters of
// /fapi/v1/exchangeInfo.
type Filters struct {
	Trading bool // symbol status == TRADING

	MinQty  decimal.Decimal
	MaxQty  decimal.Decimal
	StepQty decimal.Decimal

	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	TickPrice decimal.Decimal

	MinNotional decimal.Decimal
}

// QuantizeQty rounds q down to the symbol's quantity step.
func (f Filters) QuantizeQty(q decimal.Decimal) decimal.Decimal {
	return quantize(q, f.StepQty)
}

// QuantizePrice rounds p down to the symbol's price tick.
func (f Filters) QuantizePrice(p decimal.Decimal) decimal.Decimal {
	return quantize(p, f.TickPrice)
}

func quantize(v, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return v
	}
	return v.Div(step).Floor().Mul(step)
}
