package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantField string // empty = valid
	}{
		{
			name: "valid market buy",
			req:  Request{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeMarket, Quantity: d("1")},
		},
		{
			name: "valid limit sell",
			req:  Request{Symbol: "BTCUSDT", Side: SideSell, Type: TypeLimit, Quantity: d("0.5"), Price: d("50000")},
		},
		{
			name:      "empty symbol",
			req:       Request{Side: SideBuy, Type: TypeMarket, Quantity: d("1")},
			wantField: "symbol",
		},
		{
			name:      "bad side",
			req:       Request{Symbol: "BTCUSDT", Side: "HOLD", Type: TypeMarket, Quantity: d("1")},
			wantField: "side",
		},
		{
			name:      "bad type",
			req:       Request{Symbol: "BTCUSDT", Side: SideBuy, Type: "STOP", Quantity: d("1")},
			wantField: "type",
		},
		{
			name:      "zero quantity",
			req:       Request{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeMarket, Quantity: decimal.Decimal{}},
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			req:       Request{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeLimit, Quantity: d("-1"), Price: d("100")},
			wantField: "quantity",
		},
		{
			name:      "limit without price",
			req:       Request{Symbol: "BTCUSDT", Side: SideSell, Type: TypeLimit, Quantity: d("1")},
			wantField: "price",
		},
		{
			name:      "limit with negative price",
			req:       Request{Symbol: "BTCUSDT", Side: SideSell, Type: TypeLimit, Quantity: d("1"), Price: d("-5")},
			wantField: "price",
		},
		{
			name: "market ignores missing price",
			req:  Request{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeMarket, Quantity: d("2")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"buy": SideBuy, "BUY": SideBuy, " Sell ": SideSell} {
		got, err := ParseSide(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSide("short")
	require.Error(t, err)
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"market": TypeMarket, "LIMIT": TypeLimit, " limit ": TypeLimit} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseType("stop_loss")
	require.Error(t, err)
}

func TestNormalized(t *testing.T) {
	limit := Request{Symbol: "BTCUSDT", Side: SideSell, Type: TypeLimit, Quantity: d("1"), Price: d("100")}
	assert.Equal(t, DefaultTimeInForce, limit.Normalized().TimeInForce)

	keep := limit
	keep.TimeInForce = "IOC"
	assert.Equal(t, "IOC", keep.Normalized().TimeInForce)

	market := Request{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeMarket, Quantity: d("1"), Price: d("123"), TimeInForce: "GTC"}
	norm := market.Normalized()
	assert.True(t, norm.Price.IsZero(), "market orders must not carry a price")
	assert.Empty(t, norm.TimeInForce)
}

func TestNotional(t *testing.T) {
	limit := Request{Type: TypeLimit, Quantity: d("0.5"), Price: d("50000")}
	assert.True(t, limit.Notional().Equal(d("25000")))

	market := Request{Type: TypeMarket, Quantity: d("0.5")}
	assert.True(t, market.Notional().IsZero())
}
