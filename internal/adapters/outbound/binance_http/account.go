package binance_http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Balance is one asset's wallet balance on the futures account.
type Balance struct {
	Asset     string
	Total     decimal.Decimal
	Available decimal.Decimal
}

type balanceResponse struct {
	Asset            string `json:"asset"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"availableBalance"`
}

// Balances returns all asset balances from GET /fapi/v2/balance.
func (c *Client) Balances(ctx context.Context) ([]Balance, error) {
	body, status, err := c.get(ctx, "/fapi/v2/balance", nil, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var resp []balanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal balances: %w", err)
	}

	balances := make([]Balance, 0, len(resp))
	for _, b := range resp {
		balances = append(balances, Balance{
			Asset:     b.Asset,
			Total:     dec(b.Balance),
			Available: dec(b.AvailableBalance),
		})
	}
	return balances, nil
}

// GetBalance returns the balance for one asset; zero if the account
// holds none of it.
func (c *Client) GetBalance(ctx context.Context, asset string) (Balance, error) {
	balances, err := c.Balances(ctx)
	if err != nil {
		return Balance{}, err
	}
	for _, b := range balances {
		if b.Asset == asset {
			return b, nil
		}
	}
	return Balance{Asset: asset}, nil
}
