package binance_http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"futuresbot/internal/core/execution"
	"futuresbot/internal/core/order"
	"futuresbot/internal/telemetry"
)

var _ execution.OrderPlacer = (*Client)(nil)

// orderResponse is the order object as returned by /fapi/v1/order and
// /fapi/v1/openOrders. Numeric amounts arrive as strings.
type orderResponse struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	OrigQty       string `json:"origQty"`
	Price         string `json:"price"`
	ExecutedQty   string `json:"executedQty"`
	AvgPrice      string `json:"avgPrice"`
	UpdateTime    int64  `json:"updateTime"`
}

func (r orderResponse) toResult() *order.Result {
	return &order.Result{
		OrderID:       r.OrderID,
		ClientOrderID: r.ClientOrderID,
		Symbol:        r.Symbol,
		Side:          order.Side(r.Side),
		Type:          order.Type(r.Type),
		Status:        r.Status,
		Quantity:      dec(r.OrigQty),
		Price:         dec(r.Price),
		ExecutedQty:   dec(r.ExecutedQty),
		AvgPrice:      dec(r.AvgPrice),
		UpdateTime:    r.UpdateTime,
	}
}

// dec parses Binance's string-encoded decimals; absent fields become zero.
func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}

// PlaceOrder submits req to POST /fapi/v1/order. A client order ID is
// generated when the request does not carry one, so the order can be
// found again even if the response is lost. A bare UUID is exactly the
// 36 characters Binance allows for newClientOrderId.
func (c *Client) PlaceOrder(ctx context.Context, req order.Request) (*order.Result, error) {
	clientID := req.ClientOrderID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	q := url.Values{}
	q.Set("symbol", req.Symbol)
	q.Set("side", string(req.Side))
	q.Set("type", string(req.Type))
	q.Set("quantity", req.Quantity.String())
	q.Set("newClientOrderId", clientID)
	if req.Type == order.TypeLimit {
		tif := req.TimeInForce
		if tif == "" {
			tif = order.DefaultTimeInForce
		}
		q.Set("timeInForce", tif)
		q.Set("price", req.Price.String())
	}
	if req.ReduceOnly {
		q.Set("reduceOnly", "true")
	}

	body, status, err := c.post(ctx, "/fapi/v1/order", q)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal order response: %w", err)
	}

	telemetry.Metrics.OrdersSubmitted.Inc()
	telemetry.Infof("binance: order placed symbol=%s side=%s type=%s qty=%s -> id=%d status=%s",
		req.Symbol, req.Side, req.Type, req.Quantity, resp.OrderID, resp.Status)

	return resp.toResult(), nil
}

// GetOrder queries an order by exchange ID or client order ID.
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*order.Result, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	if orderID != 0 {
		q.Set("orderId", strconv.FormatInt(orderID, 10))
	} else if clientOrderID != "" {
		q.Set("origClientOrderId", clientOrderID)
	}

	body, status, err := c.get(ctx, "/fapi/v1/order", q, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return resp.toResult(), nil
}

// OpenOrders lists open orders, for one symbol or (symbol == "") all.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]*order.Result, error) {
	q := url.Values{}
	if symbol != "" {
		q.Set("symbol", symbol)
	}

	body, status, err := c.get(ctx, "/fapi/v1/openOrders", q, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var resp []orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal open orders: %w", err)
	}

	results := make([]*order.Result, 0, len(resp))
	for _, r := range resp {
		results = append(results, r.toResult())
	}
	return results, nil
}

// CancelOrder cancels a single open order by exchange ID.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*order.Result, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("orderId", strconv.FormatInt(orderID, 10))

	body, status, err := c.delete(ctx, "/fapi/v1/order", q)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cancel response: %w", err)
	}

	telemetry.Infof("binance: order cancelled symbol=%s id=%d status=%s", symbol, orderID, resp.Status)
	return resp.toResult(), nil
}
