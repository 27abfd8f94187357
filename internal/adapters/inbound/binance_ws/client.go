package binance_ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"futuresbot/internal/telemetry"
)

// BookTicker is one update from the <symbol>@bookTicker stream.
type BookTicker struct {
	Symbol   string `json:"s"`
	BidPrice string `json:"b"`
	BidQty   string `json:"B"`
	AskPrice string `json:"a"`
	AskQty   string `json:"A"`
}

// Client follows the public futures bookTicker stream for one symbol.
// The stream is market data only; order submission never touches it.
type Client struct {
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// Follow streams best bid/ask updates for symbol into fn until ctx is
// cancelled, reconnecting with capped exponential backoff on failure.
func (c *Client) Follow(ctx context.Context, symbol string, fn func(BookTicker)) error {
	streamURL := c.baseURL + "/" + strings.ToLower(symbol) + "@bookTicker"

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		err := c.readStream(ctx, streamURL, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		telemetry.Warnf("binance_ws: stream dropped: %v, reconnecting in %s", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (c *Client) readStream(ctx context.Context, streamURL string, fn func(BookTicker)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	telemetry.Infof("binance_ws: connected to %s", streamURL)
	telemetry.Metrics.WSConnected.Set(1)
	defer telemetry.Metrics.WSConnected.Set(0)

	// close the conn when ctx ends so ReadMessage unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var tick BookTicker
		if err := json.Unmarshal(msg, &tick); err != nil {
			telemetry.Warnf("binance_ws: bad message: %v", err)
			continue
		}
		fn(tick)
	}
}
