package binance_ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsBase(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recvTick(t *testing.T, ticks <-chan BookTicker) BookTicker {
	t.Helper()
	select {
	case tick := <-ticks:
		return tick
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a tick")
		return BookTicker{}
	}
}

func TestFollowStreamsAndReconnects(t *testing.T) {
	var conns atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/btcusdt@bookTicker", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if conns.Add(1) == 1 {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"s":"BTCUSDT","b":"64000.10","B":"1.5","a":"64000.20","A":"2"}`))
			conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
			conn.WriteMessage(websocket.TextMessage, []byte(`{"s":"BTCUSDT","b":"64001.00","B":"1","a":"64001.10","A":"1"}`))
			return // drop the connection to force a reconnect
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"s":"BTCUSDT","b":"64002.00","B":"3","a":"64002.10","A":"4"}`))
		conn.ReadMessage() // hold the connection until the peer closes it
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan BookTicker, 8)
	done := make(chan error, 1)
	go func() {
		done <- NewClient(wsBase(srv)).Follow(ctx, "BTCUSDT", func(tick BookTicker) {
			ticks <- tick
		})
	}()

	first := recvTick(t, ticks)
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, "64000.10", first.BidPrice)
	assert.Equal(t, "1.5", first.BidQty)
	assert.Equal(t, "64000.20", first.AskPrice)
	assert.Equal(t, "2", first.AskQty)

	// the malformed frame in between is skipped, not fatal
	second := recvTick(t, ticks)
	assert.Equal(t, "64001.00", second.BidPrice)

	// third tick only arrives on the second connection
	third := recvTick(t, ticks)
	assert.Equal(t, "64002.00", third.BidPrice)
	assert.GreaterOrEqual(t, conns.Load(), int64(2), "stream reconnected after the drop")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestFollowStopsDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler()) // every dial fails
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewClient(wsBase(srv)).Follow(ctx, "BTCUSDT", func(BookTicker) {})
	}()

	time.Sleep(50 * time.Millisecond) // let the first dial fail
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}
