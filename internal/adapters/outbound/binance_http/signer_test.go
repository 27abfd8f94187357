package binance_http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	signer := NewSigner("key", "secret", 5000)
	signer.now = func() time.Time { return time.UnixMilli(1700000000000) }

	q := url.Values{}
	q.Set("symbol", "BTCUSDT")
	q.Set("side", "BUY")

	out := signer.Sign(q)

	idx := strings.LastIndex(out, "&signature=")
	require.Greater(t, idx, 0, "signature must be the last parameter")
	payload, sig := out[:idx], out[idx+len("&signature="):]

	parsed, err := url.ParseQuery(payload)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", parsed.Get("symbol"))
	assert.Equal(t, "1700000000000", parsed.Get("timestamp"))
	assert.Equal(t, "5000", parsed.Get("recvWindow"))

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(payload))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), sig, "signature covers the payload exactly as encoded")
}

func TestSignLeavesInputUntouched(t *testing.T) {
	signer := NewSigner("key", "secret", 5000)

	q := url.Values{}
	q.Set("symbol", "BTCUSDT")
	signer.Sign(q)

	assert.Equal(t, url.Values{"symbol": {"BTCUSDT"}}, q, "signing must not stamp the caller's values")
}

func TestSignNoRecvWindow(t *testing.T) {
	signer := NewSigner("key", "secret", 0)
	out := signer.Sign(nil)
	assert.NotContains(t, out, "recvWindow")
	assert.Contains(t, out, "timestamp=")
}

func TestEnabled(t *testing.T) {
	assert.True(t, NewSigner("k", "s", 0).Enabled())
	assert.False(t, NewSigner("", "s", 0).Enabled())
	assert.False(t, NewSigner("k", "", 0).Enabled())
}
