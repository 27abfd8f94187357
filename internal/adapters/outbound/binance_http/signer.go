package binance_http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// Signer implements Binance API request signing: HMAC-SHA256 of the
// encoded query string (including timestamp and recvWindow), with the
// signature appended as the final query parameter — Binance requires it
// last. The API key travels separately in the X-MBX-APIKEY header.
type Signer struct {
	apiKey       string
	secret       string
	recvWindowMs int64

	now func() time.Time // stubbed in tests
}

func NewSigner(apiKey, secret string, recvWindowMs int64) *Signer {
	return &Signer{
		apiKey:       apiKey,
		secret:       secret,
		recvWindowMs: recvWindowMs,
		now:          time.Now,
	}
}

func (s *Signer) Enabled() bool {
	return s.apiKey != "" && s.secret != ""
}

func (s *Signer) APIKey() string { return s.apiKey }

// Sign stamps a copy of q with timestamp/recvWindow and returns the
// fully encoded query string with the signature appended. The signature
// covers the exact encoded form sent on the wire; q itself is left
// untouched.
func (s *Signer) Sign(q url.Values) string {
	stamped := make(url.Values, len(q)+2)
	for k, vs := range q {
		stamped[k] = append([]string(nil), vs...)
	}
	stamped.Set("timestamp", strconv.FormatInt(s.now().UnixMilli(), 10))
	if s.recvWindowMs > 0 {
		stamped.Set("recvWindow", strconv.FormatInt(s.recvWindowMs, 10))
	}

	payload := stamped.Encode()
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(payload))

	return payload + "&signature=" + hex.EncodeToString(mac.Sum(nil))
}
