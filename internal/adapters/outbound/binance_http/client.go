package binance_http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"futuresbot/internal/core/order"
	"futuresbot/internal/telemetry"
)

// Client talks to the Binance USDⓈ-M Futures REST API (testnet by
// default). Signed endpoints carry the HMAC signature in the query
// string; all parameters travel in the query string even on POST, which
// the API accepts for every endpoint used here.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	signer       *Signer
	readLimiter  *rate.Limiter
	writeLimiter *rate.Limiter
}

func NewClient(baseURL string, signer *Signer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		signer:       signer,
		readLimiter:  rate.NewLimiter(rate.Limit(20), 20),
		writeLimiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, signed bool) ([]byte, int, error) {
	lim := c.readLimiter
	if method != http.MethodGet {
		lim = c.writeLimiter
	}
	if err := lim.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	var rawQuery string
	if signed {
		if !c.signer.Enabled() {
			return nil, 0, fmt.Errorf("signed endpoint %s requires API credentials", path)
		}
		rawQuery = c.signer.Sign(q)
	} else if len(q) > 0 {
		rawQuery = q.Encode()
	}

	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &order.ExchangeError{Msg: fmt.Sprintf("transport: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &order.ExchangeError{Msg: fmt.Sprintf("read response: %v", err), HTTPStatus: resp.StatusCode}
	}

	telemetry.Metrics.APIRequests.Inc()
	telemetry.Debugf("binance_http: %s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start))

	return respBody, resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, signed bool) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, q, signed)
}

func (c *Client) post(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	return c.do(ctx, http.MethodPost, path, q, true)
}

func (c *Client) delete(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	return c.do(ctx, http.MethodDelete, path, q, true)
}

// apiError turns a non-2xx Binance response into an *order.ExchangeError,
// carrying the {"code":-NNNN,"msg":"…"} body verbatim when present.
func apiError(status int, body []byte) error {
	var b struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &b); err != nil || b.Msg == "" {
		return &order.ExchangeError{Msg: string(body), HTTPStatus: status}
	}
	return &order.ExchangeError{Code: b.Code, Msg: b.Msg, HTTPStatus: status}
}
