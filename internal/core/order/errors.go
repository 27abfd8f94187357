package order

import "fmt"

// ValidationError is a local rejection: it identifies the offending field
// and never reaches the exchange.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExchangeError carries an error reported by the exchange client verbatim.
// Code is the Binance error code (e.g. -2019 "Margin is insufficient");
// Code 0 means the failure happened in transport before the exchange
// produced a response.
type ExchangeError struct {
	Code       int
	Msg        string
	HTTPStatus int
}

func (e *ExchangeError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("exchange error %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("exchange error: %s", e.Msg)
}
