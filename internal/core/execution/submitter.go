package execution

import (
	"context"
	"time"

	"futuresbot/internal/core/order"
	"futuresbot/internal/core/symbol"
	"futuresbot/internal/telemetry"
)

// Submitter is the order-request validation and submission pipeline:
// validate locally, apply the optional limits guard and exchange filter
// checks, then make exactly one PlaceOrder call. Each Submit is a single
// stateless transaction — there is no retry and no dedup; submitting the
// same request twice places two orders.
type Submitter struct {
	client  OrderPlacer
	guard   *LimitsGuard // optional
	filters FilterSource // optional
	journal Journal      // optional
}

func NewSubmitter(client OrderPlacer, guard *LimitsGuard, filters FilterSource, journal Journal) *Submitter {
	return &Submitter{
		client:  client,
		guard:   guard,
		filters: filters,
		journal: journal,
	}
}

// Submit validates req and forwards it to the exchange. Validation
// failures return a *order.ValidationError without any exchange call;
// exchange-side failures are surfaced verbatim as *order.ExchangeError.
func (s *Submitter) Submit(ctx context.Context, req order.Request) (*order.Result, error) {
	sym, err := symbol.Normalize(req.Symbol)
	if err != nil {
		return nil, s.reject(ctx, req, &order.ValidationError{Field: "symbol", Reason: err.Error()})
	}
	req.Symbol = sym
	req = req.Normalized()

	if err := req.Validate(); err != nil {
		return nil, s.reject(ctx, req, err)
	}

	if s.guard != nil {
		if err := s.guard.Check(req); err != nil {
			return nil, s.reject(ctx, req, err)
		}
	}

	if s.filters != nil {
		adjusted, err := s.applyFilters(ctx, req)
		if err != nil {
			if verr, ok := err.(*order.ValidationError); ok {
				return nil, s.reject(ctx, req, verr)
			}
			return nil, s.fail(ctx, req, err)
		}
		req = adjusted
	}

	telemetry.Infof("submit: %s %s %s qty=%s price=%s tif=%s client_id=%s",
		req.Side, req.Type, req.Symbol, req.Quantity, req.Price, req.TimeInForce, req.ClientOrderID)

	start := time.Now()
	res, err := s.client.PlaceOrder(ctx, req)
	telemetry.Metrics.OrderLatency.Record(time.Since(start))
	if err != nil {
		return nil, s.fail(ctx, req, err)
	}

	telemetry.Infof("order placed: id=%d status=%s %s %s %s qty=%s price=%s",
		res.OrderID, res.Status, res.Side, res.Type, res.Symbol, res.Quantity, res.Price)
	s.record(ctx, req, res, nil)
	return res, nil
}

// applyFilters checks req against the symbol's exchange filters and
// quantizes quantity/price down to the allowed step, matching what the
// matching engine would otherwise reject.
func (s *Submitter) applyFilters(ctx context.Context, req order.Request) (order.Request, error) {
	f, ok, err := s.filters.SymbolFilters(ctx, req.Symbol)
	if err != nil {
		return req, err
	}
	if !ok {
		return req, &order.ValidationError{Field: "symbol", Reason: req.Symbol + " is unknown to the exchange"}
	}
	if !f.Trading {
		return req, &order.ValidationError{Field: "symbol", Reason: req.Symbol + " is not currently trading"}
	}

	if q := f.QuantizeQty(req.Quantity); !q.Equal(req.Quantity) {
		telemetry.Warnf("submit: quantity %s not on step %s, adjusted to %s", req.Quantity, f.StepQty, q)
		req.Quantity = q
	}
	if req.Quantity.Sign() <= 0 {
		return req, &order.ValidationError{Field: "quantity", Reason: "rounds to zero at step size " + f.StepQty.String()}
	}
	if f.MinQty.Sign() > 0 && req.Quantity.LessThan(f.MinQty) {
		return req, &order.ValidationError{Field: "quantity", Reason: req.Quantity.String() + " below exchange minimum " + f.MinQty.String()}
	}
	if f.MaxQty.Sign() > 0 && req.Quantity.GreaterThan(f.MaxQty) {
		return req, &order.ValidationError{Field: "quantity", Reason: req.Quantity.String() + " above exchange maximum " + f.MaxQty.String()}
	}

	if req.Type == order.TypeLimit {
		if p := f.QuantizePrice(req.Price); !p.Equal(req.Price) {
			telemetry.Warnf("submit: price %s not on tick %s, adjusted to %s", req.Price, f.TickPrice, p)
			req.Price = p
		}
		if f.MinPrice.Sign() > 0 && req.Price.LessThan(f.MinPrice) {
			return req, &order.ValidationError{Field: "price", Reason: req.Price.String() + " below exchange minimum " + f.MinPrice.String()}
		}
		if f.MaxPrice.Sign() > 0 && req.Price.GreaterThan(f.MaxPrice) {
			return req, &order.ValidationError{Field: "price", Reason: req.Price.String() + " above exchange maximum " + f.MaxPrice.String()}
		}
		if f.MinNotional.Sign() > 0 && req.Notional().LessThan(f.MinNotional) {
			return req, &order.ValidationError{Field: "quantity", Reason: "notional " + req.Notional().String() + " below exchange minimum " + f.MinNotional.String()}
		}
	}

	return req, nil
}

func (s *Submitter) reject(ctx context.Context, req order.Request, err error) error {
	telemetry.Metrics.ValidationRejects.Inc()
	telemetry.Warnf("submit rejected: %s %s %s qty=%s price=%s: %v",
		req.Side, req.Type, req.Symbol, req.Quantity, req.Price, err)
	s.record(ctx, req, nil, err)
	return err
}

func (s *Submitter) fail(ctx context.Context, req order.Request, err error) error {
	telemetry.Metrics.OrderErrors.Inc()
	telemetry.Errorf("submit failed: %s %s %s qty=%s price=%s: %v",
		req.Side, req.Type, req.Symbol, req.Quantity, req.Price, err)
	s.record(ctx, req, nil, err)
	return err
}

// record writes the attempt to the audit journal. A journal failure is
// logged but never changes the submission outcome.
func (s *Submitter) record(ctx context.Context, req order.Request, res *order.Result, submitErr error) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, req, res, submitErr); err != nil {
		telemetry.Warnf("audit journal: %v", err)
	}
}
