package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"futuresbot/internal/adapters/inbound/binance_ws"
	"futuresbot/internal/adapters/outbound/binance_http"
	"futuresbot/internal/audit"
	"futuresbot/internal/config"
	"futuresbot/internal/core/execution"
	"futuresbot/internal/core/order"
	"futuresbot/internal/core/symbol"
	"futuresbot/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel), cfg.LogFile)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "order":
		err = cmdOrder(ctx, cfg, os.Args[2:])
	case "status":
		err = cmdStatus(ctx, cfg, os.Args[2:])
	case "open":
		err = cmdOpen(ctx, cfg, os.Args[2:])
	case "cancel":
		err = cmdCancel(ctx, cfg, os.Args[2:])
	case "balance":
		err = cmdBalance(ctx, cfg, os.Args[2:])
	case "price":
		err = cmdPrice(ctx, cfg, os.Args[2:])
	case "time":
		err = cmdTime(ctx, cfg)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(exitCode(err))
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `futuresbot — Binance Futures Testnet order CLI

Usage: futuresbot <command> [flags]

Commands:
  order    place a MARKET or LIMIT order
  status   look up an order by id or client id
  open     list open orders
  cancel   cancel an open order
  balance  show futures account balance
  price    show (or follow) the price of a symbol
  time     check connectivity and clock skew

Run 'futuresbot <command> -h' for command flags.
Credentials: BINANCE_API_KEY / BINANCE_API_SECRET (env or .env);
testnet keys at https://testnet.binancefuture.com
`)
}

// errUsage marks operator mistakes (missing flags, missing creds) that
// should exit 2 like validation failures.
var errUsage = errors.New("usage")

func exitCode(err error) int {
	var verr *order.ValidationError
	if errors.As(err, &verr) || errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

func signedClient(cfg *config.Config) (*binance_http.Client, error) {
	signer := binance_http.NewSigner(cfg.APIKey, cfg.APISecret, cfg.RecvWindowMs)
	if !signer.Enabled() {
		return nil, fmt.Errorf("%w: BINANCE_API_KEY / BINANCE_API_SECRET not set (testnet keys: https://testnet.binancefuture.com)", errUsage)
	}
	return binance_http.NewClient(cfg.BaseURL, signer, cfg.RequestTimeout), nil
}

func publicClient(cfg *config.Config) *binance_http.Client {
	return binance_http.NewClient(cfg.BaseURL, binance_http.NewSigner("", "", 0), cfg.RequestTimeout)
}

func cmdOrder(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	symbolF := fs.String("symbol", "", "instrument symbol, e.g. BTCUSDT")
	sideF := fs.String("side", "", "BUY or SELL")
	typeF := fs.String("type", "MARKET", "MARKET or LIMIT")
	qtyF := fs.String("qty", "", "order quantity in base asset")
	priceF := fs.String("price", "", "limit price (LIMIT only)")
	tifF := fs.String("tif", "", "time in force for LIMIT orders (default GTC)")
	reduceF := fs.Bool("reduce-only", false, "reduce-only order")
	clientIDF := fs.String("client-id", "", "custom client order id")
	skipFiltersF := fs.Bool("skip-filters", false, "skip the exchangeInfo filter check")
	fs.Parse(args)

	side, err := order.ParseSide(*sideF)
	if err != nil {
		return &order.ValidationError{Field: "side", Reason: err.Error()}
	}
	typ, err := order.ParseType(*typeF)
	if err != nil {
		return &order.ValidationError{Field: "type", Reason: err.Error()}
	}
	if *qtyF == "" {
		return &order.ValidationError{Field: "quantity", Reason: "-qty is required"}
	}
	qty, err := decimal.NewFromString(*qtyF)
	if err != nil {
		return &order.ValidationError{Field: "quantity", Reason: fmt.Sprintf("%q is not a number", *qtyF)}
	}
	var price decimal.Decimal
	if *priceF != "" {
		price, err = decimal.NewFromString(*priceF)
		if err != nil {
			return &order.ValidationError{Field: "price", Reason: fmt.Sprintf("%q is not a number", *priceF)}
		}
	}

	client, err := signedClient(cfg)
	if err != nil {
		return err
	}

	var guard *execution.LimitsGuard
	if cfg.TradeLimitsPath != "" {
		limits, err := config.LoadTradeLimits(cfg.TradeLimitsPath)
		if err != nil {
			return err
		}
		guard = execution.NewLimitsGuard(limits)
	}

	var filters execution.FilterSource
	if !*skipFiltersF {
		filters = binance_http.NewFilterCache(client)
	}

	var journal execution.Journal
	if cfg.AuditDBPath != "" {
		store, err := audit.Open(cfg.AuditDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		journal = store
	}

	sub := execution.NewSubmitter(client, guard, filters, journal)
	res, err := sub.Submit(ctx, order.Request{
		Symbol:        *symbolF,
		Side:          side,
		Type:          typ,
		Quantity:      qty,
		Price:         price,
		TimeInForce:   *tifF,
		ReduceOnly:    *reduceF,
		ClientOrderID: *clientIDF,
	})
	if err != nil {
		return err
	}

	printResult(res)
	telemetry.Infof("session: submitted=%d errors=%d rejects=%d api_requests=%d order_p50=%s",
		telemetry.Metrics.OrdersSubmitted.Value(),
		telemetry.Metrics.OrderErrors.Value(),
		telemetry.Metrics.ValidationRejects.Value(),
		telemetry.Metrics.APIRequests.Value(),
		telemetry.Metrics.OrderLatency.P50(),
	)
	return nil
}

func cmdStatus(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	symbolF := fs.String("symbol", "", "instrument symbol")
	idF := fs.Int64("id", 0, "exchange order id")
	clientIDF := fs.String("client-id", "", "client order id")
	fs.Parse(args)

	sym, err := symbol.Normalize(*symbolF)
	if err != nil {
		return &order.ValidationError{Field: "symbol", Reason: err.Error()}
	}
	if *idF == 0 && *clientIDF == "" {
		return fmt.Errorf("%w: one of -id or -client-id is required", errUsage)
	}

	client, err := signedClient(cfg)
	if err != nil {
		return err
	}
	res, err := client.GetOrder(ctx, sym, *idF, *clientIDF)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func cmdOpen(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	symbolF := fs.String("symbol", "", "limit to one symbol (optional)")
	fs.Parse(args)

	sym := ""
	if *symbolF != "" {
		var err error
		sym, err = symbol.Normalize(*symbolF)
		if err != nil {
			return &order.ValidationError{Field: "symbol", Reason: err.Error()}
		}
	}

	client, err := signedClient(cfg)
	if err != nil {
		return err
	}
	results, err := client.OpenOrders(ctx, sym)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no open orders")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%d | %s | %s %s | qty=%s filled=%s | price=%s | %s\n",
			r.OrderID, r.Symbol, r.Side, r.Type, r.Quantity, r.ExecutedQty, r.Price, r.Status)
	}
	return nil
}

func cmdCancel(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	symbolF := fs.String("symbol", "", "instrument symbol")
	idF := fs.Int64("id", 0, "exchange order id")
	fs.Parse(args)

	sym, err := symbol.Normalize(*symbolF)
	if err != nil {
		return &order.ValidationError{Field: "symbol", Reason: err.Error()}
	}
	if *idF == 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	client, err := signedClient(cfg)
	if err != nil {
		return err
	}
	res, err := client.CancelOrder(ctx, sym, *idF)
	if err != nil {
		return err
	}
	fmt.Printf("cancelled order %d (%s): %s\n", res.OrderID, res.Symbol, res.Status)
	return nil
}

func cmdBalance(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	assetF := fs.String("asset", "", "show a single asset (default: all non-zero)")
	fs.Parse(args)

	client, err := signedClient(cfg)
	if err != nil {
		return err
	}

	if *assetF != "" {
		b, err := client.GetBalance(ctx, *assetF)
		if err != nil {
			return err
		}
		fmt.Printf("%s: total=%s available=%s\n", b.Asset, b.Total, b.Available)
		return nil
	}

	balances, err := client.Balances(ctx)
	if err != nil {
		return err
	}
	shown := 0
	for _, b := range balances {
		if b.Total.Sign() == 0 {
			continue
		}
		fmt.Printf("%s: total=%s available=%s\n", b.Asset, b.Total, b.Available)
		shown++
	}
	if shown == 0 {
		fmt.Println("no balances")
	}
	return nil
}

func cmdPrice(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	symbolF := fs.String("symbol", "", "instrument symbol")
	followF := fs.Bool("follow", false, "stream best bid/ask until interrupted")
	fs.Parse(args)

	sym, err := symbol.Normalize(*symbolF)
	if err != nil {
		return &order.ValidationError{Field: "symbol", Reason: err.Error()}
	}

	if *followF {
		ws := binance_ws.NewClient(cfg.WSURL)
		err := ws.Follow(ctx, sym, func(t binance_ws.BookTicker) {
			fmt.Printf("%s bid=%s (%s) ask=%s (%s)\n", t.Symbol, t.BidPrice, t.BidQty, t.AskPrice, t.AskQty)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	price, err := publicClient(cfg).LastPrice(ctx, sym)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", sym, price)
	return nil
}

func cmdTime(ctx context.Context, cfg *config.Config) error {
	serverTime, err := publicClient(cfg).ServerTime(ctx)
	if err != nil {
		return err
	}
	skew := time.Since(serverTime)
	fmt.Printf("server time: %s (local skew %s)\n", serverTime.UTC().Format(time.RFC3339), skew.Round(time.Millisecond))
	return nil
}

func printResult(r *order.Result) {
	fmt.Printf("order id:   %d\n", r.OrderID)
	fmt.Printf("client id:  %s\n", r.ClientOrderID)
	fmt.Printf("symbol:     %s\n", r.Symbol)
	fmt.Printf("side/type:  %s %s\n", r.Side, r.Type)
	fmt.Printf("status:     %s\n", r.Status)
	fmt.Printf("quantity:   %s (filled %s)\n", r.Quantity, r.ExecutedQty)
	if r.Type == order.TypeLimit {
		fmt.Printf("price:      %s\n", r.Price)
	}
	if r.AvgPrice.Sign() > 0 {
		fmt.Printf("avg price:  %s\n", r.AvgPrice)
	}
}
