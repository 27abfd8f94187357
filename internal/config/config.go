package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Binance Futures API (testnet by default)
	BaseURL   string
	WSURL     string
	APIKey    string
	APISecret string

	// Signed-request receive window, milliseconds
	RecvWindowMs int64

	// Local per-symbol trade caps; empty disables the guard
	TradeLimitsPath string

	// Audit journal; empty disables it
	AuditDBPath string

	// Telemetry
	LogLevel string
	LogFile  string

	// HTTP client
	RequestTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL:   envStr("BINANCE_BASE_URL", "https://testnet.binancefuture.com"),
		WSURL:     envStr("BINANCE_WS_URL", "wss://fstream.binancefuture.com/ws"),
		APIKey:    envStr("BINANCE_API_KEY", ""),
		APISecret: envStr("BINANCE_API_SECRET", ""),

		RecvWindowMs: int64(envInt("BINANCE_RECV_WINDOW_MS", 5000)),

		TradeLimitsPath: envStr("TRADE_LIMITS_PATH", ""),
		AuditDBPath:     envStr("AUDIT_DB_PATH", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
		LogFile:  envStr("LOG_FILE", ""),

		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT_SEC", 10)) * time.Second,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
