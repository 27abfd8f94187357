package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SymbolLimits caps a single symbol locally, before any exchange call.
// A zero cap means "no cap".
type SymbolLimits struct {
	MaxQuantity decimal.Decimal
	MaxNotional decimal.Decimal
}

type TradeLimits struct {
	Symbols map[string]SymbolLimits
}

type symbolLimitsYAML struct {
	MaxQuantity string `yaml:"max_quantity"`
	MaxNotional string `yaml:"max_notional"`
}

type tradeLimitsYAML struct {
	Symbols map[string]symbolLimitsYAML `yaml:"symbols"`
}

func LoadTradeLimits(path string) (TradeLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TradeLimits{}, fmt.Errorf("read trade limits: %w", err)
	}

	var raw tradeLimitsYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return TradeLimits{}, fmt.Errorf("parse trade limits: %w", err)
	}

	limits := TradeLimits{Symbols: make(map[string]SymbolLimits, len(raw.Symbols))}
	for sym, sl := range raw.Symbols {
		var parsed SymbolLimits
		if sl.MaxQuantity != "" {
			parsed.MaxQuantity, err = decimal.NewFromString(sl.MaxQuantity)
			if err != nil {
				return TradeLimits{}, fmt.Errorf("trade limits %s: max_quantity: %w", sym, err)
			}
		}
		if sl.MaxNotional != "" {
			parsed.MaxNotional, err = decimal.NewFromString(sl.MaxNotional)
			if err != nil {
				return TradeLimits{}, fmt.Errorf("trade limits %s: max_notional: %w", sym, err)
			}
		}
		limits.Symbols[sym] = parsed
	}

	return limits, nil
}

func (tl TradeLimits) SymbolLimit(symbol string) (SymbolLimits, bool) {
	sl, ok := tl.Symbols[symbol]
	return sl, ok
}
