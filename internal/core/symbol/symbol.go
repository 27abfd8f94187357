package symbol

import (
	"fmt"
	"strings"
)

// Normalize uppercases and trims a user-supplied instrument symbol
// ("btcusdt " -> "BTCUSDT") and rejects anything that is not a plain
// Binance-style ticker (A-Z and digits only).
func Normalize(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("symbol must not be empty")
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("symbol %q contains invalid character %q", s, r)
		}
	}
	return s, nil
}
