package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "btcusdt", want: "BTCUSDT"},
		{in: " ETHUSDT ", want: "ETHUSDT"},
		{in: "1000SHIBUSDT", want: "1000SHIBUSDT"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "BTC-USDT", wantErr: true},
		{in: "btc/usdt", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
