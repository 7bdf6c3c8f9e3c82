package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtest/market"
)

// seriesOf builds a daily series from raw prices. The first raw observation
// only seeds the return of the second, so the series has len(prices)-1 bars.
func seriesOf(t *testing.T, prices ...float64) *market.Series {
	t.Helper()
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(prices))
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	s, err := market.NewSeries("TEST", dates, prices)
	require.NoError(t, err)
	return s
}

func TestByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"sma", "sma-cross"},
		{"sma-cross", "sma-cross"},
		{"SMACross", "sma-cross"},
		{"momentum", "momentum"},
		{"mom", "momentum"},
		{"meanrev", "meanrev"},
		{"mean-reversion", "meanrev"},
		{" Momentum ", "momentum"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := ByName(tc.name, 10, 20, 5, 1.0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Name())
		})
	}

	_, err := ByName("martingale", 10, 20, 5, 1.0)
	assert.Error(t, err)
}

func TestCheckWindow(t *testing.T) {
	t.Parallel()

	assert.NoError(t, checkWindow("x", 5, 10))
	assert.Error(t, checkWindow("x", 0, 10))
	assert.Error(t, checkWindow("x", -3, 10))
	assert.Error(t, checkWindow("x", 10, 10))
	assert.Error(t, checkWindow("x", 11, 10))
}
