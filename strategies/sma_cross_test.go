package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtest/sim"
)

func TestSMACrossInit(t *testing.T) {
	t.Parallel()

	series := seriesOf(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)

	t.Run("valid windows", func(t *testing.T) {
		t.Parallel()
		s := NewSMACross(SMACrossConfig{Fast: 2, Slow: 4})
		require.NoError(t, s.Init(series))
		assert.Equal(t, 4, s.Warmup())
		assert.Len(t, s.fast, series.Len())
		assert.Len(t, s.slow, series.Len())
	})

	t.Run("fast must be below slow", func(t *testing.T) {
		t.Parallel()
		s := NewSMACross(SMACrossConfig{Fast: 4, Slow: 4})
		assert.Error(t, s.Init(series))
	})

	t.Run("window exceeding series", func(t *testing.T) {
		t.Parallel()
		s := NewSMACross(SMACrossConfig{Fast: 2, Slow: 50})
		assert.Error(t, s.Init(series))
	})

	t.Run("non-positive window", func(t *testing.T) {
		t.Parallel()
		s := NewSMACross(SMACrossConfig{Fast: 0, Slow: 4})
		assert.Error(t, s.Init(series))
	})
}

func TestSMACrossEvaluateLongOnly(t *testing.T) {
	t.Parallel()

	s := &SMACross{
		fast: []float64{11, 9, 10},
		slow: []float64{10, 10, 10},
	}
	policy := sim.Policy{}

	tests := []struct {
		name string
		i    int
		pos  sim.Position
		want Signal
	}{
		{"flat fast above enters long", 0, sim.Flat, Signal{Action: EnterLong, Size: sim.AllCash()}},
		{"long fast above holds", 0, sim.Long, hold},
		{"long fast below exits", 1, sim.Long, Signal{Action: Exit}},
		{"flat fast below holds", 1, sim.Flat, hold},
		{"equal averages hold flat", 2, sim.Flat, hold},
		{"equal averages hold long", 2, sim.Long, hold},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, s.Evaluate(tc.i, tc.pos, policy))
		})
	}
}

func TestSMACrossEvaluateLongShort(t *testing.T) {
	t.Parallel()

	s := &SMACross{
		fast: []float64{11, 9, 10},
		slow: []float64{10, 10, 10},
	}
	policy := sim.Policy{AllowShort: true}

	tests := []struct {
		name string
		i    int
		pos  sim.Position
		want Signal
	}{
		{"flat fast above enters long", 0, sim.Flat, Signal{Action: EnterLong, Size: sim.AllCash()}},
		{"short fast above flips long", 0, sim.Short, Signal{Action: EnterLong, Size: sim.AllCash()}},
		{"long fast above holds", 0, sim.Long, hold},
		{"flat fast below enters short", 1, sim.Flat, Signal{Action: EnterShort, Size: sim.AllCash()}},
		{"long fast below flips short", 1, sim.Long, Signal{Action: EnterShort, Size: sim.AllCash()}},
		{"short fast below holds", 1, sim.Short, hold},
		{"equal averages hold everywhere", 2, sim.Long, hold},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, s.Evaluate(tc.i, tc.pos, policy))
		})
	}
}
