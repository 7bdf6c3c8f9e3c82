// Package indicators provides the rolling calculations strategies precompute
// before a backtest loop begins.
package indicators

import (
	"fmt"
	"math"
)

// RollingMean computes the simple moving average of values over the given
// window. The result is aligned with the input: positions before the window
// is first complete (i < window-1) are NaN so callers can tell warm-up bars
// from real values.
func RollingMean(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(values) < window {
		return nil, fmt.Errorf("not enough values: need %d, got %d", window, len(values))
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// MA returns the simple moving average of the last window values.
func MA(values []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(values) < window {
		return 0, fmt.Errorf("not enough values: need %d, got %d", window, len(values))
	}

	sum := 0.0
	for i := len(values) - window; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(window), nil
}
