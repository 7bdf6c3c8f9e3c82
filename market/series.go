// Package market holds the immutable price data the engine replays.
package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRange is returned when a requested date range yields an empty or
// malformed series. Callers must treat it as fatal for the run.
var ErrInvalidRange = errors.New("market: invalid date range")

// Bar is one discrete time step of the price series (e.g. one trading day).
// Return is the log return relative to the prior bar.
type Bar struct {
	Date   time.Time
	Price  float64
	Return float64
}

// Series is an ordered sequence of bars for a single instrument, ascending by
// date with no gaps in the requested range. It is consumed read-only by the
// engine; multiple concurrent runs may share one Series.
type Series struct {
	Instrument string
	bars       []Bar
}

// NewSeries builds a Series from raw (date, price) observations sorted by
// date. Log returns are computed against the prior observation and the first
// raw bar is dropped because its return is undefined.
func NewSeries(instrument string, dates []time.Time, prices []float64) (*Series, error) {
	if len(dates) != len(prices) {
		return nil, fmt.Errorf("market: %d dates vs %d prices: %w", len(dates), len(prices), ErrInvalidRange)
	}
	if len(prices) < 2 {
		return nil, fmt.Errorf("market: need at least 2 observations, got %d: %w", len(prices), ErrInvalidRange)
	}

	bars := make([]Bar, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("market: dates not strictly ascending at %s: %w",
				dates[i].Format("2006-01-02"), ErrInvalidRange)
		}
		if prices[i] <= 0 || prices[i-1] <= 0 {
			return nil, fmt.Errorf("market: non-positive price at %s: %w",
				dates[i].Format("2006-01-02"), ErrInvalidRange)
		}
		bars = append(bars, Bar{
			Date:   dates[i],
			Price:  prices[i],
			Return: math.Log(prices[i] / prices[i-1]),
		})
	}

	return &Series{Instrument: instrument, bars: bars}, nil
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.bars) }

// Bar returns the bar at index i (ascending date order).
func (s *Series) Bar(i int) Bar { return s.bars[i] }

// First returns the first bar of the series.
func (s *Series) First() Bar { return s.bars[0] }

// Last returns the final bar of the series.
func (s *Series) Last() Bar { return s.bars[len(s.bars)-1] }

// Prices returns a copy of the price column.
func (s *Series) Prices() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Price
	}
	return out
}

// Returns returns a copy of the log-return column.
func (s *Series) Returns() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Return
	}
	return out
}
