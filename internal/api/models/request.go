package models

// BacktestRequest is the payload for POST /api/v1/backtest. The price series
// is supplied inline; the server never fetches data on the caller's behalf.
type BacktestRequest struct {
	Symbol string     `json:"symbol"`
	Bars   []BarInput `json:"bars" binding:"required"`

	InitialCapital   float64 `json:"initial_capital" binding:"required"`
	FixedCost        float64 `json:"fixed_cost"`
	ProportionalCost float64 `json:"proportional_cost"`
	AllowShort       bool    `json:"allow_short"`
	Verbose          bool    `json:"verbose"`

	Strategy StrategyInput `json:"strategy" binding:"required"`
}

// BarInput is one raw observation; returns are computed server-side.
type BarInput struct {
	Date  string  `json:"date"` // 2006-01-02
	Price float64 `json:"price"`
}

// StrategyInput selects and parameterizes the trading rule.
type StrategyInput struct {
	Name      string  `json:"name" binding:"required"`
	Fast      int     `json:"fast,omitempty"`
	Slow      int     `json:"slow,omitempty"`
	Window    int     `json:"window,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}
