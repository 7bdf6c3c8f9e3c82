package models

// BacktestResponse returns the run summary and, when requested, the fills.
type BacktestResponse struct {
	RunID      string `json:"run_id"`
	Strategy   string `json:"strategy"`
	Instrument string `json:"instrument"`

	Start string `json:"start"`
	End   string `json:"end"`

	InitialCapital    float64 `json:"initial_capital"`
	FinalBalance      float64 `json:"final_balance"`
	NetPerformancePct float64 `json:"net_performance_pct"`
	Trades            int     `json:"trades"`

	Fills []FillOutput `json:"fills,omitempty"`
}

type FillOutput struct {
	Date      string  `json:"date"`
	Side      string  `json:"side"`
	Units     int     `json:"units"`
	Price     float64 `json:"price"`
	Cash      float64 `json:"cash"`
	NetWealth float64 `json:"net_wealth"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
