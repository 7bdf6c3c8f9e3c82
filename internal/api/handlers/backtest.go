package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/backtest/backtest"
	"github.com/rustyeddy/backtest/internal/api/models"
	"github.com/rustyeddy/backtest/journal"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
	"github.com/rustyeddy/backtest/strategies"
)

const dateLayout = "2006-01-02"

// BacktestHandler runs backtests over series supplied in the request body.
type BacktestHandler struct {
	// Journal, when set, persists every run executed through the API.
	Journal journal.Journal
}

func NewBacktestHandler(j journal.Journal) *BacktestHandler {
	return &BacktestHandler{Journal: j}
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	series, err := seriesFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_SERIES",
				Message: err.Error(),
			},
		})
		return
	}

	strat, err := strategies.ByName(req.Strategy.Name,
		req.Strategy.Fast, req.Strategy.Slow, req.Strategy.Window, req.Strategy.Threshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_STRATEGY",
				Message: err.Error(),
			},
		})
		return
	}

	runner := &backtest.Runner{
		Series:         series,
		Strategy:       strat,
		Policy:         sim.Policy{AllowShort: req.AllowShort},
		InitialCapital: req.InitialCapital,
		Costs: sim.Costs{
			Fixed:        req.FixedCost,
			Proportional: req.ProportionalCost,
		},
		Journal: h.Journal,
	}

	res, err := runner.Run(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		code := "RUN_ERROR"
		if errors.Is(err, backtest.ErrInvalidParameter) {
			status, code = http.StatusBadRequest, "INVALID_PARAMETER"
		} else if errors.Is(err, market.ErrInvalidRange) {
			status, code = http.StatusBadRequest, "INVALID_RANGE"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(res, req.Verbose))
}

func seriesFromRequest(req models.BacktestRequest) (*market.Series, error) {
	dates := make([]time.Time, 0, len(req.Bars))
	prices := make([]float64, 0, len(req.Bars))
	for _, b := range req.Bars {
		d, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
		prices = append(prices, b.Price)
	}
	symbol := req.Symbol
	if symbol == "" {
		symbol = "UNKNOWN"
	}
	return market.NewSeries(symbol, dates, prices)
}

func toResponse(res backtest.Result, withFills bool) models.BacktestResponse {
	out := models.BacktestResponse{
		RunID:             res.RunID,
		Strategy:          res.Strategy,
		Instrument:        res.Instrument,
		Start:             res.Start.Format(dateLayout),
		End:               res.End.Format(dateLayout),
		InitialCapital:    res.InitialCapital,
		FinalBalance:      res.FinalBalance,
		NetPerformancePct: res.NetPerformancePct,
		Trades:            res.Trades,
	}
	if withFills {
		for _, f := range res.Fills {
			out.Fills = append(out.Fills, models.FillOutput{
				Date:      f.Date.Format(dateLayout),
				Side:      f.Side.String(),
				Units:     f.Units,
				Price:     f.Price,
				Cash:      f.Cash,
				NetWealth: f.NetWealth,
			})
		}
	}
	return out
}
