// Package journal records what a backtest did: every fill and the final run
// summary. Backends are interchangeable (SQLite, CSV, or nothing).
package journal

import "time"

// FillRecord is one executed fill. Cash and NetWealth are the ledger values
// immediately after the fill was applied.
type FillRecord struct {
	FillID    string
	RunID     string
	Date      time.Time
	Side      string // "buy" or "sell"
	Units     int
	Price     float64
	Cash      float64
	NetWealth float64
}

// RunRecord is the summary of one completed backtest run.
type RunRecord struct {
	RunID          string
	Created        time.Time
	Instrument     string
	Strategy       string
	Config         []byte // strategy config, JSON
	Start          time.Time
	End            time.Time
	InitialCapital float64
	FinalBalance   float64
	ReturnPct      float64
	Trades         int
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordRun(RunRecord) error
	Close() error
}

// Nop discards everything. Useful for runs that only need the in-memory result.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error { return nil }
func (Nop) RecordRun(RunRecord) error   { return nil }
func (Nop) Close() error                { return nil }
