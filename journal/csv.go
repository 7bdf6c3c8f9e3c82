// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	fills *csv.Writer
	runs  *csv.Writer
	ff    *os.File
	rf    *os.File
}

func NewCSV(fillsPath, runsPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	rw := csv.NewWriter(rf)

	if err := fw.Write([]string{"fill_id", "run_id", "date", "side", "units", "price", "cash", "net_wealth"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"run_id", "created", "instrument", "strategy", "start", "end", "initial_capital", "final_balance", "return_pct", "trades"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fills: fw, runs: rw, ff: ff, rf: rf}, nil
}

func (j *CSVJournal) RecordFill(rec FillRecord) error {
	err := j.fills.Write([]string{
		rec.FillID,
		rec.RunID,
		rec.Date.Format("2006-01-02"),
		rec.Side,
		strconv.Itoa(rec.Units),
		f(rec.Price),
		f(rec.Cash),
		f(rec.NetWealth),
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordRun(rec RunRecord) error {
	err := j.runs.Write([]string{
		rec.RunID,
		rec.Created.Format(time.RFC3339),
		rec.Instrument,
		rec.Strategy,
		rec.Start.Format("2006-01-02"),
		rec.End.Format("2006-01-02"),
		f(rec.InitialCapital),
		f(rec.FinalBalance),
		f(rec.ReturnPct),
		strconv.Itoa(rec.Trades),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}

	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.rf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
