package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, run_id, date, side, units, price, cash, net_wealth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FillID, f.RunID, f.Date, f.Side, f.Units, f.Price, f.Cash, f.NetWealth,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, instrument, strategy, config, start_date, end_date,
		 initial_capital, final_balance, return_pct, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Instrument, r.Strategy, r.Config, r.Start, r.End,
		r.InitialCapital, r.FinalBalance, r.ReturnPct, r.Trades,
	)
	return err
}

// ListFillsByRun returns the fills of a run in date order (ULID fill IDs are
// time-sortable, so ordering by primary key preserves execution order even
// when several fills share a bar date).
func (j *SQLiteJournal) ListFillsByRun(runID string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, run_id, date, side, units, price, cash, net_wealth
		FROM fills WHERE run_id = ? ORDER BY fill_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var f FillRecord
		if err := rows.Scan(&f.FillID, &f.RunID, &f.Date, &f.Side,
			&f.Units, &f.Price, &f.Cash, &f.NetWealth); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	err := j.db.QueryRow(`
		SELECT run_id, created, instrument, strategy, config, start_date, end_date,
		       initial_capital, final_balance, return_pct, trades
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.Created, &r.Instrument, &r.Strategy, &r.Config,
			&r.Start, &r.End, &r.InitialCapital, &r.FinalBalance, &r.ReturnPct, &r.Trades)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("journal: run %q not found", runID)
	}
	return r, err
}

func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, instrument, strategy, config, start_date, end_date,
		       initial_capital, final_balance, return_pct, trades
		FROM runs ORDER BY created`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Created, &r.Instrument, &r.Strategy, &r.Config,
			&r.Start, &r.End, &r.InitialCapital, &r.FinalBalance, &r.ReturnPct, &r.Trades); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
