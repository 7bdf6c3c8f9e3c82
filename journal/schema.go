// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	side TEXT NOT NULL,
	units INTEGER NOT NULL,
	price REAL NOT NULL,
	cash REAL NOT NULL,
	net_wealth REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	strategy TEXT NOT NULL,
	config BLOB,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	initial_capital REAL NOT NULL,
	final_balance REAL NOT NULL,
	return_pct REAL NOT NULL,
	trades INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_run ON fills(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`
