// Package dataset loads historical price series from CSV files. The engine
// itself never does I/O; everything here runs before a backtest starts.
//
// The expected layout is a wide end-of-day table: a Date column followed by
// one column per instrument, e.g.
//
//	Date,AAPL.O,MSFT.O
//	2010-01-04,30.57,30.95
//	2010-01-05,30.63,
//
// Blank cells are skipped (the row is dropped for that instrument). Files
// compressed with xz (.xz) or packed in a zip archive (.zip) are handled
// transparently.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/backtest/market"
)

const dateLayout = "2006-01-02"

// Load reads the price column for symbol from the CSV at path, keeps rows
// with dates in [from, to] (zero times mean unbounded), and builds a Series.
// Log returns are computed over the filtered rows, so the range is applied
// before return computation.
func Load(path, symbol string, from, to time.Time) (*market.Series, error) {
	r, closer, err := openData(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	dates, prices, err := readColumn(r, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	s, err := market.NewSeries(symbol, dates, prices)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return s, nil
}

// openData opens path as a plain, xz-compressed, or zipped CSV stream.
func openData(path string) (io.Reader, func() error, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return openZip(path)

	case strings.HasSuffix(path, ".xz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("dataset %s: xz: %w", path, err)
		}
		return r, f.Close, nil

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}

// openZip extracts the archive to a scratch directory and opens the first
// CSV found inside.
func openZip(path string) (io.Reader, func() error, error) {
	dir, err := os.MkdirTemp("", "dataset-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	if err := unzip.Extract(path, dir); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("dataset %s: unzip: %w", path, err)
	}

	var csvPath string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".csv") && csvPath == "" {
			csvPath = p
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if csvPath == "" {
		cleanup()
		return nil, nil, fmt.Errorf("dataset %s: no CSV file in archive", path)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return f, func() error {
		f.Close()
		return cleanup()
	}, nil
}

func readColumn(r io.Reader, symbol string, from, to time.Time) ([]time.Time, []float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), symbol) {
			col = i
			break
		}
	}
	if col <= 0 {
		return nil, nil, fmt.Errorf("symbol %q not found (columns: %s): %w",
			symbol, strings.Join(header[1:], ", "), market.ErrInvalidRange)
	}

	var dates []time.Time
	var prices []float64

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) <= col {
			continue
		}

		d, err := time.Parse(dateLayout, strings.TrimSpace(row[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("bad date %q: %w", row[0], err)
		}
		if !inRange(d, from, to) {
			continue
		}

		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		p, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad price %q at %s: %w", cell, row[0], err)
		}

		dates = append(dates, d)
		prices = append(prices, p)
	}

	return dates, prices, nil
}

// inRange keeps t in [from, to]; both ends inclusive, zero means unbounded.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
