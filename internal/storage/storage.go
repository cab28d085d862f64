// Package storage persists the dated performance snapshot of a run as CSV.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio_analysis/internal/models"
)

// ErrInvalidSnapshot is returned when a snapshot file cannot be parsed back.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// snapshotDate is DD-MM-YYYY.
const snapshotDate = "02-01-2006"

// Header is the column order of a snapshot file.
var Header = []string{
	"Stock",
	"Shares",
	"Cost basis per share",
	"Cost basis total",
	"Latest price",
	"Position",
	"Prev close",
	"Prev position",
	"Today $ gain/loss",
	"Today % gain/loss",
	"Total $ gain/loss",
	"Total % gain/loss",
	"Portfolio %",
	"Status",
}

// SnapshotName returns the file name of the snapshot taken at t, e.g. "Performance 18-10-2026.csv".
func SnapshotName(t time.Time) string {
	return fmt.Sprintf("Performance %s.csv", t.Format(snapshotDate))
}

// WriteSnapshot writes every row of p into dir and returns the file path.
// The file is written using an atomic write pattern:
// 1. Write to a temporary file.
// 2. Sync to ensure data is on disk.
// 3. Rename temporary file to destination (atomic operation).
// A snapshot of the same day is replaced.
func WriteSnapshot(dir string, p *models.Portfolio) (string, error) {
	path := filepath.Join(dir, SnapshotName(p.AsOf))

	// Create the temporary file in the same directory so the rename never crosses filesystems.
	f, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpFile := f.Name()
	defer os.Remove(tmpFile) // no-op once renamed
	defer f.Close()

	// CreateTemp opens with 0600; snapshots are meant to be shared.
	if err := f.Chmod(0644); err != nil {
		return "", fmt.Errorf("chmod snapshot: %w", err)
	}

	if err := Encode(f, p); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	// Force sync to disk to prevent data loss on power failure before rename
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync snapshot: %w", err)
	}

	// Close explicitly before renaming (essential on Windows)
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("replace snapshot: %w", err)
	}
	return path, nil
}

// Encode writes the header and all rows of p as CSV.
// Numbers use the shortest representation that parses back to the same float64.
func Encode(w io.Writer, p *models.Portfolio) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range p.Rows() {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(r models.Row) []string {
	return []string{
		r.Ticker,
		format(r.Shares),
		r.CostBasisPerShare.String(),
		format(r.CostBasisTotal),
		r.LatestPrice.String(),
		format(r.Position),
		r.PrevClose.String(),
		format(r.PrevPosition),
		format(r.DailyGainAbs),
		format(r.DailyGainPct),
		format(r.TotalGainAbs),
		format(r.TotalGainPct),
		format(r.PortfolioWeight),
		r.Status.Marker(),
	}
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadSnapshot parses a snapshot file written by WriteSnapshot.
// AsOf is recovered from the file name when it follows SnapshotName.
func ReadSnapshot(path string) (*models.Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "Performance "), ".csv")
	if t, err := time.ParseInLocation(snapshotDate, name, time.Local); err == nil {
		p.AsOf = t
	}
	return p, nil
}

// Decode reads a snapshot. Rows labelled as summary rows fill the typed summary fields.
func Decode(r io.Reader) (*models.Portfolio, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidSnapshot, err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidSnapshot, i+1, header[i], name)
		}
	}

	p := &models.Portfolio{}
	var seenAvg, seenTotals bool
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSnapshot, line, err)
		}

		switch row.Kind {
		case models.KindWeightedAverages:
			p.WeightedAverages, seenAvg = row, true
		case models.KindTotals:
			p.Totals, seenTotals = row, true
		default:
			p.Holdings = append(p.Holdings, row)
		}
	}

	if !seenAvg || !seenTotals {
		return nil, fmt.Errorf("%w: missing summary rows", ErrInvalidSnapshot)
	}
	return p, nil
}

func parseRecord(rec []string) (models.Row, error) {
	r := models.Row{Ticker: rec[0], Kind: kindOf(rec[0]), Status: models.ParseStatus(rec[13])}

	numbers := []struct {
		dst *float64
		col int
	}{
		{&r.Shares, 1},
		{&r.CostBasisTotal, 3},
		{&r.Position, 5},
		{&r.PrevPosition, 7},
		{&r.DailyGainAbs, 8},
		{&r.DailyGainPct, 9},
		{&r.TotalGainAbs, 10},
		{&r.TotalGainPct, 11},
		{&r.PortfolioWeight, 12},
	}
	for _, n := range numbers {
		v, err := strconv.ParseFloat(rec[n.col], 64)
		if err != nil {
			return r, fmt.Errorf("%s: %s: %w", r.Ticker, Header[n.col], err)
		}
		*n.dst = v
	}

	nullable := []struct {
		dst *models.Float
		col int
	}{
		{&r.CostBasisPerShare, 2},
		{&r.LatestPrice, 4},
		{&r.PrevClose, 6},
	}
	for _, n := range nullable {
		if rec[n.col] == "" {
			continue
		}
		v, err := strconv.ParseFloat(rec[n.col], 64)
		if err != nil {
			return r, fmt.Errorf("%s: %s: %w", r.Ticker, Header[n.col], err)
		}
		*n.dst = models.Some(v)
	}
	return r, nil
}

func kindOf(ticker string) models.RowKind {
	switch ticker {
	case models.WeightedAveragesLabel:
		return models.KindWeightedAverages
	case models.TotalsLabel:
		return models.KindTotals
	}
	return models.KindHolding
}
