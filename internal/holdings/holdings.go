// Package holdings reads the portfolio file: one row per position with the columns
// Stock, Shares and Cost basis per share.
package holdings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"portfolio_analysis/internal/models"
)

// ErrInvalidFile is returned when the portfolio file cannot be parsed.
var ErrInvalidFile = errors.New("invalid portfolio file")

// Required header columns.
const (
	ColStock     = "Stock"
	ColShares    = "Shares"
	ColCostBasis = "Cost basis per share"
)

// Load reads holdings from the CSV file at path.
func Load(path string) ([]models.Holding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	holdings, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return holdings, nil
}

// Read parses holdings from CSV. Columns may appear in any order and extra columns
// are ignored. Blank lines are skipped.
func Read(r io.Reader) ([]models.Holding, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	idx, err := columns(header, ColStock, ColShares, ColCostBasis)
	if err != nil {
		return nil, err
	}

	var holdings []models.Holding
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		h, err := parse(record, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFile, line, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// columns maps each wanted header name to its index.
func columns(header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Spreadsheets often save a BOM in front of the first cell.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[h] = i
	}
	for _, name := range names {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidFile, name)
		}
	}
	return idx, nil
}

func parse(record []string, idx map[string]int) (models.Holding, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	h := models.Holding{Ticker: field(ColStock)}
	if h.Ticker == "" {
		return h, errors.New("empty ticker")
	}

	var err error
	if h.Shares, err = number(field(ColShares)); err != nil {
		return h, fmt.Errorf("%s: shares: %w", h.Ticker, err)
	}
	if h.CostBasisPerShare, err = number(field(ColCostBasis)); err != nil {
		return h, fmt.Errorf("%s: cost basis: %w", h.Ticker, err)
	}
	return h, nil
}

// number parses a numeric cell, tolerating "$" and thousands separators.
func number(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return 0, errors.New("missing value")
	}
	return strconv.ParseFloat(s, 64)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
