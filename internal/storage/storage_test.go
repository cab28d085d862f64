package storage

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portfolio_analysis/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePortfolio() *models.Portfolio {
	return &models.Portfolio{
		Holdings: []models.Row{
			{
				Ticker: "AAPL", Kind: models.KindHolding,
				Shares: 10, CostBasisPerShare: models.Some(100), CostBasisTotal: 1000,
				LatestPrice: models.Some(150.17), Position: 1501.7,
				PrevClose: models.Some(140), PrevPosition: 1400,
				DailyGainAbs: 101.7, DailyGainPct: 101.7 / 1400,
				TotalGainAbs: 501.7, TotalGainPct: 0.5017,
				PortfolioWeight: 1501.7 / 2001.7, Status: models.StatusGo,
			},
			{
				Ticker: "Cash", Kind: models.KindHolding,
				Shares: 500, CostBasisPerShare: models.Some(0), CostBasisTotal: 0,
				LatestPrice: models.Some(1), Position: 500,
				PrevClose: models.Some(1), PrevPosition: 500,
				TotalGainAbs: 500, TotalGainPct: math.Inf(1),
				PortfolioWeight: 500 / 2001.7,
			},
			{
				Ticker: "ZERO", Kind: models.KindHolding,
				CostBasisPerShare: models.Some(3), LatestPrice: models.Some(4), PrevClose: models.Some(4),
				DailyGainPct: math.NaN(), TotalGainPct: math.NaN(),
			},
		},
		WeightedAverages: models.Row{
			Ticker: models.WeightedAveragesLabel, Kind: models.KindWeightedAverages,
			Shares: 170, CostBasisPerShare: models.Some(1.0 / 3), LatestPrice: models.Some(0.1 + 0.2),
			PrevClose: models.Some(3.3), DailyGainPct: math.NaN(),
		},
		Totals: models.Row{
			Ticker: models.TotalsLabel, Kind: models.KindTotals,
			Shares: 510, CostBasisTotal: 1000, Position: 2001.7, PrevPosition: 1900,
			DailyGainAbs: 101.7, DailyGainPct: 101.7 / 1900, TotalGainAbs: 1001.7, TotalGainPct: 1.0017,
			PortfolioWeight: 1,
		},
		AsOf: time.Date(2026, 10, 18, 15, 30, 0, 0, time.Local),
	}
}

// assertSameRow compares bit-for-bit, treating NaN as equal to NaN.
func assertSameRow(t *testing.T, want, got models.Row) {
	t.Helper()
	same := func(name string, a, b float64) {
		if math.IsNaN(a) {
			assert.True(t, math.IsNaN(b), "%s %s", want.Ticker, name)
			return
		}
		assert.Equal(t, math.Float64bits(a), math.Float64bits(b), "%s %s: %v != %v", want.Ticker, name, a, b)
	}
	sameNullable := func(name string, a, b models.Float) {
		require.Equal(t, a.Valid, b.Valid, "%s %s validity", want.Ticker, name)
		if a.Valid {
			same(name, a.Value, b.Value)
		}
	}

	assert.Equal(t, want.Ticker, got.Ticker)
	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Status, got.Status)
	same("shares", want.Shares, got.Shares)
	sameNullable("cost basis per share", want.CostBasisPerShare, got.CostBasisPerShare)
	same("cost basis total", want.CostBasisTotal, got.CostBasisTotal)
	sameNullable("latest", want.LatestPrice, got.LatestPrice)
	same("position", want.Position, got.Position)
	sameNullable("prev close", want.PrevClose, got.PrevClose)
	same("prev position", want.PrevPosition, got.PrevPosition)
	same("daily abs", want.DailyGainAbs, got.DailyGainAbs)
	same("daily pct", want.DailyGainPct, got.DailyGainPct)
	same("total abs", want.TotalGainAbs, got.TotalGainAbs)
	same("total pct", want.TotalGainPct, got.TotalGainPct)
	same("weight", want.PortfolioWeight, got.PortfolioWeight)
}

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "Performance 03-02-2026.csv", SnapshotName(time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)))
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := samplePortfolio()

	path, err := WriteSnapshot(dir, want)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Performance 18-10-2026.csv"), path)

	got, err := ReadSnapshot(path)
	require.NoError(t, err)

	require.Len(t, got.Holdings, len(want.Holdings))
	for i := range want.Holdings {
		assertSameRow(t, want.Holdings[i], got.Holdings[i])
	}
	assertSameRow(t, want.WeightedAverages, got.WeightedAverages)
	assertSameRow(t, want.Totals, got.Totals)
	assert.Equal(t, 2026, got.AsOf.Year())
	assert.Equal(t, time.October, got.AsOf.Month())
	assert.Equal(t, 18, got.AsOf.Day())

	// Writing the parsed snapshot again yields the same bytes.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	var again bytes.Buffer
	require.NoError(t, Encode(&again, got))
	assert.Equal(t, string(first), again.String())
}

func TestWriteSnapshot_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, samplePortfolio()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "AAPL,10,100,1000,150.17,"))
	assert.True(t, strings.HasSuffix(lines[1], ",X"))
	assert.Contains(t, lines[2], "+Inf")
	assert.True(t, strings.HasPrefix(lines[4], "Weighted averages,"))
	assert.True(t, strings.HasPrefix(lines[5], "Totals,510,,1000,,2001.7,,1900,"))
}

func TestWriteSnapshot_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	p := samplePortfolio()

	_, err := WriteSnapshot(dir, p)
	require.NoError(t, err)
	p.Holdings = p.Holdings[:1]
	path, err := WriteSnapshot(dir, p)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, got.Holdings, 1)
}

func TestWriteSnapshot_MissingDir(t *testing.T) {
	_, err := WriteSnapshot(filepath.Join(t.TempDir(), "nope"), samplePortfolio())
	assert.Error(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	header := strings.Join(Header, ",") + "\n"
	cases := map[string]string{
		"empty":           "",
		"wrong header":    strings.Replace(header, "Shares", "Qty", 1),
		"short row":       header + "AAPL,10\n",
		"bad number":      header + "AAPL,x,1,1,1,1,1,1,1,1,1,1,1,\n",
		"no summary rows": header + "AAPL,1,1,1,1,1,1,1,0,0,0,0,1,\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}
