package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	for _, s := range []Status{StatusNone, StatusWatch, StatusCaution, StatusGo} {
		assert.Equal(t, s, ParseStatus(string(s)))
		assert.Equal(t, s, ParseStatus(s.Marker()))
	}
	assert.Equal(t, "X", StatusGo.Marker())
	assert.Equal(t, StatusNone, ParseStatus("sell"))
}

func TestFloat(t *testing.T) {
	var absent Float
	assert.Equal(t, "", absent.String())
	assert.Equal(t, 7.0, absent.Or(7))

	assert.Equal(t, "0.1", Some(0.1).String())
	assert.Equal(t, "NaN", Some(math.NaN()).String())
	assert.Equal(t, "+Inf", Some(math.Inf(1)).String())
	assert.Equal(t, 2.5, Some(2.5).Or(7))
}

func TestPortfolioRows(t *testing.T) {
	p := &Portfolio{
		Holdings:         []Row{{Ticker: "AAPL"}, {Ticker: CashTicker}},
		WeightedAverages: Row{Ticker: WeightedAveragesLabel, Kind: KindWeightedAverages},
		Totals:           Row{Ticker: TotalsLabel, Kind: KindTotals, Position: 42},
	}

	rows := p.Rows()
	assert.Len(t, rows, 4)
	assert.Equal(t, TotalsLabel, rows[3].Ticker)
	assert.Equal(t, 42.0, p.Value())

	cash, ok := p.Holding(CashTicker)
	assert.True(t, ok)
	assert.True(t, cash.IsCash())
	_, ok = p.Holding("MSFT")
	assert.False(t, ok)
	assert.False(t, p.Totals.IsCash())
}
