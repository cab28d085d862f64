package models

import (
	"math"
	"strconv"
	"time"
)

// CashTicker is the reserved ticker for the cash position.
// It is never looked up and is always priced at 1.
const CashTicker = "Cash"

// Holding is one input row of the portfolio file.
type Holding struct {
	Ticker            string  `json:"ticker"`
	Shares            float64 `json:"shares"`
	CostBasisPerShare float64 `json:"cost_basis_per_share"`
}

// IsCash reports whether h is the cash sentinel.
func (h Holding) IsCash() bool { return h.Ticker == CashTicker }

// Status flags a holding whose weight exceeds the even-share target.
type Status string

const (
	StatusNone    Status = ""
	StatusWatch   Status = "watch"
	StatusCaution Status = "caution"
	StatusGo      Status = "go"
)

// Marker returns the one-character flag used in console tables.
func (s Status) Marker() string {
	switch s {
	case StatusGo:
		return "X"
	case StatusWatch:
		return "/"
	case StatusCaution:
		return "o"
	}
	return ""
}

// ParseStatus accepts either the status name or its marker; anything else is StatusNone.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusWatch, StatusCaution, StatusGo:
		return Status(s)
	}
	for _, st := range []Status{StatusGo, StatusWatch, StatusCaution} {
		if s == st.Marker() {
			return st
		}
	}
	return StatusNone
}

// Float is a float64 that may be absent. Summary rows leave per-share prices unset.
type Float struct {
	Value float64
	Valid bool
}

// Some returns a present Float.
func Some(v float64) Float { return Float{Value: v, Valid: true} }

// Or returns the value, or def when absent.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// String formats the value with full precision, or "" when absent.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// RowKind tells holdings apart from the two summary rows.
type RowKind int

const (
	KindHolding RowKind = iota
	KindWeightedAverages
	KindTotals
)

// Labels of the summary rows, as they appear in the ticker column.
const (
	WeightedAveragesLabel = "Weighted averages"
	TotalsLabel           = "Totals"
)

// Row is the enriched record shared by holdings and summary rows.
type Row struct {
	Ticker string
	Kind   RowKind

	Shares            float64
	CostBasisPerShare Float
	CostBasisTotal    float64

	LatestPrice Float
	Position    float64

	PrevClose    Float
	PrevPosition float64

	DailyGainAbs float64
	DailyGainPct float64
	DayRange     *DayRange

	TotalGainAbs float64
	TotalGainPct float64

	PortfolioWeight float64
	Status          Status
}

// IsCash reports whether r is the cash sentinel holding.
func (r Row) IsCash() bool { return r.Kind == KindHolding && r.Ticker == CashTicker }

// Portfolio is the enriched holdings table of one run.
type Portfolio struct {
	Holdings         []Row
	WeightedAverages Row
	Totals           Row

	// TargetPercentage is the even-share weight plus buffer used by the classifier.
	TargetPercentage float64
	AsOf             time.Time
}

// Rows returns the holdings followed by the weighted averages and totals rows.
func (p *Portfolio) Rows() []Row {
	rows := make([]Row, 0, len(p.Holdings)+2)
	rows = append(rows, p.Holdings...)
	return append(rows, p.WeightedAverages, p.Totals)
}

// Holding returns the row for ticker, if held.
func (p *Portfolio) Holding(ticker string) (Row, bool) {
	for _, r := range p.Holdings {
		if r.Ticker == ticker {
			return r, true
		}
	}
	return Row{}, false
}

// Value is the total position value.
func (p *Portfolio) Value() float64 { return p.Totals.Position }

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
