package report

import (
	"fmt"
	"io"
	"strings"

	"portfolio_analysis/internal/basket"
	"portfolio_analysis/internal/history"
)

// RenderRecommendations writes one table per account and side that has recommendations.
func (p *Printer) RenderRecommendations(groups []basket.Group) error {
	var b strings.Builder
	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s the following for the %s account:\n", g.Side, g.Account)
		t := p.newTable("Ticker", "Shares", "Price")
		for _, l := range g.Lines {
			price, _ := l.Price.Float64()
			t.Row(l.Ticker, l.Shares.StringFixed(3), Dollar(price))
		}
		b.WriteString(t.Render() + "\n")
	}
	if b.Len() == 0 {
		b.WriteString("No recommendations.\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// RenderHistory writes the indexed performance of each series.
func (p *Printer) RenderHistory(series []history.Series) error {
	t := p.newTable("Ticker", "From", "To", "Index", "Low", "High")
	for _, s := range series {
		low, high := s.Min(), s.Max()
		t.Row(s.Ticker,
			s.First().Time.Format("2006-01-02"),
			s.Last().Time.Format("2006-01-02"),
			fmt.Sprintf("%.1f", s.Last().Value),
			fmt.Sprintf("%.1f (%s)", low.Value, low.Time.Format("2006-01-02")),
			fmt.Sprintf("%.1f (%s)", high.Value, high.Time.Format("2006-01-02")),
		)
	}
	_, err := io.WriteString(p.w, t.Render()+"\n")
	return err
}
