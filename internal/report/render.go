package report

import (
	"fmt"
	"io"
	"strings"

	"portfolio_analysis/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorBorder  = lipgloss.Color("#4D4C57")
	colorMuted   = lipgloss.Color("#858392")
	colorGain    = lipgloss.Color("#00FFB2")
	colorLoss    = lipgloss.Color("#E94090")
	colorWarning = lipgloss.Color("#FFD300")
	colorInfo    = lipgloss.Color("#00CED1")
)

// Printer renders reports for one destination. Colors are only emitted when the
// destination is a terminal.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, r: lipgloss.NewRenderer(w)}
}

func (p *Printer) style() lipgloss.Style { return p.r.NewStyle() }

// newTable returns a table with the shared look. Column 0 is left aligned, the rest right aligned.
func (p *Printer) newTable(headers ...string) *table.Table {
	header := p.style().Bold(true).Foreground(colorInfo).Padding(0, 1)
	cell := p.style().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.style().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = header
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
}

// Render writes the holdings table followed by the summary block.
func (p *Printer) Render(portfolio *models.Portfolio, s Summary) error {
	ranges := make(map[string]ErrorBar)
	for _, b := range ErrorBars(portfolio) {
		ranges[b.Ticker] = b
	}

	t := p.newTable("Stock", "Latest price", "Today %", "Day range", "Total %", "Portfolio %", "Status")
	for _, r := range portfolio.Rows() {
		latest := ""
		if r.LatestPrice.Valid {
			latest = Price(r.LatestPrice.Value)
		}
		dayRange := ""
		if b, ok := ranges[r.Ticker]; ok && r.Kind == models.KindHolding {
			dayRange = fmt.Sprintf("-%s / +%s", Percent(b.Low), Percent(b.High))
		}
		t.Row(r.Ticker, latest, SignedPercent(r.DailyGainPct), dayRange,
			SignedPercent(r.TotalGainPct), Percent(r.PortfolioWeight), r.Status.Marker())
	}

	var b strings.Builder
	if s.Name != "" {
		b.WriteString(p.style().Bold(true).Render(s.Name) + "\n")
	}
	b.WriteString(t.Render() + "\n")
	b.WriteString(p.summaryBlock(s))

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) summaryBlock(s Summary) string {
	label := p.style().Foreground(colorMuted)
	gain := func(v float64, text string) string {
		switch {
		case v > 0:
			return p.style().Foreground(colorGain).Render(text)
		case v < 0:
			return p.style().Foreground(colorLoss).Render(text)
		}
		return text
	}

	var b strings.Builder
	line := func(name, value string) {
		fmt.Fprintf(&b, "%s\n\t%s\n", label.Render(name+":"), value)
	}

	line("Portfolio value", Dollar(s.Value))
	line("Today's gain/loss value", fmt.Sprintf("%s\n\t\t%s",
		gain(s.DailyGainAbs, Dollar(s.DailyGainAbs)), gain(s.DailyGainPct, Percent(s.DailyGainPct))))
	if s.Benchmark != nil {
		line("Benchmark", fmt.Sprintf("%s %s", s.Benchmark.Ticker, Percent(s.Benchmark.DailyGainPct)))
		line("Spread over benchmark", fmt.Sprintf("%s %s", s.Benchmark.Ticker, gain(s.Benchmark.Spread, Percent(s.Benchmark.Spread))))
	}
	line("Total gain/loss", fmt.Sprintf("%s\n\t\t%s",
		gain(s.TotalGainAbs, Dollar(s.TotalGainAbs)), gain(s.TotalGainPct, Percent(s.TotalGainPct))))

	movers := func(title string, ms []Mover) {
		fmt.Fprintf(&b, "%s\n", label.Render(fmt.Sprintf(title, len(ms))))
		for _, m := range ms {
			fmt.Fprintf(&b, "\t%s %s\n", m.Ticker, gain(m.DailyGainPct, Percent(m.DailyGainPct)))
		}
	}
	movers("Today's top %d gainers:", s.Top)
	movers("Today's bottom %d gainers:", s.Bottom)

	if len(s.Highlights) > 0 {
		line("Over target and up", p.style().Foreground(colorWarning).Render(strings.Join(s.Highlights, ", ")))
	}
	return b.String()
}

// Text is the Markdown summary sent as a notification.
func Text(s Summary) string {
	var b strings.Builder
	title := "Portfolio"
	if s.Name != "" {
		title = s.Name
	}
	fmt.Fprintf(&b, "*%s* %s\n", title, s.AsOf.Format("02-01-2006 15:04"))
	fmt.Fprintf(&b, "Value: %s\n", Dollar(s.Value))
	fmt.Fprintf(&b, "Today: %s (%s)\n", Dollar(s.DailyGainAbs), SignedPercent(s.DailyGainPct))
	if s.Benchmark != nil {
		fmt.Fprintf(&b, "%s: %s, spread %s\n", s.Benchmark.Ticker, SignedPercent(s.Benchmark.DailyGainPct), SignedPercent(s.Benchmark.Spread))
	}
	fmt.Fprintf(&b, "Total: %s (%s)\n", Dollar(s.TotalGainAbs), SignedPercent(s.TotalGainPct))

	list := func(ms []Mover) string {
		parts := make([]string, len(ms))
		for i, m := range ms {
			parts[i] = fmt.Sprintf("%s %s", m.Ticker, SignedPercent(m.DailyGainPct))
		}
		return strings.Join(parts, ", ")
	}
	if len(s.Top) > 0 {
		fmt.Fprintf(&b, "Top: %s\n", list(s.Top))
		fmt.Fprintf(&b, "Bottom: %s\n", list(s.Bottom))
	}
	if len(s.Highlights) > 0 {
		fmt.Fprintf(&b, "Go: %s\n", strings.Join(s.Highlights, ", "))
	}
	return b.String()
}
