package viz

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/growth"
)

type Renderer struct {
	Theme  Theme
	Styles Styles
	Labels config.Labels
}

func NewRenderer(theme Theme, labels config.Labels) *Renderer {
	if labels.A == "" {
		labels.A = config.DefaultLabelA
	}
	if labels.B == "" {
		labels.B = config.DefaultLabelB
	}
	return &Renderer{Theme: theme, Styles: NewStyles(theme), Labels: labels}
}

// OutcomeText is the unstyled outcome message.
func (r *Renderer) OutcomeText(res *growth.Result) string {
	if res.Outcome == growth.NeverOvertakes {
		return fmt.Sprintf("%s never overtakes %s with these growth rates (gave up after %d years).",
			r.Labels.A, r.Labels.B, res.YearsElapsed)
	}
	if res.YearsElapsed == 0 {
		return fmt.Sprintf("%s already meets or exceeds %s at year 0.", r.Labels.A, r.Labels.B)
	}
	return fmt.Sprintf("After %d years, %s overtakes (or equals) %s.", res.YearsElapsed, r.Labels.A, r.Labels.B)
}

func (r *Renderer) Outcome(res *growth.Result) string {
	if res.Overtaken() {
		return r.Styles.Success.Render("✔ " + r.OutcomeText(res))
	}
	return r.Styles.Failure.Render("✘ " + r.OutcomeText(res))
}

func (r *Renderer) Summary(res *growth.Result) string {
	rows := []struct{ label, value string }{
		{"years elapsed", strconv.Itoa(res.YearsElapsed)},
		{"final " + r.Labels.A, FormatThousands(res.FinalA)},
		{"final " + r.Labels.B, FormatThousands(res.FinalB)},
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row.label))
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.Styles.MetricLabel.Render(fmt.Sprintf("%-*s", width, row.label)))
		sb.WriteString("  ")
		sb.WriteString(r.Styles.MetricValue.Render(row.value))
	}
	return sb.String()
}

func (r *Renderer) Table(w io.Writer, res *growth.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "YEAR\t%s\t%s\tDIFFERENCE (B - A)\t\n", strings.ToUpper(r.Labels.A), strings.ToUpper(r.Labels.B))
	for _, rec := range res.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n",
			rec.Year,
			FormatThousands(rec.PopulationA),
			FormatThousands(rec.PopulationB),
			FormatThousands(rec.Difference),
		)
	}
	return tw.Flush()
}

// Chart plots both populations by year. It returns "" when there is nothing to plot.
func (r *Renderer) Chart(records []growth.YearRecord, width, height int) string {
	if len(records) == 0 {
		return ""
	}

	a := make([]float64, len(records))
	b := make([]float64, len(records))
	for i, rec := range records {
		a[i] = float64(rec.PopulationA)
		b[i] = float64(rec.PopulationB)
	}

	return asciigraph.PlotMany([][]float64{a, b},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(r.Theme.SeriesA, r.Theme.SeriesB),
		asciigraph.SeriesLegends(r.Labels.A, r.Labels.B),
		asciigraph.Caption(fmt.Sprintf("population by year (1-%d)", records[len(records)-1].Year)),
	)
}

// Report joins outcome, summary and chart the way the run command prints them.
func (r *Renderer) Report(res *growth.Result, chartWidth, chartHeight int) string {
	parts := []string{r.Outcome(res), r.Styles.Panel.Render(r.Summary(res))}
	if chart := r.Chart(res.Records, chartWidth, chartHeight); chart != "" {
		parts = append(parts, chart)
	}
	return strings.Join(parts, "\n\n")
}

// FormatThousands groups digits with dots: 1234567 -> "1.234.567".
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var sb strings.Builder
	sb.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteByte('.')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
