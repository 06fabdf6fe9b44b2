package renderer

import (
	"slices"
	"strings"

	"github.com/etnz/fundrecon"
	"github.com/shopspring/decimal"
)

// ReconFund is the summary line of one reconciled fund.
type ReconFund struct {
	Fund    string
	Sheet   string
	Rows    int
	MaxDiff string // largest absolute price difference
	Breaks  string // symbols priced differently, comma separated
}

// ReconSummary is the data of the reconciliation summary.
type ReconSummary struct {
	Date     fundrecon.Date
	Funds    []ReconFund
	Missing  []string
	Dropped  string
	Unpriced int
}

// NewReconSummary summarizes a reconciliation.
func NewReconSummary(date fundrecon.Date, rec *fundrecon.Reconciliation, cols fundrecon.ReconColumns) *ReconSummary {
	s := &ReconSummary{
		Date:     date,
		Missing:  rec.Missing,
		Dropped:  strings.Join(rec.Dropped, ", "),
		Unpriced: rec.Unpriced,
	}
	for _, g := range rec.Groups {
		maxDiff := decimal.Zero
		var breaks []string
		for _, r := range g.Rows.Rows() {
			d, ok := r[cols.Diff].Decimal()
			if !ok || d.IsZero() {
				continue
			}
			maxDiff = decimal.Max(maxDiff, d.Abs())
			if sym := r[cols.Symbol].String(); !slices.Contains(breaks, sym) {
				breaks = append(breaks, sym)
			}
		}
		slices.Sort(breaks)
		s.Funds = append(s.Funds, ReconFund{
			Fund:    g.Fund,
			Sheet:   g.Sheet,
			Rows:    g.Rows.Len(),
			MaxDiff: maxDiff.StringFixed(4),
			Breaks:  strings.Join(breaks, ", "),
		})
	}
	return s
}

// ReconMarkdown renders the reconciliation summary.
func ReconMarkdown(date fundrecon.Date, rec *fundrecon.Reconciliation, cols fundrecon.ReconColumns) string {
	partials := map[string]string{
		"recon_funds":  "recon_funds.md",
		"recon_issues": "recon_issues.md",
	}
	return renderTemplate("recon", "recon.md", partials, NewReconSummary(date, rec, cols))
}
