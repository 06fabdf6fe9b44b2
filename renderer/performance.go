package renderer

import "github.com/etnz/fundrecon"

// PerformanceSummary is the data of the performance summary.
type PerformanceSummary struct {
	Date   fundrecon.Date
	Months []fundrecon.Performance // best fund of each month
}

// PerformanceMarkdown renders the best fund of every month.
func PerformanceMarkdown(date fundrecon.Date, best []fundrecon.Performance) string {
	partials := map[string]string{
		"performance_months": "performance_months.md",
	}
	return renderTemplate("performance", "performance.md", partials, &PerformanceSummary{Date: date, Months: best})
}
