package etl

import (
	"context"

	"github.com/etnz/fundrecon"
	"github.com/etnz/fundrecon/renderer"
	"github.com/etnz/fundrecon/sheets"
)

// BestFundsSheet is the sheet of the performance workbook.
const BestFundsSheet = "Best Funds"

// ReconReport reconciles the published fund positions against the published
// reference prices and writes one sheet per active fund.
type ReconReport struct {
	Result  *fundrecon.Reconciliation
	Summary string // markdown
	Path    string // workbook written, empty when there was nothing to write
}

func (*ReconReport) Name() string { return "recon" }

func (s *ReconReport) Run(ctx context.Context, env *Env) error {
	s.Result, s.Summary, s.Path = nil, "", ""
	funds, err := env.Query(ctx, env.Config.SQLPubFundsEquitiesData)
	if err != nil {
		return err
	}
	refs, err := env.Query(ctx, env.Config.SQLPubReferenceData)
	if err != nil {
		return err
	}
	active, err := env.FundSource().ActiveFunds(ctx, env)
	if err != nil {
		return err
	}
	env.Log.Info().Int("funds", len(active)).Msg("active funds loaded")

	cols := fundrecon.DefaultReconColumns()
	rec, err := fundrecon.Reconcile(funds, refs, active, cols)
	if err != nil {
		return err
	}
	if len(rec.Dropped) > 0 {
		env.Log.Debug().Strs("columns", rec.Dropped).Msg("overlapping reference columns dropped")
	}
	for _, f := range rec.Missing {
		env.Log.Warn().Str("fund", f).Msg("no data found for fund, sheet skipped")
	}
	if rec.Unpriced > 0 {
		env.Log.Warn().Int("rows", rec.Unpriced).Msg("joined rows without both prices left out")
	}
	s.Result = rec
	s.Summary = renderer.ReconMarkdown(env.Config.DataDate, rec, cols)

	if len(rec.Groups) == 0 {
		env.Log.Warn().Msg("no reconciled row, no workbook written")
		return nil
	}
	pages := make([]sheets.Sheet, 0, len(rec.Groups))
	for _, g := range rec.Groups {
		pages = append(pages, sheets.Sheet{Name: g.Sheet, Table: g.Rows})
		env.Log.Debug().Str("fund", g.Fund).Int("rows", g.Rows.Len()).Msg("sheet prepared")
	}
	path := env.Config.ReconReportPath()
	if err := sheets.Write(path, pages...); err != nil {
		return err
	}
	s.Path = path
	env.Log.Info().Str("path", path).Int("sheets", len(pages)).Msg("reconciliation report written")
	return nil
}

// PerfReport writes the best performing fund of every month.
type PerfReport struct {
	Best    []fundrecon.Performance
	Summary string // markdown
	Path    string // workbook written, empty when there was nothing to write
}

func (*PerfReport) Name() string { return "perf" }

func (s *PerfReport) Run(ctx context.Context, env *Env) error {
	s.Best, s.Summary, s.Path = nil, "", ""
	t, err := env.Query(ctx, env.Config.SQLPubFundsEquitiesData)
	if err != nil {
		return err
	}
	perfs, err := fundrecon.FundPerformances(t, fundrecon.DefaultPerfColumns(), env.Config.Currency)
	if err != nil {
		return err
	}
	s.Best = fundrecon.BestFundPerMonth(perfs)
	s.Summary = renderer.PerformanceMarkdown(env.Config.DataDate, s.Best)

	if len(s.Best) == 0 {
		env.Log.Warn().Msg("no fund position, no workbook written")
		return nil
	}
	path := env.Config.PerfReportPath()
	if err := sheets.Write(path, sheets.Sheet{Name: BestFundsSheet, Table: fundrecon.BestFundTable(s.Best)}); err != nil {
		return err
	}
	s.Path = path
	env.Log.Info().Str("path", path).Int("months", len(s.Best)).Msg("performance report written")
	return nil
}
