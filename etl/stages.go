package etl

import (
	"context"
	"fmt"
	"os"

	"github.com/etnz/fundrecon"
	"github.com/etnz/fundrecon/ingest"
	"github.com/etnz/fundrecon/store"
)

// Setup creates the database and runs the reference data and base table scripts.
type Setup struct{}

func (*Setup) Name() string { return "setup" }

func (*Setup) Run(ctx context.Context, env *Env) error {
	for _, path := range []string{env.Config.SQLMasterReference, env.Config.SQLBaseTables} {
		script, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading setup script: %w", err)
		}
		if err := env.Store.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		env.Log.Info().Str("script", path).Msg("setup script executed")
	}
	return nil
}

// Ingest appends the fund files of the active funds to the raw fund table.
type Ingest struct {
	Files []ingest.File // ingested by the last Run
}

func (*Ingest) Name() string { return "ingest" }

func (s *Ingest) Run(ctx context.Context, env *Env) error {
	s.Files = nil
	funds, err := env.FundSource().ActiveFunds(ctx, env)
	if err != nil {
		return err
	}
	if len(funds) == 0 {
		env.Log.Warn().Msg("no active fund, nothing to ingest")
		return nil
	}
	files, err := ingest.Scan(env.Config.FundsFolder, ingest.NewFundMatcher(funds), env.Config.ReportDateOrder, env.Log)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		env.Log.Warn().Str("folder", env.Config.FundsFolder).Msg("no matching file")
		return nil
	}
	t, err := ingest.Load(files)
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		env.Log.Warn().Int("files", len(files)).Msg("matching files hold no row")
		return nil
	}
	if err := env.Store.AppendTable(ctx, env.Config.TblRawFundsDetails, t); err != nil {
		return err
	}
	s.Files = files
	env.Log.Info().Int("files", len(files)).Int("rows", t.Len()).Str("table", env.Config.TblRawFundsDetails).Msg("fund files ingested")
	return nil
}

// RefDateLayout is the date layout of the raw reference prices.
const RefDateLayout = "01/02/2006"

// Preprocess gap-fills the reference prices to month ends and stages the
// reference attributes and the raw fund positions.
type Preprocess struct{}

func (*Preprocess) Name() string { return "preprocess" }

func (*Preprocess) Run(ctx context.Context, env *Env) error {
	if err := stagePrices(ctx, env); err != nil {
		return err
	}
	if _, err := env.Store.CopyTable(ctx, TblEquityReference, TblStgEquityReference, store.Replace); err != nil {
		return err
	}
	_, err := env.Store.CopyTable(ctx, env.Config.TblRawFundsDetails, TblStgFundPositions, store.Replace)
	return err
}

func stagePrices(ctx context.Context, env *Env) error {
	const dateCol, symbolCol = "DATETIME", "SYMBOL"
	prices, err := env.Query(ctx, env.Config.SQLRawReferenceData)
	if err != nil {
		return err
	}
	if err := prices.Require(dateCol, symbolCol); err != nil {
		return fmt.Errorf("raw reference prices: %w", err)
	}
	if prices, err = prices.ParseDates(dateCol, RefDateLayout); err != nil {
		return err
	}
	if prices, err = fundrecon.UpsampleMonthEnd(prices, dateCol, symbolCol); err != nil {
		return err
	}
	if prices, err = prices.FormatDates(dateCol); err != nil {
		return err
	}
	if prices.Len() == 0 {
		env.Log.Warn().Str("table", TblStgEquityPrices).Msg("no reference price to stage")
		return nil
	}
	if err := env.Store.ReplaceTable(ctx, TblStgEquityPrices, prices); err != nil {
		return err
	}
	env.Log.Info().Str("table", TblStgEquityPrices).Int("rows", prices.Len()).Msg("reference prices staged")
	return nil
}

// Publish copies every staging table to its published table.
type Publish struct{}

func (*Publish) Name() string { return "publish" }

func (*Publish) Run(ctx context.Context, env *Env) error {
	for _, c := range []struct{ from, to string }{
		{TblStgEquityPrices, TblPubEquityPrices},
		{TblStgEquityReference, TblPubEquityReference},
		{TblStgFundPositions, TblPubFundPositions},
	} {
		if _, err := env.Store.CopyTable(ctx, c.from, c.to, store.Replace); err != nil {
			return err
		}
	}
	return nil
}
