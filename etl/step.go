package etl

import (
	"context"
	"fmt"
	"time"
)

// Tables written by the pipeline, besides the configured raw fund table.
const (
	TblEquityReference    = "equity_reference"
	TblStgEquityPrices    = "tbl_stg_equity_prices"
	TblStgEquityReference = "tbl_stg_equity_reference"
	TblStgFundPositions   = "tbl_stg_fund_position_details"
	TblPubEquityPrices    = "tbl_pub_equity_prices"
	TblPubEquityReference = "tbl_pub_equity_reference"
	TblPubFundPositions   = "tbl_pub_fund_position_details"
)

// Step is one stage of the pipeline.
type Step interface {
	Name() string
	Run(ctx context.Context, env *Env) error
}

// Pipeline returns every stage in execution order.
func Pipeline() []Step {
	return []Step{&Setup{}, &Ingest{}, &Preprocess{}, &Publish{}, &ReconReport{}, &PerfReport{}}
}

// RunSteps runs steps in order and stops at the first failure.
func RunSteps(ctx context.Context, env *Env, steps ...Step) error {
	for _, s := range steps {
		senv := *env
		senv.Log = env.Log.With().Str("step", s.Name()).Logger()

		senv.Log.Info().Msg("step started")
		start := time.Now()
		if err := s.Run(ctx, &senv); err != nil {
			senv.Log.Error().Err(err).Msg("step failed")
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
		senv.Log.Info().Dur("elapsed", time.Since(start)).Msg("step completed")
	}
	return nil
}
