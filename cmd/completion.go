package cmd

import (
	"github.com/etnz/fundrecon/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	html := map[string]complete.Predictor{"html": predict.Nothing}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"env":       predict.Files("*.env"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
			"pretty":    predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"setup":      {},
			"ingest":     {},
			"preprocess": {},
			"publish":    {},
			"recon":      {Flags: html},
			"perf":       {Flags: html},
			"run":        {Flags: html},
			"dates": {
				Flags: map[string]complete.Predictor{"order": predict.Set{"month-first", "day-first"}},
				Args:  predict.Files("*"),
			},
			"topic": {Args: predict.Set(append(topics, "*"))},
		},
	}
}
