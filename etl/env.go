// Package etl runs the pipeline stages: setup, ingest, preprocess, publish,
// and the two report generators.
package etl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundrecon"
	"github.com/etnz/fundrecon/config"
	"github.com/etnz/fundrecon/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Env is what every stage runs against.
type Env struct {
	Config *config.Config
	Store  *store.Store
	Log    zerolog.Logger
	RunID  uuid.UUID
}

// NewEnv returns an environment for a new run. The run identifier is attached
// to every log line.
func NewEnv(cfg *config.Config, st *store.Store, log zerolog.Logger) *Env {
	id := uuid.New()
	return &Env{
		Config: cfg,
		Store:  st,
		Log:    log.With().Str("run", id.String()).Logger(),
		RunID:  id,
	}
}

// Open connects to the configured store and returns a new environment using it.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Env, error) {
	env := NewEnv(cfg, nil, log)
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBPath, env.Log)
	if err != nil {
		return nil, err
	}
	env.Store = st
	return env, nil
}

// Close closes the store.
func (e *Env) Close() error { return e.Store.Close() }

// Template reads the SQL file at path and substitutes {dte} with the data date.
func (e *Env) Template(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading query template: %w", err)
	}
	return strings.ReplaceAll(string(b), "{dte}", e.Config.DataDate.String()), nil
}

// Query runs the SQL template at path.
func (e *Env) Query(ctx context.Context, path string) (*fundrecon.Table, error) {
	sql, err := e.Template(path)
	if err != nil {
		return nil, err
	}
	e.Log.Debug().Str("query", path).Msg("running query")
	t, err := e.Store.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.Log.Debug().Str("query", path).Int("rows", t.Len()).Msg("query done")
	return t, nil
}
