// Package store runs queries against the relational store and moves tables
// in and out of it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundrecon"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	SQLite   = "sqlite"
	Postgres = "pgx"
)

var (
	// ErrEmptyTable is returned when writing a table without rows.
	ErrEmptyTable = errors.New("empty table")
	// ErrStorage wraps failures copying between tables.
	ErrStorage = errors.New("storage failure")
)

// Store is a relational store accessed sequentially by the pipeline.
type Store struct {
	db     *sql.DB
	driver string
	log    zerolog.Logger
	// query results by SQL text, flushed on every write.
	results *cache.Cache
}

// Open connects to the database. For sqlite, dsn is a file path whose parent
// directory is created if needed.
func Open(ctx context.Context, driver, dsn string, log zerolog.Logger) (*Store, error) {
	switch driver {
	case SQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	case Postgres:
	default:
		return nil, fmt.Errorf("unknown database driver %q, want %q or %q", driver, SQLite, Postgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}
	if driver == SQLite {
		// one connection keeps ":memory:" databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dsn, err)
	}
	log.Debug().Str("driver", driver).Str("dsn", dsn).Msg("database opened")
	return &Store{
		db:      db,
		driver:  driver,
		log:     log,
		results: cache.New(cache.NoExpiration, 0),
	}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Exec runs a SQL script, possibly made of several statements.
func (s *Store) Exec(ctx context.Context, script string) error {
	defer s.results.Flush()
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("executing script: %w", err)
	}
	return nil
}

// Query runs a query and returns its rows as a table.
//
// Results are memoized by query text until the next write through this Store.
func (s *Store) Query(ctx context.Context, query string) (*fundrecon.Table, error) {
	if t, ok := s.results.Get(query); ok {
		return t.(*fundrecon.Table), nil
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var records [][]fundrecon.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec := make([]fundrecon.Value, len(cols))
		for i, x := range raw {
			if rec[i], err = fundrecon.ValueOf(x); err != nil {
				return nil, fmt.Errorf("column %q: %w", cols[i], err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	t, err := fundrecon.FromRecords(cols, records)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("rows", t.Len()).Msg("query executed")
	s.results.Set(query, t, cache.DefaultExpiration)
	return t, nil
}

// ReplaceTable deletes the rows of table name then appends the rows of t.
// The table is created when missing. Writing an empty table is an error.
func (s *Store) ReplaceTable(ctx context.Context, name string, t *fundrecon.Table) error {
	return s.write(ctx, name, t, true)
}

// AppendTable appends the rows of t to table name, creating it when missing.
func (s *Store) AppendTable(ctx context.Context, name string, t *fundrecon.Table) error {
	return s.write(ctx, name, t, false)
}

func (s *Store) write(ctx context.Context, name string, t *fundrecon.Table, replace bool) error {
	if t == nil || t.Len() == 0 {
		return fmt.Errorf("%w: nothing to write to %q", ErrEmptyTable, name)
	}
	defer s.results.Flush()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	schema := t.Schema()
	defs := make([]string, len(schema))
	names := make([]string, len(schema))
	params := make([]string, len(schema))
	for i, c := range schema {
		names[i] = quote(c.Name)
		defs[i] = names[i] + " " + s.sqlType(c.Kind)
		params[i] = s.param(i + 1)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(name), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating table %q: %w", name, err)
	}
	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quote(name)); err != nil {
			return fmt.Errorf("clearing table %q: %w", name, err)
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(name), strings.Join(names, ", "), strings.Join(params, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert into %q: %w", name, err)
	}
	defer stmt.Close()
	for i := 0; i < t.Len(); i++ {
		rec := t.Record(i)
		args := make([]any, len(rec))
		for j, v := range rec {
			args[j] = v.Any()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d into %q: %w", i, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %q: %w", name, err)
	}
	s.log.Debug().Str("table", name).Int("rows", t.Len()).Bool("replace", replace).Msg("table written")
	return nil
}

// CopyMode selects how CopyTable writes the target table.
type CopyMode int

const (
	Replace CopyMode = iota // delete existing rows first
	Append
)

func (m CopyMode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// CopyTable copies every row of table src into table dst and returns the
// number of rows copied.
//
// An empty src is logged as a warning and leaves dst untouched. Failures are
// wrapped with ErrStorage.
func (s *Store) CopyTable(ctx context.Context, src, dst string, mode CopyMode) (int, error) {
	t, err := s.Query(ctx, "SELECT * FROM "+quote(src))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to copy data from %s to %s: %w", ErrStorage, src, dst, err)
	}
	if t.Len() == 0 {
		s.log.Warn().Str("table", src).Msg("no data to copy")
		return 0, nil
	}
	if err := s.write(ctx, dst, t, mode == Replace); err != nil {
		return 0, fmt.Errorf("%w: failed to copy data from %s to %s: %w", ErrStorage, src, dst, err)
	}
	s.log.Info().Str("from", src).Str("to", dst).Stringer("mode", mode).Int("rows", t.Len()).Msg("table copied")
	return t.Len(), nil
}

func (s *Store) sqlType(k fundrecon.Kind) string {
	switch k {
	case fundrecon.IntKind:
		if s.driver == Postgres {
			return "BIGINT"
		}
		return "INTEGER"
	case fundrecon.FloatKind:
		if s.driver == Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	default:
		// dates are stored as ISO text.
		return "TEXT"
	}
}

func (s *Store) param(i int) string {
	if s.driver == Postgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// quote returns name as a quoted SQL identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
