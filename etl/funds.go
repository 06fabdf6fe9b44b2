package etl

import (
	"context"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundrecon/ingest"
	"github.com/goccy/go-json"
)

// FundSource lists the funds to ingest and reconcile.
type FundSource interface {
	ActiveFunds(ctx context.Context, env *Env) ([]string, error)
}

// SQLFunds reads the active funds from the FUND NAME column of a query template.
type SQLFunds struct {
	Path string
}

func (s SQLFunds) ActiveFunds(ctx context.Context, env *Env) ([]string, error) {
	t, err := env.Query(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	if err := t.Require(ingest.FundColumn); err != nil {
		return nil, fmt.Errorf("active funds: %w", err)
	}
	var names []string
	for _, v := range t.Values(ingest.FundColumn) {
		if !v.IsNull() {
			names = append(names, v.String())
		}
	}
	return unique(names), nil
}

// JSONFunds reads the active funds from a JSON file, selected by a JSONPath.
type JSONFunds struct {
	Path     string
	Selector string // e.g. $.funds[*].name
}

func (s JSONFunds) ActiveFunds(_ context.Context, env *Env) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading active funds: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Path, err)
	}
	v, err := jsonpath.Get(s.Selector, doc)
	if err != nil {
		return nil, fmt.Errorf("selecting %q in %s: %w", s.Selector, s.Path, err)
	}
	// a selector without wildcard returns a single value.
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}
	names := make([]string, 0, len(list))
	for _, x := range list {
		name, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("selecting %q in %s: fund name %v is not a string", s.Selector, s.Path, x)
		}
		names = append(names, name)
	}
	env.Log.Debug().Str("file", s.Path).Int("funds", len(names)).Msg("active funds read")
	return unique(names), nil
}

// FundSource returns the JSON source when ACTIVE_FUNDS_FILE is set, the SQL
// template otherwise.
func (e *Env) FundSource() FundSource {
	if e.Config.ActiveFundsFile != "" {
		return JSONFunds{Path: e.Config.ActiveFundsFile, Selector: e.Config.ActiveFundsJSONPath}
	}
	return SQLFunds{Path: e.Config.SQLActiveFunds}
}

// unique drops empty and repeated names, keeping the first occurrence.
func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
