// Package ingest finds fund position files and reads them into tables.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/etnz/fundrecon"
	"github.com/rs/zerolog"
)

// ErrNoDirectory is returned when scanning a directory that does not exist.
var ErrNoDirectory = errors.New("no such directory")

// Columns added to every fund file.
const (
	DateColumn = "DATETIME"
	FundColumn = "FUND NAME"
)

// ListFiles returns the regular files of dir matching the glob pattern, sorted by name.
func ListFiles(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	slices.Sort(files)
	return files, nil
}

// ReadCSV reads a CSV file with a header line. Cell kinds are inferred, empty
// cells are null.
func ReadCSV(path string) (*fundrecon.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

func readCSV(r io.Reader) (*fundrecon.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]bool)
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if seen[header[i]] {
			return nil, fmt.Errorf("%w: duplicate column %q", fundrecon.ErrSchema, header[i])
		}
		seen[header[i]] = true
	}

	var records [][]fundrecon.Value
	for {
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make([]fundrecon.Value, len(line))
		for i, cell := range line {
			rec[i] = fundrecon.ParseValue(cell)
		}
		records = append(records, rec)
	}
	return fundrecon.FromRecords(header, records)
}

// FundMatcher finds active fund names in file names, ignoring case.
type FundMatcher struct {
	re    *regexp.Regexp
	names map[string]string // lower case to configured spelling
}

// NewFundMatcher returns a matcher for the given fund names. Longer names are
// tried first so that a fund is not shadowed by another one prefixing it.
func NewFundMatcher(funds []string) *FundMatcher {
	m := &FundMatcher{names: make(map[string]string)}
	var alts []string
	for _, f := range funds {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := m.names[strings.ToLower(f)]; dup {
			continue
		}
		m.names[strings.ToLower(f)] = f
		alts = append(alts, regexp.QuoteMeta(f))
	}
	if len(alts) == 0 {
		return m
	}
	slices.SortStableFunc(alts, func(a, b string) int { return len(b) - len(a) })
	m.re = regexp.MustCompile(`(?i)(` + strings.Join(alts, "|") + `)`)
	return m
}

// Match returns the configured name of the first fund found in filename.
func (m *FundMatcher) Match(filename string) (string, bool) {
	if m.re == nil {
		return "", false
	}
	found := m.re.FindString(filename)
	if found == "" {
		return "", false
	}
	name, ok := m.names[strings.ToLower(found)]
	return name, ok
}

// File is a fund position file selected for ingestion.
type File struct {
	Path string
	Fund string
	Date fundrecon.Date
}

// Scan lists the CSV files of dir that name an active fund and carry a
// report date. Other files are skipped.
func Scan(dir string, matcher *FundMatcher, order fundrecon.ReportDateOrder, log zerolog.Logger) ([]File, error) {
	paths, err := ListFiles(dir, "*.csv")
	if err != nil {
		return nil, err
	}
	var files []File
	for _, p := range paths {
		name := filepath.Base(p)
		fund, ok := matcher.Match(name)
		if !ok {
			log.Debug().Str("file", name).Msg("no active fund in file name, skipped")
			continue
		}
		date, ok := order.ExtractReportDate(name)
		if !ok {
			log.Debug().Str("file", name).Msg("no report date in file name, skipped")
			continue
		}
		files = append(files, File{Path: p, Fund: fund, Date: date})
	}
	return files, nil
}

// Tag returns t with the report date as the first column and the fund name
// as the last one. Columns of the same names in t are replaced.
func Tag(t *fundrecon.Table, date fundrecon.Date, fund string) (*fundrecon.Table, error) {
	base := t.Drop(DateColumn, FundColumn)
	dated, err := base.WithColumn(DateColumn, func(fundrecon.Row) fundrecon.Value {
		return fundrecon.StringValue(date.String())
	})
	if err != nil {
		return nil, err
	}
	dated, err = dated.Select(append([]string{DateColumn}, base.Columns()...)...)
	if err != nil {
		return nil, err
	}
	return dated.WithColumn(FundColumn, func(fundrecon.Row) fundrecon.Value {
		return fundrecon.StringValue(fund)
	})
}

// Load reads and tags every file, then stacks them on the union of their columns.
func Load(files []File) (*fundrecon.Table, error) {
	tables := make([]*fundrecon.Table, 0, len(files))
	for _, f := range files {
		t, err := ReadCSV(f.Path)
		if err != nil {
			return nil, err
		}
		if t, err = Tag(t, f.Date, f.Fund); err != nil {
			return nil, fmt.Errorf("tagging %s: %w", f.Path, err)
		}
		tables = append(tables, t)
	}
	return fundrecon.Concat(tables...)
}
