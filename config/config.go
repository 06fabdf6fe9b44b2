// Package config resolves the pipeline settings once at process start.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundrecon"
	"github.com/joho/godotenv"
)

// ErrMissingSetting is returned when a required setting is not set.
var ErrMissingSetting = errors.New("missing setting")

// Config is the flat set of settings shared by every stage.
type Config struct {
	BaseDir  string
	DataDate fundrecon.Date // as-of date substituted in query templates

	DBDriver string
	DBPath   string // sqlite file or postgres DSN

	FundsFolder        string
	ReportOutputFolder string
	ReportReconPath    string // relative to ReportOutputFolder
	ReportPerfPath     string // relative to ReportOutputFolder
	TblRawFundsDetails string

	SQLMasterReference      string
	SQLBaseTables           string
	SQLActiveFunds          string
	SQLRawReferenceData     string
	SQLPubReferenceData     string
	SQLPubFundsEquitiesData string

	ActiveFundsFile     string // optional JSON alternative to SQLActiveFunds
	ActiveFundsJSONPath string

	ReportDateOrder fundrecon.ReportDateOrder
	Currency        string
	LogLevel        string
}

// Load reads the settings from the process environment, falling back on the
// given dotenv files, then on defaults.
//
// With no file, ".env" is read when present. Relative paths are resolved
// against BASE_DIR, which defaults to the directory of the first file.
func Load(envFiles ...string) (*Config, error) {
	baseDir := "."
	var vars map[string]string
	var err error
	switch {
	case len(envFiles) > 0:
		baseDir = filepath.Dir(envFiles[0])
		vars, err = godotenv.Read(envFiles...)
		if err != nil {
			return nil, fmt.Errorf("reading env files: %w", err)
		}
	default:
		// a missing .env is fine, the environment may hold everything.
		vars, _ = godotenv.Read()
	}
	return fromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, baseDir)
}

func fromLookup(lookup func(string) (string, bool), baseDir string) (*Config, error) {
	getEnv := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	c := &Config{
		BaseDir:                 getEnv("BASE_DIR", baseDir),
		DBDriver:                getEnv("DB_DRIVER", "sqlite"),
		DBPath:                  getEnv("DB_PATH", "database/funds.db"),
		FundsFolder:             getEnv("FUNDS_FOLDER", "data/external-funds"),
		ReportOutputFolder:      getEnv("REPORT_OUTPUT_FOLDER", "reports"),
		ReportReconPath:         getEnv("REPORT_RECON_PATH", "fund_recon_report.xlsx"),
		ReportPerfPath:          getEnv("REPORT_PERF_PATH", "fund_performance_report.xlsx"),
		TblRawFundsDetails:      getEnv("TBL_RAW_FUNDS_DETAILS", "tbl_raw_fund_position_details"),
		SQLMasterReference:      getEnv("SQL_QUERY_MASTER_REFERENCE", "sql/master-reference-sql.sql"),
		SQLBaseTables:           getEnv("SQL_QUERY_BASE_TABLES", "sql/create_base_tables.sql"),
		SQLActiveFunds:          getEnv("SQL_QUERY_GET_ACTIVE_FUNDS_CFG", "sql/queries/get_active_funds.sql"),
		SQLRawReferenceData:     getEnv("SQL_QUERY_GET_RAW_REFERENCE_DATA", "sql/queries/get_raw_reference_data.sql"),
		SQLPubReferenceData:     getEnv("SQL_QUERY_GET_PUB_REFERENCE_DATA", "sql/queries/get_pub_reference_data.sql"),
		SQLPubFundsEquitiesData: getEnv("SQL_QUERY_GET_PUB_FUNDS_EQUITIES_DATA", "sql/queries/get_pub_funds_equities_data.sql"),
		ActiveFundsFile:         getEnv("ACTIVE_FUNDS_FILE", ""),
		ActiveFundsJSONPath:     getEnv("ACTIVE_FUNDS_JSONPATH", "$.funds[*].name"),
		Currency:                strings.ToUpper(getEnv("REPORT_CURRENCY", "USD")),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	dataDate := getEnv("DATA_DATE", "")
	if dataDate == "" {
		return nil, fmt.Errorf("%w: DATA_DATE", ErrMissingSetting)
	}
	d, err := fundrecon.ParseDate(dataDate)
	if err != nil {
		return nil, fmt.Errorf("DATA_DATE: %w", err)
	}
	c.DataDate = d

	if c.ReportDateOrder, err = fundrecon.ParseReportDateOrder(getEnv("REPORT_DATE_ORDER", "")); err != nil {
		return nil, fmt.Errorf("REPORT_DATE_ORDER: %w", err)
	}

	c.FundsFolder = c.resolve(c.FundsFolder)
	c.ReportOutputFolder = c.resolve(c.ReportOutputFolder)
	for _, p := range []*string{
		&c.SQLMasterReference, &c.SQLBaseTables, &c.SQLActiveFunds,
		&c.SQLRawReferenceData, &c.SQLPubReferenceData, &c.SQLPubFundsEquitiesData,
	} {
		*p = c.resolve(*p)
	}
	if c.ActiveFundsFile != "" {
		c.ActiveFundsFile = c.resolve(c.ActiveFundsFile)
	}
	if c.DBDriver == "sqlite" && c.DBPath != ":memory:" && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = c.resolve(c.DBPath)
	}
	return c, nil
}

// resolve makes a relative path relative to BaseDir.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// ReconReportPath is the path of the reconciliation workbook.
func (c *Config) ReconReportPath() string {
	if filepath.IsAbs(c.ReportReconPath) {
		return c.ReportReconPath
	}
	return filepath.Join(c.ReportOutputFolder, c.ReportReconPath)
}

// PerfReportPath is the path of the performance workbook.
func (c *Config) PerfReportPath() string {
	if filepath.IsAbs(c.ReportPerfPath) {
		return c.ReportPerfPath
	}
	return filepath.Join(c.ReportOutputFolder, c.ReportPerfPath)
}
