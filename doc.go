// Package fundrecon provides the data transformations of a batch ETL that
// reconciles fund positions against reference prices and ranks fund
// performance.
//
// The core functionalities include:
//   - Tabular data: Table is an ordered list of rows with a runtime-checked
//     schema. Every transformation returns a new Table.
//   - Report dates: ExtractReportDate reads the date of a report out of its
//     file name, trying several date layouts in a configurable order.
//   - Month-end gap filling: UpsampleMonthEnd inserts forward-filled rows for
//     month-end dates missing from a grouped time series.
//   - Reconciliation: Reconcile joins fund prices to reference prices and
//     splits the differences per fund.
//   - Performance: FundPerformances and BestFundPerMonth compute monthly rates
//     of return and pick the best fund of each month.
//
// This package serves as the foundational logic for the `fundrecon`
// command-line tool. Storage, file scanning and spreadsheet output live in
// the store, ingest and sheets packages.
package fundrecon
