package fundrecon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// sep is the set of separators allowed between date fields in filenames.
const sep = `[-_/\\|]`

var (
	twoTwoFourRE = regexp.MustCompile(`(\d{2})` + sep + `(\d{2})` + sep + `(\d{4})`)
	fourTwoTwoRE = regexp.MustCompile(`(\d{4})` + sep + `(\d{2})` + sep + `(\d{2})`)
	compactRE    = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)
)

// A DateExtractor finds a date in a filename.
type DateExtractor struct {
	Name string
	re   *regexp.Regexp
	// position of the year, month and day groups in re.
	year, month, day int
}

var (
	// MonthDayYear matches MM-DD-YYYY.
	MonthDayYear = DateExtractor{Name: "MM-DD-YYYY", re: twoTwoFourRE, year: 3, month: 1, day: 2}
	// YearMonthDay matches YYYY-MM-DD.
	YearMonthDay = DateExtractor{Name: "YYYY-MM-DD", re: fourTwoTwoRE, year: 1, month: 2, day: 3}
	// CompactDate matches YYYYMMDD.
	CompactDate = DateExtractor{Name: "YYYYMMDD", re: compactRE, year: 1, month: 2, day: 3}
	// DayMonthYear matches DD-MM-YYYY.
	DayMonthYear = DateExtractor{Name: "DD-MM-YYYY", re: twoTwoFourRE, year: 3, month: 2, day: 1}
)

// Extract returns the date found in name.
//
// Only the first candidate in name is considered: if it is not a valid
// calendar date (e.g. month 13) the extractor reports no match.
func (x DateExtractor) Extract(name string) (Date, bool) {
	m := x.re.FindStringSubmatch(name)
	if m == nil {
		return Date{}, false
	}
	y, _ := strconv.Atoi(m[x.year])
	mo, _ := strconv.Atoi(m[x.month])
	d, _ := strconv.Atoi(m[x.day])
	if mo < 1 || mo > 12 || d < 1 {
		return Date{}, false
	}
	date := NewDate(y, time.Month(mo), d)
	// a day past the end of month normalizes into the next one.
	if date.Day() != d {
		return Date{}, false
	}
	return date, true
}

// ReportDateOrder selects how ambiguous 2-2-4 digit dates are read.
type ReportDateOrder int

const (
	// MonthFirst tries MM-DD-YYYY, YYYY-MM-DD, YYYYMMDD then DD-MM-YYYY.
	MonthFirst ReportDateOrder = iota
	// DayFirst tries DD-MM-YYYY, YYYY-MM-DD, YYYYMMDD then MM-DD-YYYY.
	DayFirst
)

func (o ReportDateOrder) String() string {
	if o == DayFirst {
		return "day-first"
	}
	return "month-first"
}

// ParseReportDateOrder parses "month-first" or "day-first".
func ParseReportDateOrder(s string) (ReportDateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month-first", "mdy":
		return MonthFirst, nil
	case "day-first", "dmy":
		return DayFirst, nil
	default:
		return MonthFirst, fmt.Errorf("unknown report date order %q, want month-first or day-first", s)
	}
}

// Extractors returns the extractors in the order they are tried.
func (o ReportDateOrder) Extractors() []DateExtractor {
	if o == DayFirst {
		return []DateExtractor{DayMonthYear, YearMonthDay, CompactDate, MonthDayYear}
	}
	return []DateExtractor{MonthDayYear, YearMonthDay, CompactDate, DayMonthYear}
}

// ExtractReportDate returns the date of the first extractor matching the filename.
func (o ReportDateOrder) ExtractReportDate(filename string) (Date, bool) {
	for _, x := range o.Extractors() {
		if d, ok := x.Extract(filename); ok {
			return d, true
		}
	}
	return Date{}, false
}

// ExtractReportDate returns the report date of a filename using the
// month-first order. The boolean is false when no pattern matches, in which
// case the file is not a report.
func ExtractReportDate(filename string) (Date, bool) {
	return MonthFirst.ExtractReportDate(filename)
}
