package rs

import "fmt"

// Category identifies one of the logical RS-system CSV sources.
type Category int

const (
	CategoryBudget      Category = iota // 2-1 予算・執行_サマリ
	CategoryExpenditure                 // 5-1 支出先_支出情報
	CategoryConnections                 // 5-2 支出先_支出ブロックのつながり (latest year only)
	CategoryOverview                    // 1-2 基本情報_事業概要等
)

func (c Category) String() string {
	switch c {
	case CategoryBudget:
		return "budget"
	case CategoryExpenditure:
		return "expenditure"
	case CategoryConnections:
		return "connections"
	case CategoryOverview:
		return "overview"
	}
	return "unknown"
}

func (c Category) prefix() string {
	switch c {
	case CategoryBudget:
		return "2-1"
	case CategoryExpenditure:
		return "5-1"
	case CategoryConnections:
		return "5-2"
	case CategoryOverview:
		return "1-2"
	}
	return ""
}

func (c Category) label() string {
	switch c {
	case CategoryBudget:
		return "予算・執行_サマリ"
	case CategoryExpenditure:
		return "支出先_支出情報"
	case CategoryConnections:
		return "支出先_支出ブロックのつながり"
	case CategoryOverview:
		return "基本情報_事業概要等"
	}
	return ""
}

// Applies reports whether a source category exists at all for the given
// year. Block connections are published only with the latest extract.
func (s Schema) Applies(c Category, year int) bool {
	if c == CategoryConnections {
		return year == s.LatestYear
	}
	return true
}

// FileName resolves the year-dependent CSV file name for a category. The
// latest extract carries an extra RS_ token in its names.
func (s Schema) FileName(c Category, year int) string {
	if year == s.LatestYear {
		return fmt.Sprintf("%s_RS_%d_%s.csv", c.prefix(), year, c.label())
	}
	return fmt.Sprintf("%s_%d_%s.csv", c.prefix(), year, c.label())
}

// YearDir is the per-year subdirectory name under the data base path.
func YearDir(year int) string {
	return fmt.Sprintf("year_%d", year)
}
