// Package rscsv reads the year-partitioned RS-system CSV extracts into
// typed, unit-normalized records.
package rscsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"rs-flow/domain/rs"
)

// Source reads CSV extracts below a year-partitioned base directory. The
// base path is explicit so the pipeline stays testable against a fixture
// tree.
type Source struct {
	BasePath string
	Schema   rs.Schema
}

// HasYear reports whether the year's data directory exists. A missing
// directory means the year is simply not published and is skipped.
func (s Source) HasYear(year int) bool {
	fi, err := os.Stat(filepath.Join(s.BasePath, rs.YearDir(year)))
	return err == nil && fi.IsDir()
}

func (s Source) path(c rs.Category, year int) string {
	return filepath.Join(s.BasePath, rs.YearDir(year), s.Schema.FileName(c, year))
}

// Column name sets. Amount headers appear with half-width or full-width
// parentheses depending on the extract year; both are tried.
var (
	colsInitialBudget = []string{"当初予算(合計)", "当初予算（合計）"}
	colsExecution     = []string{"執行額(合計)", "執行額（合計）"}
	colsEndYear       = []string{"事業終了(予定)年度", "事業終了（予定）年度"}
)

// LoadBudget reads the budget/execution summary (2-1) for a year. Amounts
// are normalized to yen using the extract year's unit rule.
func (s Source) LoadBudget(year int) ([]rs.BudgetRecord, error) {
	rows, err := readRows(s.path(rs.CategoryBudget, year))
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", rs.CategoryBudget, year, err)
	}
	res := make([]rs.BudgetRecord, 0, len(rows))
	for _, r := range rows {
		rec := rs.BudgetRecord{
			ProjectID:     r.intVal("予算事業ID"),
			ProjectName:   r.strVal("事業名"),
			Ministry:      r.strVal("府省庁"),
			BudgetYear:    r.intVal("予算年度"),
			InitialBudget: s.Schema.Normalize(r.amount(colsInitialBudget...), year),
			Execution:     s.Schema.Normalize(r.amount(colsExecution...), year),
		}
		if raw := r.strVal("執行率"); raw != "" {
			rec.ExecutionRate = r.floatVal("執行率")
			rec.HasRate = true
		}
		res = append(res, rec)
	}
	return res, nil
}

// LoadExpenditures reads the expenditure detail (5-1) for a year.
func (s Source) LoadExpenditures(year int) ([]rs.ExpenditureRecord, error) {
	rows, err := readRows(s.path(rs.CategoryExpenditure, year))
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", rs.CategoryExpenditure, year, err)
	}
	res := make([]rs.ExpenditureRecord, 0, len(rows))
	for _, r := range rows {
		res = append(res, rs.ExpenditureRecord{
			ProjectID:      r.intVal("予算事業ID"),
			ProjectName:    r.strVal("事業名"),
			Ministry:       r.strVal("府省庁"),
			FiscalYear:     r.intVal("事業年度"),
			Recipient:      r.strVal("支出先名"),
			Amount:         s.Schema.Normalize(r.amount("金額"), year),
			ContractType:   r.strVal("契約方式等"),
			Bidders:        r.intVal("入札者数"),
			WinningBidRate: r.floatVal("落札率"),
		})
	}
	return res, nil
}

// LoadConnections reads the expenditure block connections (5-2). The source
// only exists for the latest extract year; for earlier years it is
// expected-absent and an empty slice is returned.
func (s Source) LoadConnections(year int) ([]rs.ConnectionRecord, error) {
	if !s.Schema.Applies(rs.CategoryConnections, year) {
		return nil, nil
	}
	rows, err := readRows(s.path(rs.CategoryConnections, year))
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", rs.CategoryConnections, year, err)
	}
	res := make([]rs.ConnectionRecord, 0, len(rows))
	for _, r := range rows {
		res = append(res, rs.ConnectionRecord{
			ProjectID:        r.intVal("予算事業ID"),
			ProjectName:      r.strVal("事業名"),
			Ministry:         r.strVal("府省庁"),
			FiscalYear:       r.intVal("事業年度"),
			SourceBlock:      r.strVal("支出元の支出先ブロック"),
			SourceBlockName:  r.strVal("支出元の支出先ブロック名"),
			TargetBlock:      r.strVal("支出先の支出先ブロック"),
			TargetBlockName:  r.strVal("支出先の支出先ブロック名"),
			FromOrganization: parseBool(r.strVal("担当組織からの支出")),
		})
	}
	return res, nil
}

// LoadOverview reads the project overview (1-2) carrying declared start and
// end years.
func (s Source) LoadOverview(year int) ([]rs.OverviewRecord, error) {
	rows, err := readRows(s.path(rs.CategoryOverview, year))
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", rs.CategoryOverview, year, err)
	}
	res := make([]rs.OverviewRecord, 0, len(rows))
	for _, r := range rows {
		res = append(res, rs.OverviewRecord{
			ProjectName: r.strVal("事業名"),
			Ministry:    r.strVal("府省庁"),
			FiscalYear:  r.intVal("事業年度"),
			StartYear:   r.intVal("事業開始年度"),
			EndYear:     r.intAny(colsEndYear...),
		})
	}
	return res, nil
}

// row gives header-keyed access to one CSV record. Short rows answer empty
// for missing trailing fields rather than failing.
type row struct {
	idx map[string]int
	rec []string
}

func (r row) strVal(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) intVal(col string) int {
	v, _ := strconv.Atoi(r.strVal(col))
	return v
}

func (r row) intAny(cols ...string) int {
	for _, c := range cols {
		if v := r.intVal(c); v != 0 {
			return v
		}
	}
	return 0
}

func (r row) floatVal(col string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(r.strVal(col), ",", ""), 64)
	return v
}

// amount parses the first non-empty of the given columns as a decimal.
// Comma grouping is tolerated; anything unparseable reads as zero, which
// downstream treats as "no data".
func (r row) amount(cols ...string) decimal.Decimal {
	for _, c := range cols {
		raw := strings.ReplaceAll(r.strVal(c), ",", "")
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		return d
	}
	return decimal.Zero
}

func parseBool(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "true" || s == "1" || s == "yes"
}

// readRows parses a whole CSV file into header-keyed rows. A UTF-8 BOM on
// the header is stripped, empty lines are skipped, and rows with
// inconsistent column counts are kept as-is.
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, err
	}
	idx := indexMap(head)

	var rows []row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		rows = append(rows, row{idx: idx, rec: rec})
	}
	slog.Debug("csv.read", "path", path, "rows", len(rows))
	return rows, nil
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		m[strings.TrimSpace(h)] = i
	}
	return m
}
