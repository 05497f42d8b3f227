package rs

import "github.com/shopspring/decimal"

// BudgetRecord is one row of the budget/execution summary (2-1), one per
// organizational unit per project per filed budget year. Amounts are already
// normalized to integer yen.
type BudgetRecord struct {
	ProjectID     int
	ProjectName   string
	Ministry      string
	BudgetYear    int
	InitialBudget int64
	Execution     int64
	ExecutionRate float64
	HasRate       bool
}

// ExpenditureRecord is one row of the expenditure detail (5-1). The same
// recipient may appear on several rows within one project; amounts are summed
// downstream, never overwritten.
type ExpenditureRecord struct {
	ProjectID      int
	ProjectName    string
	Ministry       string
	FiscalYear     int
	Recipient      string
	Amount         int64
	ContractType   string
	Bidders        int
	WinningBidRate float64
}

// ConnectionRecord is one row of the expenditure block connections (5-2).
// This source exists only for the latest extract year.
type ConnectionRecord struct {
	ProjectID        int
	ProjectName      string
	Ministry         string
	FiscalYear       int
	SourceBlock      string
	SourceBlockName  string
	TargetBlock      string
	TargetBlockName  string
	FromOrganization bool
}

// OverviewRecord is one row of the project overview (1-2), carrying the
// declared start and planned end year of a project. Zero means not declared.
type OverviewRecord struct {
	ProjectName string
	Ministry    string
	FiscalYear  int
	StartYear   int
	EndYear     int
}

// Plausibility bounds for declared start/end years. Declarations outside
// these ranges are data-entry noise and are ignored.
const (
	MinDeclaredYear      = 2000
	MaxDeclaredStartYear = 2030
	MaxDeclaredEndYear   = 2050
)

var million = decimal.NewFromInt(1_000_000)

// Schema centralizes all year-dependent knowledge about the RS extracts:
// file naming, which sources exist for a year, and the currency unit rule.
type Schema struct {
	LatestYear int // extract with the RS_ file prefix, filed rates and 5-2 data
	UnitCutoff int // last year whose amounts are reported in millions of yen
}

// Normalize converts a raw CSV amount to integer yen. Years up to the cutoff
// report in millions; later years already report base units. An absent amount
// parses as decimal zero and normalizes to 0.
func (s Schema) Normalize(amount decimal.Decimal, year int) int64 {
	if amount.IsZero() {
		return 0
	}
	if year <= s.UnitCutoff {
		return amount.Mul(million).Round(0).IntPart()
	}
	return amount.Round(0).IntPart()
}
