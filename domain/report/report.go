package report

import (
	"crypto/sha256"
	"encoding/hex"
)

// Statistics holds the year-level aggregate metrics.
type Statistics struct {
	TotalBudget          int64   `json:"totalBudget"`
	TotalExecution       int64   `json:"totalExecution"`
	AverageExecutionRate float64 `json:"averageExecutionRate"`
	EventCount           int     `json:"eventCount"`
	MinistryCount        int     `json:"ministryCount"`
}

// MinistryBudget is one entry of the per-year ministry list, sorted by
// budget descending.
type MinistryBudget struct {
	Name   string `json:"name"`
	Budget int64  `json:"budget"`
}

// ProjectBudget is one Top-10 entry of a ministry's project rollup. The
// project ID is only meaningful within its year; the name is the display
// label.
type ProjectBudget struct {
	ProjectID int    `json:"projectId"`
	Name      string `json:"name"`
	Budget    int64  `json:"budget"`
}

// MinistryProjects is the Top-10 project rollup for one ministry-year.
// Top10 budgets plus OthersTotal equal the ministry's full project total.
type MinistryProjects struct {
	Top10         []ProjectBudget `json:"top10"`
	OthersTotal   int64           `json:"othersTotal"`
	TotalProjects int             `json:"totalProjects"`
}

// Expenditure is one recipient entry of a project's Top-20 rollup.
type Expenditure struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// ProjectExpenditures is the recipient rollup for one project-year.
// UnknownAmount is the budget not traceable to any disclosed recipient,
// never negative.
type ProjectExpenditures struct {
	ProjectID              int           `json:"projectId"`
	ProjectName            string        `json:"projectName"`
	Budget                 int64         `json:"budget"`
	Top20Expenditures      []Expenditure `json:"top20Expenditures"`
	OthersTotal            int64         `json:"othersTotal"`
	TotalExpenditureAmount int64         `json:"totalExpenditureAmount"`
	UnknownAmount          int64         `json:"unknownAmount"`
}

// YearlyFigures are one year's reconciled numbers within a project time
// series. ProjectID is the numeric ID that year's extract assigned.
type YearlyFigures struct {
	ProjectID     int     `json:"projectId"`
	Budget        int64   `json:"budget"`
	Execution     int64   `json:"execution"`
	ExecutionRate float64 `json:"executionRate,omitempty"`
}

// ExpenditureTimeSeries is one recipient aggregated across all years.
type ExpenditureTimeSeries struct {
	Name          string        `json:"name"`
	TotalAmount   int64         `json:"totalAmount"`
	YearCount     int           `json:"yearCount"`
	YearlyAmounts map[int]int64 `json:"yearlyAmounts"`
}

// ProjectTimeSeries is the cross-year record for one project, keyed by the
// project name. Identically named projects are the same entity across years
// regardless of their numeric IDs.
type ProjectTimeSeries struct {
	ProjectName     string                  `json:"projectName"`
	ProjectKey      string                  `json:"projectKey"`
	Ministry        string                  `json:"ministry"`
	StartYear       *int                    `json:"startYear"`
	EndYear         *int                    `json:"endYear"`
	YearlyData      map[int]YearlyFigures   `json:"yearlyData"`
	TopExpenditures []ExpenditureTimeSeries `json:"topExpenditures"`
}

// ProjectIndexItem is the denormalized search/listing entry for one
// reconciled project.
type ProjectIndexItem struct {
	ProjectKey    string `json:"projectKey"`
	ProjectName   string `json:"projectName"`
	Ministry      string `json:"ministry"`
	StartYear     *int   `json:"startYear"`
	EndYear       *int   `json:"endYear"`
	DataStartYear int    `json:"dataStartYear"`
	DataEndYear   int    `json:"dataEndYear"`
	TotalBudget   int64  `json:"totalBudget"`
	AverageBudget int64  `json:"averageBudget"`
}

// ProjectKey derives the stable URL-safe key for a project name: the first
// 16 hex characters of its SHA-256 digest. Stable across runs, one-way, and
// collision-free in practice at this cardinality.
func ProjectKey(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])[:16]
}
