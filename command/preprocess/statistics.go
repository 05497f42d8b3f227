package preprocess

import (
	lo "github.com/samber/lo"

	"rs-flow/domain/report"
	"rs-flow/domain/rs"
)

// calculateStatistics computes the year-level aggregates. In the latest
// extract the executed amounts (and filed rates) are reported against the
// prior budget year's records, so the execution side reads from that filter
// year; earlier extracts carry both sides on the same year.
func calculateStatistics(records []rs.BudgetRecord, year int, schema rs.Schema) report.Statistics {
	current := lo.Filter(records, func(r rs.BudgetRecord, _ int) bool { return r.BudgetYear == year })

	execRows := current
	if year == schema.LatestYear {
		execYear := year - 1
		execRows = lo.Filter(records, func(r rs.BudgetRecord, _ int) bool { return r.BudgetYear == execYear })
	}

	st := report.Statistics{
		TotalBudget:    lo.SumBy(current, func(r rs.BudgetRecord) int64 { return r.InitialBudget }),
		TotalExecution: lo.SumBy(execRows, func(r rs.BudgetRecord) int64 { return r.Execution }),
	}

	// Source data contains rates above 100%; they are data-entry noise and
	// are capped before averaging.
	var rates []float64
	if year == schema.LatestYear {
		for _, r := range execRows {
			if r.HasRate && r.ExecutionRate > 0 {
				rates = append(rates, capRate(r.ExecutionRate))
			}
		}
	} else {
		for _, r := range current {
			if r.InitialBudget > 0 && r.Execution > 0 {
				rates = append(rates, capRate(float64(r.Execution)/float64(r.InitialBudget)))
			}
		}
	}
	if len(rates) > 0 {
		st.AverageExecutionRate = lo.Sum(rates) / float64(len(rates))
	}

	ids := map[int]struct{}{}
	ministries := map[string]struct{}{}
	for _, r := range current {
		if r.ProjectID != 0 {
			ids[r.ProjectID] = struct{}{}
		}
		if r.Ministry != "" {
			ministries[r.Ministry] = struct{}{}
		}
	}
	st.EventCount = len(ids)
	st.MinistryCount = len(ministries)
	return st
}

func capRate(r float64) float64 {
	if r > 1 {
		return 1
	}
	return r
}
