package preprocess

import (
	"sort"

	lo "github.com/samber/lo"

	"rs-flow/domain/report"
	"rs-flow/domain/rs"
)

const (
	topProjects   = 10
	topRecipients = 20
)

// ministryTotals sums the year's initial budgets per ministry, sorted
// descending. Records without a ministry name are skipped.
func ministryTotals(records []rs.BudgetRecord, year int) []report.MinistryBudget {
	totals := map[string]int64{}
	var order []string
	for _, rec := range records {
		if rec.BudgetYear != year || rec.Ministry == "" {
			continue
		}
		if _, ok := totals[rec.Ministry]; !ok {
			order = append(order, rec.Ministry)
		}
		totals[rec.Ministry] += rec.InitialBudget
	}

	entries := lo.Map(order, func(name string, _ int) report.MinistryBudget {
		return report.MinistryBudget{Name: name, Budget: totals[name]}
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Budget > entries[j].Budget })
	if entries == nil {
		entries = []report.MinistryBudget{}
	}
	return entries
}

type projectAgg struct {
	id     int
	name   string
	budget int64
}

// ministryProjects builds the per-ministry Top-10 project rollup. Projects
// are keyed by their per-year numeric ID, which is stable within a single
// extract; the name is carried as display label.
func ministryProjects(records []rs.BudgetRecord, year int) map[string]report.MinistryProjects {
	perMinistry := map[string][]*projectAgg{}
	lookup := map[string]map[int]*projectAgg{}

	for _, rec := range records {
		if rec.BudgetYear != year || rec.Ministry == "" || rec.ProjectID == 0 || rec.ProjectName == "" {
			continue
		}
		byID := lookup[rec.Ministry]
		if byID == nil {
			byID = map[int]*projectAgg{}
			lookup[rec.Ministry] = byID
		}
		agg := byID[rec.ProjectID]
		if agg == nil {
			agg = &projectAgg{id: rec.ProjectID, name: rec.ProjectName}
			byID[rec.ProjectID] = agg
			perMinistry[rec.Ministry] = append(perMinistry[rec.Ministry], agg)
		}
		agg.budget += rec.InitialBudget
	}

	res := map[string]report.MinistryProjects{}
	for ministry, projects := range perMinistry {
		sort.SliceStable(projects, func(i, j int) bool { return projects[i].budget > projects[j].budget })

		cut := min(topProjects, len(projects))
		mp := report.MinistryProjects{
			Top10: lo.Map(projects[:cut], func(p *projectAgg, _ int) report.ProjectBudget {
				return report.ProjectBudget{ProjectID: p.id, Name: p.name, Budget: p.budget}
			}),
			OthersTotal:   lo.SumBy(projects[cut:], func(p *projectAgg) int64 { return p.budget }),
			TotalProjects: len(projects),
		}
		res[ministry] = mp
	}
	return res
}

type recipientAgg struct {
	name   string
	amount int64
}

// projectExpenditures builds the recipient Top-20 rollup for every project
// that made some ministry's Top-10. Duplicate recipient rows within a
// project are summed. The unknown residual is the part of the budget not
// covered by any disclosed recipient, floored at zero.
func projectExpenditures(rollups map[string]report.MinistryProjects, exps []rs.ExpenditureRecord, year int) map[int]report.ProjectExpenditures {
	scoped := map[int]*report.ProjectExpenditures{}
	for _, mp := range rollups {
		for _, p := range mp.Top10 {
			if e, ok := scoped[p.ProjectID]; ok {
				e.Budget += p.Budget
				continue
			}
			scoped[p.ProjectID] = &report.ProjectExpenditures{
				ProjectID:   p.ProjectID,
				ProjectName: p.Name,
				Budget:      p.Budget,
			}
		}
	}

	perProject := map[int][]*recipientAgg{}
	lookup := map[int]map[string]*recipientAgg{}
	for _, e := range exps {
		if e.FiscalYear != year || e.Recipient == "" || scoped[e.ProjectID] == nil {
			continue
		}
		byName := lookup[e.ProjectID]
		if byName == nil {
			byName = map[string]*recipientAgg{}
			lookup[e.ProjectID] = byName
		}
		agg := byName[e.Recipient]
		if agg == nil {
			agg = &recipientAgg{name: e.Recipient}
			byName[e.Recipient] = agg
			perProject[e.ProjectID] = append(perProject[e.ProjectID], agg)
		}
		agg.amount += e.Amount
	}

	res := map[int]report.ProjectExpenditures{}
	for id, pe := range scoped {
		recipients := perProject[id]
		sort.SliceStable(recipients, func(i, j int) bool { return recipients[i].amount > recipients[j].amount })

		cut := min(topRecipients, len(recipients))
		pe.Top20Expenditures = lo.Map(recipients[:cut], func(r *recipientAgg, _ int) report.Expenditure {
			return report.Expenditure{Name: r.name, Amount: r.amount}
		})
		if pe.Top20Expenditures == nil {
			pe.Top20Expenditures = []report.Expenditure{}
		}
		pe.OthersTotal = lo.SumBy(recipients[cut:], func(r *recipientAgg) int64 { return r.amount })
		pe.TotalExpenditureAmount = lo.SumBy(recipients, func(r *recipientAgg) int64 { return r.amount })
		if unknown := pe.Budget - pe.TotalExpenditureAmount; unknown > 0 {
			pe.UnknownAmount = unknown
		}
		res[id] = *pe
	}
	return res
}
