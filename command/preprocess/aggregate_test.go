package preprocess

import (
	"testing"

	lo "github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rs-flow/domain/report"
	"rs-flow/domain/rs"
)

func budgetRow(ministry string, id int, name string, year int, budget int64) rs.BudgetRecord {
	return rs.BudgetRecord{ProjectID: id, ProjectName: name, Ministry: ministry, BudgetYear: year, InitialBudget: budget}
}

func expRow(id int, year int, recipient string, amount int64) rs.ExpenditureRecord {
	return rs.ExpenditureRecord{ProjectID: id, ProjectName: "事業", FiscalYear: year, Recipient: recipient, Amount: amount}
}

func TestMinistryTotals_SortedDescending(t *testing.T) {
	records := []rs.BudgetRecord{
		budgetRow("A省", 1, "p1", 2020, 100),
		budgetRow("B省", 2, "p2", 2020, 300),
		budgetRow("A省", 3, "p3", 2020, 150),
		budgetRow("C省", 4, "p4", 2019, 999), // other year, ignored
		budgetRow("", 5, "p5", 2020, 999),   // no ministry, ignored
	}

	totals := ministryTotals(records, 2020)

	require.Len(t, totals, 2)
	assert.Equal(t, "B省", totals[0].Name)
	assert.Equal(t, int64(300), totals[0].Budget)
	assert.Equal(t, "A省", totals[1].Name)
	assert.Equal(t, int64(250), totals[1].Budget)
}

func TestMinistryProjects_TopTenPlusOthers(t *testing.T) {
	// GIVEN: ministry A with 12 projects, budgets 1000..100 then 50 and 30
	var records []rs.BudgetRecord
	for i := 0; i < 10; i++ {
		records = append(records, budgetRow("A省", 100+i, "事業", 2020, int64(1000-100*i)))
	}
	records = append(records, budgetRow("A省", 110, "事業", 2020, 50))
	records = append(records, budgetRow("A省", 111, "事業", 2020, 30))

	rollups := ministryProjects(records, 2020)

	require.Contains(t, rollups, "A省")
	mp := rollups["A省"]
	require.Len(t, mp.Top10, 10)
	assert.Equal(t, int64(1000), mp.Top10[0].Budget)
	assert.Equal(t, int64(100), mp.Top10[9].Budget)
	assert.Equal(t, int64(80), mp.OthersTotal)
	assert.Equal(t, 12, mp.TotalProjects)

	// Conservation: top10 + others == sum of all project budgets.
	sumAll := lo.SumBy(records, func(r rs.BudgetRecord) int64 { return r.InitialBudget })
	sumTop := lo.SumBy(mp.Top10, func(p report.ProjectBudget) int64 { return p.Budget })
	assert.Equal(t, sumAll, sumTop+mp.OthersTotal)
}

func TestMinistryProjects_SumsDuplicateRowsPerProject(t *testing.T) {
	records := []rs.BudgetRecord{
		budgetRow("A省", 7, "分割計上事業", 2020, 40),
		budgetRow("A省", 7, "分割計上事業", 2020, 60),
	}

	rollups := ministryProjects(records, 2020)

	mp := rollups["A省"]
	require.Len(t, mp.Top10, 1)
	assert.Equal(t, 7, mp.Top10[0].ProjectID)
	assert.Equal(t, int64(100), mp.Top10[0].Budget)
	assert.Equal(t, 1, mp.TotalProjects)
}

func TestProjectExpenditures_UnknownResidual(t *testing.T) {
	rollups := ministryProjects([]rs.BudgetRecord{
		budgetRow("A省", 1, "事業X", 2020, 1_000_000),
	}, 2020)

	// Disclosed expenditure below budget leaves an unknown residual.
	res := projectExpenditures(rollups, []rs.ExpenditureRecord{
		expRow(1, 2020, "会社A", 400_000),
		expRow(1, 2020, "会社B", 300_000),
	}, 2020)

	require.Contains(t, res, 1)
	pe := res[1]
	assert.Equal(t, int64(700_000), pe.TotalExpenditureAmount)
	assert.Equal(t, int64(300_000), pe.UnknownAmount)
	assert.Equal(t, "事業X", pe.ProjectName)

	// Disclosed expenditure above budget caps the residual at zero.
	res = projectExpenditures(rollups, []rs.ExpenditureRecord{
		expRow(1, 2020, "会社A", 1_200_000),
	}, 2020)
	assert.Zero(t, res[1].UnknownAmount)
}

func TestProjectExpenditures_MergesDuplicateRecipients(t *testing.T) {
	rollups := ministryProjects([]rs.BudgetRecord{
		budgetRow("A省", 1, "事業X", 2020, 1000),
	}, 2020)

	res := projectExpenditures(rollups, []rs.ExpenditureRecord{
		expRow(1, 2020, "会社A", 100),
		expRow(1, 2020, "会社A", 250),
		expRow(1, 2020, "会社B", 200),
	}, 2020)

	pe := res[1]
	require.Len(t, pe.Top20Expenditures, 2)
	assert.Equal(t, "会社A", pe.Top20Expenditures[0].Name)
	assert.Equal(t, int64(350), pe.Top20Expenditures[0].Amount)
	assert.Equal(t, int64(550), pe.TotalExpenditureAmount)
}

func TestProjectExpenditures_TopTwentyCut(t *testing.T) {
	rollups := ministryProjects([]rs.BudgetRecord{
		budgetRow("A省", 1, "事業X", 2020, 100_000),
	}, 2020)

	var exps []rs.ExpenditureRecord
	for i := 0; i < 22; i++ {
		exps = append(exps, expRow(1, 2020, recipientName(i), int64(2200-100*i)))
	}

	res := projectExpenditures(rollups, exps, 2020)

	pe := res[1]
	require.Len(t, pe.Top20Expenditures, 20)
	assert.Equal(t, int64(2200), pe.Top20Expenditures[0].Amount)
	assert.Equal(t, int64(300), pe.Top20Expenditures[19].Amount)
	// Ranks 21+ roll into others: 200 + 100.
	assert.Equal(t, int64(300), pe.OthersTotal)
	assert.GreaterOrEqual(t, pe.OthersTotal, int64(0))
}

func TestProjectExpenditures_NoRecordsStillProducesRollup(t *testing.T) {
	rollups := ministryProjects([]rs.BudgetRecord{
		budgetRow("A省", 1, "事業X", 2020, 5000),
	}, 2020)

	res := projectExpenditures(rollups, nil, 2020)

	pe := res[1]
	assert.NotNil(t, pe.Top20Expenditures)
	assert.Empty(t, pe.Top20Expenditures)
	assert.Equal(t, int64(5000), pe.UnknownAmount, "unknown equals the full budget when nothing is disclosed")
}

func TestProjectExpenditures_OutsideTopTenExcluded(t *testing.T) {
	// 11 projects: ID 111 falls outside the Top-10 and gets no rollup.
	var records []rs.BudgetRecord
	for i := 0; i < 11; i++ {
		records = append(records, budgetRow("A省", 101+i, "事業", 2020, int64(1100-100*i)))
	}
	rollups := ministryProjects(records, 2020)

	res := projectExpenditures(rollups, []rs.ExpenditureRecord{
		expRow(111, 2020, "会社A", 10),
	}, 2020)

	assert.NotContains(t, res, 111)
	assert.Len(t, res, 10)
}

func recipientName(i int) string {
	return string(rune('あ' + i))
}
