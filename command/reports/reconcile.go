package reports

import (
	"sort"

	lo "github.com/samber/lo"

	"rs-flow/domain/report"
	"rs-flow/domain/rs"
)

const topRecipients = 10

// recipientSeries accumulates one recipient's amounts across years.
type recipientSeries struct {
	name   string
	total  int64
	yearly map[int]int64
}

// seriesBuilder accumulates one project's cross-year state. Identity is the
// project name; numeric IDs are only recorded per year.
type seriesBuilder struct {
	name           string
	ministry       string
	startYear      int // 0 = not declared
	endYear        int
	yearly         map[int]*report.YearlyFigures
	recipients     map[string]*recipientSeries
	recipientOrder []*recipientSeries
}

// reconciler merges all years' raw rows into per-project time series.
type reconciler struct {
	byName map[string]*seriesBuilder
	order  []*seriesBuilder
}

func newReconciler() *reconciler {
	return &reconciler{byName: map[string]*seriesBuilder{}}
}

func (c *reconciler) series(name string) *seriesBuilder {
	sb := c.byName[name]
	if sb == nil {
		sb = &seriesBuilder{
			name:       name,
			yearly:     map[int]*report.YearlyFigures{},
			recipients: map[string]*recipientSeries{},
		}
		c.byName[name] = sb
		c.order = append(c.order, sb)
	}
	return sb
}

// addBudget merges one extract's budget rows. Source files repeat partial
// rows for a project-year, so the merge is asymmetric on purpose: the first
// non-zero budget/execution observed wins and is never overwritten, while a
// filed execution rate always replaces the stored one. Call order is
// ascending by extract year, so the ministry ends up as the most recently
// filed one.
func (c *reconciler) addBudget(rows []rs.BudgetRecord) {
	for _, r := range rows {
		if r.ProjectName == "" || r.BudgetYear == 0 {
			continue
		}
		sb := c.series(r.ProjectName)
		if r.Ministry != "" {
			sb.ministry = r.Ministry
		}

		yf := sb.yearly[r.BudgetYear]
		if yf == nil {
			yf = &report.YearlyFigures{
				ProjectID: r.ProjectID,
				Budget:    r.InitialBudget,
				Execution: r.Execution,
			}
			if r.HasRate {
				yf.ExecutionRate = r.ExecutionRate
			}
			sb.yearly[r.BudgetYear] = yf
			continue
		}
		if yf.Budget == 0 && r.InitialBudget != 0 {
			yf.Budget = r.InitialBudget
		}
		if yf.Execution == 0 && r.Execution != 0 {
			yf.Execution = r.Execution
		}
		if r.HasRate {
			yf.ExecutionRate = r.ExecutionRate
		}
		if yf.ProjectID == 0 && r.ProjectID != 0 {
			yf.ProjectID = r.ProjectID
		}
	}
}

// addOverview records declared start/end years. Call order is descending by
// extract year: the most recently filed declaration wins and once a year is
// set it is never overwritten. Declarations outside the plausibility bounds
// are ignored.
func (c *reconciler) addOverview(rows []rs.OverviewRecord) {
	for _, r := range rows {
		sb := c.byName[r.ProjectName]
		if sb == nil {
			continue
		}
		if sb.startYear == 0 && r.StartYear >= rs.MinDeclaredYear && r.StartYear <= rs.MaxDeclaredStartYear {
			sb.startYear = r.StartYear
		}
		if sb.endYear == 0 && r.EndYear >= rs.MinDeclaredYear && r.EndYear <= rs.MaxDeclaredEndYear {
			sb.endYear = r.EndYear
		}
	}
}

// addExpenditures accumulates one extract year's recipient amounts into the
// cumulative per-recipient totals. Rows for project names that never appear
// in any budget extract are unattributable and skipped.
func (c *reconciler) addExpenditures(year int, rows []rs.ExpenditureRecord) {
	for _, r := range rows {
		if r.ProjectName == "" || r.Recipient == "" || r.Amount <= 0 {
			continue
		}
		sb := c.byName[r.ProjectName]
		if sb == nil {
			continue
		}
		rec := sb.recipients[r.Recipient]
		if rec == nil {
			rec = &recipientSeries{name: r.Recipient, yearly: map[int]int64{}}
			sb.recipients[r.Recipient] = rec
			sb.recipientOrder = append(sb.recipientOrder, rec)
		}
		rec.total += r.Amount
		rec.yearly[year] += r.Amount
	}
}

// build finalizes every reconciled project and the budget-sorted index.
// Projects without a single year of budget data are dropped.
func (c *reconciler) build() ([]report.ProjectTimeSeries, []report.ProjectIndexItem) {
	var series []report.ProjectTimeSeries
	var index []report.ProjectIndexItem

	for _, sb := range c.order {
		if len(sb.yearly) == 0 {
			continue
		}

		p := report.ProjectTimeSeries{
			ProjectName: sb.name,
			ProjectKey:  report.ProjectKey(sb.name),
			Ministry:    sb.ministry,
			StartYear:   yearPtr(sb.startYear),
			EndYear:     yearPtr(sb.endYear),
			YearlyData:  map[int]report.YearlyFigures{},
		}

		var total int64
		years := lo.Keys(sb.yearly)
		sort.Ints(years)
		for _, y := range years {
			p.YearlyData[y] = *sb.yearly[y]
			total += sb.yearly[y].Budget
		}

		recipients := sb.recipientOrder
		sort.SliceStable(recipients, func(i, j int) bool { return recipients[i].total > recipients[j].total })
		cut := min(topRecipients, len(recipients))
		p.TopExpenditures = lo.Map(recipients[:cut], func(r *recipientSeries, _ int) report.ExpenditureTimeSeries {
			return report.ExpenditureTimeSeries{
				Name:          r.name,
				TotalAmount:   r.total,
				YearCount:     len(r.yearly),
				YearlyAmounts: r.yearly,
			}
		})
		if p.TopExpenditures == nil {
			p.TopExpenditures = []report.ExpenditureTimeSeries{}
		}

		series = append(series, p)
		index = append(index, report.ProjectIndexItem{
			ProjectKey:    p.ProjectKey,
			ProjectName:   p.ProjectName,
			Ministry:      p.Ministry,
			StartYear:     p.StartYear,
			EndYear:       p.EndYear,
			DataStartYear: years[0],
			DataEndYear:   years[len(years)-1],
			TotalBudget:   total,
			AverageBudget: total / int64(len(years)),
		})
	}

	sort.SliceStable(index, func(i, j int) bool {
		if index[i].TotalBudget != index[j].TotalBudget {
			return index[i].TotalBudget > index[j].TotalBudget
		}
		return index[i].ProjectName < index[j].ProjectName
	})
	return series, index
}

func yearPtr(y int) *int {
	if y == 0 {
		return nil
	}
	return &y
}
