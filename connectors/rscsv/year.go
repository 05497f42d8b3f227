package rscsv

import (
	"golang.org/x/sync/errgroup"

	"rs-flow/domain/rs"
)

// YearData bundles the flow sources ingested for one fiscal year.
type YearData struct {
	Year         int
	Budget       []rs.BudgetRecord
	Expenditures []rs.ExpenditureRecord
	Connections  []rs.ConnectionRecord
}

// LoadYear reads the budget, expenditure and connection sources for a year.
// The file reads are independent and run concurrently; any failing read
// fails the year.
func (s Source) LoadYear(year int) (YearData, error) {
	data := YearData{Year: year}

	var g errgroup.Group
	g.Go(func() (err error) {
		data.Budget, err = s.LoadBudget(year)
		return err
	})
	g.Go(func() (err error) {
		data.Expenditures, err = s.LoadExpenditures(year)
		return err
	})
	g.Go(func() (err error) {
		data.Connections, err = s.LoadConnections(year)
		return err
	})
	if err := g.Wait(); err != nil {
		return YearData{Year: year}, err
	}
	return data, nil
}
