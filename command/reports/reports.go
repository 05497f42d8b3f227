// Package reports builds the cross-year project artifacts: one reconciled
// time series per project name plus the searchable index. Numeric project
// IDs are reused across years, so identity is the project name.
package reports

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"rs-flow/connectors/config"
	"rs-flow/connectors/jsonout"
	"rs-flow/connectors/rscsv"
	"rs-flow/domain/rs"
)

type yearInput struct {
	year     int
	budget   []rs.BudgetRecord
	exps     []rs.ExpenditureRecord
	overview []rs.OverviewRecord
}

// Run executes the reports subcommand. It re-reads the raw rows of every
// available year (it does not depend on preprocess output), reconciles them
// and writes project-index.json plus one file per project.
func Run(args []string) error {
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "base directory of the RS CSV extracts (default from config)")
	outDir := fs.String("out", "", "output directory for JSON artifacts (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Resolve()
	if *dataDir == "" {
		*dataDir = cfg.Data.BasePath
	}
	if *outDir == "" {
		*outDir = cfg.Data.OutputPath
	}
	src := rscsv.Source{BasePath: *dataDir, Schema: cfg.Schema()}

	years := append([]int{}, cfg.Years.Available...)
	sort.Ints(years)

	slog.Info("reports.start", "data", *dataDir, "out", *outDir, "years", len(years))

	var inputs []yearInput
	var failed []int
	for _, year := range years {
		if !src.HasYear(year) {
			slog.Info("reports.year.skip", "year", year, "reason", "directory not found")
			continue
		}
		in, err := loadYear(src, year)
		if err != nil {
			slog.Error("reports.year.error", "year", year, "error", err)
			failed = append(failed, year)
			continue
		}
		slog.Info("reports.year.loaded", "year", year,
			"budget", len(in.budget), "expenditure", len(in.exps), "overview", len(in.overview))
		inputs = append(inputs, in)
	}

	recon := newReconciler()
	// Amount merges scan ascending so the first filed value wins; the
	// descending overview pass prefers the most recent declaration.
	for _, in := range inputs {
		recon.addBudget(in.budget)
		recon.addExpenditures(in.year, in.exps)
	}
	for i := len(inputs) - 1; i >= 0; i-- {
		recon.addOverview(inputs[i].overview)
	}

	series, index := recon.build()

	if err := jsonout.WriteProjectIndex(*outDir, index); err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(8)
	for _, p := range series {
		p := p
		g.Go(func() error { return jsonout.WriteProject(*outDir, p) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("write project files: %w", err)
	}

	slog.Info("reports.done", "projects", len(series), "failedYears", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("reports: %d year(s) failed: %v", len(failed), failed)
	}
	return nil
}

func loadYear(src rscsv.Source, year int) (yearInput, error) {
	in := yearInput{year: year}
	var g errgroup.Group
	g.Go(func() (err error) {
		in.budget, err = src.LoadBudget(year)
		return err
	})
	g.Go(func() (err error) {
		in.exps, err = src.LoadExpenditures(year)
		return err
	})
	g.Go(func() (err error) {
		in.overview, err = src.LoadOverview(year)
		return err
	})
	if err := g.Wait(); err != nil {
		return yearInput{year: year}, err
	}
	return in, nil
}
