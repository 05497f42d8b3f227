// Package preprocess builds the per-year JSON artifacts from the raw RS
// extracts: the budget flow graph, statistics, ministry list and the
// ministry/project rollups.
package preprocess

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"rs-flow/connectors/config"
	"rs-flow/connectors/jsonout"
	"rs-flow/connectors/rscsv"
	"rs-flow/domain/sankey"
)

// Run executes the preprocess subcommand. Years are independent units of
// work: a failing year is reported and skipped, the rest continue.
func Run(args []string) error {
	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "base directory of the RS CSV extracts (default from config)")
	outDir := fs.String("out", "", "output directory for JSON artifacts (default from config)")
	jobs := fs.Int("jobs", 4, "maximum number of years processed in parallel")
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

	slog.Info("preprocess.start", "data", *dataDir, "out", *outDir, "years", len(cfg.Years.Available))

	var (
		mu        sync.Mutex
		failed    []int
		processed int
	)
	var g errgroup.Group
	g.SetLimit(*jobs)
	for _, year := range cfg.Years.Available {
		if !src.HasYear(year) {
			slog.Info("preprocess.year.skip", "year", year, "reason", "directory not found")
			continue
		}
		year := year
		g.Go(func() error {
			if err := processYear(src, *outDir, year); err != nil {
				slog.Error("preprocess.year.error", "year", year, "error", err)
				mu.Lock()
				failed = append(failed, year)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Ints(failed)
	slog.Info("preprocess.done", "processed", processed, "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("preprocess: %d year(s) failed: %v", len(failed), failed)
	}
	return nil
}

func processYear(src rscsv.Source, out string, year int) error {
	slog.Info("preprocess.year.start", "year", year)

	data, err := src.LoadYear(year)
	if err != nil {
		return err
	}
	slog.Info("preprocess.year.loaded", "year", year,
		"budget", len(data.Budget), "expenditure", len(data.Expenditures), "connections", len(data.Connections))

	rollups := ministryProjects(data.Budget, year)
	artifacts := jsonout.YearArtifacts{
		Sankey:              sankey.YearGraph(data.Budget, year),
		Statistics:          calculateStatistics(data.Budget, year, src.Schema),
		Ministries:          ministryTotals(data.Budget, year),
		MinistryProjects:    rollups,
		ProjectExpenditures: projectExpenditures(rollups, data.Expenditures, year),
	}
	if err := jsonout.WriteYearArtifacts(out, year, artifacts); err != nil {
		return fmt.Errorf("write artifacts for %d: %w", year, err)
	}
	slog.Info("preprocess.year.done", "year", year)
	return nil
}
