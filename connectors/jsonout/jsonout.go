// Package jsonout writes the pipeline's JSON artifacts.
package jsonout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"rs-flow/domain/report"
	"rs-flow/domain/rs"
	"rs-flow/domain/sankey"
)

// Write serializes v as pretty-printed JSON to path, creating parent
// directories as needed. Japanese text is emitted verbatim, not escaped.
func Write(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// YearArtifacts is the full per-year output set.
type YearArtifacts struct {
	Sankey              sankey.Graph
	Statistics          report.Statistics
	Ministries          []report.MinistryBudget
	MinistryProjects    map[string]report.MinistryProjects
	ProjectExpenditures map[int]report.ProjectExpenditures
}

// WriteYearArtifacts writes one year's artifacts under dir/year_YYYY.
// Each artifact goes to its own file; the writes are independent and run
// concurrently.
func WriteYearArtifacts(dir string, year int, a YearArtifacts) error {
	out := filepath.Join(dir, rs.YearDir(year))

	var g errgroup.Group
	g.Go(func() error { return Write(filepath.Join(out, "sankey.json"), a.Sankey) })
	g.Go(func() error { return Write(filepath.Join(out, "statistics.json"), a.Statistics) })
	g.Go(func() error { return Write(filepath.Join(out, "ministries.json"), a.Ministries) })
	g.Go(func() error { return Write(filepath.Join(out, "ministry-projects.json"), a.MinistryProjects) })
	g.Go(func() error { return Write(filepath.Join(out, "project-expenditures.json"), a.ProjectExpenditures) })
	return g.Wait()
}

// WriteProjectIndex writes the cross-year search index.
func WriteProjectIndex(dir string, index []report.ProjectIndexItem) error {
	return Write(filepath.Join(dir, "project-index.json"), index)
}

// WriteProject writes one reconciled project file keyed by its project key.
func WriteProject(dir string, p report.ProjectTimeSeries) error {
	return Write(filepath.Join(dir, "projects", p.ProjectKey+".json"), p)
}
