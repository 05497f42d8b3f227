package sankey

import (
	"fmt"
	"sort"

	"rs-flow/domain/rs"
)

// Node types appearing in emitted graphs.
const (
	TypeTotal       = "total"
	TypeMinistry    = "ministry"
	TypeBlock       = "block"
	TypeRecipient   = "recipient"
	TypeProject     = "project"
	TypeOthers      = "others"
	TypeExpenditure = "expenditure"
	TypeUnknown     = "unknown"
)

type Node struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Link struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Value    int64          `json:"value"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// YearGraph builds the year-level budget flow: a single total node on the
// left, one node per ministry on the right sorted by summed budget
// descending, and one link per ministry carrying its total. Records filed
// for other budget years and records without a ministry are skipped.
func YearGraph(records []rs.BudgetRecord, year int) Graph {
	type ministryTotal struct {
		name   string
		budget int64
	}

	totals := map[string]*ministryTotal{}
	var order []*ministryTotal
	var totalBudget int64

	for _, rec := range records {
		if rec.BudgetYear != year || rec.Ministry == "" {
			continue
		}
		mt := totals[rec.Ministry]
		if mt == nil {
			mt = &ministryTotal{name: rec.Ministry}
			totals[rec.Ministry] = mt
			order = append(order, mt)
		}
		mt.budget += rec.InitialBudget
		totalBudget += rec.InitialBudget
	}

	// Descending by budget; encounter order breaks ties.
	sort.SliceStable(order, func(i, j int) bool { return order[i].budget > order[j].budget })

	root := Node{
		ID:       "total_budget",
		Name:     fmt.Sprintf("%d年度予算", year),
		Type:     TypeTotal,
		Metadata: map[string]any{"budget": totalBudget},
	}

	g := Graph{Nodes: []Node{root}}
	for i, mt := range order {
		node := Node{
			ID:       fmt.Sprintf("ministry_%d", i),
			Name:     mt.name,
			Type:     TypeMinistry,
			Metadata: map[string]any{"ministry": mt.name, "budget": mt.budget},
		}
		g.Nodes = append(g.Nodes, node)
		g.Links = append(g.Links, Link{Source: root.ID, Target: node.ID, Value: mt.budget})
	}
	return g
}
