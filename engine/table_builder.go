package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER: Produces TableData from QuerySpec + Groups
// ============================================================================
// Two-key groupings are flattened: one row per (primary, secondary) pair.
// ============================================================================

// BuildTable produces a tabular projection of aggregated groups.
func BuildTable(spec QuerySpec, groups Groups, unit string) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   spec.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := make([]Column, 0, len(spec.GroupBy)+2)
	for i, dim := range spec.GroupBy {
		if i > 1 {
			break
		}
		columns = append(columns, Column{Key: dim, Label: LabelForDimension(dim), Type: "text", Align: "left"})
	}
	if len(columns) == 0 {
		columns = append(columns, Column{Key: "group", Label: "Group", Type: "text", Align: "left"})
	}
	columns = append(columns,
		Column{Key: "value", Label: LabelForAggregation(spec.Aggregation, spec.Measure), Type: "number", Align: "right"},
		Column{Key: "count", Label: "Rows", Type: "number", Align: "center"},
	)

	twoKeys := len(spec.GroupBy) >= 2 && hasSubGroups(groups)
	rows := make([][]string, 0, len(groups))
	var totalCount int

	for _, g := range groups {
		totalCount += g.Count
		if !twoKeys {
			rows = append(rows, []string{g.Label, fmt.Sprintf("%.2f", g.Value), fmt.Sprintf("%d", g.Count)})
			continue
		}
		for _, sg := range g.SubGroups {
			rows = append(rows, []string{g.Label, sg.Label, fmt.Sprintf("%.2f", sg.Value), fmt.Sprintf("%d", sg.Count)})
		}
	}

	values := map[string]string{
		"count": FormatInt(totalCount),
	}
	if spec.Aggregation != AggAvg {
		values["value"] = FormatNumber(groups.Total(), unit)
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Total",
			Values: values,
		},
	}
}
