package engine

import (
	"fmt"
)

// ============================================================================
// TREND BUILDER: First-to-last change over a chronological grouping
// ============================================================================

// BuildTrend compares the earliest and latest buckets of groups keyed by a
// sortable period (years, ISO dates). Fewer than two buckets reports
// "insufficient data".
func BuildTrend(groups Groups, unit string) *TrendData {
	if len(groups) == 0 {
		return &TrendData{
			Value:     "No data",
			Direction: "insufficient data",
		}
	}

	ordered := make(Groups, len(groups))
	copy(ordered, groups)
	SortGroups(ordered, "chronological")

	earliest := ordered[0]
	latest := ordered[len(ordered)-1]

	if len(ordered) < 2 {
		return &TrendData{
			Value:          FormatNumber(earliest.Value, unit),
			EarliestValue:  earliest.Value,
			LatestValue:    earliest.Value,
			EarliestPeriod: earliest.Key,
			LatestPeriod:   earliest.Key,
			Direction:      "insufficient data",
		}
	}

	changeAmount := latest.Value - earliest.Value
	var changePercent float64
	if earliest.Value != 0 {
		changePercent = (changeAmount / earliest.Value) * 100
	}

	direction := "unchanged"
	if changePercent > 0.5 {
		direction = "increased"
	} else if changePercent < -0.5 {
		direction = "decreased"
	}

	absPercent := changePercent
	if absPercent < 0 {
		absPercent = -absPercent
	}
	var displayValue string
	switch direction {
	case "increased":
		displayValue = fmt.Sprintf("↑ %.1f%%", absPercent)
	case "decreased":
		displayValue = fmt.Sprintf("↓ %.1f%%", absPercent)
	default:
		displayValue = "→ No change"
	}

	return &TrendData{
		Value:          displayValue,
		EarliestValue:  earliest.Value,
		LatestValue:    latest.Value,
		EarliestPeriod: earliest.Key,
		LatestPeriod:   latest.Key,
		ChangeAmount:   changeAmount,
		ChangePercent:  changePercent,
		Direction:      direction,
	}
}

// Sentence renders the trend as a one-line summary.
func (t *TrendData) Sentence(subject string) string {
	if t == nil || t.Direction == "insufficient data" {
		return fmt.Sprintf("Not enough years of data to describe a trend for %s.", subject)
	}
	if t.Direction == "unchanged" {
		return fmt.Sprintf("Coverage of %s is stable between %s and %s.", subject, t.EarliestPeriod, t.LatestPeriod)
	}
	return fmt.Sprintf("Coverage of %s %s by %.1f%% between %s and %s.",
		subject, t.Direction, abs(t.ChangePercent), t.EarliestPeriod, t.LatestPeriod)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
