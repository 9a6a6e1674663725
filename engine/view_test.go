package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// DOMAIN ADAPTER
// ============================================================================

var airingAdapter = NewDomainAdapter[airing]().
	Dimension(DimDate, func(a airing) string { return a.day }).
	Dimension(DimChannel, func(a airing) string { return a.channel }).
	Dimension(DimTopic, func(a airing) string { return a.topic }).
	Measure(MeasureDurationHours, func(a airing) float64 { return a.hours }).
	Measure(MeasureSubjectCount, func(a airing) float64 { return float64(a.subjects) })

func TestDomainAdapter(t *testing.T) {
	view := airingAdapter.Bind(airings)

	if view.Len() != len(airings) {
		t.Fatalf("len = %d", view.Len())
	}
	if diff := cmp.Diff([]string{DimDate, DimChannel, DimTopic}, view.DimensionKeys()); diff != "" {
		t.Errorf("dimension keys keep registration order (-want +got):\n%s", diff)
	}
	if got := view.Dimension(3, DimChannel); got != "Arte" {
		t.Errorf("row 3 channel = %q", got)
	}
	if got := view.Measure(2, MeasureSubjectCount); got != 4 {
		t.Errorf("row 2 subjects = %v", got)
	}
	if view.Dimension(0, "region") != "" || view.Measure(0, "audience") != 0 {
		t.Error("unknown keys should read as zero values")
	}
	if view.Dimension(-1, DimChannel) != "" || view.Measure(99, MeasureDurationHours) != 0 {
		t.Error("out-of-range rows should read as zero values")
	}
}

func TestDomainAdapterReregistration(t *testing.T) {
	adapter := NewDomainAdapter[airing]().
		Dimension(DimChannel, func(a airing) string { return a.channel }).
		Dimension(DimChannel, func(a airing) string { return "x" + a.channel })
	view := adapter.Bind(airings)

	if len(view.DimensionKeys()) != 1 {
		t.Errorf("re-registering a key should not duplicate it: %v", view.DimensionKeys())
	}
	if got := view.Dimension(0, DimChannel); got != "xTF1" {
		t.Errorf("last accessor wins, got %q", got)
	}
}

// ============================================================================
// FILTERED VIEWS
// ============================================================================

func TestPredicates(t *testing.T) {
	view := airingAdapter.Bind(airings)

	tests := []struct {
		name string
		pred Predicate
		want int
	}{
		{"between inclusive", Between(DimDate, "2000-06-01", "2001-09-11"), 2},
		{"in", In(DimChannel, "TF1", "Arte"), 4},
		{"in is case-sensitive", In(DimChannel, "tf1"), 0},
		{"eq", Eq(DimTopic, "Economie"), 3},
		{"and skips nil", And(nil, Eq(DimTopic, "Economie"), In(DimChannel, "France 2")), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Where(view, tt.pred).Len(); got != tt.want {
				t.Errorf("rows = %d, want %d", got, tt.want)
			}
		})
	}

	if Where(view) != view || Where(view, nil) != view {
		t.Error("no predicates should return the view unchanged")
	}
}

func TestSubViewReadsThroughParent(t *testing.T) {
	view := airingAdapter.Bind(airings)
	sub := Where(view, Eq(DimChannel, "France 2"))

	if sub.Len() != 2 {
		t.Fatalf("len = %d", sub.Len())
	}
	if sub.Dimension(1, DimDate) != "2002-05-05" || sub.Measure(1, MeasureDurationHours) != 0.75 {
		t.Errorf("row 1 = %s %v", sub.Dimension(1, DimDate), sub.Measure(1, MeasureDurationHours))
	}
	if sub.Dimension(2, DimDate) != "" {
		t.Error("reads past the subset should be empty")
	}
	if diff := cmp.Diff(view.MeasureKeys(), sub.MeasureKeys()); diff != "" {
		t.Errorf("sub view keys (-parent +sub):\n%s", diff)
	}
}

// ============================================================================
// PERIOD VIEW
// ============================================================================

func TestPeriodView(t *testing.T) {
	view := NewPeriodView(airingAdapter.Bind(airings), DimDate, "2001-09-11")

	keys := view.DimensionKeys()
	if keys[len(keys)-1] != DimPeriod {
		t.Errorf("period should be appended to %v", keys)
	}
	if got := view.Dimension(1, DimPeriod); got != PeriodBefore {
		t.Errorf("2000-06-01 period = %q", got)
	}
	if got := view.Dimension(2, DimPeriod); got != PeriodAfter {
		t.Errorf("pivot day itself should be after, got %q", got)
	}
	if got := view.Dimension(2, DimChannel); got != "TF1" {
		t.Errorf("other dimensions pass through, got %q", got)
	}

	groups, err := SumDurationBy(view, []string{DimPeriod}, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertKeys(t, groups, []string{PeriodBefore, PeriodAfter})
	assertApprox(t, groups[0].Value, 1.5, "hours before")
	assertApprox(t, groups[1].Value, 4.5, "hours after")
}
