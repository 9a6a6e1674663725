package engine

// ============================================================================
// ENGINE TYPES: Aggregation recipes and render-ready results
// ============================================================================
// A QuerySpec is one aggregation recipe: which rows, which measure, how to
// group, how to sort, and how the result should be drawn. Pages are lists of
// QuerySpecs; the engine never knows which page it serves.
// ============================================================================

// Dimension and measure keys exposed by the broadcast dataset.
const (
	DimDate    = "date"
	DimYear    = "year"
	DimChannel = "channel"
	DimTopic   = "topic"
	DimPeriod  = "period"

	MeasureSubjectCount    = "subject_count"
	MeasureDurationSeconds = "duration_seconds"
	MeasureDurationMinutes = "duration_minutes"
	MeasureDurationHours   = "duration_hours"
)

// Aggregation kinds.
const (
	AggSum   = "sum"
	AggAvg   = "avg"
	AggCount = "count"
)

// Chart kinds.
const (
	ChartBar     = "bar"
	ChartLine    = "line"
	ChartPie     = "pie"
	ChartScatter = "scatter"
)

// Period labels produced by PeriodView.
const (
	PeriodBefore = "before"
	PeriodAfter  = "after"
)

// ============================================================================
// RECORD: Generic data row for ad-hoc views
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// Typed datasets bind through DomainAdapter instead.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// QUERYSPEC: One aggregation recipe
// ============================================================================

// QuerySpec defines what the engine should compute and how it is drawn.
type QuerySpec struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filters     Filters   `json:"filters"`
	Where       Predicate `json:"-"`
	Aggregation string    `json:"aggregation"`        // "sum", "avg", "count"
	Measure     string    `json:"measure"`            // empty → default measure
	XMeasure    string    `json:"xMeasure,omitempty"` // scatter only: measure summed on the x axis
	GroupBy     []string  `json:"groupBy"`            // one or two dimension keys
	SortBy      string    `json:"sortBy"`             // "value_desc", "value_asc", "label_asc", ...
	Limit       int       `json:"limit"`              // 0 = all
	Visualize   string    `json:"visualize"`          // "bar", "line", "pie", "scatter"
	BarMode     string    `json:"barMode,omitempty"`
	Horizontal  bool      `json:"horizontal,omitempty"`
	XAxis       string    `json:"xAxis,omitempty"`
	YAxis       string    `json:"yAxis,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Rolling     int       `json:"rolling,omitempty"` // adds a trailing-mean series when > 0
	Trend       bool      `json:"trend,omitempty"`   // computes a first/last change summary
}

// Filters define which records to include by dimension value.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT: Render-ready output
// ============================================================================

// Result is the engine's output for one QuerySpec.
type Result struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Groups      Groups       `json:"groups"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"-"`
	Trend       *TrendData   `json:"trend,omitempty"`
	DisplayUnit string       `json:"displayUnit,omitempty"`
	Rows        int          `json:"rows"` // records after filtering
}

// ============================================================================
// GROUP: Intermediate computation result
// ============================================================================

// Group is one aggregated bucket. Two-key groupings nest the second key in
// SubGroups.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups Groups     `json:"subGroups,omitempty"`
	View      RecordView `json:"-"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	BarMode    string        `json:"barMode,omitempty"` // "group" or "stack"
	Horizontal bool          `json:"horizontal,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. X is only set for scatter
// points; Missing marks a category the series has no rows for.
type ChartPoint struct {
	Label   string  `json:"label"`
	X       float64 `json:"x,omitempty"`
	Value   float64 `json:"value"`
	Missing bool    `json:"missing,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a tabular projection of a result.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TREND TYPES
// ============================================================================

// TrendData describes the change between the earliest and latest buckets of
// a chronological series.
type TrendData struct {
	Value          string  `json:"value"`
	EarliestValue  float64 `json:"earliestValue"`
	LatestValue    float64 `json:"latestValue"`
	EarliestPeriod string  `json:"earliestPeriod"`
	LatestPeriod   string  `json:"latestPeriod"`
	ChangeAmount   float64 `json:"changeAmount"`
	ChangePercent  float64 `json:"changePercent"`
	Direction      string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
}
