package schema

import (
	"fmt"

	"github.com/opendata-univ/barometre/engine"
)

// ============================================================================
// SCHEMA: Static shape of the broadcast dataset
// ============================================================================
// The source file layout and the columns every page relies on are fixed.
// The loader validates its bound view against this schema once, so page
// code can assume conformance.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Source     SourceFormat    `json:"source"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// SourceFormat describes the raw file the dataset is parsed from.
type SourceFormat struct {
	Delimiter  rune     `json:"delimiter"`
	Encoding   string   `json:"encoding"`
	Header     bool     `json:"header"`
	DateLayout string   `json:"dateLayout"`
	Columns    []string `json:"columns"` // positional; "" marks a discarded field
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key            string `json:"key"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description,omitempty"`
	Groupable      bool   `json:"groupable"`
	Filterable     bool   `json:"filterable"`
	IsTemporal     bool   `json:"isTemporal,omitempty"`
	TemporalFormat string `json:"temporalFormat,omitempty"`
	DerivedFrom    string `json:"derivedFrom,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "subjects", "seconds", "minutes", "hours"
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
	DerivedFrom        string   `json:"derivedFrom,omitempty"`
	Scale              float64  `json:"scale,omitempty"` // derived = source / Scale
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName, unit string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Unit:               unit,
		Aggregations:       []string{engine.AggSum, engine.AggAvg, engine.AggCount},
		DefaultAggregation: engine.AggSum,
	}
}

// Broadcast returns the schema of the daily TV news barometer file.
func Broadcast() Config {
	date := DefaultDimension(engine.DimDate, "Date")
	date.IsTemporal = true
	date.TemporalFormat = "2006-01-02"

	year := DefaultDimension(engine.DimYear, "Year")
	year.IsTemporal = true
	year.TemporalFormat = "2006"
	year.DerivedFrom = engine.DimDate

	seconds := DefaultMeasure(engine.MeasureDurationSeconds, "Duration (seconds)", "seconds")

	minutes := DefaultMeasure(engine.MeasureDurationMinutes, "Duration (minutes)", "minutes")
	minutes.DerivedFrom = engine.MeasureDurationSeconds
	minutes.Scale = 60

	hours := DefaultMeasure(engine.MeasureDurationHours, "Duration (hours)", "hours")
	hours.DerivedFrom = engine.MeasureDurationSeconds
	hours.Scale = 3600

	return Config{
		Name:        "Baromètre JT",
		Version:     "1.0",
		Description: "Daily subject counts and airtime per channel and topic in French TV news, 2000–2020",
		Source: SourceFormat{
			Delimiter:  ';',
			Encoding:   "ISO-8859-1",
			Header:     false,
			DateLayout: "02/01/2006",
			Columns:    []string{engine.DimDate, engine.DimChannel, "", engine.DimTopic, engine.MeasureSubjectCount, engine.MeasureDurationSeconds},
		},
		Dimensions: []DimensionMeta{
			date,
			DefaultDimension(engine.DimChannel, "Channel"),
			DefaultDimension(engine.DimTopic, "Topic"),
			year,
		},
		Measures: []MeasureMeta{
			hours,
			DefaultMeasure(engine.MeasureSubjectCount, "Subjects", "subjects"),
			seconds,
			minutes,
		},
	}
}

// GetDefaultMeasure returns the first measure's key.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return engine.MeasureDurationHours
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// FieldCount returns the number of positional fields per source row.
func (c Config) FieldCount() int {
	return len(c.Source.Columns)
}

// Validate checks that view exposes every dimension and measure of the
// schema. The error wraps *engine.MissingColumnError.
func Validate(c Config, view engine.RecordView) error {
	keys := append(c.DimensionKeys(), c.MeasureKeys()...)
	if err := engine.RequireColumns(view, keys...); err != nil {
		return fmt.Errorf("schema %q: %w", c.Name, err)
	}
	return nil
}
