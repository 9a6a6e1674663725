package engine

// ============================================================================
// ENGINE OPTIONS: Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	DefaultMeasure string // measure used when QuerySpec.Measure is empty
	Precision      int    // decimals kept in chart points
	AllowEmpty     bool   // return an empty result instead of EmptySelectionError
}

// WithDefaultMeasure sets the measure to aggregate when QuerySpec.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// WithPrecision sets how many decimals chart points keep.
func WithPrecision(decimals int) Option {
	return func(c *config) {
		if decimals >= 0 {
			c.Precision = decimals
		}
	}
}

// WithAllowEmpty makes Execute return an empty Result rather than an
// EmptySelectionError when no rows match.
func WithAllowEmpty() Option {
	return func(c *config) {
		c.AllowEmpty = true
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DefaultMeasure: MeasureDurationHours,
		Precision:      2,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
