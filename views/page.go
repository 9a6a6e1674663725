// Package views turns the dataset and a session's selections into dashboard
// pages. Every page is recomputed from scratch on each call; the only state
// is what the session stores.
package views

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/opendata-univ/barometre/config"
	"github.com/opendata-univ/barometre/dataset"
	"github.com/opendata-univ/barometre/engine"
	"github.com/opendata-univ/barometre/events"
	"github.com/opendata-univ/barometre/logger"
	"github.com/opendata-univ/barometre/schema"
	"github.com/opendata-univ/barometre/session"
)

// NoDataNotice is shown in place of a chart whose selection matched no rows.
const NoDataNotice = "No data for this selection"

// Control kinds.
const (
	KindSelect = "select"
	KindSlider = "slider"
)

var (
	ErrUnknownPage    = errors.New("unknown page")
	ErrUnknownControl = errors.New("unknown control")
	ErrInvalidValue   = errors.New("value outside the control's domain")
)

// ============================================================================
// TYPES
// ============================================================================

// Env bundles the read-only inputs shared by every page.
type Env struct {
	Data     *dataset.Dataset
	Events   *events.Catalog
	Settings config.DashboardConfig

	opts []engine.Option
}

// NewEnv creates an Env. Panels aggregate the schema's default measure when
// a query names none, and round chart points to settings.Precision.
func NewEnv(ds *dataset.Dataset, cat *events.Catalog, settings config.DashboardConfig) *Env {
	return &Env{
		Data:     ds,
		Events:   cat,
		Settings: settings,
		opts: []engine.Option{
			engine.WithDefaultMeasure(schema.Broadcast().GetDefaultMeasure()),
			engine.WithPrecision(settings.Precision),
		},
	}
}

// Page is a computed dashboard page.
type Page struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Controls    []Control `json:"controls"`
	Panels      []*Panel  `json:"panels"`
}

// Panel is one chart slot. Exactly one of Result, Notice, Error, or Text
// carries its content.
type Panel struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Text   string            `json:"text,omitempty"`
	Link   string            `json:"link,omitempty"`
	Result *engine.Result    `json:"result,omitempty"`
	Table  *engine.TableData `json:"table,omitempty"`
	Notice string            `json:"notice,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// HasChart reports whether the panel has something to draw.
func (p *Panel) HasChart() bool {
	return p.Result != nil && p.Result.ChartConfig != nil
}

// Control is one widget bound to a single session field.
type Control struct {
	Field   string   `json:"field"`
	Kind    string   `json:"kind"`
	Label   string   `json:"label"`
	Options []string `json:"options,omitempty"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Default string   `json:"default"`
	Value   string   `json:"value"`
}

// Accepts reports whether v lies in the control's domain.
func (c Control) Accepts(v string) bool {
	switch c.Kind {
	case KindSlider:
		// only the canonical form, so stored values match the year dimension
		n, err := strconv.Atoi(v)
		return err == nil && strconv.Itoa(n) == v && n >= c.Min && n <= c.Max
	default:
		for _, o := range c.Options {
			if o == v {
				return true
			}
		}
		return false
	}
}

// Selection holds a page's current control values by field.
type Selection map[string]string

// PageInfo is a navigation entry.
type PageInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type pageDef struct {
	id          string
	title       string
	description string
	controls    func(env *Env) []Control
	panels      func(env *Env, sel Selection) []*Panel
}

// ============================================================================
// REGISTRY
// ============================================================================

// registry is filled in init because the intro page lists the registry.
var registry []pageDef

func init() {
	registry = []pageDef{
		introPage,
		topicsPage,
		sciencesPage,
		channelPage,
		economyPage,
		eventsPage,
		comparePage,
	}
}

func lookupPage(id string) (pageDef, bool) {
	for _, def := range registry {
		if def.id == id {
			return def, true
		}
	}
	return pageDef{}, false
}

// Pages lists the dashboard pages in navigation order.
func Pages() []PageInfo {
	out := make([]PageInfo, len(registry))
	for i, def := range registry {
		out[i] = PageInfo{ID: def.id, Title: def.title}
	}
	return out
}

// Build computes page id for the session st. A nil st uses every control's
// default without recording anything.
func Build(env *Env, st *session.State, id string) (*Page, error) {
	def, ok := lookupPage(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	start := time.Now()

	var controls []Control
	if def.controls != nil {
		controls = def.controls(env)
	}
	sel := make(Selection, len(controls))
	for i := range controls {
		c := &controls[i]
		c.Value = c.Default
		if st != nil {
			c.Value = st.Value(def.id, c.Field, func() string { return c.Default })
		}
		if !c.Accepts(c.Value) {
			c.Value = c.Default
		}
		sel[c.Field] = c.Value
	}

	page := &Page{
		ID:          def.id,
		Title:       def.title,
		Description: def.description,
		Controls:    controls,
		Panels:      def.panels(env, sel),
	}
	logger.Log.Debugf("📊 Page %s: %d panels in %s", def.id, len(page.Panels), time.Since(start))
	return page, nil
}

// ApplyControl validates value against the control's domain and stores it.
// Exactly one field of one page changes; on error nothing changes.
func ApplyControl(env *Env, st *session.State, pageID, field, value string) error {
	def, ok := lookupPage(pageID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPage, pageID)
	}
	if def.controls != nil {
		for _, c := range def.controls(env) {
			if c.Field != field {
				continue
			}
			if !c.Accepts(value) {
				return fmt.Errorf("%s.%s = %q: %w", pageID, field, value, ErrInvalidValue)
			}
			st.Set(pageID, field, value)
			logger.Log.Debugf("🎛️ Session %s: %s.%s = %q", st.ID(), pageID, field, value)
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownControl, pageID, field)
}

// ============================================================================
// PANEL EXECUTION
// ============================================================================

// runQuery executes spec against view and wraps the outcome in a Panel.
func (env *Env) runQuery(view engine.RecordView, spec engine.QuerySpec) *Panel {
	return runPanel(spec, func() (*engine.Result, error) {
		return engine.Execute(spec, view, env.opts...)
	})
}

// withTrend adds the trend sentence of a chronological panel.
func withTrend(p *Panel, subject string) *Panel {
	if p.Result != nil && p.Result.Trend != nil {
		p.Text = p.Result.Trend.Sentence(subject)
	}
	return p
}

// runPanel contains any failure of fn, including a panic, to the panel.
func runPanel(spec engine.QuerySpec, fn func() (*engine.Result, error)) (p *Panel) {
	p = &Panel{ID: spec.ID, Title: spec.Title}
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("❌ Panel %s panicked: %v\n%s", spec.ID, r, debug.Stack())
			p.Result, p.Table = nil, nil
			p.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	res, err := fn()
	switch {
	case engine.IsEmptySelection(err):
		p.Notice = NoDataNotice
	case err != nil:
		logger.Log.Warnf("⚠️ Panel %s: %v", spec.ID, err)
		p.Error = err.Error()
	case res == nil || len(res.Groups) == 0:
		p.Notice = NoDataNotice
	default:
		p.Result = res
		p.Table = res.TableData
	}
	return p
}

// ============================================================================
// SHARED CONTROL HELPERS
// ============================================================================

func selectControl(field, label string, options []string, def int) Control {
	c := Control{Field: field, Kind: KindSelect, Label: label, Options: options}
	if len(options) > 0 {
		if def >= len(options) {
			def = len(options) - 1
		}
		c.Default = options[def]
	}
	return c
}

// canonicalTopic resolves a configured topic label against the dataset,
// falling back to the label itself.
func (env *Env) canonicalTopic(label string) string {
	if c, ok := env.Data.CanonicalTopic(label); ok {
		return c
	}
	return label
}

func (env *Env) canonicalChannel(label string) string {
	if c, ok := env.Data.CanonicalChannel(label); ok {
		return c
	}
	return label
}

func yearKey(y int) string { return strconv.Itoa(y) }
