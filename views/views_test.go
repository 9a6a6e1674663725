package views

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/opendata-univ/barometre/config"
	"github.com/opendata-univ/barometre/dataset"
	"github.com/opendata-univ/barometre/dataset/datasettest"
	"github.com/opendata-univ/barometre/engine"
	"github.com/opendata-univ/barometre/events"
	"github.com/opendata-univ/barometre/session"
)

// ============================================================================
// FIXTURES
// ============================================================================

var fixtureChannels = []string{"TF1", "France 2", "France 3", "Arte", "M6", "Canal+"}

// fixture spans 2000–2020. Channel i spends (i+1) hours on the economy per
// sampled day, so TF1 ranks last.
func fixture() *dataset.Dataset {
	var rows []dataset.Broadcast
	for i, ch := range fixtureChannels {
		for _, day := range []string{"2000-03-01", "2002-06-15", "2020-05-10"} {
			rows = append(rows,
				datasettest.Row(day, ch, "Economie", i+1, float64(i+1)*3600),
				datasettest.Row(day, ch, "Sciences et techniques", 2, 1800),
				datasettest.Row(day, ch, "International", 1, 900),
			)
		}
	}
	rows = append(rows,
		datasettest.Row("2001-09-10", "TF1", "International", 3, 600),
		datasettest.Row("2001-09-12", "TF1", "International", 2, 1200),
	)
	return dataset.New(rows)
}

func newEnv(ds *dataset.Dataset) *Env {
	return NewEnv(ds, events.Default(), config.DefaultDashboard())
}

func panelByID(t *testing.T, page *Page, id string) *Panel {
	t.Helper()
	for _, p := range page.Panels {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("page %s has no panel %q", page.ID, id)
	return nil
}

func mustBuild(t *testing.T, env *Env, st *session.State, id string) *Page {
	t.Helper()
	page, err := Build(env, st, id)
	if err != nil {
		t.Fatalf("Build(%s) failed: %v", id, err)
	}
	return page
}

var ignoreViews = cmpopts.IgnoreFields(engine.Group{}, "View")

// ============================================================================
// PAGE TESTS
// ============================================================================

func TestEveryPageBuilds(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")
	for _, info := range Pages() {
		page := mustBuild(t, env, st, info.ID)
		if len(page.Panels) == 0 {
			t.Errorf("page %s has no panels", info.ID)
		}
		for _, p := range page.Panels {
			if p.Error != "" {
				t.Errorf("%s/%s: unexpected error %q", info.ID, p.ID, p.Error)
			}
		}
	}
}

func TestEventWindowIncludesBothSides(t *testing.T) {
	ds := dataset.New([]dataset.Broadcast{
		datasettest.Row("2001-09-10", "TF1", "International", 3, 600),
		datasettest.Row("2001-09-12", "TF1", "International", 2, 1200),
	})
	env := newEnv(ds)
	st := session.NewState("t")
	if err := ApplyControl(env, st, "events", "event", "September 11 attacks"); err != nil {
		t.Fatal(err)
	}
	if err := ApplyControl(env, st, "events", "channel", "TF1"); err != nil {
		t.Fatal(err)
	}

	page := mustBuild(t, env, st, "events")
	p := panelByID(t, page, "event_topics_before_after")
	if p.Result == nil {
		t.Fatalf("expected a result, got notice=%q error=%q", p.Notice, p.Error)
	}

	groups := p.Result.Groups
	if total := groups.Total(); math.Abs(total-0.5) > 1e-9 {
		t.Errorf("summed hours = %v, want 0.5", total)
	}
	if diff := cmp.Diff([]string{engine.PeriodBefore, engine.PeriodAfter}, groups.Keys()); diff != "" {
		t.Errorf("period order (-want +got):\n%s", diff)
	}
	before, _ := groups.Lookup(engine.PeriodBefore, "International")
	after, _ := groups.Lookup(engine.PeriodAfter, "International")
	if math.Abs(before.Value-600.0/3600) > 1e-9 || math.Abs(after.Value-1200.0/3600) > 1e-9 {
		t.Errorf("before=%v after=%v", before.Value, after.Value)
	}
	if p.Result.ChartConfig.BarMode != "stack" {
		t.Errorf("BarMode = %q, want stack", p.Result.ChartConfig.BarMode)
	}
}

func TestEmptyPieShowsNotice(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")
	if err := ApplyControl(env, st, "topics", "year", "2010"); err != nil {
		t.Fatalf("2010 should be inside the slider domain: %v", err)
	}

	p := panelByID(t, mustBuild(t, env, st, "topics"), "topic_share_year")
	if p.Notice != NoDataNotice || p.Error != "" || p.Result != nil {
		t.Errorf("expected no-data notice, got %+v", p)
	}

	groups, err := engine.SumSubjectCountBy(env.Data.View(), []string{engine.DimTopic}, engine.Eq(engine.DimYear, "2010"))
	if err != nil || len(groups) != 0 {
		t.Errorf("expected empty groups and no error, got %v, %v", groups, err)
	}
}

func TestCompareIdenticalTopics(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")

	page := mustBuild(t, env, st, "compare")
	if got := page.Controls[0].Value; got != "Economie" {
		t.Errorf("topic_a default = %q, want first sorted topic", got)
	}
	if got := page.Controls[1].Value; got != "International" {
		t.Errorf("topic_b default = %q, want second sorted topic", got)
	}

	if err := ApplyControl(env, st, "compare", "topic_b", "Economie"); err != nil {
		t.Fatal(err)
	}
	page = mustBuild(t, env, st, "compare")

	a := panelByID(t, page, "compare_top_channels_a").Result
	b := panelByID(t, page, "compare_top_channels_b").Result
	if diff := cmp.Diff(a.Groups, b.Groups, ignoreViews); diff != "" {
		t.Errorf("identical topics gave different results (-a +b):\n%s", diff)
	}
	if len(a.Groups) != env.Settings.TopChannels {
		t.Errorf("top channels = %d, want %d", len(a.Groups), env.Settings.TopChannels)
	}

	yearly := panelByID(t, page, "compare_yearly_hours").Result
	want, _ := engine.SumDurationBy(env.Data.View(), nil, engine.Eq(engine.DimTopic, "Economie"))
	if math.Abs(yearly.Groups.Total()-want.Total()) > 1e-9 {
		t.Errorf("combined total %v double counts (want %v)", yearly.Groups.Total(), want.Total())
	}
}

func TestEconomyTopChannelsRecomputed(t *testing.T) {
	env := newEnv(fixture())
	p := panelByID(t, mustBuild(t, env, nil, "economy"), "economy_top_channels")
	if p.Result == nil {
		t.Fatalf("expected a result, got %+v", p)
	}

	var names []string
	for _, s := range p.Result.ChartConfig.Series {
		names = append(names, s.Name)
	}
	if len(names) != 5 {
		t.Fatalf("series = %v, want 5 channels", names)
	}
	for _, n := range names {
		if n == "TF1" {
			t.Error("TF1 has the least airtime and should not be in the top 5")
		}
	}

	ranking := panelByID(t, mustBuild(t, env, nil, "economy"), "economy_channel_ranking").Result
	if !ranking.ChartConfig.Horizontal || ranking.Groups[0].Key != "TF1" {
		t.Errorf("ranking should be horizontal and ascending, got first=%q", ranking.Groups[0].Key)
	}
}

func TestTopicsTrendHasRollingOverlay(t *testing.T) {
	env := newEnv(fixture())
	p := panelByID(t, mustBuild(t, env, nil, "topics"), "topic_hours_trend")
	if p.Result == nil || len(p.Result.ChartConfig.Series) != 2 {
		t.Fatalf("expected value and rolling series, got %+v", p)
	}
	if !strings.HasPrefix(p.Result.ChartConfig.Series[1].Name, "Rolling mean") {
		t.Errorf("second series = %q", p.Result.ChartConfig.Series[1].Name)
	}
	if p.Text == "" {
		t.Error("expected a trend sentence")
	}
}

// ============================================================================
// STATE TESTS
// ============================================================================

func TestStateChangeDoesNotLeakAcrossPages(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")

	if err := ApplyControl(env, st, "topics", "channel_topic", "International"); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Get("compare", "topic_a"); ok {
		t.Fatal("compare page should be untouched")
	}
	page := mustBuild(t, env, st, "compare")
	if page.Controls[0].Value != "Economie" {
		t.Errorf("compare default changed to %q", page.Controls[0].Value)
	}
	if v, _ := st.Get("topics", "trend_topic"); v != "" {
		t.Errorf("sibling field changed: %q", v)
	}
}

func TestApplyControlRejects(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")

	tests := []struct {
		page, field, value string
		want               error
	}{
		{"nowhere", "year", "2000", ErrUnknownPage},
		{"topics", "colour", "red", ErrUnknownControl},
		{"sciences", "year", "2000", ErrUnknownControl},
		{"topics", "year", "1999", ErrInvalidValue},
		{"topics", "year", "twenty", ErrInvalidValue},
		{"topics", "year", "02002", ErrInvalidValue},
		{"topics", "year", "+2002", ErrInvalidValue},
		{"topics", "year", " 2002", ErrInvalidValue},
		{"compare", "topic_a", "Cuisine", ErrInvalidValue},
		{"events", "event", "Moon landing", ErrInvalidValue},
	}
	for _, tt := range tests {
		err := ApplyControl(env, st, tt.page, tt.field, tt.value)
		if !errors.Is(err, tt.want) {
			t.Errorf("ApplyControl(%s, %s, %s) = %v, want %v", tt.page, tt.field, tt.value, err, tt.want)
		}
	}
	if snap := st.Snapshot("topics"); len(snap) != 0 {
		t.Errorf("rejected updates changed state: %v", snap)
	}
}

func TestSliderYearSelectsData(t *testing.T) {
	env := newEnv(fixture())
	st := session.NewState("t")

	if err := ApplyControl(env, st, "topics", "year", "2002"); err != nil {
		t.Fatal(err)
	}
	page := mustBuild(t, env, st, "topics")
	if p := panelByID(t, page, "topic_share_year"); !p.HasChart() {
		t.Errorf("2002 share should render a chart, got notice %q", p.Notice)
	}
	if v, _ := st.Get("topics", "year"); v != "2002" {
		t.Errorf("stored year = %q", v)
	}
}

func TestEnvAppliesSettings(t *testing.T) {
	settings := config.DefaultDashboard()
	settings.Precision = 0
	env := NewEnv(fixture(), events.Default(), settings)
	st := session.NewState("t")
	if err := ApplyControl(env, st, "topics", "trend_topic", "International"); err != nil {
		t.Fatal(err)
	}

	trend := panelByID(t, mustBuild(t, env, st, "topics"), "topic_hours_trend").Result
	var got []float64
	for _, pt := range trend.ChartConfig.Series[0].Data {
		if pt.Label == "2001" {
			got = append(got, pt.Value)
		}
	}
	if diff := cmp.Diff([]float64{1}, got); diff != "" {
		t.Errorf("2001 airtime of 0.5h at precision 0 (-want +got):\n%s", diff)
	}

	p := env.runQuery(env.Data.View(), engine.QuerySpec{ID: "implicit", GroupBy: []string{engine.DimYear}})
	if p.Result == nil || p.Result.DisplayUnit != "h" {
		t.Errorf("queries without a measure should sum hours, got %+v", p)
	}
}

func TestBuildUnknownPage(t *testing.T) {
	if _, err := Build(newEnv(fixture()), nil, "nowhere"); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("expected ErrUnknownPage, got %v", err)
	}
}

// ============================================================================
// PANEL CONTAINMENT
// ============================================================================

func TestPanelFailuresAreContained(t *testing.T) {
	env := newEnv(fixture())
	p := runPanel(engine.QuerySpec{ID: "boom"}, func() (*engine.Result, error) {
		panic("index out of range")
	})
	if !strings.Contains(p.Error, "index out of range") || p.Result != nil {
		t.Errorf("panic not contained: %+v", p)
	}

	view := engine.NewSliceView([]engine.Record{{
		Dimensions: map[string]string{engine.DimYear: "2000"},
		Measures:   map[string]float64{engine.MeasureDurationHours: 1},
	}})
	p = env.runQuery(view, engine.QuerySpec{ID: "no_channel", GroupBy: []string{engine.DimChannel}})
	if !strings.Contains(p.Error, "missing column") {
		t.Errorf("expected missing column error, got %+v", p)
	}
}
