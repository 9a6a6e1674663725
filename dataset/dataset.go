package dataset

import (
	"sort"
	"strconv"
	"time"

	"github.com/opendata-univ/barometre/engine"
)

// Broadcast is one row of the barometer: airtime a channel gave a topic on
// one day. Several rows may share (date, channel, topic).
type Broadcast struct {
	Date            time.Time `json:"date"`
	Year            int       `json:"year"`
	Channel         string    `json:"channel"`
	Topic           string    `json:"topic"`
	SubjectCount    int       `json:"subjectCount"`
	DurationSeconds float64   `json:"durationSeconds"`
	DurationMinutes float64   `json:"durationMinutes"`
	DurationHours   float64   `json:"durationHours"`

	day     string // ISO date, the engine's date dimension
	yearKey string
}

// NewBroadcast builds a row and derives its year and duration units.
func NewBroadcast(date time.Time, channel, topic string, subjects int, seconds float64) Broadcast {
	return Broadcast{
		Date:            date,
		Year:            date.Year(),
		Channel:         channel,
		Topic:           topic,
		SubjectCount:    subjects,
		DurationSeconds: seconds,
		DurationMinutes: seconds / 60,
		DurationHours:   seconds / 3600,
		day:             date.Format(isoDate),
		yearKey:         strconv.Itoa(date.Year()),
	}
}

// Dataset is the immutable, in-memory record set. It is safe for
// concurrent readers.
type Dataset struct {
	Path string

	records  []Broadcast
	topics   *vocabulary
	channels *vocabulary
	minYear  int
	maxYear  int
	view     engine.RecordView
}

var broadcastAdapter = engine.NewDomainAdapter[Broadcast]().
	Dimension(engine.DimDate, func(b Broadcast) string { return b.day }).
	Dimension(engine.DimChannel, func(b Broadcast) string { return b.Channel }).
	Dimension(engine.DimTopic, func(b Broadcast) string { return b.Topic }).
	Dimension(engine.DimYear, func(b Broadcast) string { return b.yearKey }).
	Measure(engine.MeasureDurationHours, func(b Broadcast) float64 { return b.DurationHours }).
	Measure(engine.MeasureSubjectCount, func(b Broadcast) float64 { return float64(b.SubjectCount) }).
	Measure(engine.MeasureDurationSeconds, func(b Broadcast) float64 { return b.DurationSeconds }).
	Measure(engine.MeasureDurationMinutes, func(b Broadcast) float64 { return b.DurationMinutes })

// New builds a Dataset from already-parsed rows. Labels go through the same
// normalization as the loader.
func New(rows []Broadcast) *Dataset {
	ds := &Dataset{topics: newVocabulary(), channels: newVocabulary()}
	for _, r := range rows {
		b := NewBroadcast(r.Date, r.Channel, r.Topic, r.SubjectCount, r.DurationSeconds)
		b.Channel = ds.channels.add(b.Channel)
		b.Topic = ds.topics.add(b.Topic)
		ds.records = append(ds.records, b)
	}
	ds.index()
	return ds
}

func (d *Dataset) index() {
	for i, r := range d.records {
		if i == 0 || r.Year < d.minYear {
			d.minYear = r.Year
		}
		if i == 0 || r.Year > d.maxYear {
			d.maxYear = r.Year
		}
	}
	d.view = broadcastAdapter.Bind(d.records)
}

// View exposes the records to the engine.
func (d *Dataset) View() engine.RecordView { return d.view }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records.
func (d *Dataset) Records() []Broadcast {
	out := make([]Broadcast, len(d.records))
	copy(out, d.records)
	return out
}

// Topics returns the canonical topic labels in order of first appearance.
func (d *Dataset) Topics() []string {
	return append([]string(nil), d.topics.order...)
}

// SortedTopics returns the canonical topic labels in lexical order.
func (d *Dataset) SortedTopics() []string {
	out := d.Topics()
	sort.Strings(out)
	return out
}

// Channels returns channel labels in order of first appearance.
func (d *Dataset) Channels() []string {
	return append([]string(nil), d.channels.order...)
}

// YearRange returns the first and last year present.
func (d *Dataset) YearRange() (int, int) { return d.minYear, d.maxYear }

// CanonicalTopic maps an external label to the spelling used in the data.
func (d *Dataset) CanonicalTopic(label string) (string, bool) {
	return d.topics.lookup(label)
}

// CanonicalChannel maps an external label to the spelling used in the data.
func (d *Dataset) CanonicalChannel(label string) (string, bool) {
	return d.channels.lookup(label)
}
