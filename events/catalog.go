// Package events holds the static catalog of major news events the event
// impact page measures coverage around.
package events

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed events.yaml
var defaultCatalog []byte

const dateLayout = "2006-01-02"

// ErrUnknownEvent is returned by Lookup for labels not in the catalog.
var ErrUnknownEvent = errors.New("unknown event")

// Event is one catalog entry.
type Event struct {
	Label string    `yaml:"label" json:"label"`
	Day   string    `yaml:"date" json:"date"`
	Topic string    `yaml:"topic" json:"topic"`
	Date  time.Time `yaml:"-" json:"-"`
}

// Catalog is an ordered, immutable list of events.
type Catalog struct {
	events []Event
	byName map[string]int
}

type catalogFile struct {
	Events []Event `yaml:"events"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("events: embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog. Labels must be unique and dates ISO formatted.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse event catalog: %w", err)
	}
	if len(file.Events) == 0 {
		return nil, errors.New("parse event catalog: no events")
	}

	c := &Catalog{byName: make(map[string]int, len(file.Events))}
	for i, ev := range file.Events {
		if ev.Label == "" || ev.Topic == "" {
			return nil, fmt.Errorf("event %d: label and topic are required", i)
		}
		if _, dup := c.byName[ev.Label]; dup {
			return nil, fmt.Errorf("event %q: duplicate label", ev.Label)
		}
		d, err := time.Parse(dateLayout, ev.Day)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.Label, err)
		}
		ev.Date = d
		c.byName[ev.Label] = len(c.events)
		c.events = append(c.events, ev)
	}
	return c, nil
}

// Lookup returns the event with the given label.
func (c *Catalog) Lookup(label string) (Event, error) {
	i, ok := c.byName[label]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, label)
	}
	return c.events[i], nil
}

// Labels returns event labels in catalog order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Label
	}
	return out
}

// Events returns a copy of the catalog entries.
func (c *Catalog) Events() []Event {
	return append([]Event(nil), c.events...)
}

// Window returns the inclusive [from, to] date range spanning months
// calendar months either side of the event. Days past the end of the target
// month clamp to its last day.
func (e Event) Window(months int) (from, to time.Time) {
	return AddMonths(e.Date, -months), AddMonths(e.Date, months)
}

// AddMonths shifts t by n calendar months, clamping the day to the length
// of the target month (2020-08-31 minus 6 months is 2020-02-29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
