// Package datasettest builds barometer rows for tests in other packages.
package datasettest

import (
	"fmt"
	"time"

	"github.com/opendata-univ/barometre/dataset"
)

// Row builds a broadcast from an ISO date. It panics on a malformed date,
// which is always a mistake in the calling test.
func Row(isoDay, channel, topic string, subjects int, seconds float64) dataset.Broadcast {
	d, err := time.Parse("2006-01-02", isoDay)
	if err != nil {
		panic(fmt.Sprintf("datasettest: bad ISO date %q: %v", isoDay, err))
	}
	return dataset.NewBroadcast(d, channel, topic, subjects, seconds)
}
