package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidWindow is returned by RollingMean for windows smaller than one.
var ErrInvalidWindow = errors.New("rolling window must be at least 1")

// MissingColumnError reports dimension or measure keys a view does not
// expose. It is contained to the panel that asked for them.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Columns, ", "))
}

// EmptySelectionError reports that a filter combination matched no rows.
type EmptySelectionError struct {
	Query string
}

func (e *EmptySelectionError) Error() string {
	if e.Query == "" {
		return "no data for this selection"
	}
	return fmt.Sprintf("no data for this selection (%s)", e.Query)
}

// IsEmptySelection reports whether err is, or wraps, an EmptySelectionError.
func IsEmptySelection(err error) bool {
	var target *EmptySelectionError
	return errors.As(err, &target)
}

// RequireColumns checks that every key is available on the view, either as
// a dimension or as a measure.
func RequireColumns(view RecordView, keys ...string) error {
	available := make(map[string]bool)
	for _, k := range view.DimensionKeys() {
		available[k] = true
	}
	for _, k := range view.MeasureKeys() {
		available[k] = true
	}

	var missing []string
	for _, k := range keys {
		if k == "" || available[k] {
			continue
		}
		missing = append(missing, k)
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}
