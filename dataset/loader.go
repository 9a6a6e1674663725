package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/opendata-univ/barometre/logger"
	"github.com/opendata-univ/barometre/schema"
)

// ============================================================================
// LOADER: Parses the barometer CSV into an immutable Dataset
// ============================================================================
// Source format is fixed: semicolon-delimited, ISO-8859-1, no header row,
// six positional fields:
//
//   date (DD/MM/YYYY) ; channel ; <discarded> ; topic ; subject_count ; duration_seconds
//
// Loading is all-or-nothing: the first bad row aborts with a *LoadError.
// ============================================================================

// LoadError reports why the source file could not be loaded. Line is the
// 1-based line of the offending row, or 0 when the failure is not tied to a
// row (missing file, schema mismatch).
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Sentinel causes wrapped by LoadError.
var (
	ErrBadDate   = errors.New("unparseable date")
	ErrBadNumber = errors.New("invalid number")
	ErrNoRecords = errors.New("file contains no records")
)

const isoDate = "2006-01-02"

// unpaddedDate accepts day and month without a leading zero (1/9/2001).
const unpaddedDate = "2/1/2006"

// Load reads and parses the file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	logger.Log.Infof("📂 Dataset: loaded %d rows from %s (%d channels, %d topics, %d–%d)",
		ds.Len(), path, len(ds.channels.order), len(ds.topics.order), ds.minYear, ds.maxYear)
	return ds, nil
}

// Parse reads a dataset from r, which must hold the raw Latin-1 bytes.
func Parse(r io.Reader) (*Dataset, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*Dataset, error) {
	sch := schema.Broadcast()

	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = sch.Source.Delimiter
	reader.FieldsPerRecord = sch.FieldCount()
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	ds := &Dataset{
		Path:     path,
		topics:   newVocabulary(),
		channels: newVocabulary(),
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			return nil, &LoadError{Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, sch.Source.DateLayout)
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: err}
		}
		rec.Channel = ds.channels.add(rec.Channel)
		rec.Topic = ds.topics.add(rec.Topic)
		ds.records = append(ds.records, rec)
	}

	if len(ds.records) == 0 {
		return nil, &LoadError{Path: path, Err: ErrNoRecords}
	}

	ds.index()
	if err := schema.Validate(sch, ds.view); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

// parseRow converts one positional row. Field 2 is discarded.
func parseRow(row []string, layout string) (Broadcast, error) {
	raw := strings.TrimSpace(row[0])
	date, err := time.Parse(layout, raw)
	if err != nil {
		if date, err = time.Parse(unpaddedDate, raw); err != nil {
			return Broadcast{}, fmt.Errorf("%w %q", ErrBadDate, raw)
		}
	}

	subjects, err := parseCount(row[4])
	if err != nil {
		return Broadcast{}, fmt.Errorf("subject_count: %w", err)
	}
	seconds, err := parseDuration(row[5])
	if err != nil {
		return Broadcast{}, fmt.Errorf("duration_seconds: %w", err)
	}

	return NewBroadcast(date, strings.TrimSpace(row[1]), strings.TrimSpace(row[3]), subjects, seconds), nil
}

func parseCount(field string) (int, error) {
	s := strings.TrimSpace(field)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w %q", ErrBadNumber, s)
	}
	return n, nil
}

func parseDuration(field string) (float64, error) {
	s := strings.TrimSpace(field)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w %q", ErrBadNumber, s)
	}
	return v, nil
}
