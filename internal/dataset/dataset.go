package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/climascope/climascope/internal/season"
)

var validate = validator.New()

// Reading is one historical observation. Immutable once loaded.
type Reading struct {
	City        string        `json:"city" validate:"required"`
	Timestamp   time.Time     `json:"timestamp" validate:"required"`
	Temperature float64       `json:"temperature"`
	Season      season.Season `json:"season" validate:"required,oneof=winter spring summer autumn"`
}

// Dataset is one uploaded historical dataset, parsed and held in memory for
// the duration of a session.
type Dataset struct {
	ID         string
	UploadedAt time.Time
	Readings   []Reading

	cities []string
}

// Cities returns the distinct city names in upload order.
func (d *Dataset) Cities() []string {
	return d.cities
}

// HasCity reports whether the dataset contains any readings for city.
func (d *Dataset) HasCity(city string) bool {
	for _, c := range d.cities {
		if c == city {
			return true
		}
	}
	return false
}

// CitySeries returns the readings for one city ordered by timestamp.
// The returned slice is freshly allocated; the dataset itself is never mutated.
func (d *Dataset) CitySeries(city string) []Reading {
	var series []Reading
	for _, r := range d.Readings {
		if r.City == city {
			series = append(series, r)
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series
}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCSV decodes an uploaded tabular file. The header must contain the
// city, timestamp, temperature and season columns; extra columns are ignored.
func ParseCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"city", "timestamp", "temperature", "season"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	ds := &Dataset{}
	seen := make(map[string]bool)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		reading, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ds.Readings = append(ds.Readings, reading)
		if !seen[reading.City] {
			seen[reading.City] = true
			ds.cities = append(ds.cities, reading.City)
		}
	}

	if len(ds.Readings) == 0 {
		return nil, fmt.Errorf("dataset contains no rows")
	}

	return ds, nil
}

func parseRecord(record []string, cols map[string]int) (Reading, error) {
	ts, err := parseTimestamp(record[cols["timestamp"]])
	if err != nil {
		return Reading{}, err
	}

	temp, err := strconv.ParseFloat(record[cols["temperature"]], 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid temperature %q", record[cols["temperature"]])
	}

	reading := Reading{
		City:        record[cols["city"]],
		Timestamp:   ts,
		Temperature: temp,
		Season:      season.Season(record[cols["season"]]),
	}

	if err := validate.Struct(reading); err != nil {
		return Reading{}, err
	}
	return reading, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
