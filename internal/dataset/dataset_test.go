package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/climascope/climascope/internal/season"
)

const sampleCSV = `city,timestamp,temperature,season
Berlin,2024-01-01,1.5,winter
Berlin,2024-01-02,-0.5,winter
Paris,2024-01-01,4.0,winter
Berlin,2024-07-01,24.0,summer
`

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds.Readings) != 4 {
		t.Fatalf("expected 4 readings, got %d", len(ds.Readings))
	}

	cities := ds.Cities()
	if len(cities) != 2 || cities[0] != "Berlin" || cities[1] != "Paris" {
		t.Fatalf("unexpected cities: %v", cities)
	}

	first := ds.Readings[0]
	if first.City != "Berlin" || first.Temperature != 1.5 || first.Season != season.Winter {
		t.Fatalf("unexpected first reading: %+v", first)
	}
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, first.Timestamp)
	}
}

func TestParseCSVColumnOrderIndependent(t *testing.T) {
	csv := "season,temperature,city,timestamp\nwinter,3.5,Oslo,2024-02-01\n"
	ds, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Readings[0].City != "Oslo" || ds.Readings[0].Temperature != 3.5 {
		t.Fatalf("unexpected reading: %+v", ds.Readings[0])
	}
}

func TestParseCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"missing column", "city,timestamp,temperature\nBerlin,2024-01-01,1.5\n"},
		{"bad season", "city,timestamp,temperature,season\nBerlin,2024-01-01,1.5,monsoon\n"},
		{"bad temperature", "city,timestamp,temperature,season\nBerlin,2024-01-01,warm,winter\n"},
		{"bad timestamp", "city,timestamp,temperature,season\nBerlin,yesterday,1.5,winter\n"},
		{"empty dataset", "city,timestamp,temperature,season\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tc.csv)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCitySeries(t *testing.T) {
	// Berlin rows deliberately out of order.
	csv := `city,timestamp,temperature,season
Berlin,2024-01-03,3,winter
Paris,2024-01-01,9,winter
Berlin,2024-01-01,1,winter
Berlin,2024-01-02,2,winter
`
	ds, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series := ds.CitySeries("Berlin")
	if len(series) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(series))
	}
	for i, wantTemp := range []float64{1, 2, 3} {
		if series[i].Temperature != wantTemp {
			t.Fatalf("expected series ordered by timestamp, got %+v", series)
		}
	}

	if got := ds.CitySeries("Oslo"); got != nil {
		t.Fatalf("expected nil series for unknown city, got %+v", got)
	}

	if !ds.HasCity("Paris") || ds.HasCity("Oslo") {
		t.Fatal("unexpected HasCity results")
	}
}
