// Package analysis computes rolling-window and seasonal temperature
// statistics for one city's historical series and flags anomalous readings.
package analysis

import (
	"math"

	"github.com/climascope/climascope/internal/dataset"
	"github.com/climascope/climascope/internal/season"
)

const (
	// WindowSize is the trailing rolling-window width in observations.
	WindowSize = 30

	// Threshold is the number of standard deviations beyond which a
	// reading is flagged as anomalous.
	Threshold = 2.0
)

// Point is one analyzed observation: the input reading augmented with the
// derived rolling and seasonal statistics and the two anomaly flags.
//
// RollingStdOK is false while the rolling standard deviation is undefined,
// which only survives the backward fill for a series of length 1.
type Point struct {
	Reading dataset.Reading

	RollingMean  float64
	RollingStd   float64
	RollingStdOK bool

	SeasonalMean float64
	SeasonalStd  float64

	RollingAnomaly  bool
	SeasonalAnomaly bool
}

// SeasonStats are the whole-series aggregate statistics for one season.
// Std is the sample standard deviation; it is 0 when Count < 2.
type SeasonStats struct {
	Season season.Season `json:"season"`
	Mean   float64       `json:"mean"`
	Std    float64       `json:"std"`
	Count  int           `json:"count"`
}

// Analyze computes the rolling and seasonal statistics for an ordered city
// series. Input order is preserved; the input slice is not modified.
//
// Rolling mean uses the WindowSize most recent readings (at least 1), the
// rolling standard deviation requires at least 2 and its leading undefined
// entries are backward-filled from the first defined value. Seasonal
// statistics are computed per season over the entire series and broadcast
// onto every row of that season.
func Analyze(series []dataset.Reading) []Point {
	points := make([]Point, len(series))
	for i, r := range series {
		points[i].Reading = r

		start := i - WindowSize + 1
		if start < 0 {
			start = 0
		}
		window := series[start : i+1]

		points[i].RollingMean = mean(window)
		if len(window) >= 2 {
			points[i].RollingStd = sampleStd(window, points[i].RollingMean)
			points[i].RollingStdOK = true
		}
	}

	backfillRollingStd(points)
	broadcastSeasonStats(series, points)

	for i := range points {
		p := &points[i]
		if p.RollingStdOK {
			p.RollingAnomaly = math.Abs(p.Reading.Temperature-p.RollingMean) > Threshold*p.RollingStd
		}
		p.SeasonalAnomaly = math.Abs(p.Reading.Temperature-p.SeasonalMean) > Threshold*p.SeasonalStd
	}

	return points
}

// SeasonalStats groups the series by season and computes mean and sample
// standard deviation of temperature per season over the whole series.
func SeasonalStats(series []dataset.Reading) map[season.Season]SeasonStats {
	grouped := make(map[season.Season][]dataset.Reading)
	for _, r := range series {
		grouped[r.Season] = append(grouped[r.Season], r)
	}

	stats := make(map[season.Season]SeasonStats, len(grouped))
	for s, rows := range grouped {
		m := mean(rows)
		st := SeasonStats{Season: s, Mean: m, Count: len(rows)}
		if len(rows) >= 2 {
			st.Std = sampleStd(rows, m)
		}
		stats[s] = st
	}
	return stats
}

// backfillRollingStd fills leading undefined entries with the first defined
// rolling std. A length-1 series has no defined value and stays unfilled.
func backfillRollingStd(points []Point) {
	for i := range points {
		if points[i].RollingStdOK {
			for j := 0; j < i; j++ {
				points[j].RollingStd = points[i].RollingStd
				points[j].RollingStdOK = true
			}
			return
		}
	}
}

func broadcastSeasonStats(series []dataset.Reading, points []Point) {
	stats := SeasonalStats(series)
	for i := range points {
		st := stats[points[i].Reading.Season]
		points[i].SeasonalMean = st.Mean
		points[i].SeasonalStd = st.Std
	}
}

func mean(rows []dataset.Reading) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Temperature
	}
	return sum / float64(len(rows))
}

// sampleStd computes the sample standard deviation (Bessel's correction).
// Callers must ensure len(rows) >= 2.
func sampleStd(rows []dataset.Reading, mean float64) float64 {
	var sumSq float64
	for _, r := range rows {
		d := r.Temperature - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(rows)-1))
}
