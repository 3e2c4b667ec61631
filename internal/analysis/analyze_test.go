package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climascope/climascope/internal/dataset"
	"github.com/climascope/climascope/internal/season"
)

// series builds a single-city, single-season test series with daily timestamps.
func series(s season.Season, temps ...float64) []dataset.Reading {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	readings := make([]dataset.Reading, len(temps))
	for i, t := range temps {
		readings[i] = dataset.Reading{
			City:        "Berlin",
			Timestamp:   base.AddDate(0, 0, i),
			Temperature: t,
			Season:      s,
		}
	}
	return readings
}

func TestAnalyzeSeasonalSpike(t *testing.T) {
	in := series(season.Winter, 10, 12, 11, 50, 10, 11)
	points := Analyze(in)
	require.Len(t, points, 6)

	// mean = 104/6 ~= 17.33, sample std = sqrt((1283+1/3)/5) ~= 16.02
	wantMean := 104.0 / 6.0
	wantStd := math.Sqrt((1283.0 + 1.0/3.0) / 5.0)

	for _, p := range points {
		assert.InDelta(t, wantMean, p.SeasonalMean, 1e-9)
		assert.InDelta(t, wantStd, p.SeasonalStd, 1e-9)
	}

	for i, p := range points {
		want := p.Reading.Temperature == 50
		assert.Equalf(t, want, p.SeasonalAnomaly, "row %d", i)
		assert.Falsef(t, p.RollingAnomaly, "row %d", i)
	}
}

func TestAnalyzeRollingSpike(t *testing.T) {
	points := Analyze(series(season.Winter, 10, 10, 10, 10, 10, 50))

	for i, p := range points[:5] {
		assert.Falsef(t, p.RollingAnomaly, "row %d", i)
	}
	// |50 - 16.667| exceeds 2 * 16.330
	assert.True(t, points[5].RollingAnomaly)
}

func TestAnalyzeRollingWindowSemantics(t *testing.T) {
	temps := make([]float64, 40)
	for i := range temps {
		temps[i] = 5 + 3*math.Sin(float64(i)) + float64(i%7)
	}
	in := series(season.Summer, temps...)
	points := Analyze(in)

	for i, p := range points {
		start := i - WindowSize + 1
		if start < 0 {
			start = 0
		}

		var sum float64
		for _, r := range in[start : i+1] {
			sum += r.Temperature
		}
		wantMean := sum / float64(i+1-start)
		assert.InDeltaf(t, wantMean, p.RollingMean, 1e-9, "rolling mean at %d", i)

		// No undefined std remains after the backward fill.
		assert.Truef(t, p.RollingStdOK, "rolling std at %d", i)

		wantFlag := math.Abs(p.Reading.Temperature-p.RollingMean) > Threshold*p.RollingStd
		assert.Equalf(t, wantFlag, p.RollingAnomaly, "rolling flag at %d", i)
		wantFlag = math.Abs(p.Reading.Temperature-p.SeasonalMean) > Threshold*p.SeasonalStd
		assert.Equalf(t, wantFlag, p.SeasonalAnomaly, "seasonal flag at %d", i)
	}
}

func TestAnalyzeBackfill(t *testing.T) {
	points := Analyze(series(season.Spring, 10, 12, 14))
	require.True(t, points[1].RollingStdOK)

	// The first row's undefined std is filled from the second row.
	assert.True(t, points[0].RollingStdOK)
	assert.InDelta(t, points[1].RollingStd, points[0].RollingStd, 1e-12)
}

func TestAnalyzeSingleReading(t *testing.T) {
	points := Analyze(series(season.Autumn, 7.5))
	require.Len(t, points, 1)

	p := points[0]
	assert.InDelta(t, 7.5, p.RollingMean, 1e-12)
	// Nothing to back-fill from: std stays undefined, flag stays false.
	assert.False(t, p.RollingStdOK)
	assert.False(t, p.RollingAnomaly)
	assert.InDelta(t, 7.5, p.SeasonalMean, 1e-12)
	assert.False(t, p.SeasonalAnomaly)
}

func TestAnalyzeIdempotent(t *testing.T) {
	in := series(season.Winter, 10, 12, 11, 50, 10, 11)
	assert.Equal(t, Analyze(in), Analyze(in))
}

func TestAnalyzePreservesOrder(t *testing.T) {
	in := series(season.Winter, 3, 1, 2)
	points := Analyze(in)
	for i := range in {
		assert.Equal(t, in[i], points[i].Reading)
	}
}

func TestSeasonalStatsGrouping(t *testing.T) {
	in := append(series(season.Winter, 0, 2, 4), series(season.Summer, 20, 22)...)
	stats := SeasonalStats(in)
	require.Len(t, stats, 2)

	winter := stats[season.Winter]
	assert.Equal(t, 3, winter.Count)
	assert.InDelta(t, 2.0, winter.Mean, 1e-12)
	assert.InDelta(t, 2.0, winter.Std, 1e-12)

	summer := stats[season.Summer]
	assert.Equal(t, 2, summer.Count)
	assert.InDelta(t, 21.0, summer.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt2, summer.Std, 1e-12)
}
