package analysis

import (
	"github.com/climascope/climascope/internal/dataset"
	"github.com/climascope/climascope/internal/season"
)

// Verdict classifies a live temperature against the seasonal history.
type Verdict string

const (
	// VerdictNormal means the reading lies within mean +/- 2 std of the
	// historical readings for the current season (bounds inclusive).
	VerdictNormal Verdict = "normal"

	// VerdictAnomalous means the reading lies outside those bounds.
	VerdictAnomalous Verdict = "anomalous"

	// VerdictNoData means the series has fewer than two readings for the
	// current season, so no dispersion can be estimated.
	VerdictNoData Verdict = "no_data"
)

// SeasonalVerdict checks a live temperature against the historical readings
// of the given season within the series. The returned stats describe that
// season's slice; they are zero-valued when the verdict is VerdictNoData.
func SeasonalVerdict(temperature float64, series []dataset.Reading, s season.Season) (Verdict, SeasonStats) {
	stats, ok := SeasonalStats(series)[s]
	if !ok || stats.Count < 2 {
		return VerdictNoData, SeasonStats{Season: s}
	}

	lower := stats.Mean - Threshold*stats.Std
	upper := stats.Mean + Threshold*stats.Std
	if temperature >= lower && temperature <= upper {
		return VerdictNormal, stats
	}
	return VerdictAnomalous, stats
}
