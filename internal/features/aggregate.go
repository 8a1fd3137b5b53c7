package features

import (
	"github.com/asalazar/cv-features/internal/types"
)

const (
	secondsPerDay = 86400
	daysPerYear   = 365
)

// ExperienceYears computes total elapsed experience in years over the
// given work records, counting any overlapping stretch of time exactly
// once. With onlyManagement set, records without the management flag are
// skipped entirely. Returns 0 for empty input or when no record survives
// the filter.
//
// Interval coordinates are whole-day offsets relative to the first record
// whose start is not the no-date sentinel; the anchor subtraction keeps
// the coordinates small and has no effect on the merged total.
func ExperienceYears(work []types.WorkRecord, onlyManagement bool) float64 {
	if len(work) == 0 {
		return 0
	}

	var (
		set      intervalSet
		anchor   int64
		anchored bool
	)
	for _, w := range work {
		if onlyManagement && !w.Management {
			continue
		}
		if !anchored {
			if w.IsSentinel() {
				continue
			}
			anchor = dayCeil(w.Start.Unix())
			anchored = true
		}
		set.add(dayCeil(w.Start.Unix())-anchor, dayCeil(w.End.Unix())-anchor+1)
	}
	if set.empty() {
		return 0
	}
	return float64(set.mergedLength()) / daysPerYear
}

// AverageTenureYears computes the mean duration of a job in years,
// excluding records whose end date was synthesized (fictional) and
// records carrying the no-date sentinel pair. Returns 0 for empty input
// or when every record is excluded.
func AverageTenureYears(work []types.WorkRecord) float64 {
	var (
		totalDays int64
		count     int64
	)
	for _, w := range work {
		if w.Fictional || w.IsSentinel() {
			continue
		}
		totalDays += int64(w.End.Sub(w.Start).Hours() / 24)
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(totalDays) / float64(count) / daysPerYear
}

// dayCeil converts a Unix timestamp to its whole-day offset, rounding up.
func dayCeil(unix int64) int64 {
	q := unix / secondsPerDay
	if unix%secondsPerDay > 0 {
		q++
	}
	return q
}
