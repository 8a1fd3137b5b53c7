// Package features derives the quantitative career features from parsed
// work records: total non-overlapping experience, management-only
// experience and average tenure per job. Overlapping concurrent jobs must
// not inflate totals, so the aggregation runs over a merged interval set
// rather than a naive sum.
package features

import "sort"

// interval is half-open: [Start, End) in whole-day coordinates.
type interval struct {
	Start int64
	End   int64
}

// intervalSet collects day intervals and merges them on demand.
type intervalSet struct {
	intervals []interval
}

// add inserts [start, end). Degenerate or inverted intervals are ignored.
func (s *intervalSet) add(start, end int64) {
	if end <= start {
		return
	}
	s.intervals = append(s.intervals, interval{Start: start, End: end})
}

func (s *intervalSet) empty() bool {
	return len(s.intervals) == 0
}

// mergedLength merges overlapping and touching intervals and returns the
// total covered length in days.
func (s *intervalSet) mergedLength() int64 {
	if len(s.intervals) == 0 {
		return 0
	}

	sorted := make([]interval, len(s.intervals))
	copy(sorted, s.intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var total int64
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start <= cur.End {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		total += cur.End - cur.Start
		cur = iv
	}
	return total + cur.End - cur.Start
}
