package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asalazar/cv-features/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func job(start, end time.Time) types.WorkRecord {
	return types.WorkRecord{Start: start, End: end}
}

func TestExperienceYears_Empty(t *testing.T) {
	assert.Zero(t, ExperienceYears(nil, false))
	assert.Zero(t, ExperienceYears([]types.WorkRecord{}, false))
}

func TestExperienceYears_SingleJob(t *testing.T) {
	work := []types.WorkRecord{job(day(2020, time.January, 1), day(2021, time.January, 1))}
	assert.InDelta(t, 1.0, ExperienceYears(work, false), 0.01)
}

func TestExperienceYears_OverlappingJobsNotDoubleCounted(t *testing.T) {
	work := []types.WorkRecord{
		job(day(2020, time.January, 1), day(2021, time.January, 1)),
		job(day(2020, time.July, 1), day(2022, time.January, 1)),
	}
	// Union spans 2020-01-01..2022-01-01: two years, not 2.5.
	assert.InDelta(t, 2.0, ExperienceYears(work, false), 0.01)
}

func TestExperienceYears_DisjointJobsEqualNaiveSum(t *testing.T) {
	work := []types.WorkRecord{
		job(day(2010, time.January, 1), day(2011, time.January, 1)),
		job(day(2015, time.January, 1), day(2016, time.January, 1)),
	}
	naive := ExperienceYears(work[:1], false) + ExperienceYears(work[1:], false)
	assert.InDelta(t, naive, ExperienceYears(work, false), 0.01)
}

func TestExperienceYears_UnionNeverExceedsNaiveSum(t *testing.T) {
	work := []types.WorkRecord{
		job(day(2018, time.January, 1), day(2020, time.January, 1)),
		job(day(2019, time.January, 1), day(2021, time.January, 1)),
		job(day(2019, time.June, 1), day(2019, time.December, 1)),
	}
	var naive float64
	for _, w := range work {
		naive += ExperienceYears([]types.WorkRecord{w}, false)
	}
	total := ExperienceYears(work, false)
	assert.Less(t, total, naive)
	assert.InDelta(t, 3.0, total, 0.01)
}

func TestExperienceYears_ManagementFilter(t *testing.T) {
	mgmt := job(day(2020, time.January, 1), day(2021, time.January, 1))
	mgmt.Management = true
	work := []types.WorkRecord{
		job(day(2019, time.January, 1), day(2022, time.January, 1)),
		mgmt,
		job(day(2020, time.June, 1), day(2021, time.June, 1)),
	}

	got := ExperienceYears(work, true)
	assert.InDelta(t, 1.0, got, 0.01, "only the management job's isolated duration counts")
}

func TestExperienceYears_AllFilteredOut(t *testing.T) {
	work := []types.WorkRecord{
		job(day(2020, time.January, 1), day(2021, time.January, 1)),
	}
	assert.Zero(t, ExperienceYears(work, true))
}

func TestExperienceYears_SentinelContributesAlmostNothing(t *testing.T) {
	sentinel := types.WorkRecord{Start: types.SentinelStart, End: types.SentinelEnd}
	real := job(day(2020, time.January, 1), day(2021, time.January, 1))

	withSentinel := ExperienceYears([]types.WorkRecord{real, sentinel}, false)
	without := ExperienceYears([]types.WorkRecord{real}, false)
	assert.InDelta(t, without, withSentinel, 0.01)
}

func TestExperienceYears_OnlySentinels(t *testing.T) {
	work := []types.WorkRecord{
		{Start: types.SentinelStart, End: types.SentinelEnd},
		{Start: types.SentinelStart, End: types.SentinelEnd},
	}
	assert.Zero(t, ExperienceYears(work, false), "no anchor record means no intervals")
}

func TestExperienceYears_FictionalIncluded(t *testing.T) {
	fictional := job(day(2020, time.January, 1), day(2020, time.March, 31))
	fictional.Fictional = true
	got := ExperienceYears([]types.WorkRecord{fictional}, false)
	assert.Greater(t, got, 0.2, "fictional records still count toward experience")
}

func TestAverageTenureYears_Empty(t *testing.T) {
	assert.Zero(t, AverageTenureYears(nil))
}

func TestAverageTenureYears_ExcludesFictional(t *testing.T) {
	fictional := job(day(2022, time.January, 1), day(2022, time.March, 31))
	fictional.Fictional = true
	work := []types.WorkRecord{
		job(day(2018, time.January, 1), day(2020, time.January, 1)),
		job(day(2020, time.January, 1), day(2021, time.January, 1)),
		fictional,
	}

	// (730 + 366) / 2 / 365
	assert.InDelta(t, 1.5, AverageTenureYears(work), 0.01)
}

func TestAverageTenureYears_ExcludesSentinel(t *testing.T) {
	sentinel := types.WorkRecord{Start: types.SentinelStart, End: types.SentinelEnd}
	work := []types.WorkRecord{
		job(day(2019, time.January, 1), day(2021, time.January, 1)),
		sentinel,
	}

	assert.InDelta(t, 2.0, AverageTenureYears(work), 0.01)
}

func TestAverageTenureYears_AllFictionalGuarded(t *testing.T) {
	fictional := job(day(2022, time.January, 1), day(2022, time.March, 31))
	fictional.Fictional = true
	assert.Zero(t, AverageTenureYears([]types.WorkRecord{fictional}))
}
