package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) time.Time {
	return time.Date(2013, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSmoothSumWeekly(t *testing.T) {
	// 2013-01-07 is a Monday
	points := []XY{
		{X: jan(7), Y: 1},
		{X: jan(8), Y: 2},
		{X: jan(9), Y: 3},
		{X: jan(13), Y: 4},
		{X: jan(14), Y: 10},
	}

	got := Smooth(points, TruncateToWeek, sumReducer)
	assert.Equal(t, []XY{{X: jan(7), Y: 10}, {X: jan(14), Y: 10}}, got)
}

func TestSmoothFlushesTrailingSinglePointBucket(t *testing.T) {
	points := []XY{
		{X: jan(1), Y: 1},
		{X: jan(2), Y: 1},
		{X: jan(31), Y: 7},
	}

	got := Smooth(points, TruncateToWeek, sumReducer)
	require.Len(t, got, 2)
	assert.Equal(t, XY{X: jan(28), Y: 7}, got[1])
}

func TestSmoothAverageMonthly(t *testing.T) {
	points := []XY{
		{X: jan(30), Y: 2},
		{X: jan(31), Y: 4},
		{X: time.Date(2013, 2, 1, 0, 0, 0, 0, time.UTC), Y: 9},
	}

	got := Smooth(points, TruncateToMonth, averageReducer)
	assert.Equal(t, []XY{
		{X: jan(1), Y: 3},
		{X: time.Date(2013, 2, 1, 0, 0, 0, 0, time.UTC), Y: 9},
	}, got)
}

func TestSmoothEmpty(t *testing.T) {
	got := Smooth(nil, TruncateToWeek, sumReducer)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSmootherType(t *testing.T) {
	for _, name := range []string{"AVERAGE_WEEKLY", "average_monthly", "Sum_Weekly", " SUM_MONTHLY "} {
		smoother, err := ParseSmootherType(name)
		require.NoError(t, err, name)
		require.NotNil(t, smoother, name)
	}

	smoother, err := ParseSmootherType("")
	require.NoError(t, err)
	assert.Nil(t, smoother)

	_, err = ParseSmootherType("MEDIAN_WEEKLY")
	assert.Error(t, err)
}

func TestSmoothAll(t *testing.T) {
	smoother, err := ParseSmootherType("AVERAGE_WEEKLY")
	require.NoError(t, err)

	sets := []SeriesSet{
		{"a": {{X: jan(7), Y: 1}, {X: jan(8), Y: 3}}},
		{"b": {{X: jan(13), Y: 5}}, "c": {}},
	}
	smoother.SmoothAll(sets)

	assert.Equal(t, []XY{{X: jan(7), Y: 2}}, sets[0]["a"])
	assert.Equal(t, []XY{{X: jan(7), Y: 5}}, sets[1]["b"])
	assert.Empty(t, sets[1]["c"])
}
