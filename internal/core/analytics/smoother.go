package analytics

import (
	"fmt"
	"strings"
	"time"
)

// SmootherType selects the granularity and reducer applied to timeline series
type SmootherType string

const (
	AverageWeekly  SmootherType = "AVERAGE_WEEKLY"
	AverageMonthly SmootherType = "AVERAGE_MONTHLY"
	SumWeekly      SmootherType = "SUM_WEEKLY"
	SumMonthly     SmootherType = "SUM_MONTHLY"
)

// Granularity truncates a day to the start of its bucket
type Granularity func(time.Time) time.Time

// Reducer folds a bucket's running sum and point count into one value
type Reducer func(sum float64, count int) float64

func sumReducer(sum float64, _ int) float64 {
	return sum
}

func averageReducer(sum float64, count int) float64 {
	return sum / float64(count)
}

// ParseSmootherType parses a smoother name, case-insensitively. An empty name means no smoothing.
func ParseSmootherType(name string) (*Smoother, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	switch SmootherType(strings.ToUpper(strings.TrimSpace(name))) {
	case AverageWeekly:
		return &Smoother{Type: AverageWeekly, granularity: TruncateToWeek, reducer: averageReducer}, nil
	case AverageMonthly:
		return &Smoother{Type: AverageMonthly, granularity: TruncateToMonth, reducer: averageReducer}, nil
	case SumWeekly:
		return &Smoother{Type: SumWeekly, granularity: TruncateToWeek, reducer: sumReducer}, nil
	case SumMonthly:
		return &Smoother{Type: SumMonthly, granularity: TruncateToMonth, reducer: sumReducer}, nil
	default:
		return nil, fmt.Errorf("unknown smoother %q", name)
	}
}

// Smoother reduces daily series to weekly or monthly points
type Smoother struct {
	Type        SmootherType
	granularity Granularity
	reducer     Reducer
}

// SmoothAll replaces every series of every set with its smoothed version
func (s *Smoother) SmoothAll(sets []SeriesSet) {
	for _, set := range sets {
		for name, points := range set {
			set[name] = Smooth(points, s.granularity, s.reducer)
		}
	}
}

// Smooth walks points, which must be sorted by day, and emits one point per bucket keyed by
// the bucket start. The last open bucket is flushed after the loop.
func Smooth(points []XY, granularity Granularity, reduce Reducer) []XY {
	out := []XY{}
	if len(points) == 0 {
		return out
	}

	bucket := granularity(points[0].X)
	sum := 0.0
	count := 0

	for _, point := range points {
		key := granularity(point.X)
		if !key.Equal(bucket) {
			out = append(out, XY{X: bucket, Y: reduce(sum, count)})
			bucket = key
			sum = 0
			count = 0
		}
		sum += point.Y
		count++
	}

	out = append(out, XY{X: bucket, Y: reduce(sum, count)})
	return out
}
