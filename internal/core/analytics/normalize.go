package analytics

import (
	"errors"
	"sort"
	"time"
)

// ErrMissingDateBounds is returned when timeline data exists but no date range can be derived.
// It means rows reached normalization without a date.
var ErrMissingDateBounds = errors.New("timeline data has no date bounds")

// Normalize puts every series of every set on a shared daily axis: each day in the covering
// range that a series lacks gets a zero point, then every series is sorted by day.
// Supplied bounds win; a missing bound is taken from the data.
func Normalize(sets []SeriesSet, start, end *time.Time) error {
	var minDay, maxDay *time.Time
	if start != nil {
		d := Day(*start)
		minDay = &d
	}
	if end != nil {
		d := Day(*end)
		maxDay = &d
	}

	empty := true
	if minDay == nil || maxDay == nil {
		var observedMin, observedMax time.Time
		for _, set := range sets {
			for _, points := range set {
				for _, p := range points {
					if empty || p.X.Before(observedMin) {
						observedMin = p.X
					}
					if empty || p.X.After(observedMax) {
						observedMax = p.X
					}
					empty = false
				}
			}
		}
		if !empty {
			if minDay == nil {
				minDay = &observedMin
			}
			if maxDay == nil {
				maxDay = &observedMax
			}
		}
	}

	if !hasSeries(sets) {
		return nil
	}
	if minDay == nil || maxDay == nil {
		return ErrMissingDateBounds
	}

	days := DaysInRange(*minDay, *maxDay)
	for _, set := range sets {
		for name, points := range set {
			set[name] = fillDays(points, days)
		}
	}
	return nil
}

func hasSeries(sets []SeriesSet) bool {
	for _, set := range sets {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

func fillDays(points []XY, days []time.Time) []XY {
	seen := make(map[time.Time]bool, len(points))
	for _, p := range points {
		seen[p.X] = true
	}

	for _, day := range days {
		if !seen[day] {
			points = append(points, XY{X: day, Y: 0})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].X.Before(points[j].X)
	})
	return points
}
