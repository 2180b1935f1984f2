package analytics

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the wire format of every date handled by the engine
const DayLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a date cell returned by the storage driver
func ParseDay(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return Day(v), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("nil date")
		}
		return Day(*v), nil
	case string:
		return parseDayString(v)
	case []byte:
		return parseDayString(string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", value)
	}
}

func parseDayString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DayLayout) {
		s = s[:len(DayLayout)]
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// TruncateToWeek returns the Monday on or before t
func TruncateToWeek(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// TruncateToMonth returns the first day of t's month
func TruncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInRange returns every day from start to end, both inclusive
func DaysInRange(start, end time.Time) []time.Time {
	days := []time.Time{}
	current := Day(start)
	last := Day(end)

	for !current.After(last) {
		days = append(days, current)
		current = current.AddDate(0, 0, 1)
	}

	return days
}

// PeriodBounds resolves a named period to inclusive day bounds relative to now
func PeriodBounds(period string, now time.Time) (*DateRange, error) {
	today := Day(now)
	var start, end time.Time

	switch strings.ToLower(period) {
	case "today":
		start, end = today, today

	case "yesterday":
		start = today.AddDate(0, 0, -1)
		end = start

	case "this_week":
		start = TruncateToWeek(today)
		end = today

	case "last_week":
		end = TruncateToWeek(today).AddDate(0, 0, -1)
		start = TruncateToWeek(end)

	case "this_month":
		start = TruncateToMonth(today)
		end = today

	case "last_month":
		end = TruncateToMonth(today).AddDate(0, 0, -1)
		start = TruncateToMonth(end)

	case "this_year":
		start = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = today

	case "last_30_days":
		start = today.AddDate(0, 0, -30)
		end = today

	case "last_90_days":
		start = today.AddDate(0, 0, -90)
		end = today

	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}

	return &DateRange{Start: start, End: end}, nil
}
