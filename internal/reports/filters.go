package reports

import (
	"errors"
	"time"
)

// GetDateRange returns the inclusive window for a preset, or for a custom
// range given as YYYY-MM-DD strings. An empty preset means no window.
func GetDateRange(now time.Time, dateRange, startStr, endStr string) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch dateRange {
	case "":
		return time.Time{}, time.Time{}, nil
	case DateRangeDaily:
		return today, today.AddDate(0, 0, 1).Add(-time.Second), nil
	case DateRangeWeekly:
		// last 7 days including today
		return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1).Add(-time.Second), nil
	case DateRangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
	case DateRangeYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0).Add(-time.Second), nil
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return time.Time{}, time.Time{}, errors.New("start_date and end_date required for custom range")
		}
		start, err := time.ParseInLocation("2006-01-02", startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
		}
		end = end.AddDate(0, 0, 1).Add(-time.Second)
		if start.After(end) {
			return time.Time{}, time.Time{}, errors.New("start_date must be before end_date")
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, errors.New("date_range must be daily, weekly, monthly, yearly or custom")
	}
}
