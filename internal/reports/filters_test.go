package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDateRange(t *testing.T) {
	now := time.Date(2024, time.April, 20, 15, 4, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		dateRange string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"daily", DateRangeDaily, "", "", day(time.April, 20), day(time.April, 21).Add(-time.Second)},
		{"weekly", DateRangeWeekly, "", "", day(time.April, 14), day(time.April, 21).Add(-time.Second)},
		{"monthly", DateRangeMonthly, "", "", day(time.April, 1), day(time.May, 1).Add(-time.Second)},
		{"custom", DateRangeCustom, "2024-03-01", "2024-03-31", day(time.March, 1), day(time.April, 1).Add(-time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := GetDateRange(now, tt.dateRange, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestGetDateRange_Errors(t *testing.T) {
	now := time.Now()

	start, _, err := GetDateRange(now, "", "", "")
	require.NoError(t, err)
	assert.True(t, start.IsZero())

	_, _, err = GetDateRange(now, DateRangeCustom, "2024-03-01", "")
	assert.Error(t, err)
	_, _, err = GetDateRange(now, DateRangeCustom, "2024-04-01", "2024-03-01")
	assert.EqualError(t, err, "start_date must be before end_date")
	_, _, err = GetDateRange(now, "fortnightly", "", "")
	assert.Error(t, err)
}
