package utils

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date accepts either a calendar date ("2006-01-02") or a full RFC 3339
// timestamp in request bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// ParseDate reads a date-only or RFC 3339 value. Date-only values are UTC
// midnight.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// MonthKey formats t as the YYYY-MM key used by bills and tree submissions.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
