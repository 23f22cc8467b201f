package util

import (
	"fmt"
	"strings"
	"time"
)

const (
	layout     = "2006-01-02T15:04:05"
	dateLayout = "2006-01-02"
)

// ParseDateParam accepts RFC3339, a local timestamp without zone, or a bare
// date; the last two are read as UTC. With endOfDay set, a bare date covers
// the whole day up to its final nanosecond.
func ParseDateParam(value string, endOfDay bool) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond), nil
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", value)
}
