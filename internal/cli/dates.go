package cli

import (
	"fmt"
	"time"
)

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD dates. A bare date
// is midnight local time, or the last instant of that day when endOfDay is
// set.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD or RFC 3339)", errUsage, s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
