package stamps

import (
	"regexp"
	"time"
)

const layout = "2006-01-02T15:04:05.000Z"

var stampRgx = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

// Now returns the current time as the ISO-8601 millisecond stamp used for
// cdate/mdate fields. The stamp doubles as the optimistic-concurrency
// version and sorts lexicographically in time order.
func Now() string {
	return time.Now().UTC().Format(layout)
}

// Next returns the current stamp, pushed one millisecond past prev when the
// clock has not moved beyond it. Updates rely on the new stamp strictly
// exceeding the one it replaces, otherwise the stored version never advances.
func Next(prev string) string {
	now := Now()
	if now > prev {
		return now
	}
	t, err := time.Parse(layout, prev)
	if err != nil {
		return now
	}
	return t.Add(time.Millisecond).UTC().Format(layout)
}

// Valid reports whether s has the exact stamp format.
func Valid(s string) bool {
	return stampRgx.MatchString(s)
}
