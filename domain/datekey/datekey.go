// Package datekey works with calendar day keys of the form "YYYY-MM-DD".
// Day keys are the canonical addressing unit for the timeline: tasks are
// grouped by key, the viewport window is a contiguous run of keys, and the
// wire format for a scheduled date is the key at UTC midnight.
package datekey

import (
	"fmt"
	"regexp"
	"time"
)

// scheduledISOPattern matches the canonical scheduled-date wire format.
var scheduledISOPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T00:00:00\.000Z$`)

// FromTime returns the day key for t in t's location.
func FromTime(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Today returns the day key for the current local date.
func Today() string {
	return FromTime(time.Now())
}

// ToTime parses a day key into local midnight of that calendar day.
func ToTime(key string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// AddDays returns the day key delta calendar days away from key.
// Delta may be negative. An unparseable key is returned unchanged.
func AddDays(key string, delta int) string {
	t, err := ToTime(key)
	if err != nil {
		return key
	}
	return FromTime(t.AddDate(0, 0, delta))
}

// ScheduledISO converts a day key to the canonical scheduled-date string,
// UTC midnight of that calendar day.
func ScheduledISO(key string) string {
	return key + "T00:00:00.000Z"
}

// FromScheduledISO extracts the day key from a scheduled-date string.
func FromScheduledISO(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	return iso[:10]
}

// ValidScheduledISO reports whether iso is a canonical scheduled-date string.
func ValidScheduledISO(iso string) bool {
	return scheduledISOPattern.MatchString(iso)
}

// Range returns every day key in the half-open range [start, endExclusive).
// Returns nil when start does not precede endExclusive.
func Range(start, endExclusive string) []string {
	if start >= endExclusive {
		return nil
	}
	var keys []string
	for k := start; k < endExclusive; {
		keys = append(keys, k)
		next := AddDays(k, 1)
		if next == k {
			// Malformed key that cannot advance; bail out.
			break
		}
		k = next
	}
	return keys
}

// RangeAround returns the day keys from center-past through center+future inclusive.
func RangeAround(center string, past, future int) []string {
	keys := make([]string, 0, past+future+1)
	for d := -past; d <= future; d++ {
		keys = append(keys, AddDays(center, d))
	}
	return keys
}

// DayLabel formats a day key as "02 Jan". Labels are computed in UTC so a
// stored key renders the same regardless of server timezone.
func DayLabel(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return t.UTC().Format("02 Jan")
}

// WeekdayLabel formats a day key as a short weekday name, e.g. "Mon".
func WeekdayLabel(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return ""
	}
	return t.UTC().Format("Mon")
}
