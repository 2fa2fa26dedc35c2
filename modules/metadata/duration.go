package metadata

import (
	"fmt"
	"regexp"
	"strconv"
)

// iso8601DurationPattern matches durations like PT1H2M10S as returned by the
// YouTube Data API. Date components never occur for video lengths.
var iso8601DurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts an ISO-8601 time duration to seconds.
// Returns false for anything it cannot parse.
func ParseISO8601Duration(s string) (int, bool) {
	m := iso8601DurationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, false
	}

	seconds := 0
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		seconds += h * 3600
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		seconds += min * 60
	}
	if m[3] != "" {
		sec, _ := strconv.Atoi(m[3])
		seconds += sec
	}
	return seconds, true
}

// FormatDurationSeconds renders a second count as "M:SS" or "H:MM:SS".
func FormatDurationSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
