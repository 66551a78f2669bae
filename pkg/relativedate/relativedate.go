// Package relativedate translates informal Portuguese date phrases ("hoje",
// "amanhã", weekday names) into calendar dates. It is a pure helper: callers
// supply the reference day, which keeps the resolution testable.
package relativedate

import (
	"strings"
	"time"
)

// weekdays maps lowercase Portuguese weekday names (accented and unaccented
// spellings) to time.Weekday. The set is fixed at build time.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"segunda", time.Monday},
	{"terca", time.Tuesday},
	{"terça", time.Tuesday},
	{"quarta", time.Wednesday},
	{"quinta", time.Thursday},
	{"sexta", time.Friday},
	{"sabado", time.Saturday},
	{"sábado", time.Saturday},
	{"domingo", time.Sunday},
}

// Resolve converts a relative date phrase into an ISO date string (YYYY-MM-DD)
// relative to today. Matching is case-insensitive and by substring, checked in
// order: "hoje", "amanhã"/"amanha", then weekday names. A weekday name always
// resolves to the next strict occurrence: a phrase naming today's own weekday
// advances a full week. Unrecognized phrases default to today.
func Resolve(term string, today time.Time) string {
	t := strings.ToLower(term)

	if strings.Contains(t, "hoje") {
		return format(today)
	}
	if strings.Contains(t, "amanha") || strings.Contains(t, "amanhã") {
		return format(today.AddDate(0, 0, 1))
	}

	for _, wd := range weekdays {
		if strings.Contains(t, wd.name) {
			ahead := (int(wd.day) - int(today.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			return format(today.AddDate(0, 0, ahead))
		}
	}

	// Explicit fallback: an unmatched phrase means today.
	return format(today)
}

func format(t time.Time) string {
	return t.Format("2006-01-02")
}
