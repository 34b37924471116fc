// Package season resolves which time slots are legal for an adventure on a
// given calendar date from its high/low seasonal schedules.
package season

import (
	"time"

	"backend/internal/domain/models"
	"backend/internal/utils"
)

// ResolveTimes returns the legal booking times for date. High season wins
// when both intervals claim the date. An empty result means the date is not
// bookable; that is a valid state, never an error.
func ResolveTimes(high, low models.SeasonSchedule, date string) []string {
	d, err := utils.ParseDate(date)
	if err != nil {
		return nil
	}
	if containsDate(high, d) {
		return copyTimes(high.Times)
	}
	if containsDate(low, d) {
		return copyTimes(low.Times)
	}
	return nil
}

// Contains reports whether the schedule's interval covers the date.
func Contains(s models.SeasonSchedule, date string) bool {
	d, err := utils.ParseDate(date)
	if err != nil {
		return false
	}
	return containsDate(s, d)
}

// containsDate checks inclusive bounds on full calendar dates. Intervals are
// compared exactly as stored: a low season crossing a year boundary must be
// saved with explicit years on both ends, there is no month/day wraparound.
// A schedule with an interval but no times still claims its dates; the empty
// time set means "not bookable", never "fall through to the other season".
func containsDate(s models.SeasonSchedule, d time.Time) bool {
	if !s.HasInterval() {
		return false
	}
	start, err := utils.ParseDate(s.Start)
	if err != nil {
		return false
	}
	end, err := utils.ParseDate(s.End)
	if err != nil {
		return false
	}
	if d.Before(start) || d.After(end) {
		return false
	}
	return true
}

// HasTime reports whether tm belongs to the resolved time set.
func HasTime(times []string, tm string) bool {
	for _, t := range times {
		if t == tm {
			return true
		}
	}
	return false
}

func copyTimes(times []string) []string {
	if len(times) == 0 {
		return nil
	}
	out := make([]string, len(times))
	copy(out, times)
	return out
}
