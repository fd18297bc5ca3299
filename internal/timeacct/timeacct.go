package timeacct

import (
	"math"
	"time"
)

// Pure time accounting for sessions. Every function takes its reference
// time as a parameter so callers stay deterministic under test.

// ElapsedMs returns the wall-clock milliseconds between start and end minus
// the accumulated paused milliseconds, floored at zero.
func ElapsedMs(startedAt, end time.Time, pausedMs int64) int64 {
	ms := end.Sub(startedAt).Milliseconds() - pausedMs
	if ms < 0 {
		return 0
	}
	return ms
}

// ElapsedMinutes is ElapsedMs expressed in minutes, rounded half-up to one
// decimal place.
func ElapsedMinutes(startedAt, end time.Time, pausedMs int64) float64 {
	return Round1(float64(ElapsedMs(startedAt, end, pausedMs)) / 60000.0)
}

// ProgressPercent converts a planned duration (minutes) and the last reported
// remaining seconds into a 0-100 percentage. Malformed input (negative
// remaining, remaining exceeding the plan) is clamped rather than rejected.
func ProgressPercent(durationMinutes, remainingSeconds int) int {
	total := durationMinutes * 60
	if total <= 0 {
		return 0
	}
	elapsed := total - remainingSeconds
	pct := RoundHalfUp(100 * float64(elapsed) / float64(total))
	return clampInt(pct, 0, 100)
}

// CompletionRate is the stop-time variant of ProgressPercent. A session that
// never reported progress counts as not started, so remaining defaults to the
// full planned duration.
func CompletionRate(durationMinutes int, remainingSeconds *int) float64 {
	total := durationMinutes * 60
	if total <= 0 {
		return 0
	}
	remaining := total
	if remainingSeconds != nil {
		remaining = *remainingSeconds
	}
	return float64(ProgressPercent(durationMinutes, remaining))
}

// RoundHalfUp rounds to the nearest integer, with halves rounding up.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Round1 rounds half-up to one decimal place.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
