// Package clock provides the monotonic timestamp source used for all
// stimulus/response timing. Trials and calibration samples must never be
// skewed by wall-clock adjustments, so durations are always computed from
// the monotonic reading carried by time.Time.
package clock

import "time"

// Clock yields monotonically non-decreasing timestamps with sub-millisecond
// resolution. Implementations must be side-effect free.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// System is the production clock backed by time.Now. Go attaches a monotonic
// reading to every time.Now result on supported platforms, and Since
// subtracts monotonic readings when both operands carry one, which makes the
// measurements immune to NTP/DST wall adjustments.
type System struct{}

func New() System { return System{} }

func (System) Now() time.Time                  { return time.Now() }
func (System) Since(t time.Time) time.Duration { return time.Since(t) }

// Monotonic reports whether the clock's timestamps carry a monotonic
// reading. When false, measurements fall back to wall time and downstream
// calibration results are flagged as reduced precision.
func (System) Monotonic() bool {
	return hasMonotonic(time.Now())
}

// hasMonotonic checks for the " m=" marker Go appends to the String form of
// timestamps that carry a monotonic reading.
func hasMonotonic(t time.Time) bool {
	s := t.String()
	for i := 0; i+2 < len(s); i++ {
		if s[i] == ' ' && s[i+1] == 'm' && s[i+2] == '=' {
			return true
		}
	}
	return false
}
