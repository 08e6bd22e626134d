package scale

import (
	"math"
	"time"
)

// Time maps a time domain to a continuous range.
//
// The mapping is linear over milliseconds since the Unix epoch. Ticks are aligned on calendar boundaries in UTC.
type Time struct {
	linear *Linear
}

// NewTime builds a time scale from domain [d0, d1] to range [r0, r1].
func NewTime(d0, d1 time.Time, r0, r1 float64) *Time {
	return NewTimeMillis(millis(d0), millis(d1), r0, r1)
}

// NewTimeMillis builds a time scale from a domain expressed in milliseconds since the Unix epoch.
func NewTimeMillis(ms0, ms1, r0, r1 float64) *Time {
	return &Time{linear: NewLinear(ms0, ms1, r0, r1)}
}

// Map a time to the range.
func (s *Time) Map(t time.Time) float64 {
	return s.linear.Map(millis(t))
}

// MapMillis maps a time expressed in milliseconds since the Unix epoch, such as the numeric value of a date.
func (s *Time) MapMillis(ms float64) float64 {
	return s.linear.Map(ms)
}

// Invert maps a range value back to a time, in UTC.
func (s *Time) Invert(px float64) time.Time {
	return fromMillis(s.linear.Invert(px))
}

// Domain of the scale.
func (s *Time) Domain() (time.Time, time.Time) {
	d0, d1 := s.linear.Domain()

	return fromMillis(d0), fromMillis(d1)
}

// Range of the scale.
func (s *Time) Range() (float64, float64) {
	return s.linear.Range()
}

// Ticks returns the boundaries of a calendar interval within the domain.
func (s *Time) Ticks(interval Interval) []time.Time {
	d0, d1 := s.Domain()

	return interval.Range(d0, d1)
}

// tickIntervals are the candidates of AutoTicks, by increasing duration.
var tickIntervals = []Interval{
	Second,
	Second.Every(5),
	Second.Every(15),
	Second.Every(30),
	Minute,
	Minute.Every(5),
	Minute.Every(15),
	Minute.Every(30),
	Hour,
	Hour.Every(3),
	Hour.Every(6),
	Hour.Every(12),
	Day,
	Day.Every(2),
	Week,
	Month,
	Month.Every(3),
	Year,
}

// AutoTicks picks the calendar interval yielding about count ticks over the domain,
// and returns the ticks with the chosen interval.
//
// A count of 0 defaults to 10 ticks.
func (s *Time) AutoTicks(count int) ([]time.Time, Interval) {
	interval := s.autoInterval(count)

	return s.Ticks(interval), interval
}

func (s *Time) autoInterval(count int) Interval {
	if count <= 0 {
		count = defaultTickCount
	}

	d0, d1 := s.linear.ordered()
	target := (d1 - d0) / float64(count)

	i := 0
	for i < len(tickIntervals) && duration(tickIntervals[i]) <= target {
		i++
	}

	switch {
	case i == len(tickIntervals):
		years := target / duration(Year)

		return Year.Every(int(tickIncrement(years)))
	case i == 0:
		return Second
	}

	if target/duration(tickIntervals[i-1]) < duration(tickIntervals[i])/target {
		return tickIntervals[i-1]
	}

	return tickIntervals[i]
}

// duration of an interval, in milliseconds.
func duration(i Interval) float64 {
	return float64(i.unit.approx().Milliseconds()) * float64(i.Step())
}

// tickIncrement rounds a step to the nearest 1, 2 or 5 times a power of ten, with a minimum of 1.
func tickIncrement(step float64) float64 {
	if step <= 1 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 1
	}

	power := math.Pow(10, math.Floor(math.Log10(step)))
	ratio := step / power

	switch {
	case ratio >= math.Sqrt(50):
		return 10 * power
	case ratio >= math.Sqrt(10):
		return 5 * power
	case ratio >= math.Sqrt(2):
		return 2 * power
	default:
		return power
	}
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}
