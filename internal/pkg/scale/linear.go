// Package scale maps data values to pixel positions: continuous (linear, time),
// categorical (band) and discrete (ordinal) scales, as well as domain extents and axis ticks.
package scale

import (
	"math"

	moremath "github.com/aclements/go-moremath/scale"
)

const defaultTickCount = 10

// Linear maps a continuous domain [d0, d1] to a continuous range [r0, r1].
//
// Values outside of the domain are extrapolated, unless clamping is enabled.
// A degenerate domain (d0 == d1) yields non-finite positions.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
	clamp  bool
}

// NewLinear builds a linear scale from domain [d0, d1] to range [r0, r1].
//
// An inverted range (r0 > r1) is legit, e.g. to map a value to a vertical pixel position.
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Clamp restricts the output of [Linear.Map] to the range.
func (s *Linear) Clamp(enabled bool) *Linear {
	s.clamp = enabled

	return s
}

// Domain of the scale.
func (s *Linear) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range of the scale.
func (s *Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

// Map a domain value to the range.
//
// The interpolation r0*(1-t) + r1*t is exact at both ends of the range.
func (s *Linear) Map(v float64) float64 {
	t := (v - s.d0) / (s.d1 - s.d0)
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}

	return s.r0*(1-t) + s.r1*t
}

// Invert maps a range value back to the domain.
func (s *Linear) Invert(px float64) float64 {
	t := (px - s.r0) / (s.r1 - s.r0)
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}

	return s.d0*(1-t) + s.d1*t
}

// Ticks returns at most count evenly spaced round values within the domain, in ascending order.
//
// A count of 0 defaults to 10 ticks.
func (s *Linear) Ticks(count int) []float64 {
	lo, hi := s.ordered()
	switch {
	case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return nil
	case lo == hi:
		return []float64{lo}
	}

	if count <= 0 {
		count = defaultTickCount
	}

	major, _ := moremath.Linear{Min: lo, Max: hi}.Ticks(moremath.TickOptions{Max: count})

	// guards against rounding at the boundaries
	const epsilon = 1e-9
	span := (hi - lo) * epsilon
	ticks := make([]float64, 0, len(major))
	for _, tick := range major {
		if tick < lo-span || tick > hi+span {
			continue
		}

		ticks = append(ticks, tick)
	}

	return ticks
}

// Nice extends the domain so that it starts and ends on round values,
// consistent with at most count ticks.
func (s *Linear) Nice(count int) *Linear {
	lo, hi := s.ordered()
	if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return s
	}

	if count <= 0 {
		count = defaultTickCount
	}

	nice := moremath.Linear{Min: lo, Max: hi}
	nice.Nice(moremath.TickOptions{Max: count})

	if s.d0 <= s.d1 {
		s.d0, s.d1 = nice.Min, nice.Max
	} else {
		s.d0, s.d1 = nice.Max, nice.Min
	}

	return s
}

func (s *Linear) ordered() (float64, float64) {
	if s.d0 > s.d1 {
		return s.d1, s.d0
	}

	return s.d0, s.d1
}
