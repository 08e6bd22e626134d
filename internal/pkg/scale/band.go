package scale

import (
	"math"
	"slices"
)

// Band maps a categorical domain to evenly spaced bands of a continuous range.
//
// The domain order is preserved and duplicate categories keep their first position.
type Band struct {
	domain []string
	index  map[string]int
	r0, r1 float64

	paddingInner float64
	paddingOuter float64
	align        float64

	step      float64
	bandwidth float64
	positions []float64
}

// BandTick is a category positioned at the center of its band.
type BandTick struct {
	Category string
	Center   float64
}

// NewBand builds a band scale over the range [r0, r1], without padding and centered.
func NewBand(domain []string, r0, r1 float64) *Band {
	b := &Band{
		domain: make([]string, 0, len(domain)),
		index:  make(map[string]int, len(domain)),
		r0:     r0,
		r1:     r1,
		align:  0.5,
	}

	for _, category := range domain {
		if _, seen := b.index[category]; seen {
			continue
		}

		b.index[category] = len(b.domain)
		b.domain = append(b.domain, category)
	}

	b.rescale()

	return b
}

// Padding sets the inner padding to p and the outer padding to p/2, as fractions of the step.
//
// With this setting, the step is exactly the range length divided by the number of categories.
func (b *Band) Padding(p float64) *Band {
	b.paddingInner = clampUnit(p)
	b.paddingOuter = b.paddingInner / 2

	return b.rescale()
}

// PaddingInner sets the blank space between bands, as a fraction of the step in [0, 1].
func (b *Band) PaddingInner(p float64) *Band {
	b.paddingInner = clampUnit(p)

	return b.rescale()
}

// PaddingOuter sets the blank space before the first and after the last band, as a fraction of the step.
func (b *Band) PaddingOuter(p float64) *Band {
	b.paddingOuter = math.Max(0, p)

	return b.rescale()
}

// Align distributes the outer space: 0 puts it all at the end, 1 all at the start, 0.5 centers the bands.
func (b *Band) Align(a float64) *Band {
	b.align = clampUnit(a)

	return b.rescale()
}

// Map returns the start position of the band of a category.
//
// An unknown category yields NaN.
func (b *Band) Map(category string) float64 {
	i, ok := b.index[category]
	if !ok {
		return math.NaN()
	}

	return b.positions[i]
}

// Center returns the middle position of the band of a category.
func (b *Band) Center(category string) float64 {
	return b.Map(category) + b.bandwidth/2
}

// Bandwidth is the width of every band.
func (b *Band) Bandwidth() float64 {
	return b.bandwidth
}

// Step is the distance between the starts of adjacent bands.
func (b *Band) Step() float64 {
	return b.step
}

// Domain returns the unique categories of the scale, in order.
func (b *Band) Domain() []string {
	return slices.Clone(b.domain)
}

// Range of the scale.
func (b *Band) Range() (float64, float64) {
	return b.r0, b.r1
}

// Ticks returns every category with the center of its band.
func (b *Band) Ticks() []BandTick {
	ticks := make([]BandTick, 0, len(b.domain))
	for _, category := range b.domain {
		ticks = append(ticks, BandTick{
			Category: category,
			Center:   b.Center(category),
		})
	}

	return ticks
}

func (b *Band) rescale() *Band {
	n := float64(len(b.domain))
	start, stop := b.r0, b.r1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	b.step = (stop - start) / math.Max(1, n-b.paddingInner+2*b.paddingOuter)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)

	b.positions = make([]float64, len(b.domain))
	for i := range b.positions {
		b.positions[i] = start + b.step*float64(i)
	}

	if reverse {
		slices.Reverse(b.positions)
	}

	return b
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
