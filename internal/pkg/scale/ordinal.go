package scale

import "slices"

// Category10 is a palette of ten categorical colors.
var Category10 = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Ordinal maps a discrete domain to a discrete range, cycling through the range
// when the domain has more elements than the range.
//
// Keys which are not part of the domain are appended to it on first use.
// An Ordinal scale is not safe for concurrent use.
type Ordinal[K comparable, V any] struct {
	domain []K
	index  map[K]int
	rng    []V
}

// NewOrdinal builds an ordinal scale. Duplicate keys in the domain keep their first position.
func NewOrdinal[K comparable, V any](domain []K, rng []V) *Ordinal[K, V] {
	o := &Ordinal[K, V]{
		domain: make([]K, 0, len(domain)),
		index:  make(map[K]int, len(domain)),
		rng:    slices.Clone(rng),
	}

	for _, key := range domain {
		o.add(key)
	}

	return o
}

// Map a key to a range value: the i-th key of the domain maps to range[i mod len(range)].
//
// An empty range yields the zero value.
func (o *Ordinal[K, V]) Map(key K) V {
	i := o.add(key)
	if len(o.rng) == 0 {
		var zero V

		return zero
	}

	return o.rng[i%len(o.rng)]
}

// Domain returns the keys known to the scale, in order.
func (o *Ordinal[K, V]) Domain() []K {
	return slices.Clone(o.domain)
}

// Range returns the values of the scale.
func (o *Ordinal[K, V]) Range() []V {
	return slices.Clone(o.rng)
}

func (o *Ordinal[K, V]) add(key K) int {
	if i, ok := o.index[key]; ok {
		return i
	}

	i := len(o.domain)
	o.index[key] = i
	o.domain = append(o.domain, key)

	return i
}
