package scale

import (
	"math"
	"slices"
	"testing"

	"github.com/fredbi/csvviz/internal/pkg/model"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestLinear(t *testing.T) {
	t.Run("maps domain to range", func(t *testing.T) {
		s := NewLinear(0, 100, 0, 400)
		assert.Equal(t, 200.0, s.Map(50)) //nolint:testifylint // exact value expected
	})

	t.Run("endpoints are exact", func(t *testing.T) {
		tests := []struct {
			d0, d1, r0, r1 float64
		}{
			{0, 4.5, 0, 300},
			{0.12, 0.43, 270, 0},
			{1e9, 2e9, 0.1, 0.7},
			{-3.3, 7.7, 80, 620},
		}

		for _, tt := range tests {
			s := NewLinear(tt.d0, tt.d1, tt.r0, tt.r1)
			assert.Equal(t, tt.r0, s.Map(tt.d0)) //nolint:testifylint // exact value expected
			assert.Equal(t, tt.r1, s.Map(tt.d1)) //nolint:testifylint // exact value expected
		}
	})

	t.Run("extrapolates", func(t *testing.T) {
		s := NewLinear(0, 10, 0, 100)
		assert.InDelta(t, 150, s.Map(15), 1e-9)
		assert.InDelta(t, -50, s.Map(-5), 1e-9)
	})

	t.Run("clamps", func(t *testing.T) {
		s := NewLinear(0, 10, 0, 100).Clamp(true)
		assert.InDelta(t, 100, s.Map(15), 1e-9)
		assert.InDelta(t, 0, s.Map(-5), 1e-9)
	})

	t.Run("inverted range", func(t *testing.T) {
		s := NewLinear(0, 0.5, 270, 0)
		assert.InDelta(t, 135, s.Map(0.25), 1e-9)
	})

	t.Run("inverts", func(t *testing.T) {
		s := NewLinear(10, 20, 100, 300)
		assert.InDelta(t, 15, s.Invert(200), 1e-9)
		assert.InDelta(t, 12.5, s.Invert(s.Map(12.5)), 1e-9)
	})

	t.Run("degenerate domain", func(t *testing.T) {
		s := NewLinear(5, 5, 0, 100)
		v := s.Map(7)
		assert.True(t, math.IsNaN(v) || math.IsInf(v, 0), "expected a non-finite value, got %v", v)
	})

	t.Run("NaN propagates", func(t *testing.T) {
		assert.True(t, math.IsNaN(NewLinear(0, 1, 0, 1).Map(math.NaN())))
	})
}

func TestLinearTicks(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		count  int
	}{
		{"prices", 0, 4.5, 5},
		{"cents", 0.09, 0.43, 10},
		{"reversed", 100, 0, 5},
		{"large", 0, 1234, 10},
		{"default count", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := NewLinear(tt.d0, tt.d1, 0, 1).Ticks(tt.count)
			require.NotEmpty(t, ticks)

			count := tt.count
			if count == 0 {
				count = 10
			}
			assert.LessOrEqual(t, len(ticks), count)
			assert.True(t, slices.IsSorted(ticks))

			lo, hi := math.Min(tt.d0, tt.d1), math.Max(tt.d0, tt.d1)
			for _, tick := range ticks {
				assert.GreaterOrEqual(t, tick, lo-1e-9)
				assert.LessOrEqual(t, tick, hi+1e-9)
			}
		})
	}

	t.Run("degenerate domain", func(t *testing.T) {
		assert.Equal(t, []float64{3}, NewLinear(3, 3, 0, 1).Ticks(5))
	})

	t.Run("undefined domain", func(t *testing.T) {
		assert.Empty(t, NewLinear(math.NaN(), 1, 0, 1).Ticks(5))
	})
}

func TestLinearNice(t *testing.T) {
	s := NewLinear(0.13, 4.37, 0, 100).Nice(5)
	d0, d1 := s.Domain()
	assert.LessOrEqual(t, d0, 0.13)
	assert.GreaterOrEqual(t, d1, 4.37)

	r0, r1 := s.Range()
	assert.Equal(t, r0, s.Map(d0)) //nolint:testifylint // exact value expected
	assert.Equal(t, r1, s.Map(d1)) //nolint:testifylint // exact value expected
}

func TestBand(t *testing.T) {
	domain := []string{"California", "Texas", "New York", "Illinois", "Michigan"}

	t.Run("step divides the range", func(t *testing.T) {
		for _, padding := range []float64{0, 0.1, 0.25, 0.5} {
			b := NewBand(domain, 0, 620).Padding(padding)
			assert.InDelta(t, 620, b.Step()*float64(len(domain)), 1e-9)
			assert.InDelta(t, b.Step()*(1-padding), b.Bandwidth(), 1e-9)
		}
	})

	t.Run("positions", func(t *testing.T) {
		b := NewBand(domain, 0, 500).Padding(0.2)
		// step = 100, offset = step * padding / 2 = 10
		for i, category := range domain {
			assert.InDelta(t, 100*float64(i)+10, b.Map(category), 1e-9)
		}
		assert.InDelta(t, 80, b.Bandwidth(), 1e-9)
		assert.InDelta(t, 50, b.Center("California"), 1e-9)
	})

	t.Run("slots are unique and do not overlap", func(t *testing.T) {
		b := NewBand(domain, 0, 300).Padding(0.25)
		var previousEnd float64
		seen := make(map[float64]struct{})
		for i, category := range domain {
			start := b.Map(category)
			_, dup := seen[start]
			assert.False(t, dup)
			seen[start] = struct{}{}

			if i > 0 {
				assert.GreaterOrEqual(t, start, previousEnd)
			}
			previousEnd = start + b.Bandwidth()
		}
		assert.LessOrEqual(t, previousEnd, 300.0)
	})

	t.Run("duplicates keep the first occurrence", func(t *testing.T) {
		b := NewBand([]string{"a", "b", "a", "c"}, 0, 300)
		assert.Equal(t, []string{"a", "b", "c"}, b.Domain())
		assert.InDelta(t, 100, b.Step(), 1e-9)
		assert.InDelta(t, 0, b.Map("a"), 1e-9)
	})

	t.Run("unknown category", func(t *testing.T) {
		b := NewBand(domain, 0, 300)
		assert.True(t, math.IsNaN(b.Map("Ohio")))
	})

	t.Run("empty domain", func(t *testing.T) {
		b := NewBand(nil, 0, 300)
		assert.Empty(t, b.Ticks())
	})

	t.Run("reversed range", func(t *testing.T) {
		b := NewBand([]string{"a", "b"}, 200, 0)
		assert.InDelta(t, 100, b.Map("a"), 1e-9)
		assert.InDelta(t, 0, b.Map("b"), 1e-9)
	})

	t.Run("inner and outer padding", func(t *testing.T) {
		b := NewBand([]string{"a", "b"}, 0, 100).PaddingInner(0.5).PaddingOuter(0.25).Align(0)
		// step = 100 / (2 - 0.5 + 0.5) = 50
		assert.InDelta(t, 50, b.Step(), 1e-9)
		assert.InDelta(t, 25, b.Bandwidth(), 1e-9)
		assert.InDelta(t, 0, b.Map("a"), 1e-9)
	})

	t.Run("ticks at band centers", func(t *testing.T) {
		b := NewBand([]string{"a", "b"}, 0, 100)
		assert.Equal(t, []BandTick{{Category: "a", Center: 25}, {Category: "b", Center: 75}}, b.Ticks())
	})
}

func TestOrdinal(t *testing.T) {
	t.Run("cycles through the range", func(t *testing.T) {
		domain := []string{"AAPL", "GOOG", "AMZN", "IBM", "MSFT"}
		rng := []string{"red", "green"}
		o := NewOrdinal(domain, rng)

		for i, key := range domain {
			assert.Equal(t, rng[i%len(rng)], o.Map(key))
		}
	})

	t.Run("category10", func(t *testing.T) {
		o := NewOrdinal([]string{"a", "b"}, Category10)
		assert.Equal(t, "#1f77b4", o.Map("a"))
		assert.Equal(t, "#ff7f0e", o.Map("b"))
	})

	t.Run("implicit domain", func(t *testing.T) {
		o := NewOrdinal([]string{"a"}, []int{1, 2, 3})
		assert.Equal(t, 2, o.Map("z"))
		assert.Equal(t, 3, o.Map("y"))
		assert.Equal(t, 2, o.Map("z"))
		assert.Equal(t, []string{"a", "z", "y"}, o.Domain())
	})

	t.Run("empty range", func(t *testing.T) {
		o := NewOrdinal([]string{"a"}, []string{})
		assert.Empty(t, o.Map("a"))
	})
}

func TestExtent(t *testing.T) {
	t.Run("ignores NaN", func(t *testing.T) {
		lo, hi, ok := Extent(slices.Values([]float64{math.NaN(), 3, -1, math.NaN(), 7}))
		require.True(t, ok)
		assert.InDelta(t, -1, lo, 1e-9)
		assert.InDelta(t, 7, hi, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, ok := Extent(slices.Values([]float64{}))
		assert.False(t, ok)

		_, _, ok = Extent(slices.Values([]float64{math.NaN()}))
		assert.False(t, ok)
	})

	t.Run("records", func(t *testing.T) {
		records := []model.Record{
			{"gas": model.Number(3.8)},
			{"gas": model.String("n/a")},
			{"gas": model.Number(4.5)},
			{},
		}

		lo, hi, ok := RecordsExtent(records, "gas")
		require.True(t, ok)
		assert.InDelta(t, 3.8, lo, 1e-9)
		assert.InDelta(t, 4.5, hi, 1e-9)
	})

	t.Run("series", func(t *testing.T) {
		series := []model.Series{
			{Name: "a", Records: []model.Record{{"v": model.Number(1)}, {"v": model.Number(5)}}},
			{Name: "b", Records: []model.Record{{"v": model.Number(-2)}}},
			{Name: "c"},
		}

		lo, hi, ok := SeriesExtent(series, "v")
		require.True(t, ok)
		assert.InDelta(t, -2, lo, 1e-9)
		assert.InDelta(t, 5, hi, 1e-9)
	})
}
