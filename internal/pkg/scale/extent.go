package scale

import (
	"iter"
	"math"

	"github.com/fredbi/csvviz/internal/pkg/model"
)

// Extent computes the minimum and maximum of a sequence in a single pass, ignoring NaN.
//
// ok is false when the sequence holds no number.
func Extent(seq iter.Seq[float64]) (lo, hi float64, ok bool) {
	for v := range seq {
		if math.IsNaN(v) {
			continue
		}

		if !ok {
			lo, hi, ok = v, v, true

			continue
		}

		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return lo, hi, ok
}

// RecordsExtent computes the extent of the numeric representation of a field.
func RecordsExtent(records []model.Record, field string) (lo, hi float64, ok bool) {
	return Extent(fieldValues(records, field))
}

// SeriesExtent computes the extent of a field across all the records of several series.
func SeriesExtent(series []model.Series, field string) (lo, hi float64, ok bool) {
	return Extent(func(yield func(float64) bool) {
		for _, s := range series {
			for v := range fieldValues(s.Records, field) {
				if !yield(v) {
					return
				}
			}
		}
	})
}

func fieldValues(records []model.Record, field string) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, record := range records {
			if !yield(record.Float(field)) {
				return
			}
		}
	}
}
