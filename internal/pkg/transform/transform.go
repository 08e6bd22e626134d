// Package transform provides pure operations over records: filtering, type coercion, sorting,
// top-k selection, projection and reshaping into series.
//
// No operation mutates its input.
package transform

import (
	"cmp"
	"math"
	"slices"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/samber/lo"
)

// Filter keeps the records whose field, as a string, is one of the allowed values.
func Filter(records []model.Record, field string, allowed []string) []model.Record {
	set := lo.Keyify(allowed)

	return lo.Filter(records, func(record model.Record, _ int) bool {
		_, ok := set[record.Str(field)]

		return ok
	})
}

// Sort records by the numeric representation of a field, using a stable sort.
//
// Dates compare as epoch milliseconds. Values which are not numbers (NaN or undefined) sort last,
// regardless of the order. An empty order sorts ascending.
func Sort(records []model.Record, field string, order config.Order) []model.Record {
	sorted := slices.Clone(records)
	descending := order == config.OrderDescending

	slices.SortStableFunc(sorted, func(a, b model.Record) int {
		return compareFloats(a.Float(field), b.Float(field), descending)
	})

	return sorted
}

// Top returns the k records with the highest values for field, in descending order.
//
// If k exceeds the number of records, all records are returned.
func Top(records []model.Record, field string, k int) []model.Record {
	if k <= 0 {
		return []model.Record{}
	}

	sorted := Sort(records, field, config.OrderDescending)

	return sorted[:min(k, len(sorted))]
}

// Select projects records onto the given fields. Fields missing from a record are ignored.
func Select(records []model.Record, fields ...string) []model.Record {
	if len(fields) == 0 {
		return records
	}

	return lo.Map(records, func(record model.Record, _ int) model.Record {
		return lo.PickByKeys(record, fields)
	})
}

// Pivot reshapes wide records into one [model.Series] per column.
//
// Each record of a series holds the key field and the column value under valueField.
// Series follow the order of columns.
func Pivot(records []model.Record, key string, columns []string, valueField string) []model.Series {
	return lo.Map(columns, func(column string, _ int) model.Series {
		return Group(column, lo.Map(records, func(record model.Record, _ int) model.Record {
			return model.Record{
				key:        record.Get(key),
				valueField: record.Get(column),
			}
		}))
	})
}

// Group builds a named series from records.
func Group(name string, records []model.Record) model.Series {
	return model.Series{
		Name:    name,
		Records: records,
	}
}

func compareFloats(a, b float64, descending bool) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case descending:
		return cmp.Compare(b, a)
	default:
		return cmp.Compare(a, b)
	}
}
