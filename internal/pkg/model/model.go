package model

import (
	"maps"

	"github.com/fredbi/csvviz/internal/pkg/config"
)

// Record is a single row of a [Dataset], mapping field names to values.
//
// Records are treated as immutable: transformations produce new records.
type Record map[string]Value

// Get the value of a field. A missing field is undefined.
func (r Record) Get(field string) Value {
	return r[field]
}

// Float returns the numeric representation of a field (see [Value.Float]).
func (r Record) Float(field string) float64 {
	return r[field].Float()
}

// Str returns the string representation of a field.
func (r Record) Str(field string) string {
	return r[field].String()
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Dataset holds all the records loaded from a single source.
type Dataset struct {
	ID      string
	Title   string
	Source  string
	Header  []string
	Records []Record
}

// Series is a named collection of records sharing a schema, ordered by an independent variable (typically a date).
type Series struct {
	Name    string
	Records []Record
}

// Len yields the number of records in the series.
func (s Series) Len() int {
	return len(s.Records)
}

// Scenario is the complete set of chart data ready to be rendered on a single page.
type Scenario struct {
	Name   string
	Title  string
	Charts []ChartData
}

// ChartData holds the transformed data for one chart.
//
// Single-series charts (dots, blocks, bars) use Records. Multi-series charts (lines) use Series.
type ChartData struct {
	Spec    config.Chart
	Records []Record
	Series  []Series
}

// Names of the series, in order.
func (c ChartData) Names() []string {
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		names = append(names, s.Name)
	}

	return names
}

// IsEmpty reports whether the chart has no data to render.
func (c ChartData) IsEmpty() bool {
	if len(c.Records) > 0 {
		return false
	}

	for _, s := range c.Series {
		if s.Len() > 0 {
			return false
		}
	}

	return true
}
