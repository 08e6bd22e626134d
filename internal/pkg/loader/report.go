package loader

import (
	"math"

	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/transform"
)

// LoadingReport allows to inspect the contents of loaded datasets.
type LoadingReport struct {
	NumberOfDatasets int             `json:"datasets"`
	NumberOfRecords  int             `json:"records"`
	LoadedSources    []string        `json:"loaded_sources"`
	Datasets         []DatasetReport `json:"dataset_reports"`
}

// DatasetReport summarizes a single dataset.
type DatasetReport struct {
	ID      string         `json:"id"`
	Source  string         `json:"source"`
	Records int            `json:"records_count"`
	Fields  []FieldSummary `json:"fields"`
}

// FieldSummary tells how many values of a field are numeric, and their range.
//
// Min and Max only account for finite numeric values. They are zero when there are none.
type FieldSummary struct {
	Field      string  `json:"field"`
	Numeric    int     `json:"numeric_count"`
	NonNumeric int     `json:"non_numeric_count"`
	Min        float64 `json:"min_value"`
	Max        float64 `json:"max_value"`
}

// IsNumeric tells if all the non-empty values of the field are numeric.
func (f FieldSummary) IsNumeric() bool {
	return f.Numeric > 0 && f.NonNumeric == 0
}

// Report produces a [LoadingReport], which allows for closer inspection of the loaded datasets.
//
// Values are classified with the same rules as "number" coercions. Empty values are not counted.
func (l *Loader) Report() LoadingReport {
	r := LoadingReport{
		Datasets: make([]DatasetReport, 0, len(l.datasets)),
	}

	for _, dataset := range l.datasets {
		r.NumberOfDatasets++
		r.NumberOfRecords += len(dataset.Records)
		r.LoadedSources = append(r.LoadedSources, dataset.Source)
		r.Datasets = append(r.Datasets, Summarize(dataset))
	}

	return r
}

// Summarize the fields of a dataset of raw records.
func Summarize(dataset model.Dataset) DatasetReport {
	report := DatasetReport{
		ID:      dataset.ID,
		Source:  dataset.Source,
		Records: len(dataset.Records),
		Fields:  make([]FieldSummary, 0, len(dataset.Header)),
	}

	for _, field := range dataset.Header {
		report.Fields = append(report.Fields, summarizeField(dataset.Records, field))
	}

	return report
}

func summarizeField(records []model.Record, field string) FieldSummary {
	summary := FieldSummary{
		Field: field,
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}

	for _, record := range records {
		raw := record.Str(field)
		if raw == "" {
			continue
		}

		if !transform.IsNumeric(raw) {
			summary.NonNumeric++

			continue
		}

		summary.Numeric++
		v := transform.ParseNumber(raw)
		if math.IsInf(v, 0) {
			continue
		}

		summary.Min = math.Min(summary.Min, v)
		summary.Max = math.Max(summary.Max, v)
	}

	if math.IsInf(summary.Min, 0) {
		summary.Min, summary.Max = 0, 0
	}

	return summary
}
