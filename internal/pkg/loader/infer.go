package loader

import (
	"github.com/samber/lo"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/timefmt"
)

// Infer classifies the fields of raw datasets, to generate a starter configuration with [config.Generate].
func Infer(datasets ...model.Dataset) config.GenerateInput {
	return config.GenerateInput{
		Datasets: lo.Map(datasets, func(dataset model.Dataset, _ int) config.GenerateDataset {
			return inferDataset(dataset)
		}),
	}
}

// inferDataset tells which fields are numeric or dates.
//
// A field is numeric when all its non-empty values are numbers. Otherwise, it holds dates
// when all its non-empty values are ISO 8601 dates. Fields without any value are neither.
func inferDataset(dataset model.Dataset) config.GenerateDataset {
	summary := Summarize(dataset)
	numeric := lo.FilterMap(summary.Fields, func(f FieldSummary, _ int) (string, bool) {
		return f.Field, f.IsNumeric()
	})

	dates := lo.Filter(dataset.Header, func(field string, _ int) bool {
		if lo.Contains(numeric, field) {
			return false
		}

		var seen bool
		for _, record := range dataset.Records {
			raw := record.Str(field)
			if raw == "" {
				continue
			}

			if _, err := timefmt.ParseISO(raw); err != nil {
				return false
			}
			seen = true
		}

		return seen
	})

	return config.GenerateDataset{
		Source:  dataset.Source,
		Header:  dataset.Header,
		Numeric: numeric,
		Dates:   dates,
	}
}
