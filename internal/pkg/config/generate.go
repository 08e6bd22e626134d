package config

import (
	"fmt"
	"path"
	"strings"
)

// GenerateInput holds the data needed by [Generate] to build a configuration
// from the headers of loaded datasets.
//
// This avoids importing the loader package (which imports [config]).
type GenerateInput struct {
	Datasets []GenerateDataset
}

// GenerateDataset describes the fields of a loaded source, classified by the loader.
type GenerateDataset struct {
	Source  string
	Header  []string
	Numeric []string // Numeric fields hold numbers in every row
	Dates   []string // Dates fields hold ISO 8601 dates in every row
}

// Generate builds a [Config] from inspected datasets.
//
// Each source becomes a dataset with numeric and date coercions. A dataset with a date field
// gets a line chart with one series per numeric column. Other datasets get a bar chart of the
// top 15 records by their first numeric field, categorized by their first non-numeric field.
func Generate(input GenerateInput) *Config {
	defaults, err := loadDefaults()
	if err != nil {
		// embedded config must always parse
		panic(fmt.Sprintf("loading embedded defaults: %v", err))
	}

	cfg := &Config{
		Name:   "Generated Config",
		Render: defaults.Render,
	}

	seen := make(map[string]int)
	for _, ds := range input.Datasets {
		id := sourceToID(ds.Source)
		if n, dup := seen[id]; dup {
			seen[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		} else {
			seen[id] = 1
		}

		dataset := Dataset{
			ID:     id,
			Title:  titleize(id),
			Source: ds.Source,
		}

		for _, field := range ds.Dates {
			dataset.Coerce = append(dataset.Coerce, Coercion{Field: field, Type: TypeDate})
		}
		for _, field := range ds.Numeric {
			dataset.Coerce = append(dataset.Coerce, Coercion{Field: field, Type: TypeNumber})
		}
		cfg.Datasets = append(cfg.Datasets, dataset)

		if chart, ok := generateChart(dataset, ds); ok {
			cfg.Charts = append(cfg.Charts, chart)
		}
	}

	return cfg
}

func generateChart(dataset Dataset, ds GenerateDataset) (Chart, bool) {
	const top = 15

	if len(ds.Numeric) == 0 {
		return Chart{}, false
	}

	if len(ds.Dates) > 0 {
		return Chart{
			ID:      dataset.ID + "-lines",
			Title:   dataset.Title,
			Kind:    KindLines,
			Dataset: dataset.ID,
			Series:  SeriesSource{Columns: ds.Numeric},
			Date:    ds.Dates[0],
			Value:   "value",
			XAxis:   Axis{Interval: "year", Format: "%Y"},
			Legend:  Legend{Show: true},
		}, true
	}

	numeric := make(map[string]struct{}, len(ds.Numeric))
	for _, field := range ds.Numeric {
		numeric[field] = struct{}{}
	}

	var category string
	for _, field := range ds.Header {
		if _, ok := numeric[field]; !ok {
			category = field

			break
		}
	}

	if category == "" {
		return Chart{}, false
	}

	value := ds.Numeric[0]
	zero := 0.0

	return Chart{
		ID:       dataset.ID + "-bars",
		Title:    fmt.Sprintf("Top %d %s by %s", top, titleize(category), titleize(value)),
		Kind:     KindBars,
		Dataset:  dataset.ID,
		Sort:     Sort{Field: value, Order: OrderDescending},
		Top:      top,
		Category: category,
		Value:    value,
		Domain:   Domain{Min: &zero},
		Geometry: Geometry{Padding: 0.25},
		YAxis:    Axis{Label: titleize(value), Ticks: 5},
	}, true
}

// sourceToID converts a source location to a kebab-case ID.
//
// It strips the directory and the extension (e.g. "data/AAPL.csv" -> "aapl").
func sourceToID(source string) string {
	base := path.Base(strings.ReplaceAll(source, `\`, "/"))
	id, _ := strings.CutSuffix(base, path.Ext(base))

	id = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '.':
			return '-'
		default:
			return r
		}
	}, id)

	if id == "" || id == "-" {
		return "stdin"
	}

	return strings.ToLower(id)
}
