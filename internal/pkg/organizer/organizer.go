package organizer

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/transform"
)

// Organizer applies the configured transformation pipelines to loaded datasets,
// and arranges the results into a visualization scenario.
type Organizer struct {
	options

	cfg *config.Config
	l   *slog.Logger
}

// New builds an [Organizer] ready to transform loaded datasets.
func New(cfg *config.Config, opts ...Option) *Organizer {
	return &Organizer{
		options: optionsWithDefaults(opts),
		cfg:     cfg,
		l:       slog.Default().With(slog.String("module", "organizer")),
	}
}

// Scenarize a set of loaded datasets into a visualization [model.Scenario], with one entry per configured chart.
//
// For every chart, records go through the pipeline: coerce, filter, sort, top, select fields.
// Multi-series charts then build one series per dataset or per column, ordered by date.
//
// A chart referring to a dataset which has not been loaded is an error.
func (v *Organizer) Scenarize(datasets []model.Dataset) (*model.Scenario, error) {
	loaded := lo.KeyBy(datasets, func(dataset model.Dataset) string {
		return dataset.ID
	})

	scenario := &model.Scenario{
		Name:   v.cfg.Name,
		Title:  v.cfg.Render.Title,
		Charts: make([]model.ChartData, 0, len(v.cfg.Charts)),
	}

	for _, chart := range v.cfg.Charts {
		data, err := v.organizeChart(chart, loaded)
		if err != nil {
			return nil, err
		}

		if data.IsEmpty() {
			v.l.Warn("no data resolved for chart", slog.String("chart", chart.ID))
			if v.strict() {
				err := fmt.Errorf("strict requirement not met for chart %q: no data for chart. Stopping here", chart.ID)
				v.l.Error("strict requirement not met", slog.String("error", err.Error()))

				return nil, err
			}

			continue
		}

		scenario.Charts = append(scenario.Charts, data)
	}

	v.l.Info("resolved charts", slog.Int("charts", len(scenario.Charts)))

	return scenario, nil
}

func (v *Organizer) organizeChart(chart config.Chart, loaded map[string]model.Dataset) (model.ChartData, error) {
	data := model.ChartData{
		Spec: chart,
	}

	if len(chart.Series.Datasets) > 0 {
		for _, id := range chart.Series.Datasets {
			records, title, err := v.prepare(chart, id, loaded)
			if err != nil {
				return data, err
			}

			data.Series = append(data.Series, transform.Group(title, byDate(records, chart.Date)))
		}

		return data, nil
	}

	records, _, err := v.prepare(chart, chart.Dataset, loaded)
	if err != nil {
		return data, err
	}

	if len(chart.Series.Columns) > 0 {
		data.Series = lo.Map(
			transform.Pivot(records, chart.Date, chart.Series.Columns, chart.Value),
			func(s model.Series, _ int) model.Series {
				return transform.Group(s.Name, byDate(s.Records, chart.Date))
			},
		)

		return data, nil
	}

	data.Records = records

	return data, nil
}

// prepare runs the record pipeline of a chart over one dataset.
func (v *Organizer) prepare(chart config.Chart, id string, loaded map[string]model.Dataset) ([]model.Record, string, error) {
	dataset, ok := loaded[id]
	if !ok {
		return nil, "", fmt.Errorf("chart %q: dataset %q not loaded", chart.ID, id)
	}

	def, ok := v.cfg.GetDataset(id)
	if !ok {
		return nil, "", fmt.Errorf("chart %q: dataset %q not configured", chart.ID, id)
	}

	records := transform.Coerce(dataset.Records, def.Coerce...)

	if !chart.Filter.IsEmpty() {
		records = transform.Filter(records, chart.Filter.Field, chart.Filter.In)
	}

	if chart.Sort.Field != "" {
		records = transform.Sort(records, chart.Sort.Field, chart.Sort.Order)
	}

	if chart.Top > 0 {
		records = transform.Top(records, lo.CoalesceOrEmpty(chart.Sort.Field, chart.Value), chart.Top)
	}

	if len(chart.Fields) > 0 {
		records = transform.Select(records, chart.Fields...)
	}

	v.l.Debug("records prepared",
		slog.String("chart", chart.ID),
		slog.String("dataset", id),
		slog.Int("records", len(records)),
	)

	return records, lo.CoalesceOrEmpty(def.Title, def.ID), nil
}

func (v *Organizer) strict() bool {
	if v.isStrict != nil {
		return *v.isStrict
	}

	return v.cfg.IsStrict
}

func byDate(records []model.Record, field string) []model.Record {
	if field == "" {
		return records
	}

	return transform.Sort(records, field, config.OrderAscending)
}
