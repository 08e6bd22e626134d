package chart

import (
	"fmt"
	"log/slog"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/render"
)

// Builder constructs charts from scenarized data.
type Builder struct {
	cfg      *config.Config
	scenario *model.Scenario
	l        *slog.Logger
}

// New creates a new chart [Builder], given a [config.Config] and a pre-calculated [model.Scenario].
//
// The builder embeds a [slog.Logger] to croak about warnings and issues.
func New(cfg *config.Config, scenario *model.Scenario) *Builder {
	return &Builder{
		cfg:      cfg,
		scenario: scenario,
		l:        slog.Default().With(slog.String("module", "chart")),
	}
}

// BuildPage creates a page with one chart per chart of the scenario.
//
// Each chart owns its scales, computed from the extent of its data unless the configuration fixes the domain.
func (b *Builder) BuildPage() (*Page, error) {
	page := NewPage(b.scenario.Title)

	for _, data := range b.scenario.Charts {
		if data.IsEmpty() {
			b.l.Warn("empty chart skipped", slog.String("chart_id", data.Spec.ID))

			continue
		}

		chart, err := b.buildChart(data)
		if err != nil {
			return nil, err
		}

		page.AddChart(chart)
		b.l.Info("added chart", slog.String("chart_id", data.Spec.ID), slog.String("target", data.Spec.Target))
	}

	b.l.Info("added charts", slog.Int("charts", len(page.Charts)))

	return page, nil
}

// buildChart lays out the figure of a single chart.
func (b *Builder) buildChart(data model.ChartData) (*Chart, error) {
	spec := data.Spec

	var (
		fig *render.Figure
		err error
	)

	switch spec.Kind {
	case config.KindDots:
		fig = dotsFigure(data)
	case config.KindBlocks:
		fig = blocksFigure(data)
	case config.KindBars:
		fig, err = barsFigure(data)
	case config.KindLines:
		fig, err = linesFigure(data)
	default:
		err = fmt.Errorf("chart %q: unsupported kind %q", spec.ID, spec.Kind)
	}

	if err != nil {
		return nil, err
	}

	return NewChart(data, fig,
		WithTitle(spec.Title),
		WithTheme(b.cfg.Render.Theme),
		WithXAxisLabel(spec.XAxis.Label),
		WithYAxisLabel(spec.YAxis.Label),
		WithLegend(spec.Legend.Show),
		WithHorizontal(spec.IsHorizontal()),
	), nil
}
