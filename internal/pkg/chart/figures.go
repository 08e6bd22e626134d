package chart

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/render"
	"github.com/fredbi/csvviz/internal/pkg/scale"
)

const (
	defaultTicks = 10
	legendGap    = 20
)

func dotsFigure(data model.ChartData) *render.Figure {
	spec := data.Spec
	fig := render.NewFigure(spec.ID, spec.Target, spec.Geometry)
	fig.Class = string(spec.Kind)

	fig.Add(render.Layer("dots", render.Dots(values(data.Records, spec.Value), render.DotGlyph{
		Slot:       spec.Glyph.Slot,
		Offset:     spec.Glyph.Offset,
		CY:         spec.Glyph.Position,
		Multiplier: spec.Glyph.Multiplier,
		Fill:       spec.Color,
	})))

	return fig
}

func blocksFigure(data model.ChartData) *render.Figure {
	spec := data.Spec
	fig := render.NewFigure(spec.ID, spec.Target, spec.Geometry)
	fig.Class = string(spec.Kind)

	fig.Add(render.Layer("blocks", render.Blocks(values(data.Records, spec.Value), render.BlockGlyph{
		Slot:       spec.Glyph.Slot,
		Offset:     spec.Glyph.Offset,
		Width:      spec.Glyph.Size,
		Baseline:   spec.Glyph.Position,
		Multiplier: spec.Glyph.Multiplier,
		Fill:       spec.Color,
	})))

	return fig
}

// barsFigure lays out a bar chart: a band scale for categories and a linear scale for values.
//
// Vertical bars use an inverted value range, so that values grow upward.
func barsFigure(data model.ChartData) (*render.Figure, error) {
	spec := data.Spec
	fig := decoratedFigure(spec)
	w, h := fig.Inner()

	categories := lo.Map(data.Records, func(record model.Record, _ int) string {
		return record.Str(spec.Category)
	})
	d0, d1 := valueDomain(spec, func() (float64, float64, bool) {
		return scale.RecordsExtent(data.Records, spec.Value)
	})

	var (
		band   *scale.Band
		linear *scale.Linear
	)

	if spec.IsHorizontal() {
		band = scale.NewBand(categories, 0, h).Padding(spec.Geometry.Padding)
		linear = scale.NewLinear(d0, d1, 0, w)
	} else {
		band = scale.NewBand(categories, 0, w).Padding(spec.Geometry.Padding)
		linear = scale.NewLinear(d0, d1, h, 0)
	}

	valueAxis := lo.Ternary(spec.IsHorizontal(), spec.XAxis, spec.YAxis)
	if spec.Domain.Nice {
		linear = linear.Nice(ticksOrDefault(valueAxis.Ticks))
	}

	rects := render.Bars(data.Records, render.BarSpec{
		Orientation: spec.Orientation,
		Category:    spec.Category,
		Value:       spec.Value,
		Band:        band,
		Linear:      linear,
		Extent:      h,
		Origin:      spec.Geometry.Origin,
		Fill:        spec.Color,
		Class:       "bar",
	})

	format, err := render.NumberFormat(valueAxis.Format)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", spec.ID, err)
	}
	valueTicks := render.LinearTicks(linear, ticksOrDefault(valueAxis.Ticks), format)
	bandTicks := render.BandTicks(band)

	fig.Add(render.Layer("bars", rects))

	if spec.IsHorizontal() {
		fig.Add(
			render.Axis(render.Bottom, valueTicks, w, render.WithOffset(0, h), render.WithRotate(spec.XAxis.Rotate), render.WithClass("x-axis")),
			render.Axis(render.Left, bandTicks, h, render.WithRotate(spec.YAxis.Rotate), render.WithClass("y-axis")),
		)

		return fig, nil
	}

	fig.Add(
		render.Axis(render.Bottom, bandTicks, w, render.WithOffset(0, h), render.WithRotate(spec.XAxis.Rotate), render.WithClass("x-axis")),
		render.Axis(render.Left, valueTicks, h, render.WithRotate(spec.YAxis.Rotate), render.WithClass("y-axis")),
	)

	return fig, nil
}

// linesFigure lays out a multi-series line chart: a time scale along x, a linear scale along y
// and one color per series.
func linesFigure(data model.ChartData) (*render.Figure, error) {
	spec := data.Spec
	fig := decoratedFigure(spec)
	w, h := fig.Inner()

	t0, t1, ok := scale.SeriesExtent(data.Series, spec.Date)
	if !ok {
		t0, t1 = math.NaN(), math.NaN()
	}
	d0, d1 := valueDomain(spec, func() (float64, float64, bool) {
		return scale.SeriesExtent(data.Series, spec.Value)
	})

	timeScale := scale.NewTimeMillis(t0, t1, 0, w)
	linear := scale.NewLinear(d0, d1, h, 0)
	if spec.Domain.Nice {
		linear = linear.Nice(ticksOrDefault(spec.YAxis.Ticks))
	}

	names := data.Names()
	color := scale.NewOrdinal(names, palette(spec))

	paths := render.Lines(data.Series, render.LineSpec{
		X:           spec.Date,
		Y:           spec.Value,
		Time:        timeScale,
		Linear:      linear,
		Color:       color.Map,
		StrokeWidth: spec.Geometry.StrokeWidth,
	})

	timeTicks, err := timeAxisTicks(spec.XAxis, timeScale)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", spec.ID, err)
	}

	format, err := render.NumberFormat(spec.YAxis.Format)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", spec.ID, err)
	}

	fig.Add(
		render.Layer("lines", paths),
		render.Axis(render.Bottom, timeTicks, w, render.WithOffset(0, h), render.WithRotate(spec.XAxis.Rotate), render.WithClass("x-axis")),
		render.Axis(render.Left, render.LinearTicks(linear, ticksOrDefault(spec.YAxis.Ticks), format), h, render.WithClass("y-axis")),
	)

	if spec.Legend.Show {
		fig.Add(render.Legend(names, color.Map, render.LegendSpec{
			X:         w + legendGap,
			RowHeight: spec.Legend.RowHeight,
			Swatch:    spec.Legend.Swatch,
		}))
	}

	return fig, nil
}

func timeAxisTicks(axis config.Axis, s *scale.Time) ([]render.Tick, error) {
	format, err := render.DateFormat(axis.Format)
	if err != nil {
		return nil, err
	}

	if axis.Interval == "" {
		return render.AutoTimeTicks(s, ticksOrDefault(axis.Ticks), format), nil
	}

	interval, err := scale.ParseInterval(axis.Interval)
	if err != nil {
		return nil, err
	}

	if axis.Every > 1 {
		interval = interval.Every(axis.Every)
	}

	return render.TimeTicks(s, interval, format), nil
}

// decoratedFigure builds a figure with a title and axis labels.
func decoratedFigure(spec config.Chart) *render.Figure {
	fig := render.NewFigure(spec.ID, spec.Target, spec.Geometry)
	fig.Class = string(spec.Kind)
	fig.Title = spec.Title
	fig.XLabel = spec.XAxis.Label
	fig.YLabel = spec.YAxis.Label

	return fig
}

// valueDomain resolves the domain of the value scale: fixed endpoints from the configuration,
// or the extent of the data.
func valueDomain(spec config.Chart, extent func() (float64, float64, bool)) (float64, float64) {
	d0, d1, ok := extent()
	if !ok {
		d0, d1 = 0, 1
	}

	if spec.Domain.Min != nil {
		d0 = *spec.Domain.Min
	}

	if spec.Domain.Max != nil {
		d1 = *spec.Domain.Max
	}

	return d0, d1
}

func values(records []model.Record, field string) []float64 {
	return lo.Map(records, func(record model.Record, _ int) float64 {
		return record.Float(field)
	})
}

func palette(spec config.Chart) []string {
	if len(spec.Palette) > 0 {
		return spec.Palette
	}

	return scale.Category10
}

func ticksOrDefault(ticks int) int {
	if ticks <= 0 {
		return defaultTicks
	}

	return ticks
}
