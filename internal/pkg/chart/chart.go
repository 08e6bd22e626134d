package chart

import (
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/render"
	"github.com/fredbi/csvviz/internal/pkg/scale"
)

const (
	defaultFontSize = 12
	xAxisLabelAngle = 30
	axisNameGap     = 32
	symbolSize      = 10
)

// Chart is a single chart of a [Page]: the transformed data, and its static SVG figure.
//
// A [Chart] may also be built as an interactive echarts chart.
type Chart struct {
	options

	Data   model.ChartData
	Figure *render.Figure
}

// NewChart creates a new chart from transformed data and its laid-out figure.
func NewChart(data model.ChartData, fig *render.Figure, opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
		Data:    data,
		Figure:  fig,
	}
}

// ID of the chart.
func (c *Chart) ID() string {
	return c.Data.Spec.ID
}

// Build creates the interactive echarts chart from the transformed data.
//
// Bars become a bar chart (reversed for horizontal bars), lines a line chart along a time axis,
// and dots or blocks a scatter chart of values by index.
func (c *Chart) Build() components.Charter {
	switch c.Data.Spec.Kind {
	case config.KindBars:
		return c.buildBar()
	case config.KindLines:
		return c.buildLine()
	default:
		return c.buildScatter()
	}
}

func (c *Chart) globalOptions() []charts.GlobalOpts {
	spec := c.Data.Spec

	// Title options
	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	// Legend options
	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(c.ShowLegend),
	}
	if c.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Orient = "vertical"
	}

	// Toolbox options
	toolboxOpts := echartsopts.Toolbox{
		Left: "right",
		Feature: &echartsopts.ToolBoxFeature{
			SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
				Title: "Save as image",
			},
		},
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(echartsopts.Initialization{
			Theme:   c.Theme,
			ChartID: spec.ID,
			Width:   pixels(spec.Geometry.Width),
			Height:  pixels(spec.Geometry.Height),
		}),
		charts.WithToolboxOpts(toolboxOpts),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
		}),
	}
}

func (c *Chart) buildBar() *charts.Bar {
	spec := c.Data.Spec
	bar := charts.NewBar()
	bar.SetGlobalOptions(c.globalOptions()...)

	xAxisOpts, yAxisOpts := c.setAxes()
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(xAxisOpts),
		charts.WithYAxisOpts(yAxisOpts),
	)

	categories := lo.Map(c.Data.Records, func(record model.Record, _ int) string {
		return record.Str(spec.Category)
	})
	data := lo.Map(c.Data.Records, func(record model.Record, _ int) echartsopts.BarData {
		return echartsopts.BarData{
			Name:  record.Str(spec.Category),
			Value: jsonValue(record.Float(spec.Value)),
		}
	})

	bar.SetXAxis(categories)
	bar.AddSeries(spec.Value, data, charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: spec.Color}))

	if c.Horizontal {
		return bar.XYReversal()
	}

	return bar
}

func (c *Chart) setAxes() (echartsopts.XAxis, echartsopts.YAxis) {
	const (
		xType = "category"
		yType = "value"
	)

	if !c.Horizontal {
		xAxisOpts := echartsopts.XAxis{
			Name:         c.XAxisLabel,
			Type:         xType,
			NameLocation: "end",
			AxisTick: &echartsopts.AxisTick{
				AlignWithLabel: echartsopts.Bool(true),
			},
			AxisLabel: &echartsopts.AxisLabel{
				Rotate:   xAxisLabelAngle,
				Interval: "0",
			},
		}

		yAxisOpts := echartsopts.YAxis{
			Name: c.YAxisLabel,
			Type: yType,
		}

		return xAxisOpts, yAxisOpts
	}

	// horizontal bar layout
	yAxisOpts := echartsopts.YAxis{
		Name: c.YAxisLabel,
		Type: xType,
		AxisLabel: &echartsopts.AxisLabel{
			Interval: "0",
		},
	}

	xAxisOpts := echartsopts.XAxis{
		Name:         c.XAxisLabel,
		NameLocation: "center",
		NameGap:      axisNameGap,
		Type:         yType,
	}

	return xAxisOpts, yAxisOpts
}

func (c *Chart) buildLine() *charts.Line {
	spec := c.Data.Spec
	line := charts.NewLine()
	line.SetGlobalOptions(c.globalOptions()...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(echartsopts.XAxis{
			Name: c.XAxisLabel,
			Type: "time",
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Name:  c.YAxisLabel,
			Type:  "value",
			Scale: echartsopts.Bool(true),
		}),
	)

	color := scale.NewOrdinal(c.Data.Names(), palette(spec))
	for _, series := range c.Data.Series {
		data := lo.Map(series.Records, func(record model.Record, _ int) echartsopts.LineData {
			return echartsopts.LineData{
				Value: []any{jsonValue(record.Float(spec.Date)), jsonValue(record.Float(spec.Value))},
			}
		})

		line.AddSeries(series.Name, data,
			charts.WithLineChartOpts(echartsopts.LineChart{
				Smooth:     echartsopts.Bool(true),
				ShowSymbol: echartsopts.Bool(false),
			}),
			charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: color.Map(series.Name)}),
		)
	}

	return line
}

func (c *Chart) buildScatter() *charts.Scatter {
	spec := c.Data.Spec
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(c.globalOptions()...)
	scatter.SetGlobalOptions(
		charts.WithXAxisOpts(echartsopts.XAxis{
			Name: c.XAxisLabel,
			Type: "value",
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Name: c.YAxisLabel,
			Type: "value",
		}),
	)

	symbol := lo.Ternary(spec.Kind == config.KindBlocks, "rect", "circle")
	data := lo.Map(c.Data.Records, func(record model.Record, i int) echartsopts.ScatterData {
		return echartsopts.ScatterData{
			Name:       record.Str(spec.Category),
			Value:      []any{i, jsonValue(record.Float(spec.Value))},
			Symbol:     symbol,
			SymbolSize: symbolSize,
		}
	})

	scatter.AddSeries(spec.Value, data, charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: spec.Color}))

	return scatter
}

// jsonValue replaces values which cannot be represented in JSON by a "-", which echarts renders as a gap.
func jsonValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	return v
}

func pixels(v float64) string {
	if v <= 0 {
		return ""
	}

	return strconv.Itoa(int(math.Round(v))) + "px"
}
