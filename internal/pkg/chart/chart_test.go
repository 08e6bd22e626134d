package chart

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/loader"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/organizer"
	"github.com/fredbi/csvviz/internal/pkg/render"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

// TestSmokeRenderFromTestdata is an end-to-end smoke test that loads
// CSV data from loader testdata, organizes it, builds charts,
// and renders HTML output.
func TestSmokeRenderFromTestdata(t *testing.T) {
	cfg := mustLoadConfig(t, smokeConfig(t))

	l := loader.New(cfg)
	require.NoError(t, l.LoadAll(context.Background()))

	scenario, err := organizer.New(cfg).Scenarize(l.Datasets())
	require.NoError(t, err)
	require.Len(t, scenario.Charts, 4)

	page, err := New(cfg, scenario).BuildPage()
	require.NoError(t, err)
	require.Len(t, page.Charts, 4)

	t.Run("static SVG", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, page.Render(&buf))

		html := buf.String()
		assert.Contains(t, html, "<!DOCTYPE html>")
		assert.Contains(t, html, `<div id="demo" class="target">`)
		assert.Contains(t, html, `<div id="regional" class="target">`)
		assert.Equal(t, 4, strings.Count(html, "<svg"))
		assert.Contains(t, html, "$4.00")
		assert.Contains(t, html, "2002")

		outFile := filepath.Join(t.TempDir(), "smoke_test_output.html")
		require.NoError(t, os.WriteFile(outFile, buf.Bytes(), 0o600))
		t.Logf("HTML output written to: %s (%d bytes)", outFile, buf.Len())
	})

	t.Run("interactive echarts", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, page.RenderECharts(&buf))

		html := buf.String()
		assert.Contains(t, html, "echarts")
		assert.Contains(t, html, "top-gas")
	})
}

func TestBarsFigure(t *testing.T) {
	zero := 0.0
	spec := config.Chart{
		ID:          "top-gas",
		Title:       "Gas",
		Target:      "demo",
		Kind:        config.KindBars,
		Orientation: config.OrientationHorizontal,
		Category:    "state",
		Value:       "gas",
		Color:       "orange",
		Domain:      config.Domain{Min: &zero},
		Geometry: config.Geometry{
			Width:   400,
			Height:  200,
			Margin:  config.Margin{Top: 20, Right: 30, Bottom: 30, Left: 70},
			Padding: 0.25,
		},
		XAxis: config.Axis{Ticks: 5, Format: "currency"},
	}
	data := model.ChartData{
		Spec: spec,
		Records: []model.Record{
			{"state": model.String("CA"), "gas": model.Number(4.5)},
			{"state": model.String("TX"), "gas": model.Number(3.0)},
			{"state": model.String("NY"), "gas": model.Number(3.8)},
		},
	}

	fig, err := barsFigure(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", fig.Target)
	assert.Equal(t, "Gas", fig.Title)
	require.Len(t, fig.Layers, 3)

	bars, ok := fig.Layers[0].(render.Group)
	require.True(t, ok)
	require.Len(t, bars.Children, 3)

	widths := make([]float64, 0, 3)
	for _, child := range bars.Children {
		rect, ok := child.(render.Rect)
		require.True(t, ok)
		widths = append(widths, rect.Width)
	}

	assert.InDelta(t, 300, widths[0], 1e-9)
	assert.InDelta(t, 200, widths[1], 1e-9)
	assert.InDelta(t, 253.333, widths[2], 1e-3)

	t.Run("unknown format", func(t *testing.T) {
		data := data
		data.Spec.XAxis.Format = "roman"
		_, err := barsFigure(data)
		require.Error(t, err)
	})
}

func TestLinesFigure(t *testing.T) {
	date := func(y int) model.Value {
		return model.Date(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC))
	}

	spec := config.Chart{
		ID:     "stocks",
		Kind:   config.KindLines,
		Date:   "Date",
		Value:  "Close",
		Target: "chart",
		Geometry: config.Geometry{
			Width:       1000,
			Height:      800,
			Margin:      config.Margin{Top: 50, Right: 160, Bottom: 50, Left: 100},
			StrokeWidth: 2,
		},
		XAxis:  config.Axis{Interval: "year", Format: "%Y"},
		YAxis:  config.Axis{Format: "dollar"},
		Legend: config.Legend{Show: true, Swatch: config.SwatchLine, RowHeight: 20},
	}
	data := model.ChartData{
		Spec: spec,
		Series: []model.Series{
			{Name: "AAPL", Records: []model.Record{
				{"Date": date(2000), "Close": model.Number(25)},
				{"Date": date(2001), "Close": model.Number(10)},
				{"Date": date(2002), "Close": model.Number(7)},
			}},
			{Name: "IBM", Records: []model.Record{
				{"Date": date(2000), "Close": model.Number(100)},
				{"Date": date(2002), "Close": model.Number(80)},
			}},
		},
	}

	fig, err := linesFigure(data)
	require.NoError(t, err)
	require.Len(t, fig.Layers, 4, "lines, two axes and a legend")

	lines, ok := fig.Layers[0].(render.Group)
	require.True(t, ok)
	require.Len(t, lines.Children, 2)

	for i, child := range lines.Children {
		path, ok := child.(render.Path)
		require.True(t, ok)
		assert.Len(t, path.Points, data.Series[i].Len())
		assert.NotEqual(t, "", path.Stroke)
	}

	xAxis, ok := fig.Layers[1].(render.Group)
	require.True(t, ok)
	assert.Len(t, xAxis.Children, 1+2*3, "one tick per year")

	legend, ok := fig.Layers[3].(render.Group)
	require.True(t, ok)
	assert.Equal(t, "legend", legend.Class)
	assert.InDelta(t, 740+legendGap, legend.TX, 1e-9)
}

func TestValueDomain(t *testing.T) {
	minimum, maximum := 0.0, 10.0
	extent := func() (float64, float64, bool) { return 2, 8, true }
	empty := func() (float64, float64, bool) { return 0, 0, false }

	d0, d1 := valueDomain(config.Chart{}, extent)
	assert.InDelta(t, 2, d0, 1e-9)
	assert.InDelta(t, 8, d1, 1e-9)

	d0, d1 = valueDomain(config.Chart{Domain: config.Domain{Min: &minimum}}, extent)
	assert.InDelta(t, 0, d0, 1e-9)
	assert.InDelta(t, 8, d1, 1e-9)

	d0, d1 = valueDomain(config.Chart{Domain: config.Domain{Max: &maximum}}, empty)
	assert.InDelta(t, 0, d0, 1e-9)
	assert.InDelta(t, 10, d1, 1e-9)
}

func TestWithTitleAndSubtitle(t *testing.T) {
	c := NewChart(model.ChartData{}, nil, WithTitle("My Title"), WithSubtitle("My Subtitle"), WithTheme(""))

	assert.Equal(t, "My Title", c.Title)
	assert.Equal(t, "My Subtitle", c.Subtitle)
	assert.Equal(t, ThemeRoma, c.Theme)
}

func TestRenderEmptyPage(t *testing.T) {
	page := NewPage("Empty")

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.NotZero(t, buf.Len())

	buf.Reset()
	require.NoError(t, page.RenderECharts(&buf))
	assert.NotZero(t, buf.Len())
}

// helpers

func mustLoadConfig(t *testing.T, yamlContent string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))
	cfg, err := config.Load(file)
	require.NoError(t, err)

	return cfg
}

func loaderTestdataPath(t *testing.T, name string) string {
	t.Helper()
	pth, err := filepath.Abs(filepath.Join("..", "loader", "testdata", name))
	require.NoError(t, err)

	return filepath.ToSlash(pth)
}

func smokeConfig(t *testing.T) string {
	return fmt.Sprintf(`
name: Smoke Test
render:
  title: Energy Prices
  theme: roma

datasets:
  - id: energy
    source: '%s'
    coerce:
      - { field: gas, type: float }
      - { field: elec, type: float }
  - id: series
    source: '%s'
    coerce:
      - { field: observation_date, type: date, layout: '%%Y-%%m-%%d' }
      - { field: 'Midwest - Urban', type: float }
      - { field: 'South - Urban', type: float }

charts:
  - id: gas-dots
    target: demo
    kind: dots
    dataset: energy
    value: gas
  - id: elec-blocks
    target: demo
    kind: blocks
    dataset: energy
    value: elec
  - id: top-gas
    kind: bars
    orientation: horizontal
    dataset: energy
    sort: { field: gas, order: descending }
    top: 3
    category: state
    value: gas
    domain: { min: 0 }
    geometry:
      padding: 0.25
    xaxis:
      ticks: 5
      format: currency
  - id: regional
    kind: lines
    dataset: series
    series:
      columns: ['Midwest - Urban', 'South - Urban']
    date: observation_date
    value: price
    xaxis:
      interval: year
      format: '%%Y'
    yaxis:
      format: currency
    legend:
      show: true
`, loaderTestdataPath(t, "energy.csv"), loaderTestdataPath(t, "series.csv"))
}
