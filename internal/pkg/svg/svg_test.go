package svg

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/render"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestEncode(t *testing.T) {
	fig := sampleFigure()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fig))
	doc := buf.String()

	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, `viewBox="0 0 700 380"`)
	assert.Contains(t, doc, `preserveAspectRatio="xMidYMid meet"`)
	assert.Contains(t, doc, `transform="translate(70,30)"`)
	assert.Contains(t, doc, `id="top-elec"`)
	assert.Contains(t, doc, `</svg>`)

	t.Run("shapes are rounded to the pixel", func(t *testing.T) {
		assert.Contains(t, doc, `x="10" y="20" width="30" height="40"`)
		assert.Contains(t, doc, `cx="5" cy="6" r="3"`)
		assert.Contains(t, doc, `fill="steelblue"`)
	})

	t.Run("paths keep fractional coordinates", func(t *testing.T) {
		assert.Contains(t, doc, `d="M0.5,1.25L10.75,20"`)
		assert.Contains(t, doc, `fill="none"`)
		assert.Contains(t, doc, `stroke-width="2"`)
	})

	t.Run("text is escaped and rotated around its anchor", func(t *testing.T) {
		assert.Contains(t, doc, "AT&amp;T")
		assert.Contains(t, doc, `transform="rotate(-45 100 200)"`)
		assert.Contains(t, doc, `text-anchor="end"`)
	})

	t.Run("decorations", func(t *testing.T) {
		assert.Contains(t, doc, "Top States")
		assert.Contains(t, doc, `font-weight="bold"`)
	})

	t.Run("groups", func(t *testing.T) {
		assert.Contains(t, doc, `class="bars"`)
		assert.Equal(t, strings.Count(doc, "<g"), strings.Count(doc, "</g>"))
	})
}

func TestEncodeNaN(t *testing.T) {
	fig := render.NewFigure("broken", "broken", config.Geometry{Width: 100, Height: 100})
	fig.Add(render.Rect{X: math.NaN(), Y: 0, Width: 10, Height: 10, Style: render.Style{Fill: "red"}})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fig))
	assert.Contains(t, buf.String(), `<rect x="NaN" y="0" width="10" height="10" fill="red" />`)
}

func TestEncodeWriteError(t *testing.T) {
	err := Encode(failingWriter{}, sampleFigure())
	require.Error(t, err)
	require.ErrorIs(t, err, errWrite)
}

func TestPage(t *testing.T) {
	page := NewPage("Lessons")

	demo := page.Target("demo-2")
	demo.Append(sampleFigure())
	page.Target("chart").Append(render.NewFigure("stocks", "chart", config.Geometry{Width: 1000, Height: 800}))
	page.Target("demo-2").Append(render.NewFigure("elec-blocks", "demo-2", config.Geometry{Width: 400, Height: 100}))

	t.Run("targets are created once, in order", func(t *testing.T) {
		targets := page.Targets()
		require.Len(t, targets, 2)
		assert.Equal(t, "demo-2", targets[0].ID)
		assert.Equal(t, "chart", targets[1].ID)
		assert.Same(t, demo, page.Target("demo-2"))
		assert.Len(t, demo.Figures(), 2)
	})

	t.Run("renders inline SVG", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, page.Render(&buf))
		doc := buf.String()

		assert.Contains(t, doc, "<title>Lessons</title>")
		assert.Contains(t, doc, `<div id="demo-2" class="target">`)
		assert.Contains(t, doc, `<div id="chart" class="target">`)
		assert.Less(t, strings.Index(doc, `id="demo-2"`), strings.Index(doc, `id="chart"`))
		assert.Equal(t, 3, strings.Count(doc, "<svg"))
		assert.NotContains(t, doc, "<?xml")
	})
}

func sampleFigure() *render.Figure {
	fig := render.NewFigure("top-elec", "demo-4", config.Geometry{
		Width:  700,
		Height: 380,
		Margin: config.Margin{Top: 30, Right: 30, Bottom: 80, Left: 70},
	})
	fig.Title = "Top States"

	fig.Add(
		render.Layer("bars", []render.Rect{
			{X: 10.2, Y: 19.6, Width: 30, Height: 40.4, Style: render.Style{Fill: "steelblue"}},
		}),
		render.Layer("dots", []render.Circle{
			{CX: 5, CY: 6, R: 2.5, Style: render.Style{Fill: "steelblue"}},
		}),
		render.Path{D: "M0.5,1.25L10.75,20", Style: render.Style{Fill: "none", Stroke: "red", StrokeWidth: 2}},
		render.Text{X: 100, Y: 200, Text: "AT&T", Rotate: -45, Style: render.Style{Anchor: "end"}},
	)

	return fig
}

var errWrite = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}
