package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/fredbi/csvviz/internal/pkg/svg"
)

// Page represents a page containing multiple charts.
//
// A [Page] knows how to [Page.Render] as a static HTML page with inline SVG,
// or how to [Page.RenderECharts] as an interactive HTML page.
type Page struct {
	Title  string
	Charts []*Chart
}

// NewPage creates a new page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
	}
}

// AddChart adds a chart to the page.
func (p *Page) AddChart(c *Chart) {
	p.Charts = append(p.Charts, c)
}

// Render writes the page HTML to the given writer, with every figure inlined as SVG in its target container.
func (p *Page) Render(w io.Writer) error {
	page := svg.NewPage(p.Title)

	for _, c := range p.Charts {
		page.Target(c.Figure.Target).Append(c.Figure)
	}

	return page.Render(w)
}

// RenderECharts writes the page as interactive echarts HTML to the given writer.
func (p *Page) RenderECharts(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.SetPageTitle(p.Title)

	for _, c := range p.Charts {
		page.AddCharts(c.Build())
	}

	return page.Render(w)
}
