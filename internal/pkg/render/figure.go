package render

import "github.com/fredbi/csvviz/internal/pkg/config"

const (
	titleFontSize = 16
	labelFontSize = 12
	titleOffset   = 10
	xLabelOffset  = 40
	yLabelOffset  = 15
)

// Figure is a complete chart, ready to be encoded: a drawing area surrounded by margins,
// holding layers of shapes.
//
// Layers are expressed in the coordinates of the drawing area, i.e. translated by the top-left margins.
type Figure struct {
	ID     string
	Target string // ID of the page container receiving the figure
	Width  float64
	Height float64
	Margin config.Margin
	Title  string
	XLabel string
	YLabel string
	Class  string
	Layers []Shape
}

// NewFigure builds an empty figure from a chart geometry.
func NewFigure(id, target string, geometry config.Geometry) *Figure {
	return &Figure{
		ID:     id,
		Target: target,
		Width:  geometry.Width,
		Height: geometry.Height,
		Margin: geometry.Margin,
	}
}

// Inner returns the size of the drawing area, inside margins.
func (f *Figure) Inner() (width, height float64) {
	return f.Width - f.Margin.Left - f.Margin.Right, f.Height - f.Margin.Top - f.Margin.Bottom
}

// Add layers to the figure. Layers are drawn in order.
func (f *Figure) Add(layers ...Shape) {
	f.Layers = append(f.Layers, layers...)
}

// Decorations renders the title and the axis labels of the figure, if any.
//
// The title is centered above the drawing area, the x label below it and the y label is rotated along the left margin.
func (f *Figure) Decorations() Group {
	w, h := f.Inner()
	g := Group{Class: "decorations"}

	if f.Title != "" {
		g.Append(Text{
			X: w / 2, Y: -titleOffset,
			Text:  f.Title,
			Style: Style{Class: "title", Anchor: "middle", FontSize: titleFontSize, FontWeight: "bold"},
		})
	}

	if f.XLabel != "" {
		g.Append(Text{
			X: w / 2, Y: h + xLabelOffset,
			Text:  f.XLabel,
			Style: Style{Class: "x-label", Anchor: "middle", FontSize: labelFontSize},
		})
	}

	if f.YLabel != "" {
		g.Append(Text{
			X: -(f.Margin.Left - yLabelOffset), Y: h / 2,
			Text:   f.YLabel,
			Rotate: -90,
			Style:  Style{Class: "y-label", Anchor: "middle", FontSize: labelFontSize},
		})
	}

	return g
}
