package render

import "github.com/fredbi/csvviz/internal/pkg/config"

const (
	defaultRowHeight  = 20
	defaultSwatchSize = 10
	legendFontSize    = 12
)

// LegendSpec configures a [Legend].
type LegendSpec struct {
	X, Y      float64 // position of the legend
	RowHeight float64
	Swatch    config.Swatch
	Size      float64 // size of the swatch
}

// Legend renders one row per name, in order: a colored swatch followed by the name.
//
// The swatch is either a square or a short line stroked with the color of the name.
func Legend(names []string, color func(string) string, spec LegendSpec) Group {
	if spec.RowHeight <= 0 {
		spec.RowHeight = defaultRowHeight
	}

	if spec.Size <= 0 {
		spec.Size = defaultSwatchSize
	}

	legend := Group{
		Class:    "legend",
		TX:       spec.X,
		TY:       spec.Y,
		Children: make([]Shape, 0, len(names)),
	}

	for i, name := range names {
		row := Group{
			TY: float64(i) * spec.RowHeight,
		}

		if spec.Swatch == config.SwatchLine {
			row.Append(
				Line{
					X1: spec.Size, Y1: spec.Size,
					X2: 3 * spec.Size, Y2: spec.Size,
					Style: Style{Stroke: color(name), StrokeWidth: 2},
				},
				Text{
					X: 4 * spec.Size, Y: 1.5 * spec.Size,
					Text:  name,
					Style: Style{Anchor: "start", FontSize: legendFontSize},
				},
			)
		} else {
			row.Append(
				Rect{
					Width: spec.Size, Height: spec.Size,
					Style: Style{Fill: color(name)},
				},
				Text{
					X: 1.5 * spec.Size, Y: spec.Size,
					Text:  name,
					Style: Style{FontSize: legendFontSize, Baseline: "middle"},
				},
			)
		}

		legend.Append(row)
	}

	return legend
}
