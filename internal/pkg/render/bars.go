package render

import (
	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/scale"
)

// BarSpec parametrizes [Bars] for both orientations.
//
// Vertical bars: the band scale maps categories along x, the linear scale maps values along y
// with an inverted range, and bars stand on Extent, the height of the drawing area.
//
// Horizontal bars: the band scale maps categories along y, the linear scale maps values along x,
// and bars start at x = Origin.
type BarSpec struct {
	Orientation config.Orientation
	Category    string
	Value       string
	Band        *scale.Band
	Linear      *scale.Linear
	Extent      float64
	Origin      float64
	Fill        string
	Class       string
}

// Bars renders one rectangle per record.
//
// Records with an unknown category or a non-numeric value yield NaN attributes.
func Bars(records []model.Record, spec BarSpec) []Rect {
	rects := make([]Rect, 0, len(records))
	style := Style{Fill: spec.Fill, Class: spec.Class}

	for _, record := range records {
		category := record.Str(spec.Category)
		v := spec.Linear.Map(record.Float(spec.Value))

		if spec.Orientation == config.OrientationHorizontal {
			rects = append(rects, Rect{
				X:      spec.Origin,
				Y:      spec.Band.Map(category),
				Width:  v,
				Height: spec.Band.Bandwidth(),
				Style:  style,
			})

			continue
		}

		rects = append(rects, Rect{
			X:      spec.Band.Map(category),
			Y:      v,
			Width:  spec.Band.Bandwidth(),
			Height: spec.Extent - v,
			Style:  style,
		})
	}

	return rects
}
