package render

// DotGlyph places one circle per value along a row: the i-th circle is centered at
// (i*Slot + Offset, CY) and its radius is value*Multiplier.
type DotGlyph struct {
	Slot       float64
	Offset     float64
	CY         float64
	Multiplier float64
	Fill       string
}

// Dots renders values as circles placed by index.
//
// A zero value renders a circle of radius 0. NaN values propagate to the radius.
func Dots(values []float64, glyph DotGlyph) []Circle {
	circles := make([]Circle, 0, len(values))
	for i, v := range values {
		circles = append(circles, Circle{
			CX:    float64(i)*glyph.Slot + glyph.Offset,
			CY:    glyph.CY,
			R:     v * glyph.Multiplier,
			Style: Style{Fill: glyph.Fill},
		})
	}

	return circles
}

// BlockGlyph places one rectangle per value standing on a baseline: the i-th rectangle
// starts at x = i*Slot + Offset, is Width wide and value*Multiplier high.
type BlockGlyph struct {
	Slot       float64
	Offset     float64
	Width      float64
	Baseline   float64
	Multiplier float64
	Fill       string
}

// Blocks renders values as rectangles placed by index, growing upward from the baseline.
func Blocks(values []float64, glyph BlockGlyph) []Rect {
	rects := make([]Rect, 0, len(values))
	for i, v := range values {
		h := v * glyph.Multiplier
		rects = append(rects, Rect{
			X:      float64(i)*glyph.Slot + glyph.Offset,
			Y:      glyph.Baseline - h,
			Width:  glyph.Width,
			Height: h,
			Style:  Style{Fill: glyph.Fill},
		})
	}

	return rects
}
