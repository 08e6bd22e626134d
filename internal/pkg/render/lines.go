package render

import (
	"math"
	"slices"
	"strconv"

	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/scale"
)

// LineSpec parametrizes [Lines].
//
// X is the date field mapped by the Time scale, Y the value field mapped by the Linear scale.
type LineSpec struct {
	X           string
	Y           string
	Time        *scale.Time
	Linear      *scale.Linear
	Color       func(name string) string
	StrokeWidth float64
}

// Lines renders one path per series, through every record of the series in ascending date order.
//
// Paths are interpolated with a monotone cubic curve in x, which never overshoots the data points.
func Lines(series []model.Series, spec LineSpec) []Path {
	paths := make([]Path, 0, len(series))

	for _, s := range series {
		records := slices.Clone(s.Records)
		slices.SortStableFunc(records, func(a, b model.Record) int {
			return compareNaNLast(a.Float(spec.X), b.Float(spec.X))
		})

		points := make([]Point, 0, len(records))
		for _, record := range records {
			points = append(points, Point{
				X: spec.Time.MapMillis(record.Float(spec.X)),
				Y: spec.Linear.Map(record.Float(spec.Y)),
			})
		}

		var stroke string
		if spec.Color != nil {
			stroke = spec.Color(s.Name)
		}

		paths = append(paths, Path{
			Points: points,
			D:      MonotoneX(points),
			Style: Style{
				Fill:        "none",
				Stroke:      stroke,
				StrokeWidth: spec.StrokeWidth,
				Class:       "line",
			},
		})
	}

	return paths
}

// MonotoneX builds the SVG path data of a cubic curve through points, monotone in y for points
// ordered by x (Steffen's method).
//
// Consecutive coincident points are skipped. A single point yields a closed move-to.
func MonotoneX(points []Point) string {
	c := &monotone{}
	for _, p := range points {
		c.point(p.X, p.Y)
	}
	c.end()

	return string(c.d)
}

// monotone accumulates points and emits bézier segments with Steffen's tangents.
type monotone struct {
	d      []byte
	n      int
	x0, y0 float64
	x1, y1 float64
	t0     float64
}

func (c *monotone) point(x, y float64) {
	if c.n > 0 && x == c.x1 && y == c.y1 {
		return
	}

	var t1 float64
	switch c.n {
	case 0:
		c.n = 1
		c.moveTo(x, y)
	case 1:
		c.n = 2
	case 2:
		c.n = 3
		t1 = c.slope3(x, y)
		c.segment(c.slope2(t1), t1)
	default:
		t1 = c.slope3(x, y)
		c.segment(c.t0, t1)
	}

	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
	c.t0 = t1
}

func (c *monotone) end() {
	switch c.n {
	case 1:
		c.d = append(c.d, 'Z')
	case 2:
		c.lineTo(c.x1, c.y1)
	case 3:
		c.segment(c.t0, c.slope2(c.t0))
	}
}

// slope3 computes the tangent at (x1, y1) given the next point.
func (c *monotone) slope3(x2, y2 float64) float64 {
	h0 := c.x1 - c.x0
	h1 := x2 - c.x1
	s0 := (c.y1 - c.y0) / nonZero(h0, h1)
	s1 := (y2 - c.y1) / nonZero(h1, h0)
	p := (s0*h1 + s1*h0) / (h0 + h1)

	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}

	return t
}

// slope2 computes a one-sided tangent at an end point, given the tangent at the other end.
func (c *monotone) slope2(t float64) float64 {
	h := c.x1 - c.x0
	if h == 0 {
		return t
	}

	return (3*(c.y1-c.y0)/h - t) / 2
}

// segment emits a bézier curve from (x0, y0) to (x1, y1) with tangents t0 and t1.
func (c *monotone) segment(t0, t1 float64) {
	dx := (c.x1 - c.x0) / 3
	c.d = append(c.d, 'C')
	c.d = appendPair(c.d, c.x0+dx, c.y0+dx*t0)
	c.d = append(c.d, ',')
	c.d = appendPair(c.d, c.x1-dx, c.y1-dx*t1)
	c.d = append(c.d, ',')
	c.d = appendPair(c.d, c.x1, c.y1)
}

func (c *monotone) moveTo(x, y float64) {
	c.d = append(c.d, 'M')
	c.d = appendPair(c.d, x, y)
}

func (c *monotone) lineTo(x, y float64) {
	c.d = append(c.d, 'L')
	c.d = appendPair(c.d, x, y)
}

func appendPair(b []byte, x, y float64) []byte {
	b = strconv.AppendFloat(b, x, 'f', -1, 64)
	b = append(b, ',')

	return strconv.AppendFloat(b, y, 'f', -1, 64)
}

// nonZero returns h, or a signed zero standing in for it when h is zero, so that the slope
// over an empty interval becomes an infinity signed after the neighboring interval.
func nonZero(h, other float64) float64 {
	if h != 0 {
		return h
	}

	if other < 0 {
		return math.Copysign(0, -1)
	}

	return 0
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}

	return 1
}

func compareNaNLast(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
