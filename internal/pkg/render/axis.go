package render

import (
	"time"

	"github.com/fredbi/csvviz/internal/pkg/scale"
)

// Orient is the side of the drawing area where an axis is placed.
type Orient uint8

// Axis orientations.
const (
	Bottom Orient = iota
	Left
	Top
	Right
)

const (
	tickSize     = 6
	tickPadding  = 3
	axisFontSize = 12
	axisColor    = "#000"
)

// Tick is a labeled position along an axis.
type Tick struct {
	Pos   float64
	Label string
}

// AxisOption configures an [Axis].
type AxisOption func(*axisOptions)

type axisOptions struct {
	tx, ty   float64
	rotate   float64
	tickSize float64
	class    string
}

// WithOffset translates the axis, e.g. to place a bottom axis under the drawing area.
func WithOffset(x, y float64) AxisOption {
	return func(o *axisOptions) {
		o.tx, o.ty = x, y
	}
}

// WithRotate rotates tick labels by the given angle in degrees. Rotated labels are anchored at their end.
func WithRotate(degrees float64) AxisOption {
	return func(o *axisOptions) {
		o.rotate = degrees
	}
}

// WithTickSize sets the length of tick marks.
func WithTickSize(size float64) AxisOption {
	return func(o *axisOptions) {
		o.tickSize = size
	}
}

// WithClass sets the class of the axis group.
func WithClass(class string) AxisOption {
	return func(o *axisOptions) {
		o.class = class
	}
}

func axisOptionsWithDefaults(opts []AxisOption) axisOptions {
	o := axisOptions{
		tickSize: tickSize,
		class:    "axis",
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// Axis renders an axis of the given length: a domain line, one tick mark and one label per tick.
func Axis(orient Orient, ticks []Tick, length float64, opts ...AxisOption) Group {
	o := axisOptionsWithDefaults(opts)
	k := o.tickSize
	line := Style{Stroke: axisColor, StrokeWidth: 1}
	label := Style{Fill: axisColor, FontSize: axisFontSize}

	g := Group{
		Class:    o.class,
		TX:       o.tx,
		TY:       o.ty,
		Children: make([]Shape, 0, 2*len(ticks)+1),
	}

	horizontal := orient == Bottom || orient == Top
	if horizontal {
		g.Append(Line{X2: length, Style: line})
	} else {
		g.Append(Line{Y2: length, Style: line})
	}

	for _, tick := range ticks {
		switch orient {
		case Top:
			g.Append(
				Line{X1: tick.Pos, X2: tick.Pos, Y2: -k, Style: line},
				Text{X: tick.Pos, Y: -(k + tickPadding), Text: tick.Label, Rotate: o.rotate, Style: withAnchor(label, "middle", o.rotate)},
			)
		case Left:
			label.Baseline = "middle"
			g.Append(
				Line{Y1: tick.Pos, Y2: tick.Pos, X2: -k, Style: line},
				Text{X: -(k + tickPadding), Y: tick.Pos, Text: tick.Label, Rotate: o.rotate, Style: withAnchor(label, "end", 0)},
			)
		case Right:
			label.Baseline = "middle"
			g.Append(
				Line{Y1: tick.Pos, Y2: tick.Pos, X2: k, Style: line},
				Text{X: k + tickPadding, Y: tick.Pos, Text: tick.Label, Rotate: o.rotate, Style: withAnchor(label, "start", 0)},
			)
		default:
			label.Baseline = "hanging"
			g.Append(
				Line{X1: tick.Pos, X2: tick.Pos, Y2: k, Style: line},
				Text{X: tick.Pos, Y: k + tickPadding, Text: tick.Label, Rotate: o.rotate, Style: withAnchor(label, "middle", o.rotate)},
			)
		}
	}

	return g
}

func withAnchor(s Style, anchor string, rotate float64) Style {
	if rotate != 0 {
		anchor = "end"
	}
	s.Anchor = anchor

	return s
}

// BandTicks places one tick at the center of each band, labeled with its category.
func BandTicks(b *scale.Band) []Tick {
	bandTicks := b.Ticks()
	ticks := make([]Tick, 0, len(bandTicks))
	for _, t := range bandTicks {
		ticks = append(ticks, Tick{Pos: t.Center, Label: t.Category})
	}

	return ticks
}

// LinearTicks places at most count round values of the domain. A nil formatter uses [Plain].
func LinearTicks(s *scale.Linear, count int, format Formatter) []Tick {
	if format == nil {
		format = Plain()
	}

	values := s.Ticks(count)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Pos: s.Map(v), Label: format(v)})
	}

	return ticks
}

// TimeTicks places one tick on each boundary of a calendar interval within the domain.
// A nil formatter uses [Year].
func TimeTicks(s *scale.Time, interval scale.Interval, format TimeFormatter) []Tick {
	return timeTicks(s, s.Ticks(interval), format)
}

// AutoTimeTicks places about count ticks on calendar boundaries picked from the span of the domain.
func AutoTimeTicks(s *scale.Time, count int, format TimeFormatter) []Tick {
	values, _ := s.AutoTicks(count)

	return timeTicks(s, values, format)
}

func timeTicks(s *scale.Time, values []time.Time, format TimeFormatter) []Tick {
	if format == nil {
		format = Year()
	}

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Pos: s.Map(v), Label: format(v)})
	}

	return ticks
}
