package config

// ChartKind identifies the kind of chart to render (e.g. "bars", "lines").
type ChartKind string

// Supported chart kinds.
const (
	// KindDots renders one circle per record, placed by index, with a radius proportional to the value.
	KindDots ChartKind = "dots"
	// KindBlocks renders one rectangle per record, placed by index, with a height proportional to the value.
	KindBlocks ChartKind = "blocks"
	// KindBars renders a bar chart with a categorical axis and a value axis.
	KindBars ChartKind = "bars"
	// KindLines renders one line per series along a time axis.
	KindLines ChartKind = "lines"
)

// String returns the chart kind as a plain string.
func (k ChartKind) String() string {
	return string(k)
}

// IsValid reports whether the chart kind is one of the known kinds.
func (k ChartKind) IsValid() bool {
	switch k {
	case KindDots, KindBlocks, KindBars, KindLines:
		return true
	default:
		return false
	}
}

// AllChartKinds returns all known chart kinds.
func AllChartKinds() []ChartKind {
	return []ChartKind{
		KindDots,
		KindBlocks,
		KindBars,
		KindLines,
	}
}

// FieldType is the target type of a field coercion.
type FieldType string

// Supported coercions.
const (
	// TypeNumber converts the whole string to a number. An empty string is 0, a malformed one is NaN.
	TypeNumber FieldType = "number"
	// TypeFloat parses the longest numeric prefix of the string. No numeric prefix yields NaN.
	TypeFloat FieldType = "float"
	// TypeDate parses a date, using a strftime-like layout if provided. A malformed date is undefined.
	TypeDate FieldType = "date"
	// TypeString keeps the raw string.
	TypeString FieldType = "string"
)

// IsValid reports whether the field type is known.
func (f FieldType) IsValid() bool {
	switch f {
	case TypeNumber, TypeFloat, TypeDate, TypeString:
		return true
	default:
		return false
	}
}

// Order is a sort order.
type Order string

// Supported sort orders.
const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
)

// IsValid reports whether the order is known. An empty order defaults to ascending.
func (o Order) IsValid() bool {
	switch o {
	case "", OrderAscending, OrderDescending:
		return true
	default:
		return false
	}
}

// Orientation controls the bar direction.
type Orientation string

// Supported chart orientations.
const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Format is the output format of the rendered page.
type Format string

// Supported output formats.
const (
	// FormatSVG renders a static HTML page with inline SVG charts.
	FormatSVG Format = "svg"
	// FormatECharts renders an interactive HTML page with echarts.
	FormatECharts Format = "echarts"
)

// IsValid reports whether the format is known.
func (f Format) IsValid() bool {
	return f == FormatSVG || f == FormatECharts
}

// Swatch is the shape of a legend color marker.
type Swatch string

// Supported legend swatches.
const (
	SwatchRect Swatch = "rect"
	SwatchLine Swatch = "line"
)
