package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/timefmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats a numeric tick value as a label.
type Formatter func(float64) string

// TimeFormatter formats a time tick as a label.
type TimeFormatter func(time.Time) string

// Currency formats amounts in dollars with a fixed number of decimals and grouped thousands (e.g. "$4.50").
func Currency(decimals int) Formatter {
	p := message.NewPrinter(language.AmericanEnglish)
	format := fmt.Sprintf("$%%.%df", max(0, decimals))

	return func(v float64) string {
		return p.Sprintf(format, v)
	}
}

// Dollar formats amounts in dollars with the shortest representation of the value (e.g. "$100", "$2.5").
func Dollar() Formatter {
	return func(v float64) string {
		return "$" + strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Plain formats values with the shortest representation of the value.
func Plain() Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Year formats times as a 4-digit year.
func Year() TimeFormatter {
	return func(t time.Time) string {
		return t.UTC().Format("2006")
	}
}

// TimeFormat formats times in UTC with a strftime-like pattern (e.g. "%b %Y").
func TimeFormat(pattern string) (TimeFormatter, error) {
	layout, err := timefmt.Layout(pattern)
	if err != nil {
		return nil, err
	}

	return func(t time.Time) string {
		return t.UTC().Format(layout)
	}, nil
}

// NumberFormat resolves a named number format: "currency", "dollar" or "plain".
//
// An empty name formats plain numbers.
func NumberFormat(name string) (Formatter, error) {
	switch name {
	case "", "plain":
		return Plain(), nil
	case "currency":
		return Currency(2), nil
	case "dollar":
		return Dollar(), nil
	case "year":
		return func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }, nil
	default:
		return nil, fmt.Errorf("unknown number format %q", name)
	}
}

// DateFormat resolves a named time format: "year" or a strftime-like pattern.
//
// An empty name formats dates as ISO 8601 days.
func DateFormat(name string) (TimeFormatter, error) {
	switch name {
	case "":
		return TimeFormat("%Y-%m-%d")
	case "year":
		return Year(), nil
	default:
		return TimeFormat(name)
	}
}
