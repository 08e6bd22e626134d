// Package timefmt translates strftime-like date patterns (e.g. "%Y-%m-%d") into go time layouts.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// directives maps supported strftime directives to go layout elements.
var directives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'L': ".000",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'Z': "-0700",
	'%': "%",
}

// Layout converts a strftime-like pattern into a go [time] layout.
func Layout(pattern string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)

			continue
		}

		if i+1 >= len(pattern) {
			return "", fmt.Errorf("dangling %% at the end of pattern %q", pattern)
		}

		i++
		elem, ok := directives[pattern[i]]
		if !ok {
			return "", fmt.Errorf("unsupported directive %%%c in pattern %q", pattern[i], pattern)
		}

		b.WriteString(elem)
	}

	return b.String(), nil
}

// MustLayout is like [Layout] but panics on invalid patterns.
func MustLayout(pattern string) string {
	layout, err := Layout(pattern)
	if err != nil {
		panic(err)
	}

	return layout
}

// Parse a value according to a strftime-like pattern. Dates are interpreted as UTC.
func Parse(pattern, value string) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}

	return time.ParseInLocation(layout, value, time.UTC)
}

// Format a date according to a strftime-like pattern.
func Format(pattern string, t time.Time) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}

	return t.Format(layout), nil
}

// isoLayouts are the layouts accepted when no explicit pattern is provided.
var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
}

// ParseISO parses an ISO 8601 date or date-time. Values without a time zone are interpreted as UTC.
func ParseISO(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("not an ISO 8601 date: %q", value)
}
