package transform

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
	"github.com/fredbi/csvviz/internal/pkg/timefmt"
	"github.com/samber/lo"
)

var (
	// decimal literal over the whole input, with optional sign and exponent
	rexDecimal = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)$`)

	// longest leading decimal literal
	rexDecimalPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)
)

// Coerce converts the fields of every record according to the given coercions.
//
// Input records are left untouched. Fields absent from a record are coerced from the empty string.
// Failed conversions are never errors: numbers become NaN and dates become undefined.
func Coerce(records []model.Record, coercions ...config.Coercion) []model.Record {
	if len(coercions) == 0 {
		return records
	}

	converters := lo.Map(coercions, func(c config.Coercion, _ int) func(string) model.Value {
		return Converter(c)
	})

	return lo.Map(records, func(record model.Record, _ int) model.Record {
		out := record.Clone()
		if out == nil {
			out = make(model.Record, len(coercions))
		}

		for i, c := range coercions {
			out[c.Field] = converters[i](record.Str(c.Field))
		}

		return out
	})
}

// Converter returns the function converting a raw string according to a [config.Coercion].
func Converter(c config.Coercion) func(string) model.Value {
	switch c.Type {
	case config.TypeNumber:
		return func(s string) model.Value { return model.Number(ParseNumber(s)) }
	case config.TypeFloat:
		return func(s string) model.Value { return model.Number(ParseFloat(s)) }
	case config.TypeDate:
		return DateConverter(c.Layout)
	default:
		return model.String
	}
}

// DateConverter returns a function parsing dates with a strftime-like pattern, in UTC.
//
// Without pattern, ISO 8601 dates and date-times are accepted.
// An invalid pattern yields undefined values.
func DateConverter(pattern string) func(string) model.Value {
	if pattern == "" {
		return func(s string) model.Value {
			t, err := timefmt.ParseISO(s)
			if err != nil {
				return model.Undefined()
			}

			return model.Date(t)
		}
	}

	layout, err := timefmt.Layout(pattern)
	if err != nil {
		return func(string) model.Value { return model.Undefined() }
	}

	return func(s string) model.Value {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
		if err != nil {
			return model.Undefined()
		}

		return model.Date(t)
	}
}

// ParseNumber converts a whole string to a number.
//
// Surrounding white space is ignored and the empty string is 0.
// Integer literals prefixed with 0x, 0o or 0b are recognized, as well as a signed "Infinity".
// Anything else must be a decimal literal or the result is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseInteger(s[2:], 16)
		case 'o', 'O':
			return parseInteger(s[2:], 8)
		case 'b', 'B':
			return parseInteger(s[2:], 2)
		}
	}

	if !rexDecimal.MatchString(s) {
		return math.NaN()
	}

	return parseDecimal(s)
}

// ParseFloat parses the longest numeric prefix of a string, ignoring leading white space.
//
// A string without any numeric prefix yields NaN.
func ParseFloat(s string) float64 {
	prefix := rexDecimalPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if prefix == "" {
		return math.NaN()
	}

	switch strings.TrimLeft(prefix, "+-") {
	case "Infinity":
		if prefix[0] == '-' {
			return math.Inf(-1)
		}

		return math.Inf(1)
	}

	return parseDecimal(prefix)
}

// IsNumeric reports whether a string holds a number, using [ParseNumber] semantics.
//
// The empty string is not considered numeric.
func IsNumeric(s string) bool {
	return strings.TrimSpace(s) != "" && !math.IsNaN(ParseNumber(s))
}

func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}

	// out of range values are returned as ±Inf or ±0
	return f
}

// parseInteger accumulates digits as a float, so that large literals do not overflow.
func parseInteger(digits string, base int) float64 {
	var f float64

	for _, r := range digits {
		d, ok := digitValue(r)
		if !ok || d >= base {
			return math.NaN()
		}

		f = f*float64(base) + float64(d)
	}

	return f
}

func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}
