package model

import (
	"math"
	"strconv"
	"time"
)

// Kind tells how a [Value] should be interpreted.
type Kind uint8

// Value kinds.
const (
	KindUndefined Kind = iota
	KindString
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "undefined"
	}
}

// Value is a single field value of a [Record].
//
// Values start as strings when loaded, and may be coerced to numbers or dates.
// A failed coercion does not raise: it yields a NaN number or an undefined value,
// which flows into the rendered geometry.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// String builds a string [Value].
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number builds a numeric [Value]. NaN is a legit number value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Date builds a date [Value].
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Undefined builds an undefined [Value], e.g. the result of an unparsable date.
func Undefined() Value {
	return Value{}
}

// Kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsDefined reports whether the value is not undefined.
func (v Value) IsDefined() bool {
	return v.kind != KindUndefined
}

// Float returns the numeric representation of the value.
//
// Dates are represented as milliseconds since the Unix epoch.
// Strings and undefined values are NaN.
func (v Value) Float() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindDate:
		return float64(v.date.UnixMilli())
	default:
		return math.NaN()
	}
}

// Time returns the date held by the value, if any.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}

	return v.date, true
}

// String representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindDate:
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalText renders the value as text, so records may be dumped as JSON even when holding NaN.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
