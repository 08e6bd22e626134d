package scale

import (
	"fmt"
	"math"
	"time"
)

// Unit is a calendar unit of time.
type Unit uint8

// Supported calendar units.
const (
	UnitSecond Unit = iota
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

func (u Unit) String() string {
	switch u {
	case UnitSecond:
		return "second"
	case UnitMinute:
		return "minute"
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	default:
		return fmt.Sprintf("unit(%d)", u)
	}
}

// approximate duration of a unit, used to pick intervals and bound the number of ticks.
func (u Unit) approx() time.Duration {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch u {
	case UnitMinute:
		return time.Minute
	case UnitHour:
		return time.Hour
	case UnitDay:
		return day
	case UnitWeek:
		return week
	case UnitMonth:
		return month
	case UnitYear:
		return year
	default:
		return time.Second
	}
}

// Interval is a calendar interval used to place time ticks on boundaries of a [Unit], in UTC.
//
// Weeks start on Sunday.
type Interval struct {
	unit  Unit
	every int
}

// Calendar intervals.
var (
	Second = Interval{unit: UnitSecond, every: 1}
	Minute = Interval{unit: UnitMinute, every: 1}
	Hour   = Interval{unit: UnitHour, every: 1}
	Day    = Interval{unit: UnitDay, every: 1}
	Week   = Interval{unit: UnitWeek, every: 1}
	Month  = Interval{unit: UnitMonth, every: 1}
	Year   = Interval{unit: UnitYear, every: 1}
)

// maxCandidates bounds the number of calendar boundaries scanned by [Interval.Range].
const maxCandidates = 100_000

// ParseInterval resolves an interval by the name of its unit (e.g. "year").
func ParseInterval(name string) (Interval, error) {
	for _, interval := range []Interval{Second, Minute, Hour, Day, Week, Month, Year} {
		if interval.unit.String() == name {
			return interval, nil
		}
	}

	return Interval{}, fmt.Errorf("unknown time interval %q", name)
}

// Every keeps only the boundaries whose unit field is a multiple of n,
// e.g. Year.Every(5) keeps years divisible by 5 and Month.Every(3) keeps quarters.
func (i Interval) Every(n int) Interval {
	i.every = max(1, n)

	return i
}

// Unit of the interval.
func (i Interval) Unit() Unit {
	return i.unit
}

// Step returns the number of units between consecutive boundaries.
func (i Interval) Step() int {
	return max(1, i.every)
}

func (i Interval) String() string {
	if i.Step() == 1 {
		return i.unit.String()
	}

	return fmt.Sprintf("%d %ss", i.Step(), i.unit)
}

// Floor rounds a time down to the boundary of the interval unit, in UTC.
func (i Interval) Floor(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()

	switch i.unit {
	case UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case UnitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case UnitHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, time.UTC)
	case UnitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
}

// Range returns all the boundaries of the interval within [start, stop], in ascending order.
func (i Interval) Range(start, stop time.Time) []time.Time {
	if stop.Before(start) {
		start, stop = stop, start
	}

	if stop.Sub(start)/i.unit.approx() > maxCandidates {
		return nil
	}

	var ticks []time.Time
	t := i.Floor(start)
	if t.Before(start) {
		t = i.next(t)
	}

	for ; !t.After(stop); t = i.next(t) {
		if i.keep(t) {
			ticks = append(ticks, t)
		}
	}

	return ticks
}

func (i Interval) next(t time.Time) time.Time {
	switch i.unit {
	case UnitYear:
		return t.AddDate(1, 0, 0)
	case UnitMonth:
		return t.AddDate(0, 1, 0)
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	case UnitDay:
		return t.AddDate(0, 0, 1)
	default:
		return t.Add(i.unit.approx())
	}
}

// keep tells if a boundary is retained by Every.
func (i Interval) keep(t time.Time) bool {
	n := i.Step()
	if n == 1 {
		return true
	}

	var field int
	switch i.unit {
	case UnitYear:
		field = t.Year()
	case UnitMonth:
		field = int(t.Month()) - 1
	case UnitWeek:
		// weeks elapsed since the first Sunday of the Unix epoch
		firstSunday := time.Date(1970, time.January, 4, 0, 0, 0, 0, time.UTC)
		field = int(math.Floor(t.Sub(firstSunday).Hours() / (7 * 24)))
	case UnitDay:
		field = t.Day() - 1
	case UnitHour:
		field = t.Hour()
	case UnitMinute:
		field = t.Minute()
	default:
		field = t.Second()
	}

	return mod(field, n) == 0
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
