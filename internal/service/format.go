package service

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// Placeholder is shown for readings that are missing or not numeric.
const Placeholder = "-"

// minDisplayValue is the floor applied to readings after rounding to one decimal.
const minDisplayValue = 2.8

// FormatReading renders a temperature or humidity reading: round to one
// decimal, floor at 2.8, then round to a whole number. Numbers and numeric
// strings are accepted; nil, zero, empty and non-numeric values give "-".
func FormatReading(v any) string {
	if v == nil {
		return Placeholder
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return Placeholder
	}
	r := math.Max(roundHalfUp(f*10)/10, minDisplayValue)
	return strconv.FormatFloat(roundHalfUp(r), 'f', 0, 64)
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// FormatTimestamp renders t as "October 18th, 3:04:05pm", or "-" when zero.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("January ") + humanize.Ordinal(t.Day()) + t.Format(", 3:04:05pm")
}

// FormatAge renders how long before now t was, e.g. "6 seconds ago".
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// stateLabel returns the raw state value as text, or def when the value is
// missing, empty, numeric zero or boolean false. Non-empty strings are
// always shown as sent.
func stateLabel(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		if x == "" {
			return def
		}
		return x
	case bool:
		if !x {
			return def
		}
	default:
		if f, err := cast.ToFloat64E(x); err == nil && f == 0 {
			return def
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return def
	}
	return s
}
