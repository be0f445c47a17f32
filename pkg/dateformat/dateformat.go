// Package dateformat parses dates and date-times given in query parameters.
package dateformat

import (
	"fmt"
	"time"
)

const (
	YMD       = "2006-01-02"
	YMDTHMSZ  = "2006-01-02T15:04:05-0700"
	YMDHMSZ   = "2006-01-02 15:04:05-0700"
	YMDTHMSMS = "2006-01-02T15:04:05.000-0700"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	YMDTHMSZ,
	YMDTHMSMS,
	YMDHMSZ,
}

// ErrInvalidDate is returned when a string is neither a date nor a date-time.
type ErrInvalidDate struct {
	Value string
}

func (e ErrInvalidDate) Error() string {
	return fmt.Sprintf("invalid date or date-time: %q", e.Value)
}

// ParseDateOrDateTime parses s as a date (yyyy-MM-dd) or a date-time with offset.
//
// A plain date is the start of the day in UTC, or the last second of the day
// when isEndDate is true. isEndDate does not affect date-times.
func ParseDateOrDateTime(s string, isEndDate bool) (time.Time, error) {
	if d, err := time.Parse(YMD, s); err == nil {
		if isEndDate {
			return EndOfDay(d), nil
		}
		return d, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate{Value: s}
}

// ParseDate parses s as a yyyy-MM-dd date, in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(YMD, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate{Value: s}
	}
	return d, nil
}

// StartOfDay is 00:00:00 of the day of t, in the location of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59 of the day of t, in the location of t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// FormatDate formats t as yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(YMD)
}

// FormatDateTime formats t as yyyy-MM-ddTHH:mm:ssZ, with offset without colon.
func FormatDateTime(t time.Time) string {
	return t.Format(YMDTHMSZ)
}
