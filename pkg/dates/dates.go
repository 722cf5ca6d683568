// Package dates holds the calendar helpers used when browsing slots:
// month bounds, zone-aware day comparison and the naive local datetimes the
// booking endpoints expect.
package dates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/araddon/dateparse"
)

// Layouts for FormatDate.
const (
	ISODate          = time.DateOnly
	NaiveDateTime    = "2006-01-02T15:04:05"
	LongWeekdayDate  = "Monday, January 2"
	ShortTime        = "3:04 PM"
	LongMonthAndYear = "January 2006"
)

// StartOfMonth returns midnight on the first day of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight on the last day of t's month, in t's location.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// Parse reads a date or datetime in any common format. Values without an
// offset are interpreted in loc (UTC when nil).
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: parse %q: %w", s, err)
	}
	return t, nil
}

// StartOfMonthString parses s in loc and returns the start of its month.
func StartOfMonthString(s string, loc *time.Location) (time.Time, error) {
	t, err := Parse(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if loc != nil {
		t = t.In(loc)
	}
	return StartOfMonth(t), nil
}

// FormatDate formats t with a Go layout such as LongWeekdayDate.
func FormatDate(t time.Time, layout string) string { return t.Format(layout) }

// FromUnixTime converts Unix seconds to a UTC time.
func FromUnixTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// LocalTimeZone returns the IANA name of the process time zone: $TZ when it
// names a valid zone, else the /etc/localtime link target, else "UTC".
func LocalTimeZone() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if name := time.Local.String(); name != "Local" && name != "" {
		return name
	}
	if target, err := filepath.EvalSymlinks("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):]
		}
	}
	return "UTC"
}

// TimeZoneDisplayName describes zone at instant at, e.g. "CST (UTC-06:00)".
// Unknown zones are returned unchanged.
func TimeZoneDisplayName(zone string, at time.Time) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return zone
	}
	abbr, offset := at.In(loc).Zone()
	utc := "UTC" + formatOffset(offset)
	if offset == 0 && (abbr == "UTC" || abbr == "GMT") {
		return abbr
	}
	if abbr == "" || abbr[0] == '+' || abbr[0] == '-' {
		return utc
	}
	return abbr + " (" + utc + ")"
}

func formatOffset(sec int) string {
	sign := '+'
	if sec < 0 {
		sign = '-'
		sec = -sec
	}
	return fmt.Sprintf("%c%02d:%02d", sign, sec/3600, (sec%3600)/60)
}

// IsSameDay reports whether a and b fall on the same calendar day in zone.
func IsSameDay(a, b time.Time, zone string) (bool, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return false, fmt.Errorf("dates: unknown time zone %q: %w", zone, err)
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd, nil
}

// ToISODate returns the "YYYY-MM-DD" form of v. Times and epoch
// milliseconds use the UTC date; strings keep the date part before any "T".
func ToISODate(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format(ISODate), nil
	case int64:
		return time.UnixMilli(d).UTC().Format(ISODate), nil
	case int:
		return time.UnixMilli(int64(d)).UTC().Format(ISODate), nil
	case string:
		datePart, _, _ := strings.Cut(strings.TrimSpace(d), "T")
		if t, err := time.Parse(ISODate, datePart); err == nil {
			return t.Format(ISODate), nil
		}
		t, err := Parse(d, time.UTC)
		if err != nil {
			return "", err
		}
		return t.Format(ISODate), nil
	default:
		return "", fmt.Errorf("dates: unsupported date type %T", v)
	}
}

// ToISONaiveDateTime renders the instant v as local wall-clock time in zone
// without an offset, to the second: "2025-12-04T09:00:00".
// v may be a time.Time, epoch milliseconds or a string carrying an offset.
func ToISONaiveDateTime(v any, zone string) (string, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", fmt.Errorf("dates: unknown time zone %q: %w", zone, err)
	}
	var instant time.Time
	switch d := v.(type) {
	case time.Time:
		instant = d
	case int64:
		instant = time.UnixMilli(d)
	case int:
		instant = time.UnixMilli(int64(d))
	case string:
		instant, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(d))
		if err != nil {
			instant, err = Parse(d, time.UTC)
			if err != nil {
				return "", err
			}
		}
	default:
		return "", fmt.Errorf("dates: unsupported date type %T", v)
	}
	return instant.In(loc).Format(NaiveDateTime), nil
}

// MonthRange parses "YYYY-MM" in loc and returns its first and last day.
func MonthRange(month string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("dates: month must be YYYY-MM: %w", err)
	}
	return StartOfMonth(t), EndOfMonth(t), nil
}
