/*
bucket.go - Loose date resolution and calendar bucketing

PURPOSE:
  Resolves the two date notations used across trip reports and
  infractions ("yyyy-mm-dd" and "dd/mm/yyyy") into a calendar bucket:
  the year, the month, and the Monday-start week containing the date.
  Weekly sub-totals partition on these week boundaries, so the
  boundary computation is a hard contract; the "Semaine du X au Y"
  label is presentation convenience.

RESOLUTION ALGORITHM:
  1. If the string contains "/", treat it as dd/mm/yyyy and rebuild it
     as yyyy-mm-dd before parsing.
  2. Parse as "2006-01-02". Failure means the record has no bucket;
     callers decide whether to exclude it or fall back (see filter.go).

WEEK BOUNDARIES:
  weekStart = most recent Monday <= date
  weekEnd   = weekStart + 6 days
*/
package chrono

import (
	"fmt"
	"strings"
	"time"
)

// Bucket places a date in its calendar year, month and week.
type Bucket struct {
	Date      time.Time
	Year      string
	Month     time.Month
	WeekStart time.Time
	WeekEnd   time.Time
}

// WeekLabel renders the weekly sub-total heading for this bucket.
func (b Bucket) WeekLabel() string {
	return fmt.Sprintf("Semaine du %s au %s",
		b.WeekStart.Format("02/01/2006"), b.WeekEnd.Format("02/01/2006"))
}

// Resolve parses a loosely-formatted date string into a Bucket.
// Returns ok=false when the string cannot be parsed; it never panics,
// whatever the input looks like.
func Resolve(dateStr string) (Bucket, bool) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return Bucket{}, false
	}
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return Bucket{}, false
		}
		s = parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Bucket{}, false
	}

	// Monday-start week. Go's Sunday==0, so shift it to the end.
	offset := (int(t.Weekday()) + 6) % 7
	weekStart := t.AddDate(0, 0, -offset)

	return Bucket{
		Date:      t,
		Year:      t.Format("2006"),
		Month:     t.Month(),
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDate(0, 0, 6),
	}, true
}

// LooksLikeYear reports whether the raw date string mentions the given
// year at all. This is the degraded fallback used when a date cannot
// be parsed but the record should still count for a year filter.
func LooksLikeYear(dateStr, year string) bool {
	return strings.Contains(dateStr, year)
}
