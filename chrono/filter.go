/*
filter.go - The two year-filter policies

PURPOSE:
  Two call sites filter records by year and they do NOT behave the
  same on unparsable dates:

  LenientYearMatch (point ledger):
    Unparsable date? Still include the record if the raw string
    contains the year as a substring. Hand-entered infraction dates
    are messy and a driver's disciplinary record should not silently
    shrink because of a typo.

  StrictDateFilter (KPI evaluator):
    Unparsable date? Exclude the record. KPI aggregates feed
    management objectives; a row that cannot be placed in a period
    must not count toward any period.

  This asymmetry is observable behavior both screens depend on. Keep
  the two policies named and separate; do not unify them.

PERIOD CONVENTION:
  year == PeriodAll ("all") disables filtering entirely.
*/
package chrono

import "time"

// PeriodAll selects every record regardless of date.
const PeriodAll = "all"

// LenientYearMatch reports whether a record dated dateStr belongs to
// the given year, falling back to raw substring containment when the
// date cannot be parsed.
func LenientYearMatch(dateStr, year string) bool {
	if year == PeriodAll {
		return true
	}
	if b, ok := Resolve(dateStr); ok {
		return b.Year == year
	}
	return LooksLikeYear(dateStr, year)
}

// StrictDateFilter reports whether a record dated dateStr belongs to
// the given year and, when month is non-zero, to that month.
// Unparsable dates never match.
func StrictDateFilter(dateStr, year string, month time.Month) bool {
	b, ok := Resolve(dateStr)
	if !ok {
		return false
	}
	if b.Year != year {
		return false
	}
	return month == 0 || b.Month == month
}
