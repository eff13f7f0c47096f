/*
Package chrono provides the time and number codecs shared by every
report-processing path.

PURPOSE:
  On-board computers and hand-filled trip sheets encode durations as
  "hh:mm:ss" strings and distances with a comma decimal separator
  ("11,9" km). Dates arrive in two notations (ISO "yyyy-mm-dd" and
  French "dd/mm/yyyy"), sometimes as free text. This package turns all
  of that into canonical values the engines can aggregate.

KEY CONCEPTS:
  - Duration codec: "hh:mm:ss" <-> seconds (duration.go)
  - Decimal codec: comma decimals -> decimal.Decimal (duration.go)
  - Date resolution: loose date string -> year/month/week bucket (bucket.go)
  - Period filters: two NAMED policies for including a record in a
    year (filter.go) - they are intentionally different, do not unify

DESIGN PRINCIPLES:
  1. Total functions: operational data is hand-entered and dirty; every
     parser returns a zero/neutral value on malformed input and never
     returns an error. Callers aggregate past bad rows.
  2. Precision: decimal.Decimal for anything that gets summed.
  3. Purity: no clocks, no locale state; same input, same output.

SEE ALSO:
  - bucket.go: date resolution and week boundaries
  - filter.go: lenient vs strict year filters
*/
package chrono

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION CODEC - "hh:mm:ss" <-> seconds
// =============================================================================

// ParseDuration converts an "hh:mm:ss" string to a second count.
// Hours are unbounded (driving logs routinely exceed 24h in monthly
// roll-ups). Any malformed input parses to 0.
func ParseDuration(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	total := 0
	for i, mult := range []int{3600, 60, 1} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0
		}
		total += n * mult
	}
	return total
}

// FormatDuration is the inverse of ParseDuration: seconds to a
// zero-padded "hh:mm:ss" string. Negative input formats as "00:00:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		return "00:00:00"
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// =============================================================================
// DECIMAL CODEC - comma-separator decimals
// =============================================================================

// ParseDecimal parses a locale decimal ("11,9" -> 11.9) into a
// decimal.Decimal. Returns zero on malformed input.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Zero
	}
	return d
}
