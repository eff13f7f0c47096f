package chrono_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-compliance/chrono"
)

// =============================================================================
// DURATION CODEC
// =============================================================================

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"10:51:17", 39077},
		{"00:00:00", 0},
		{"01:00:00", 3600},
		{"100:00:30", 360030}, // hours are unbounded
		{"", 0},
		{"garbage", 0},
		{"10:51", 0},       // two parts
		{"10:51:17:00", 0}, // four parts
		{"aa:bb:cc", 0},
		{"10:xx:17", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, chrono.ParseDuration(tc.in), "input %q", tc.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "10:51:17", chrono.FormatDuration(39077))
	assert.Equal(t, "00:00:00", chrono.FormatDuration(0))
	assert.Equal(t, "00:00:00", chrono.FormatDuration(-5))
}

func TestDuration_RoundTrip(t *testing.T) {
	// GIVEN: any second count below 100 hours
	// THEN: format then parse is the identity, and the rendering is
	//       always exactly 8 characters of dd:dd:dd
	shape := regexp.MustCompile(`^\d\d:\d\d:\d\d$`)
	for _, s := range []int{0, 1, 59, 60, 3599, 3600, 39077, 86399, 86400, 24*3600*100 - 1} {
		formatted := chrono.FormatDuration(s)
		if s < 100*3600 {
			require.True(t, shape.MatchString(formatted), "%d rendered as %q", s, formatted)
		}
		assert.Equal(t, s, chrono.ParseDuration(formatted), "round-trip for %d", s)
	}
}

// =============================================================================
// DECIMAL CODEC
// =============================================================================

func TestParseDecimal(t *testing.T) {
	assert.True(t, chrono.ParseDecimal("11,9").Equal(decimal.RequireFromString("11.9")))
	assert.True(t, chrono.ParseDecimal("11.9").Equal(decimal.RequireFromString("11.9")))
	assert.True(t, chrono.ParseDecimal("").IsZero())
	assert.True(t, chrono.ParseDecimal("n/a").IsZero())
	assert.True(t, chrono.ParseDecimal(" 42 ").Equal(decimal.NewFromInt(42)))
}

// =============================================================================
// DATE RESOLUTION
// =============================================================================

func TestResolve_BothNotations(t *testing.T) {
	// GIVEN: the same calendar day in French and ISO notation
	// THEN: both resolve to the same bucket
	fr, ok := chrono.Resolve("15/03/2024")
	require.True(t, ok)
	iso, ok := chrono.Resolve("2024-03-15")
	require.True(t, ok)

	assert.Equal(t, "2024", fr.Year)
	assert.Equal(t, time.March, fr.Month)
	assert.Equal(t, iso, fr)
}

func TestResolve_Malformed(t *testing.T) {
	for _, in := range []string{"", "not a date", "15/03", "2024-13-45", "//", "15/03/2024/extra"} {
		_, ok := chrono.Resolve(in)
		assert.False(t, ok, "input %q should not resolve", in)
	}
}

func TestResolve_WeekBoundaries(t *testing.T) {
	cases := []struct {
		in        string
		weekStart string
	}{
		{"2024-03-15", "2024-03-11"}, // Friday -> previous Monday
		{"2024-03-11", "2024-03-11"}, // Monday -> itself
		{"2024-03-17", "2024-03-11"}, // Sunday -> Monday 6 days back
	}
	for _, tc := range cases {
		b, ok := chrono.Resolve(tc.in)
		require.True(t, ok)
		assert.Equal(t, tc.weekStart, b.WeekStart.Format("2006-01-02"), "week start for %s", tc.in)
		assert.Equal(t, b.WeekStart.AddDate(0, 0, 6), b.WeekEnd, "week spans 7 days for %s", tc.in)
	}
}

func TestBucket_WeekLabel(t *testing.T) {
	b, ok := chrono.Resolve("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, "Semaine du 11/03/2024 au 17/03/2024", b.WeekLabel())
}

// =============================================================================
// YEAR FILTER POLICIES
// =============================================================================

func TestLenientYearMatch(t *testing.T) {
	// Parsable dates match on the resolved year.
	assert.True(t, chrono.LenientYearMatch("15/03/2024", "2024"))
	assert.False(t, chrono.LenientYearMatch("15/03/2023", "2024"))

	// Unparsable dates fall back to substring containment.
	assert.True(t, chrono.LenientYearMatch("mi-2024 environ", "2024"))
	assert.False(t, chrono.LenientYearMatch("mi-2023 environ", "2024"))

	// "all" includes everything, even garbage.
	assert.True(t, chrono.LenientYearMatch("garbage", chrono.PeriodAll))
}

func TestStrictDateFilter(t *testing.T) {
	assert.True(t, chrono.StrictDateFilter("2024-03-15", "2024", time.March))
	assert.True(t, chrono.StrictDateFilter("2024-03-15", "2024", 0)) // yearly mode
	assert.False(t, chrono.StrictDateFilter("2024-03-15", "2024", time.April))
	assert.False(t, chrono.StrictDateFilter("2024-03-15", "2023", 0))

	// No substring fallback here: unparsable is excluded, full stop.
	assert.False(t, chrono.StrictDateFilter("mi-2024 environ", "2024", 0))
}

func ExampleFormatDuration() {
	fmt.Println(chrono.FormatDuration(39077))
	// Output: 10:51:17
}
