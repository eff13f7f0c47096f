package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-compliance/chrono"
	"github.com/warp/fleet-compliance/fleet"
	"github.com/warp/fleet-compliance/scoring"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func testCatalog() *scoring.Catalog {
	return scoring.NewCatalog([]fleet.RuleEntry{
		{ID: "scp-1", InvariantID: "inv-speed", Severity: fleet.SeverityAlarme, SanctionLabel: "Avertissement écrit", PointValue: 5},
		{ID: "scp-2", InvariantID: "inv-speed", Severity: fleet.SeverityAlerte, SanctionLabel: "Rappel oral", PointValue: 2},
		{ID: "scp-3", InvariantID: "inv-rest", Severity: fleet.SeverityAlarme, SanctionLabel: "Mise à pied 1 jour", PointValue: 4},
	})
}

func testInvariants() map[fleet.InvariantID]fleet.Invariant {
	return map[fleet.InvariantID]fleet.Invariant{
		"inv-speed": {ID: "inv-speed", Title: "Excès de vitesse"},
		"inv-rest":  {ID: "inv-rest", Title: "Temps de repos"},
	}
}

func infraction(id, date string, invariantID fleet.InvariantID, severity fleet.Severity) fleet.Infraction {
	return fleet.Infraction{
		ID:          id,
		PartnerID:   "ptn-1",
		Date:        date,
		DriverID:    "drv-1",
		InvariantID: invariantID,
		Severity:    severity,
		Count:       1,
	}
}

// =============================================================================
// RULE CATALOG
// =============================================================================

func TestCatalog_Lookup(t *testing.T) {
	c := testCatalog()

	out := c.Lookup("inv-speed", fleet.SeverityAlarme)
	assert.Equal(t, 5, out.PointValue)
	assert.Equal(t, "Avertissement écrit", out.SanctionLabel)
}

func TestCatalog_Lookup_CaseInsensitiveSeverity(t *testing.T) {
	c := testCatalog()

	upper := c.Lookup("inv-speed", "Alarme")
	lower := c.Lookup("inv-speed", "alarme")
	assert.Equal(t, upper, lower)
}

func TestCatalog_Lookup_MissingPair(t *testing.T) {
	c := testCatalog()

	// inv-rest has an Alarme rule but no Alerte rule: exact pair only.
	out := c.Lookup("inv-rest", fleet.SeverityAlerte)
	assert.Equal(t, 0, out.PointValue)
	assert.Equal(t, scoring.NoMatchingRule, out.SanctionLabel)

	out = c.Lookup("inv-unknown", fleet.SeverityAlarme)
	assert.Equal(t, scoring.NoMatchingRule, out.SanctionLabel)
}

func TestCatalog_LaterDuplicateWins(t *testing.T) {
	c := scoring.NewCatalog([]fleet.RuleEntry{
		{ID: "scp-1", InvariantID: "inv-speed", Severity: fleet.SeverityAlarme, PointValue: 5},
		{ID: "scp-2", InvariantID: "inv-speed", Severity: fleet.SeverityAlarme, PointValue: 7},
	})
	assert.Equal(t, 7, c.Lookup("inv-speed", fleet.SeverityAlarme).PointValue)
}

// =============================================================================
// POINT LEDGER
// =============================================================================

func TestComputeLedger_SumsAndBalance(t *testing.T) {
	// GIVEN: a driver with one Alarme (5pts) and one Alerte (2pts) on
	//        the same invariant
	// THEN: 7 points lost, balance 5
	infractions := []fleet.Infraction{
		infraction("i1", "2024-02-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i2", "2024-03-15", "inv-speed", fleet.SeverityAlerte),
	}

	ledger := scoring.ComputeLedger("drv-1", infractions, testCatalog(), chrono.PeriodAll, testInvariants())

	assert.Equal(t, 7, ledger.TotalPointsLost)
	assert.Equal(t, 5, ledger.Balance)
	assert.Equal(t, 2, ledger.InfractionCount)
}

func TestComputeLedger_ZeroInfractions(t *testing.T) {
	ledger := scoring.ComputeLedger("drv-1", nil, testCatalog(), chrono.PeriodAll, testInvariants())

	assert.Equal(t, scoring.PointCapital, ledger.Balance)
	assert.Empty(t, ledger.Details)
	assert.Zero(t, ledger.TotalPointsLost)
}

func TestComputeLedger_BalanceMayGoNegative(t *testing.T) {
	infractions := []fleet.Infraction{
		infraction("i1", "2024-01-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i2", "2024-02-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i3", "2024-03-10", "inv-speed", fleet.SeverityAlarme),
	}

	ledger := scoring.ComputeLedger("drv-1", infractions, testCatalog(), chrono.PeriodAll, testInvariants())

	assert.Equal(t, 15, ledger.TotalPointsLost)
	assert.Equal(t, -3, ledger.Balance) // never clamped
}

func TestComputeLedger_YearFilterIsLenient(t *testing.T) {
	// GIVEN: one clean 2024 date, one 2023 date, one unparsable date
	//        that still mentions 2024
	// THEN: the 2023 row is excluded, the unparsable-but-2024 row kept
	infractions := []fleet.Infraction{
		infraction("i1", "2024-02-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i2", "2023-02-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i3", "courant 2024", "inv-speed", fleet.SeverityAlerte),
	}

	ledger := scoring.ComputeLedger("drv-1", infractions, testCatalog(), "2024", testInvariants())

	require.Equal(t, 2, ledger.InfractionCount)
	assert.Equal(t, 7, ledger.TotalPointsLost)
}

func TestComputeLedger_DetailResolution(t *testing.T) {
	infractions := []fleet.Infraction{
		infraction("i1", "2024-02-10", "inv-speed", fleet.SeverityAlarme),
		infraction("i2", "2024-03-15", "inv-ghost", fleet.SeverityAlerte), // no invariant, no rule
	}

	ledger := scoring.ComputeLedger("drv-1", infractions, testCatalog(), chrono.PeriodAll, testInvariants())
	require.Len(t, ledger.Details, 2)

	// Newest first: i2 (March) before i1 (February).
	newest := ledger.Details[0]
	assert.Equal(t, "i2", newest.ID)
	assert.Equal(t, scoring.UnknownInvariant, newest.InvariantTitle)
	assert.Equal(t, scoring.NoMatchingRule, newest.SanctionLabel)
	assert.Zero(t, newest.PointsLost)

	assert.Equal(t, "Excès de vitesse", ledger.Details[1].InvariantTitle)
	assert.Equal(t, "Avertissement écrit", ledger.Details[1].SanctionLabel)
}

func TestComputeLedger_UnparsableDatesSortLast(t *testing.T) {
	infractions := []fleet.Infraction{
		infraction("i1", "courant 2024", "inv-speed", fleet.SeverityAlerte),
		infraction("i2", "2024-06-01", "inv-speed", fleet.SeverityAlarme),
		infraction("i3", "15/03/2024", "inv-speed", fleet.SeverityAlerte),
	}

	ledger := scoring.ComputeLedger("drv-1", infractions, testCatalog(), "2024", testInvariants())
	require.Len(t, ledger.Details, 3)

	assert.Equal(t, "i2", ledger.Details[0].ID)
	assert.Equal(t, "i3", ledger.Details[1].ID)
	assert.Equal(t, "i1", ledger.Details[2].ID)
}

// =============================================================================
// BANDING POLICIES
// =============================================================================

func TestStandardBanding(t *testing.T) {
	cases := []struct {
		balance int
		want    scoring.Band
	}{
		{12, scoring.BandGood},
		{9, scoring.BandGood},
		{8, scoring.BandWarning},
		{5, scoring.BandWarning},
		{4, scoring.BandCritical},
		{0, scoring.BandCritical},
		{-3, scoring.BandCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.StandardBanding(tc.balance), "balance %d", tc.balance)
	}
}

func TestStrictBanding(t *testing.T) {
	cases := []struct {
		balance int
		want    scoring.Band
	}{
		{12, scoring.BandGood},
		{11, scoring.BandGood},
		{10, scoring.BandWarning},
		{6, scoring.BandWarning},
		{5, scoring.BandCritical},
		{-1, scoring.BandCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.StrictBanding(tc.balance), "balance %d", tc.balance)
	}
}

func TestBandings_Diverge(t *testing.T) {
	// The two policies disagree on 9 and 10: that divergence is the
	// reason they are two functions, not one.
	assert.Equal(t, scoring.BandGood, scoring.StandardBanding(9))
	assert.Equal(t, scoring.BandWarning, scoring.StrictBanding(9))
}
