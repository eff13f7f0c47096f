package kpi_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-compliance/fleet"
	"github.com/warp/fleet-compliance/kpi"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

const partner = fleet.PartnerID("ptn-1")

func baseSnapshot() fleet.Snapshot {
	return fleet.Snapshot{
		PartnerID: partner,
		Invariants: []fleet.Invariant{
			{ID: "inv-kms", Title: kpi.InvariantKms},
			{ID: "inv-drive", Title: kpi.InvariantDriving},
			{ID: "inv-rest", Title: kpi.InvariantRest},
			{ID: "inv-speed", Title: "Excès de vitesse alarme"},
			{ID: "inv-brake", Title: "Freinage brusque"},
		},
	}
}

func report(id, date string, invariantID fleet.InvariantID, km, driving, wait string) fleet.TripReport {
	return fleet.TripReport{
		ID:              id,
		Date:            date,
		PartnerID:       partner,
		DriverID:        "drv-1",
		InvariantID:     invariantID,
		DrivingDuration: driving,
		WaitDuration:    wait,
		DistanceKm:      km,
	}
}

func rowByTitle(t *testing.T, rows []kpi.Row, title string) kpi.Row {
	t.Helper()
	for _, r := range rows {
		if r.InvariantTitle == title {
			return r
		}
	}
	t.Fatalf("no row for invariant %q", title)
	return kpi.Row{}
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestEvaluate_KmsSumsLocaleDecimals(t *testing.T) {
	// GIVEN: two period reports with comma-decimal distances
	// THEN: "Kms parcourus" aggregates 15.5, displayed "16"
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "inv-speed", "10,0", "", ""),
		report("r2", "2024-03-20", "", "5,5", "", ""),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	row := rowByTitle(t, rows, kpi.InvariantKms)
	assert.True(t, row.Value.Equal(decimal.RequireFromString("15.5")), "got %s", row.Value)
	assert.Equal(t, "16", row.DisplayValue)
}

func TestEvaluate_GlobalInvariantsUseAllPeriodReports(t *testing.T) {
	// Reports tagged to ANY invariant (or none) all feed the three
	// fleet-wide totals.
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "inv-speed", "10,0", "02:00:00", "00:30:00"),
		report("r2", "2024-03-06", "inv-brake", "20,0", "01:30:00", "00:30:00"),
		report("r3", "2024-03-07", "", "30,0", "00:30:00", "01:00:00"),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	assert.True(t, rowByTitle(t, rows, kpi.InvariantKms).Value.Equal(decimal.NewFromInt(60)))
	assert.True(t, rowByTitle(t, rows, kpi.InvariantDriving).Value.Equal(decimal.NewFromInt(4)))
	assert.True(t, rowByTitle(t, rows, kpi.InvariantRest).Value.Equal(decimal.NewFromInt(2)))
}

func TestEvaluate_HoursUnroundedInValue(t *testing.T) {
	// 1h30 of driving: value is 1.5 hours, display rounds to "2".
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "", "", "01:30:00", ""),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	row := rowByTitle(t, rows, kpi.InvariantDriving)
	assert.True(t, row.Value.Equal(decimal.RequireFromString("1.5")), "got %s", row.Value)
	assert.Equal(t, "2", row.DisplayValue)
}

func TestEvaluate_TaggedInvariantsCountReports(t *testing.T) {
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "inv-speed", "", "", ""),
		report("r2", "2024-03-06", "inv-speed", "", "", ""),
		report("r3", "2024-03-07", "inv-brake", "", "", ""),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	speed := rowByTitle(t, rows, "Excès de vitesse alarme")
	assert.Equal(t, "2", speed.DisplayValue)
	assert.True(t, speed.Value.Equal(decimal.NewFromInt(2)))
}

func TestEvaluate_StrictPeriodFilter(t *testing.T) {
	// GIVEN: one in-period report, one other-month, one other-year and
	//        one unparsable date mentioning the year
	// THEN: only the in-period report counts; no substring fallback
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "inv-speed", "", "", ""),
		report("r2", "2024-04-05", "inv-speed", "", "", ""),
		report("r3", "2023-03-05", "inv-speed", "", "", ""),
		report("r4", "courant 2024", "inv-speed", "", "", ""),
	}

	monthly := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})
	assert.Equal(t, "1", rowByTitle(t, monthly, "Excès de vitesse alarme").DisplayValue)

	yearly := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeYearly, Year: "2024"})
	assert.Equal(t, "2", rowByTitle(t, yearly, "Excès de vitesse alarme").DisplayValue)
}

func TestEvaluate_MalformedFieldsContributeZero(t *testing.T) {
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "", "garbage", "not a duration", "xx"),
		report("r2", "2024-03-06", "", "5,5", "01:00:00", "00:30:00"),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	assert.True(t, rowByTitle(t, rows, kpi.InvariantKms).Value.Equal(decimal.RequireFromString("5.5")))
	assert.True(t, rowByTitle(t, rows, kpi.InvariantDriving).Value.Equal(decimal.NewFromInt(1)))
}

// =============================================================================
// OBJECTIVES AND SCALING
// =============================================================================

func TestScaleTarget(t *testing.T) {
	ten := decimal.NewFromInt(10)

	// Mensuel evaluated yearly: x12. Everything else: as-is,
	// including the Journalier/Hebdomadaire fallthrough.
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyMonthly, kpi.ModeYearly).Equal(decimal.NewFromInt(120)))
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyMonthly, kpi.ModeMonthly).Equal(ten))
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyYearly, kpi.ModeYearly).Equal(ten))
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyYearly, kpi.ModeMonthly).Equal(ten))
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyDaily, kpi.ModeMonthly).Equal(ten))
	assert.True(t, kpi.ScaleTarget(ten, fleet.FrequencyWeekly, kpi.ModeYearly).Equal(ten))
}

func TestEvaluate_MissingObjectiveNeverExceeded(t *testing.T) {
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-05", "inv-speed", "", "", ""),
		report("r2", "2024-03-06", "inv-speed", "", "", ""),
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	row := rowByTitle(t, rows, "Excès de vitesse alarme")
	assert.Equal(t, kpi.NoObjective, row.ObjectiveLabel)
	assert.False(t, row.IsExceeded)
	assert.Empty(t, row.ObjectiveID)
}

func TestEvaluate_EndToEndMonthlyBreach(t *testing.T) {
	// GIVEN: a monthly objective of 3 speeding alarms and 4 tagged
	//        reports in the selected month
	// THEN: value 4, exceeded, with the annotation attached
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-03-02", "inv-speed", "", "", ""),
		report("r2", "2024-03-09", "inv-speed", "", "", ""),
		report("r3", "2024-03-16", "inv-speed", "", "", ""),
		report("r4", "2024-03-23", "inv-speed", "", "", ""),
	}
	snap.Objectives = []fleet.Objective{
		{ID: "obj-1", PartnerID: partner, InvariantID: "inv-speed", Target: 3, Frequency: fleet.FrequencyMonthly},
	}
	snap.Annotations = []fleet.KpiAnnotation{
		{ID: "ann-1", PartnerID: partner, ObjectiveID: "obj-1", RootCause: "Secteur urbain dense"},
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeMonthly, Year: "2024", Month: time.March})

	row := rowByTitle(t, rows, "Excès de vitesse alarme")
	assert.Equal(t, "4", row.DisplayValue)
	assert.True(t, row.IsExceeded)
	assert.Equal(t, fleet.ObjectiveID("obj-1"), row.ObjectiveID)
	require.NotNil(t, row.Annotation)
	assert.Equal(t, "Secteur urbain dense", row.Annotation.RootCause)
}

func TestEvaluate_MonthlyTargetScaledInYearlyMode(t *testing.T) {
	// 3/month becomes 36/year: 4 reports across the year stay under.
	snap := baseSnapshot()
	snap.Reports = []fleet.TripReport{
		report("r1", "2024-01-02", "inv-speed", "", "", ""),
		report("r2", "2024-04-09", "inv-speed", "", "", ""),
		report("r3", "2024-07-16", "inv-speed", "", "", ""),
		report("r4", "2024-11-23", "inv-speed", "", "", ""),
	}
	snap.Objectives = []fleet.Objective{
		{ID: "obj-1", PartnerID: partner, InvariantID: "inv-speed", Target: 3, Frequency: fleet.FrequencyMonthly},
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeYearly, Year: "2024"})

	row := rowByTitle(t, rows, "Excès de vitesse alarme")
	assert.Equal(t, "4", row.DisplayValue)
	assert.False(t, row.IsExceeded)
	assert.Equal(t, "36", row.ObjectiveLabel)
}

// =============================================================================
// ORDERING AND ABSENT CONTEXT
// =============================================================================

func TestEvaluate_GlobalsFirstThenAlphabetical(t *testing.T) {
	// Input order is shuffled; the three globals still come first, in
	// their fixed order, then the rest alphabetically.
	snap := fleet.Snapshot{
		PartnerID: partner,
		Invariants: []fleet.Invariant{
			{ID: "inv-brake", Title: "Freinage brusque"},
			{ID: "inv-rest", Title: kpi.InvariantRest},
			{ID: "inv-speed", Title: "Excès de vitesse alarme"},
			{ID: "inv-kms", Title: kpi.InvariantKms},
			{ID: "inv-drive", Title: kpi.InvariantDriving},
		},
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeYearly, Year: "2024"})
	require.Len(t, rows, 5)

	titles := make([]string, len(rows))
	for i, r := range rows {
		titles[i] = r.InvariantTitle
	}
	assert.Equal(t, []string{
		kpi.InvariantKms,
		kpi.InvariantDriving,
		kpi.InvariantRest,
		"Excès de vitesse alarme",
		"Freinage brusque",
	}, titles)
}

func TestEvaluate_NoPartnerYieldsEmpty(t *testing.T) {
	snap := baseSnapshot()
	snap.PartnerID = ""

	rows := kpi.Evaluate(snap, kpi.Request{Mode: kpi.ModeYearly, Year: "2024"})
	assert.Empty(t, rows)
}
