package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-compliance/fleet"
	"github.com/warp/fleet-compliance/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PartnerActivation(t *testing.T) {
	// GIVEN: two partners, the first one active
	// WHEN: activating the second
	// THEN: exactly one partner is active afterwards
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePartner(ctx, fleet.Partner{ID: "ptn-1", Name: "Transports Nord", Active: true}))
	require.NoError(t, store.SavePartner(ctx, fleet.Partner{ID: "ptn-2", Name: "Fret Sud"}))

	require.NoError(t, store.ActivatePartner(ctx, "ptn-2"))

	active, err := store.ActivePartner(ctx)
	require.NoError(t, err)
	assert.Equal(t, fleet.PartnerID("ptn-2"), active.ID)

	first, err := store.GetPartner(ctx, "ptn-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.False(t, first.Active)
}

func TestStore_ActivatePartner_Unknown(t *testing.T) {
	store := newTestStore(t)
	err := store.ActivatePartner(context.Background(), "ptn-ghost")
	assert.ErrorIs(t, err, fleet.ErrNotFound)
}

func TestStore_ActivePartner_NoneFlagged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SavePartner(ctx, fleet.Partner{ID: "ptn-1", Name: "Transports Nord"}))

	_, err := store.ActivePartner(ctx)
	assert.ErrorIs(t, err, fleet.ErrNoActivePartner)
}

func TestStore_DriverRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := fleet.Driver{
		ID: "drv-1", FirstName: "Jean", LastName: "Dupont",
		LicenseNumber: "75-123456", LicenseCategory: "C", WorkSite: "Dépôt Nord",
	}
	require.NoError(t, store.SaveDriver(ctx, d))

	got, err := store.GetDriver(ctx, "drv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d, *got)

	// Save is an upsert.
	d.WorkSite = "Dépôt Est"
	require.NoError(t, store.SaveDriver(ctx, d))
	drivers, err := store.ListDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Dépôt Est", drivers[0].WorkSite)

	require.NoError(t, store.DeleteDriver(ctx, "drv-1"))
	missing, err := store.GetDriver(ctx, "drv-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_VehicleAssignment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVehicle(ctx, fleet.Vehicle{ID: "veh-1", Name: "Tracteur 12", Plate: "AB-123-CD"}))
	require.NoError(t, store.AssignVehicle(ctx, "veh-1", "drv-1"))

	vehicles, err := store.ListVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, fleet.DriverID("drv-1"), vehicles[0].DriverID)

	// Clearing the weak reference.
	require.NoError(t, store.AssignVehicle(ctx, "veh-1", ""))
	vehicles, err = store.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Empty(t, vehicles[0].DriverID)

	assert.ErrorIs(t, store.AssignVehicle(ctx, "veh-ghost", "drv-1"), fleet.ErrNotFound)
}

func TestStore_ReportsPartnerScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveReport(ctx, fleet.TripReport{
		ID: "rpt-1", Date: "2024-03-15", PartnerID: "ptn-1", DriverID: "drv-1",
		InvariantID: "inv-1", DrivingDuration: "02:15:00", DistanceKm: "118,4",
	}))
	require.NoError(t, store.SaveReport(ctx, fleet.TripReport{
		ID: "rpt-2", Date: "2024-03-16", PartnerID: "ptn-2",
	}))
	require.NoError(t, store.SaveReport(ctx, fleet.TripReport{
		ID: "rpt-3", Date: "2024-03-17", PartnerID: "ptn-1",
	}))

	reports, err := store.ListReports(ctx, "ptn-1")
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, "118,4", reports[0].DistanceKm)

	unassigned, err := store.ListUnassignedReports(ctx, "ptn-1")
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "rpt-3", unassigned[0].ID)
}

func TestStore_DriverInfractions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInfraction(ctx, fleet.Infraction{
		ID: "i1", PartnerID: "ptn-1", DriverID: "drv-1", Date: "2024-02-10",
		InvariantID: "inv-1", Severity: fleet.SeverityAlarme, Count: 1,
		FollowUpRequired: true, FollowUpDate: "2024-03-01",
	}))
	require.NoError(t, store.SaveInfraction(ctx, fleet.Infraction{
		ID: "i2", PartnerID: "ptn-1", DriverID: "drv-2", Date: "2024-02-11",
		Severity: fleet.SeverityAlerte, Count: 1,
	}))

	infractions, err := store.ListDriverInfractions(ctx, "ptn-1", "drv-1")
	require.NoError(t, err)
	require.Len(t, infractions, 1)
	assert.Equal(t, "i1", infractions[0].ID)
	assert.True(t, infractions[0].FollowUpRequired)
}

func TestStore_AnnotationUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := fleet.KpiAnnotation{ID: "ann-1", PartnerID: "ptn-1", ObjectiveID: "obj-1", RootCause: "Chantier A7"}
	require.NoError(t, store.SaveAnnotation(ctx, a))

	a.ActionTaken = "Sensibilisation conducteurs"
	require.NoError(t, store.SaveAnnotation(ctx, a))

	annotations, err := store.ListAnnotations(ctx, "ptn-1")
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, "Sensibilisation conducteurs", annotations[0].ActionTaken)
}

func TestStore_LoadSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePartner(ctx, fleet.Partner{ID: "ptn-1", Name: "Transports Nord", Active: true}))
	require.NoError(t, store.SaveDriver(ctx, fleet.Driver{ID: "drv-1", FirstName: "Jean", LastName: "Dupont"}))
	require.NoError(t, store.SaveInvariant(ctx, fleet.Invariant{ID: "inv-1", Title: "Excès de vitesse"}))
	require.NoError(t, store.SaveRule(ctx, fleet.RuleEntry{ID: "scp-1", InvariantID: "inv-1", Severity: fleet.SeverityAlarme, PointValue: 5}))
	require.NoError(t, store.SaveReport(ctx, fleet.TripReport{ID: "rpt-1", PartnerID: "ptn-1", Date: "2024-03-15"}))
	require.NoError(t, store.SaveReport(ctx, fleet.TripReport{ID: "rpt-2", PartnerID: "ptn-other", Date: "2024-03-15"}))
	require.NoError(t, store.SaveInfraction(ctx, fleet.Infraction{ID: "i1", PartnerID: "ptn-1", DriverID: "drv-1", Date: "2024-02-10", Severity: fleet.SeverityAlarme}))
	require.NoError(t, store.SaveObjective(ctx, fleet.Objective{ID: "obj-1", PartnerID: "ptn-1", InvariantID: "inv-1", Target: 3, Frequency: fleet.FrequencyMonthly}))

	snap, err := store.LoadSnapshot(ctx, "ptn-1")
	require.NoError(t, err)

	assert.Equal(t, fleet.PartnerID("ptn-1"), snap.PartnerID)
	assert.Len(t, snap.Drivers, 1)
	assert.Len(t, snap.Invariants, 1)
	assert.Len(t, snap.Rules, 1)
	assert.Len(t, snap.Reports, 1, "other partner's reports are out of scope")
	assert.Len(t, snap.Infractions, 1)
	assert.Len(t, snap.Objectives, 1)
}
