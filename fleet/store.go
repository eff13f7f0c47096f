/*
store.go - Document-store contract

PURPOSE:
  Defines the interface between the engines/API and the document
  store. The contract is deliberately flat: read collection, read
  document, write document (upsert), delete document. The store also
  enforces the single-active-partner rule on activation, and can
  assemble a partner-scoped Snapshot in one call.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - store/memory: in-memory store for tests and demos

SEE ALSO:
  - snapshot.go: the bundle LoadSnapshot assembles
*/
package fleet

import "context"

// Store is the document-store contract. Save methods are upserts;
// List methods return the full collection (pagination and filtering
// are a UI concern, out of scope here).
type Store interface {
	// Partners. ActivatePartner flags one partner active and clears
	// the flag on every other, atomically. ActivePartner returns
	// ErrNoActivePartner when none is flagged.
	ListPartners(ctx context.Context) ([]Partner, error)
	GetPartner(ctx context.Context, id PartnerID) (*Partner, error)
	SavePartner(ctx context.Context, p Partner) error
	DeletePartner(ctx context.Context, id PartnerID) error
	ActivePartner(ctx context.Context) (*Partner, error)
	ActivatePartner(ctx context.Context, id PartnerID) error

	// Drivers.
	ListDrivers(ctx context.Context) ([]Driver, error)
	GetDriver(ctx context.Context, id DriverID) (*Driver, error)
	SaveDriver(ctx context.Context, d Driver) error
	DeleteDriver(ctx context.Context, id DriverID) error

	// Vehicles. AssignVehicle sets (or clears, with an empty driver
	// id) the weak driver reference.
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	SaveVehicle(ctx context.Context, v Vehicle) error
	DeleteVehicle(ctx context.Context, id VehicleID) error
	AssignVehicle(ctx context.Context, id VehicleID, driverID DriverID) error

	// Invariants.
	ListInvariants(ctx context.Context) ([]Invariant, error)
	SaveInvariant(ctx context.Context, inv Invariant) error
	DeleteInvariant(ctx context.Context, id InvariantID) error

	// SCP rules.
	ListRules(ctx context.Context) ([]RuleEntry, error)
	SaveRule(ctx context.Context, r RuleEntry) error
	DeleteRule(ctx context.Context, id string) error

	// Trip reports, partner-scoped.
	ListReports(ctx context.Context, partnerID PartnerID) ([]TripReport, error)
	ListUnassignedReports(ctx context.Context, partnerID PartnerID) ([]TripReport, error)
	SaveReport(ctx context.Context, r TripReport) error
	DeleteReport(ctx context.Context, id string) error

	// Infractions, partner-scoped.
	ListInfractions(ctx context.Context, partnerID PartnerID) ([]Infraction, error)
	ListDriverInfractions(ctx context.Context, partnerID PartnerID, driverID DriverID) ([]Infraction, error)
	SaveInfraction(ctx context.Context, inf Infraction) error
	DeleteInfraction(ctx context.Context, id string) error

	// Objectives, partner-scoped.
	ListObjectives(ctx context.Context, partnerID PartnerID) ([]Objective, error)
	SaveObjective(ctx context.Context, o Objective) error
	DeleteObjective(ctx context.Context, id ObjectiveID) error

	// KPI annotations, partner-scoped. SaveAnnotation upserts on the
	// annotation id; one annotation per objective is the working
	// convention, not a store-enforced constraint.
	ListAnnotations(ctx context.Context, partnerID PartnerID) ([]KpiAnnotation, error)
	SaveAnnotation(ctx context.Context, a KpiAnnotation) error
	DeleteAnnotation(ctx context.Context, id string) error

	// LoadSnapshot assembles the partner-scoped bundle the engines
	// consume: reference tables plus the partner's records.
	LoadSnapshot(ctx context.Context, partnerID PartnerID) (Snapshot, error)
}
