/*
Package fleet defines the domain model of the compliance back office.

PURPOSE:
  This package contains the record types supplied by the document store
  (partners, drivers, vehicles, invariants, SCP rules, trip reports,
  infractions, objectives, KPI annotations), the snapshot bundle the
  scoring engines consume, and the label-resolution pre-pass
  (ReportEnricher) both engines rely on.

KEY CONCEPTS IN THIS FILE (types.go):
  - Invariant: a named monitored behavior or metric ("Excès de vitesse").
    The dimension key joining infractions, objectives and SCP rules.
  - Severity: "Alerte" (warning) / "Alarme" (alarm) on an infraction.
  - TripReport: one on-board-computer row; durations are "hh:mm:ss"
    strings and distances comma decimals, parsed lazily by the engines.
  - Frequency: how often an objective's target applies.

DESIGN PRINCIPLES:
  1. Type Safety: strong typing for IDs prevents mixing partner/driver/
     invariant identifiers.
  2. Raw at rest: report fields keep their wire encoding; parsing
     happens at aggregation time so one bad field never poisons a row.
  3. No ambient state: every computation takes the partner id and the
     record sets explicitly. Nothing reads a "current partner".

SEE ALSO:
  - snapshot.go: partner-scoped record bundle
  - enrich.go: id -> display label resolution
  - store.go: document-store contract
*/
package fleet

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PartnerID string
type DriverID string
type VehicleID string
type InvariantID string
type ObjectiveID string

// =============================================================================
// SEVERITY - infraction grading
// =============================================================================

type Severity string

const (
	SeverityAlerte Severity = "Alerte"
	SeverityAlarme Severity = "Alarme"
)

// =============================================================================
// FREQUENCY - how often an objective's target applies
// =============================================================================

type Frequency string

const (
	FrequencyDaily   Frequency = "Journalier"
	FrequencyWeekly  Frequency = "Hebdomadaire"
	FrequencyMonthly Frequency = "Mensuel"
	FrequencyYearly  Frequency = "Annuel"
)

// =============================================================================
// RECORDS - flat collections supplied by the document store
// =============================================================================

// Partner is a client fleet. The store keeps at most one partner
// active system-wide; all period computations are scoped to one
// partner's records via an explicit PartnerID parameter.
type Partner struct {
	ID     PartnerID
	Name   string
	Active bool
}

// Driver owns zero-or-one assigned vehicle and an implicit point
// balance derived from infractions (never stored).
type Driver struct {
	ID              DriverID
	FirstName       string
	LastName        string
	LicenseNumber   string
	LicenseCategory string
	OBCKeyID        string // on-board computer key, may be empty
	WorkSite        string
}

// FullName renders the display name used across screens.
func (d Driver) FullName() string {
	if d.FirstName == "" && d.LastName == "" {
		return ""
	}
	if d.FirstName == "" {
		return d.LastName
	}
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// Vehicle holds a weak reference to its assigned driver; no ownership.
type Vehicle struct {
	ID       VehicleID
	Name     string
	Plate    string
	DriverID DriverID // empty when unassigned
}

// Invariant is a monitored behavior or metric.
type Invariant struct {
	ID          InvariantID
	Title       string
	Description string
}

// RuleEntry is one SCP (sanction/point catalogue) row: the point
// deduction and sanction applied to an (invariant, severity) pair.
// The pair is unique within a partner's catalogue.
type RuleEntry struct {
	ID            string
	InvariantID   InvariantID
	Severity      Severity
	SanctionLabel string
	PointValue    int
}

// TripReport is one raw on-board-computer row. Durations are
// "hh:mm:ss" strings, distance and speeds locale decimals. DriverID
// and InvariantID may both be empty: an unassigned report.
type TripReport struct {
	ID              string
	Date            string
	PartnerID       PartnerID
	DriverID        DriverID
	InvariantID     InvariantID
	StartTime       string
	EndTime         string
	DrivingDuration string
	WaitDuration    string
	TotalDuration   string
	IdleDuration    string
	DistanceKm      string
	AvgSpeed        string
	MaxSpeed        string
}

// Unassigned reports lack both a driver and an invariant tag.
func (r TripReport) Unassigned() bool {
	return r.DriverID == "" && r.InvariantID == ""
}

// Infraction records one occurrence of a driver violating an
// invariant. SourceReportID is a provenance link to the trip report
// the infraction was raised from, not an ownership relation.
type Infraction struct {
	ID                  string
	PartnerID           PartnerID
	Date                string
	DriverID            DriverID
	InvariantID         InvariantID
	Severity            Severity
	Count               int
	DisciplinaryMeasure string
	OtherMeasures       string
	FollowUpRequired    bool
	FollowUpDate        string
	ImprovementObserved bool
	SourceReportID      string
}

// Objective is a partner-defined target for an invariant. One per
// (partner, invariant) in practice, though the store does not
// enforce it.
type Objective struct {
	ID          ObjectiveID
	PartnerID   PartnerID
	InvariantID InvariantID
	Chapter     string
	Target      float64
	Unit        string
	Mode        string
	Frequency   Frequency
}

// KpiAnnotation is the free-text analysis attached to a period's KPI
// row. Never computed, only carried through.
type KpiAnnotation struct {
	ID          string
	PartnerID   PartnerID
	ObjectiveID ObjectiveID
	Result      string
	RootCause   string
	ActionTaken string
	Comment     string
}
