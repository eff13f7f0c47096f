/*
enrich.go - ReportEnricher: id -> display label resolution

PURPOSE:
  A pure join utility. Raw rows carry foreign keys (driver id,
  invariant id, partner id); screens need labels. The enricher attaches
  them, defaulting to "N/A" when a key is empty or unresolvable.
  Both the point ledger and the KPI evaluator call sites use it as a
  pre-pass when presentation-facing labels are needed.

  Idempotent and side-effect-free: enriching twice yields the same
  rows, and the input slices are never mutated.
*/
package fleet

// LabelUnknown is the display fallback for empty or dangling
// references.
const LabelUnknown = "N/A"

// Enricher resolves foreign keys against reference tables.
type Enricher struct {
	drivers    map[DriverID]Driver
	invariants map[InvariantID]Invariant
	partners   map[PartnerID]Partner
}

// NewEnricher builds an enricher from flat reference collections.
func NewEnricher(drivers []Driver, invariants []Invariant, partners []Partner) *Enricher {
	e := &Enricher{
		drivers:    make(map[DriverID]Driver, len(drivers)),
		invariants: make(map[InvariantID]Invariant, len(invariants)),
		partners:   make(map[PartnerID]Partner, len(partners)),
	}
	for _, d := range drivers {
		e.drivers[d.ID] = d
	}
	for _, inv := range invariants {
		e.invariants[inv.ID] = inv
	}
	for _, p := range partners {
		e.partners[p.ID] = p
	}
	return e
}

// DriverName resolves a driver id to its display name.
func (e *Enricher) DriverName(id DriverID) string {
	if d, ok := e.drivers[id]; ok && d.FullName() != "" {
		return d.FullName()
	}
	return LabelUnknown
}

// InvariantTitle resolves an invariant id to its title.
func (e *Enricher) InvariantTitle(id InvariantID) string {
	if inv, ok := e.invariants[id]; ok && inv.Title != "" {
		return inv.Title
	}
	return LabelUnknown
}

// PartnerName resolves a partner id to its name.
func (e *Enricher) PartnerName(id PartnerID) string {
	if p, ok := e.partners[id]; ok && p.Name != "" {
		return p.Name
	}
	return LabelUnknown
}

// EnrichedReport is a trip report with its labels attached.
type EnrichedReport struct {
	TripReport
	DriverFullName string
	InvariantTitle string
	PartnerName    string
}

// EnrichReports attaches display labels to raw trip-report rows.
func (e *Enricher) EnrichReports(reports []TripReport) []EnrichedReport {
	out := make([]EnrichedReport, len(reports))
	for i, r := range reports {
		out[i] = EnrichedReport{
			TripReport:     r,
			DriverFullName: e.DriverName(r.DriverID),
			InvariantTitle: e.InvariantTitle(r.InvariantID),
			PartnerName:    e.PartnerName(r.PartnerID),
		}
	}
	return out
}

// EnrichedInfraction is an infraction with its labels attached.
type EnrichedInfraction struct {
	Infraction
	DriverFullName string
	InvariantTitle string
	PartnerName    string
}

// EnrichInfractions attaches display labels to raw infraction rows.
func (e *Enricher) EnrichInfractions(infractions []Infraction) []EnrichedInfraction {
	out := make([]EnrichedInfraction, len(infractions))
	for i, inf := range infractions {
		out[i] = EnrichedInfraction{
			Infraction:     inf,
			DriverFullName: e.DriverName(inf.DriverID),
			InvariantTitle: e.InvariantTitle(inf.InvariantID),
			PartnerName:    e.PartnerName(inf.PartnerID),
		}
	}
	return out
}
