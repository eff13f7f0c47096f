/*
snapshot.go - Partner-scoped record bundle consumed by the engines

PURPOSE:
  The scoring and KPI engines are pure functions over already-fetched
  in-memory collections. Snapshot is that bundle: the reference tables
  plus one partner's operational records, assembled by the store in a
  single pass and then handed around by value.

  Invocations on independent snapshots are fully concurrent-safe:
  the engines never mutate a snapshot and keep no caches between
  calls.
*/
package fleet

// Snapshot bundles everything one evaluation needs for one partner.
type Snapshot struct {
	PartnerID   PartnerID
	Drivers     []Driver
	Vehicles    []Vehicle
	Invariants  []Invariant
	Rules       []RuleEntry
	Reports     []TripReport
	Infractions []Infraction
	Objectives  []Objective
	Annotations []KpiAnnotation
}

// DriverIndex builds the id -> driver lookup used by the enricher.
func (s Snapshot) DriverIndex() map[DriverID]Driver {
	m := make(map[DriverID]Driver, len(s.Drivers))
	for _, d := range s.Drivers {
		m[d.ID] = d
	}
	return m
}

// InvariantIndex builds the id -> invariant lookup used everywhere an
// invariant title is rendered.
func (s Snapshot) InvariantIndex() map[InvariantID]Invariant {
	m := make(map[InvariantID]Invariant, len(s.Invariants))
	for _, inv := range s.Invariants {
		m[inv.ID] = inv
	}
	return m
}

// InfractionsByDriver partitions the partner's infractions per driver.
func (s Snapshot) InfractionsByDriver() map[DriverID][]Infraction {
	m := make(map[DriverID][]Infraction)
	for _, inf := range s.Infractions {
		if inf.DriverID == "" {
			continue
		}
		m[inf.DriverID] = append(m[inf.DriverID], inf)
	}
	return m
}
