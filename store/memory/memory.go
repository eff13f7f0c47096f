// Package memory provides an in-memory fleet.Store for tests and
// development. Mutex-guarded maps, last write wins, same contract as
// the SQLite store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/fleet-compliance/fleet"
)

// Store implements fleet.Store over plain maps.
type Store struct {
	mu          sync.RWMutex
	partners    map[fleet.PartnerID]fleet.Partner
	drivers     map[fleet.DriverID]fleet.Driver
	vehicles    map[fleet.VehicleID]fleet.Vehicle
	invariants  map[fleet.InvariantID]fleet.Invariant
	rules       map[string]fleet.RuleEntry
	reports     map[string]fleet.TripReport
	infractions map[string]fleet.Infraction
	objectives  map[fleet.ObjectiveID]fleet.Objective
	annotations map[string]fleet.KpiAnnotation
}

var _ fleet.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		partners:    make(map[fleet.PartnerID]fleet.Partner),
		drivers:     make(map[fleet.DriverID]fleet.Driver),
		vehicles:    make(map[fleet.VehicleID]fleet.Vehicle),
		invariants:  make(map[fleet.InvariantID]fleet.Invariant),
		rules:       make(map[string]fleet.RuleEntry),
		reports:     make(map[string]fleet.TripReport),
		infractions: make(map[string]fleet.Infraction),
		objectives:  make(map[fleet.ObjectiveID]fleet.Objective),
		annotations: make(map[string]fleet.KpiAnnotation),
	}
}

// =============================================================================
// PARTNERS
// =============================================================================

func (s *Store) ListPartners(_ context.Context) ([]fleet.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]fleet.Partner, 0, len(s.partners))
	for _, p := range s.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetPartner(_ context.Context, id fleet.PartnerID) (*fleet.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.partners[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *Store) SavePartner(_ context.Context, p fleet.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[p.ID] = p
	return nil
}

func (s *Store) DeletePartner(_ context.Context, id fleet.PartnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partners, id)
	return nil
}

func (s *Store) ActivePartner(_ context.Context) (*fleet.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.partners {
		if p.Active {
			active := p
			return &active, nil
		}
	}
	return nil, fleet.ErrNoActivePartner
}

// ActivatePartner flags one partner active and clears every other,
// in one critical section.
func (s *Store) ActivatePartner(_ context.Context, id fleet.PartnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.partners[id]
	if !ok {
		return fleet.ErrNotFound
	}
	for pid, p := range s.partners {
		if p.Active {
			p.Active = false
			s.partners[pid] = p
		}
	}
	target.Active = true
	s.partners[id] = target
	return nil
}

// =============================================================================
// DRIVERS
// =============================================================================

func (s *Store) ListDrivers(_ context.Context) ([]fleet.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]fleet.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDriver(_ context.Context, id fleet.DriverID) (*fleet.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.drivers[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *Store) SaveDriver(_ context.Context, d fleet.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID] = d
	return nil
}

func (s *Store) DeleteDriver(_ context.Context, id fleet.DriverID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drivers, id)
	return nil
}

// =============================================================================
// VEHICLES
// =============================================================================

func (s *Store) ListVehicles(_ context.Context) ([]fleet.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]fleet.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveVehicle(_ context.Context, v fleet.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
	return nil
}

func (s *Store) DeleteVehicle(_ context.Context, id fleet.VehicleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vehicles, id)
	return nil
}

func (s *Store) AssignVehicle(_ context.Context, id fleet.VehicleID, driverID fleet.DriverID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return fleet.ErrNotFound
	}
	v.DriverID = driverID
	s.vehicles[id] = v
	return nil
}

// =============================================================================
// INVARIANTS AND SCP RULES
// =============================================================================

func (s *Store) ListInvariants(_ context.Context) ([]fleet.Invariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]fleet.Invariant, 0, len(s.invariants))
	for _, inv := range s.invariants {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveInvariant(_ context.Context, inv fleet.Invariant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invariants[inv.ID] = inv
	return nil
}

func (s *Store) DeleteInvariant(_ context.Context, id fleet.InvariantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.invariants, id)
	return nil
}

func (s *Store) ListRules(_ context.Context) ([]fleet.RuleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]fleet.RuleEntry, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveRule(_ context.Context, r fleet.RuleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = r
	return nil
}

func (s *Store) DeleteRule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, id)
	return nil
}

// =============================================================================
// TRIP REPORTS
// =============================================================================

func (s *Store) ListReports(_ context.Context, partnerID fleet.PartnerID) ([]fleet.TripReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []fleet.TripReport
	for _, r := range s.reports {
		if r.PartnerID == partnerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListUnassignedReports(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.TripReport, error) {
	all, err := s.ListReports(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	var out []fleet.TripReport
	for _, r := range all {
		if r.Unassigned() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) SaveReport(_ context.Context, r fleet.TripReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

func (s *Store) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

// =============================================================================
// INFRACTIONS
// =============================================================================

func (s *Store) ListInfractions(_ context.Context, partnerID fleet.PartnerID) ([]fleet.Infraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []fleet.Infraction
	for _, inf := range s.infractions {
		if inf.PartnerID == partnerID {
			out = append(out, inf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListDriverInfractions(ctx context.Context, partnerID fleet.PartnerID, driverID fleet.DriverID) ([]fleet.Infraction, error) {
	all, err := s.ListInfractions(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	var out []fleet.Infraction
	for _, inf := range all {
		if inf.DriverID == driverID {
			out = append(out, inf)
		}
	}
	return out, nil
}

func (s *Store) SaveInfraction(_ context.Context, inf fleet.Infraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infractions[inf.ID] = inf
	return nil
}

func (s *Store) DeleteInfraction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.infractions, id)
	return nil
}

// =============================================================================
// OBJECTIVES AND ANNOTATIONS
// =============================================================================

func (s *Store) ListObjectives(_ context.Context, partnerID fleet.PartnerID) ([]fleet.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []fleet.Objective
	for _, o := range s.objectives {
		if o.PartnerID == partnerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveObjective(_ context.Context, o fleet.Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectives[o.ID] = o
	return nil
}

func (s *Store) DeleteObjective(_ context.Context, id fleet.ObjectiveID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objectives, id)
	return nil
}

func (s *Store) ListAnnotations(_ context.Context, partnerID fleet.PartnerID) ([]fleet.KpiAnnotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []fleet.KpiAnnotation
	for _, a := range s.annotations {
		if a.PartnerID == partnerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveAnnotation(_ context.Context, a fleet.KpiAnnotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations[a.ID] = a
	return nil
}

func (s *Store) DeleteAnnotation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.annotations, id)
	return nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// LoadSnapshot assembles the partner-scoped bundle in one pass.
func (s *Store) LoadSnapshot(ctx context.Context, partnerID fleet.PartnerID) (fleet.Snapshot, error) {
	snap := fleet.Snapshot{PartnerID: partnerID}
	var err error
	if snap.Drivers, err = s.ListDrivers(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Vehicles, err = s.ListVehicles(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Invariants, err = s.ListInvariants(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Rules, err = s.ListRules(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Reports, err = s.ListReports(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Infractions, err = s.ListInfractions(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Objectives, err = s.ListObjectives(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Annotations, err = s.ListAnnotations(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	return snap, nil
}
