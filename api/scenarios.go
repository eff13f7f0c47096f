/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates a partner with its
	reference tables (drivers, vehicles, invariants, SCP rules) and a
	period's worth of trip reports, infractions, objectives and
	annotations demonstrating specific features.

AVAILABLE SCENARIOS:

	fleet-morel:   Full single-partner dataset: scorecards in every
	               band, a KPI board with breached and met objectives
	mile-clean:    A spotless driver keeping the full point capital
	two-partners:  Two partners sharing reference tables, records
	               strictly scoped, demonstrating activation switching

HOW SCENARIOS WORK:
 1. Create the partner and activate it
 2. Upsert reference tables (drivers, vehicles, invariants, SCP rules)
 3. Upsert the partner's trip reports and infractions
 4. Upsert objectives and KPI annotations

	Loaders use fixed ids and the store's upsert semantics, so loading
	a scenario twice is idempotent and never duplicates records.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "fleet-morel"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - store/memory: in-memory store the demos usually run on
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/fleet-compliance/fleet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fleet-morel",
		Name:        "Transports Morel",
		Description: "Full fleet: infractions across severities, KPI objectives met and breached",
		Category:    "scoring",
	},
	{
		ID:          "mile-clean",
		Name:        "Clean Driver",
		Description: "A driver with zero infractions keeping the full 12-point capital",
		Category:    "scoring",
	},
	{
		ID:          "two-partners",
		Name:        "Two Partners",
		Description: "Records strictly scoped per partner, activation switching between them",
		Category:    "scoping",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	var err error
	switch req.ScenarioID {
	case "fleet-morel":
		err = h.loadFleetMorelScenario(ctx)
	case "mile-clean":
		err = h.loadCleanDriverScenario(ctx)
	case "two-partners":
		err = h.loadTwoPartnersScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SHARED REFERENCE DATA
// =============================================================================

// seedReferenceTables upserts the invariants and SCP rules every
// scenario shares. The first three invariants are the global KPI
// metrics; the rest are taggable behaviors.
func (h *Handler) seedReferenceTables(ctx context.Context) error {
	invariants := []fleet.Invariant{
		{ID: "inv-kms", Title: "Kms parcourus", Description: "Distance totale parcourue"},
		{ID: "inv-conduite", Title: "Temps de conduite", Description: "Heures de conduite cumulées"},
		{ID: "inv-repos", Title: "Temps de repos", Description: "Heures de repos cumulées"},
		{ID: "inv-vitesse", Title: "Excès de vitesse", Description: "Dépassement de la vitesse autorisée"},
		{ID: "inv-freinage", Title: "Freinage brusque", Description: "Décélération au-delà du seuil"},
		{ID: "inv-regime", Title: "Sur-régime moteur", Description: "Régime moteur au-delà de la zone verte"},
	}
	for _, inv := range invariants {
		if err := h.Store.SaveInvariant(ctx, inv); err != nil {
			return err
		}
	}

	rules := []fleet.RuleEntry{
		{ID: "scp-vitesse-alerte", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlerte, SanctionLabel: "Rappel oral", PointValue: 1},
		{ID: "scp-vitesse-alarme", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlarme, SanctionLabel: "Avertissement écrit", PointValue: 3},
		{ID: "scp-freinage-alerte", InvariantID: "inv-freinage", Severity: fleet.SeverityAlerte, SanctionLabel: "Rappel oral", PointValue: 1},
		{ID: "scp-freinage-alarme", InvariantID: "inv-freinage", Severity: fleet.SeverityAlarme, SanctionLabel: "Entretien individuel", PointValue: 2},
		{ID: "scp-regime-alarme", InvariantID: "inv-regime", Severity: fleet.SeverityAlarme, SanctionLabel: "Formation éco-conduite", PointValue: 4},
	}
	for _, ru := range rules {
		if err := h.Store.SaveRule(ctx, ru); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadFleetMorelScenario(ctx context.Context) error {
	const partnerID = fleet.PartnerID("partner-morel")

	if err := h.Store.SavePartner(ctx, fleet.Partner{ID: partnerID, Name: "Transports Morel"}); err != nil {
		return err
	}
	if err := h.Store.ActivatePartner(ctx, partnerID); err != nil {
		return err
	}
	if err := h.seedReferenceTables(ctx); err != nil {
		return err
	}

	drivers := []fleet.Driver{
		{ID: "drv-durand", FirstName: "Luc", LastName: "Durand", LicenseNumber: "751234567890", LicenseCategory: "CE", OBCKeyID: "OBC-0041", WorkSite: "Dépôt Nord"},
		{ID: "drv-petit", FirstName: "Sophie", LastName: "Petit", LicenseNumber: "939876543210", LicenseCategory: "C", OBCKeyID: "OBC-0042", WorkSite: "Dépôt Nord"},
		{ID: "drv-roche", FirstName: "Karim", LastName: "Roche", LicenseNumber: "772468135790", LicenseCategory: "CE", WorkSite: "Dépôt Sud"},
	}
	for _, d := range drivers {
		if err := h.Store.SaveDriver(ctx, d); err != nil {
			return err
		}
	}

	vehicles := []fleet.Vehicle{
		{ID: "veh-0017", Name: "Renault T480", Plate: "GA-017-MR", DriverID: "drv-durand"},
		{ID: "veh-0023", Name: "Scania R450", Plate: "GB-023-MR", DriverID: "drv-petit"},
		{ID: "veh-0031", Name: "Volvo FH", Plate: "GC-031-MR"},
	}
	for _, v := range vehicles {
		if err := h.Store.SaveVehicle(ctx, v); err != nil {
			return err
		}
	}

	// A March week of on-board-computer rows. Duration fields are
	// "hh:mm:ss", distances comma decimals, as the importer delivers
	// them.
	reports := []fleet.TripReport{
		{ID: "rep-m-001", Date: "2024-03-11", PartnerID: partnerID, DriverID: "drv-durand", StartTime: "06:05:00", EndTime: "15:40:00", DrivingDuration: "07:55:00", WaitDuration: "01:40:00", TotalDuration: "09:35:00", DistanceKm: "612,4", AvgSpeed: "77,3", MaxSpeed: "89,0"},
		{ID: "rep-m-002", Date: "12/03/2024", PartnerID: partnerID, DriverID: "drv-durand", StartTime: "05:55:00", EndTime: "14:20:00", DrivingDuration: "07:10:00", WaitDuration: "01:15:00", TotalDuration: "08:25:00", DistanceKm: "548,9", AvgSpeed: "76,6", MaxSpeed: "90,5"},
		{ID: "rep-m-003", Date: "2024-03-12", PartnerID: partnerID, DriverID: "drv-petit", StartTime: "07:00:00", EndTime: "16:10:00", DrivingDuration: "08:05:00", WaitDuration: "01:05:00", TotalDuration: "09:10:00", DistanceKm: "590,2", AvgSpeed: "73,0", MaxSpeed: "88,1"},
		{ID: "rep-m-004", Date: "2024-03-13", PartnerID: partnerID, DriverID: "drv-petit", InvariantID: "inv-vitesse", StartTime: "06:45:00", EndTime: "15:30:00", DrivingDuration: "07:30:00", WaitDuration: "01:15:00", TotalDuration: "08:45:00", DistanceKm: "571,0", AvgSpeed: "76,1", MaxSpeed: "94,7"},
		{ID: "rep-m-005", Date: "2024-03-14", PartnerID: partnerID, DriverID: "drv-roche", InvariantID: "inv-freinage", StartTime: "06:30:00", EndTime: "15:00:00", DrivingDuration: "07:20:00", WaitDuration: "01:10:00", TotalDuration: "08:30:00", DistanceKm: "533,6", AvgSpeed: "72,8", MaxSpeed: "87,4"},
		// Unassigned row straight off the importer, awaiting review.
		{ID: "rep-m-006", Date: "2024-03-14", PartnerID: partnerID, StartTime: "13:00:00", EndTime: "17:45:00", DrivingDuration: "04:05:00", WaitDuration: "00:40:00", TotalDuration: "04:45:00", DistanceKm: "298,1", AvgSpeed: "73,0", MaxSpeed: "85,2"},
		// An April row, outside the March KPI window.
		{ID: "rep-m-007", Date: "2024-04-02", PartnerID: partnerID, DriverID: "drv-durand", StartTime: "06:00:00", EndTime: "15:10:00", DrivingDuration: "07:45:00", WaitDuration: "01:25:00", TotalDuration: "09:10:00", DistanceKm: "601,3", AvgSpeed: "77,6", MaxSpeed: "88,8"},
	}
	for _, rep := range reports {
		if err := h.Store.SaveReport(ctx, rep); err != nil {
			return err
		}
	}

	// Durand loses 4 points (warning band under the standard policy),
	// Petit 9 (critical), Roche none yet this year.
	infractions := []fleet.Infraction{
		{ID: "inf-m-001", PartnerID: partnerID, Date: "2024-02-06", DriverID: "drv-durand", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlerte, Count: 1, DisciplinaryMeasure: "Rappel oral", SourceReportID: ""},
		{ID: "inf-m-002", PartnerID: partnerID, Date: "2024-03-13", DriverID: "drv-durand", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlarme, Count: 1, DisciplinaryMeasure: "Avertissement écrit", FollowUpRequired: true, FollowUpDate: "2024-04-15", SourceReportID: "rep-m-004"},
		{ID: "inf-m-003", PartnerID: partnerID, Date: "2024-01-22", DriverID: "drv-petit", InvariantID: "inv-regime", Severity: fleet.SeverityAlarme, Count: 1, DisciplinaryMeasure: "Formation éco-conduite", ImprovementObserved: true},
		{ID: "inf-m-004", PartnerID: partnerID, Date: "2024-02-19", DriverID: "drv-petit", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlarme, Count: 1, DisciplinaryMeasure: "Avertissement écrit"},
		{ID: "inf-m-005", PartnerID: partnerID, Date: "2024-03-14", DriverID: "drv-petit", InvariantID: "inv-freinage", Severity: fleet.SeverityAlarme, Count: 1, DisciplinaryMeasure: "Entretien individuel", FollowUpRequired: true, FollowUpDate: "2024-04-01", SourceReportID: "rep-m-005"},
		// Previous year, filtered out of 2024 scorecards.
		{ID: "inf-m-006", PartnerID: partnerID, Date: "2023-11-08", DriverID: "drv-durand", InvariantID: "inv-freinage", Severity: fleet.SeverityAlerte, Count: 1, DisciplinaryMeasure: "Rappel oral"},
	}
	for _, inf := range infractions {
		if err := h.Store.SaveInfraction(ctx, inf); err != nil {
			return err
		}
	}

	// Monthly targets. The two "Mensuel" ones scale x12 on the yearly
	// board; the speeding one is breached in March (2 tagged reports
	// against a target of 1).
	objectives := []fleet.Objective{
		{ID: "obj-m-kms", PartnerID: partnerID, InvariantID: "inv-kms", Chapter: "Exploitation", Target: 2400, Unit: "km", Frequency: fleet.FrequencyMonthly},
		{ID: "obj-m-conduite", PartnerID: partnerID, InvariantID: "inv-conduite", Chapter: "Réglementaire", Target: 200, Unit: "h", Frequency: fleet.FrequencyMonthly},
		{ID: "obj-m-vitesse", PartnerID: partnerID, InvariantID: "inv-vitesse", Chapter: "Sécurité", Target: 1, Unit: "infractions", Frequency: fleet.FrequencyMonthly},
		{ID: "obj-m-freinage", PartnerID: partnerID, InvariantID: "inv-freinage", Chapter: "Sécurité", Target: 30, Unit: "infractions", Frequency: fleet.FrequencyYearly},
	}
	for _, o := range objectives {
		if err := h.Store.SaveObjective(ctx, o); err != nil {
			return err
		}
	}

	annotations := []fleet.KpiAnnotation{
		{ID: "ann-m-001", PartnerID: partnerID, ObjectiveID: "obj-m-vitesse", Result: "Objectif dépassé en mars", RootCause: "Secteur urbain dense sur la tournée Nord", ActionTaken: "Replanification de la tournée", Comment: "À revoir au prochain trimestre"},
	}
	for _, a := range annotations {
		if err := h.Store.SaveAnnotation(ctx, a); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) loadCleanDriverScenario(ctx context.Context) error {
	const partnerID = fleet.PartnerID("partner-mile")

	if err := h.Store.SavePartner(ctx, fleet.Partner{ID: partnerID, Name: "Mile Logistique"}); err != nil {
		return err
	}
	if err := h.Store.ActivatePartner(ctx, partnerID); err != nil {
		return err
	}
	if err := h.seedReferenceTables(ctx); err != nil {
		return err
	}

	if err := h.Store.SaveDriver(ctx, fleet.Driver{ID: "drv-blanc", FirstName: "Marie", LastName: "Blanc", LicenseNumber: "691122334455", LicenseCategory: "CE", OBCKeyID: "OBC-0101", WorkSite: "Plateforme Lyon"}); err != nil {
		return err
	}
	if err := h.Store.SaveVehicle(ctx, fleet.Vehicle{ID: "veh-0101", Name: "DAF XF", Plate: "GD-101-ML", DriverID: "drv-blanc"}); err != nil {
		return err
	}

	reports := []fleet.TripReport{
		{ID: "rep-c-001", Date: "2024-03-04", PartnerID: partnerID, DriverID: "drv-blanc", StartTime: "06:00:00", EndTime: "14:30:00", DrivingDuration: "07:15:00", WaitDuration: "01:15:00", TotalDuration: "08:30:00", DistanceKm: "539,7", AvgSpeed: "74,4", MaxSpeed: "86,0"},
		{ID: "rep-c-002", Date: "2024-03-05", PartnerID: partnerID, DriverID: "drv-blanc", StartTime: "06:10:00", EndTime: "14:55:00", DrivingDuration: "07:30:00", WaitDuration: "01:15:00", TotalDuration: "08:45:00", DistanceKm: "561,2", AvgSpeed: "74,8", MaxSpeed: "85,3"},
	}
	for _, rep := range reports {
		if err := h.Store.SaveReport(ctx, rep); err != nil {
			return err
		}
	}

	// No infractions: the scorecard shows the full capital and the
	// "good" band under both policies.
	return nil
}

func (h *Handler) loadTwoPartnersScenario(ctx context.Context) error {
	if err := h.loadFleetMorelScenario(ctx); err != nil {
		return err
	}

	const partnerID = fleet.PartnerID("partner-vexin")
	if err := h.Store.SavePartner(ctx, fleet.Partner{ID: partnerID, Name: "Vexin Fret"}); err != nil {
		return err
	}

	if err := h.Store.SaveDriver(ctx, fleet.Driver{ID: "drv-tissot", FirstName: "Paul", LastName: "Tissot", LicenseNumber: "781029384756", LicenseCategory: "C", WorkSite: "Entrepôt Cergy"}); err != nil {
		return err
	}

	reports := []fleet.TripReport{
		{ID: "rep-v-001", Date: "2024-03-11", PartnerID: partnerID, DriverID: "drv-tissot", StartTime: "08:00:00", EndTime: "16:20:00", DrivingDuration: "06:50:00", WaitDuration: "01:30:00", TotalDuration: "08:20:00", DistanceKm: "412,5", AvgSpeed: "68,2", MaxSpeed: "84,0"},
	}
	for _, rep := range reports {
		if err := h.Store.SaveReport(ctx, rep); err != nil {
			return err
		}
	}

	infractions := []fleet.Infraction{
		{ID: "inf-v-001", PartnerID: partnerID, Date: "2024-03-12", DriverID: "drv-tissot", InvariantID: "inv-vitesse", Severity: fleet.SeverityAlerte, Count: 1, DisciplinaryMeasure: "Rappel oral"},
	}
	for _, inf := range infractions {
		if err := h.Store.SaveInfraction(ctx, inf); err != nil {
			return err
		}
	}

	objectives := []fleet.Objective{
		{ID: "obj-v-kms", PartnerID: partnerID, InvariantID: "inv-kms", Chapter: "Exploitation", Target: 1200, Unit: "km", Frequency: fleet.FrequencyMonthly},
	}
	for _, o := range objectives {
		if err := h.Store.SaveObjective(ctx, o); err != nil {
			return err
		}
	}

	// Morel stays the active partner; switch with
	// POST /api/partners/partner-vexin/activate.
	return nil
}
