/*
handlers.go - HTTP API handlers for the compliance back office

PURPOSE:
  Exposes the document collections and the two computed read models
  (driver scorecard, KPI board) over REST. Handles HTTP request and
  response, JSON serialization, and delegates everything with domain
  meaning to the scoring and kpi packages.

ENDPOINTS:
  Collections:
    GET/POST  /api/partners          GET/DELETE /api/partners/{id}
    POST      /api/partners/{id}/activate
    GET/POST  /api/drivers           GET/DELETE /api/drivers/{id}
    GET/POST  /api/vehicles          DELETE     /api/vehicles/{id}
    PUT       /api/vehicles/{id}/driver
    GET/POST  /api/invariants        DELETE     /api/invariants/{id}
    GET/POST  /api/rules             DELETE     /api/rules/{id}
    GET/POST  /api/reports           DELETE     /api/reports/{id}
    GET/POST  /api/infractions       DELETE     /api/infractions/{id}
    GET/POST  /api/objectives        DELETE     /api/objectives/{id}
    GET/POST  /api/annotations       DELETE     /api/annotations/{id}

  Read models:
    GET /api/drivers/{id}/scorecard?partner_id=&period=all|YYYY
    GET /api/kpi?partner_id=&mode=monthly|yearly&year=&month=

  Scenarios:
    GET  /api/scenarios
    POST /api/scenarios/load

PARTNER SCOPING:
  Partner-scoped endpoints take an explicit partner_id query
  parameter; when absent they fall back to the store's active partner.
  The engines never read ambient partner state themselves.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors, invalid input
  - 404: document not found
  - 500: store errors

SECURITY NOTE:
  No authentication. The back office runs on a trusted network.

SEE ALSO:
  - dto.go: request/response data structures
  - scenarios.go: demo scenario loaders
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/fleet-compliance/chrono"
	"github.com/warp/fleet-compliance/fleet"
	"github.com/warp/fleet-compliance/kpi"
	"github.com/warp/fleet-compliance/scoring"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store fleet.Store

	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(store fleet.Store) *Handler {
	return &Handler{Store: store}
}

// resolvePartner picks the partner scope for a request: the explicit
// partner_id query parameter, else the store's active partner.
func (h *Handler) resolvePartner(r *http.Request) (fleet.PartnerID, error) {
	if id := r.URL.Query().Get("partner_id"); id != "" {
		return fleet.PartnerID(id), nil
	}
	active, err := h.Store.ActivePartner(r.Context())
	if err != nil {
		return "", err
	}
	return active.ID, nil
}

// =============================================================================
// PARTNER HANDLERS
// =============================================================================

func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Store.ListPartners(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list partners", err)
		return
	}
	dtos := make([]PartnerDTO, len(partners))
	for i, p := range partners {
		dtos[i] = toPartnerDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPartner(r.Context(), fleet.PartnerID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get partner", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPartnerDTO(*p))
}

func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req PartnerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Partner name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	p := fleet.Partner{ID: fleet.PartnerID(req.ID), Name: req.Name, Active: req.Active}
	if err := h.Store.SavePartner(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save partner", err)
		return
	}
	if p.Active {
		// Creating an active partner deactivates the others, same as
		// an explicit activation.
		if err := h.Store.ActivatePartner(r.Context(), p.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to activate partner", err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, toPartnerDTO(p))
}

func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePartner(r.Context(), fleet.PartnerID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete partner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ActivatePartner(w http.ResponseWriter, r *http.Request) {
	err := h.Store.ActivatePartner(r.Context(), fleet.PartnerID(chi.URLParam(r, "id")))
	if errors.Is(err, fleet.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to activate partner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DRIVER HANDLERS
// =============================================================================

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Store.ListDrivers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drivers", err)
		return
	}
	dtos := make([]DriverDTO, len(drivers))
	for i, d := range drivers {
		dtos[i] = toDriverDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetDriver(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.GetDriver(r.Context(), fleet.DriverID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get driver", err)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "Driver not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDriverDTO(*d))
}

func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req DriverDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FirstName == "" && req.LastName == "" {
		writeError(w, http.StatusBadRequest, "Driver name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	d := fleet.Driver{
		ID: fleet.DriverID(req.ID), FirstName: req.FirstName, LastName: req.LastName,
		LicenseNumber: req.LicenseNumber, LicenseCategory: req.LicenseCategory,
		OBCKeyID: req.OBCKeyID, WorkSite: req.WorkSite,
	}
	if err := h.Store.SaveDriver(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save driver", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDriverDTO(d))
}

func (h *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteDriver(r.Context(), fleet.DriverID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete driver", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetScorecard computes the point ledger for one driver and one
// period ("all" or a year), with both banding labels attached.
func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID := fleet.DriverID(chi.URLParam(r, "id"))

	partnerID, err := h.resolvePartner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No partner selected and none active", err)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = chrono.PeriodAll
	}

	driver, err := h.Store.GetDriver(ctx, driverID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get driver", err)
		return
	}
	if driver == nil {
		writeError(w, http.StatusNotFound, "Driver not found", nil)
		return
	}

	infractions, err := h.Store.ListDriverInfractions(ctx, partnerID, driverID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list infractions", err)
		return
	}
	rules, err := h.Store.ListRules(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	invariants, err := h.Store.ListInvariants(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invariants", err)
		return
	}

	index := make(map[fleet.InvariantID]fleet.Invariant, len(invariants))
	for _, inv := range invariants {
		index[inv.ID] = inv
	}

	ledger := scoring.ComputeLedger(driverID, infractions, scoring.NewCatalog(rules), period, index)
	writeJSON(w, http.StatusOK, toScorecardResponse(ledger, driver.FullName()))
}

// =============================================================================
// VEHICLE HANDLERS
// =============================================================================

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Store.ListVehicles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vehicles", err)
		return
	}
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = VehicleDTO{ID: string(v.ID), Name: v.Name, Plate: v.Plate, DriverID: string(v.DriverID)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	v := fleet.Vehicle{ID: fleet.VehicleID(req.ID), Name: req.Name, Plate: req.Plate, DriverID: fleet.DriverID(req.DriverID)}
	if err := h.Store.SaveVehicle(r.Context(), v); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save vehicle", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteVehicle(r.Context(), fleet.VehicleID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignVehicle sets or clears a vehicle's weak driver reference.
// PUT /api/vehicles/{id}/driver with {"driver_id": "..."} (empty to clear).
func (h *Handler) AssignVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DriverID string `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Store.AssignVehicle(r.Context(), fleet.VehicleID(chi.URLParam(r, "id")), fleet.DriverID(req.DriverID))
	if errors.Is(err, fleet.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVARIANT AND RULE HANDLERS
// =============================================================================

func (h *Handler) ListInvariants(w http.ResponseWriter, r *http.Request) {
	invariants, err := h.Store.ListInvariants(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invariants", err)
		return
	}
	dtos := make([]InvariantDTO, len(invariants))
	for i, inv := range invariants {
		dtos[i] = InvariantDTO{ID: string(inv.ID), Title: inv.Title, Description: inv.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateInvariant(w http.ResponseWriter, r *http.Request) {
	var req InvariantDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Invariant title is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	inv := fleet.Invariant{ID: fleet.InvariantID(req.ID), Title: req.Title, Description: req.Description}
	if err := h.Store.SaveInvariant(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save invariant", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteInvariant(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteInvariant(r.Context(), fleet.InvariantID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete invariant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	dtos := make([]RuleDTO, len(rules))
	for i, ru := range rules {
		dtos[i] = RuleDTO{
			ID: ru.ID, InvariantID: string(ru.InvariantID), Severity: string(ru.Severity),
			SanctionLabel: ru.SanctionLabel, PointValue: ru.PointValue,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.InvariantID == "" || req.Severity == "" {
		writeError(w, http.StatusBadRequest, "Rule requires invariant_id and severity", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ru := fleet.RuleEntry{
		ID: req.ID, InvariantID: fleet.InvariantID(req.InvariantID),
		Severity: fleet.Severity(req.Severity), SanctionLabel: req.SanctionLabel,
		PointValue: req.PointValue,
	}
	if err := h.Store.SaveRule(r.Context(), ru); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRIP REPORT HANDLERS
// =============================================================================

// ListReports returns the partner's trip reports with labels
// attached; ?unassigned=true narrows to reports lacking both a driver
// and an invariant tag.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID, err := h.resolvePartner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No partner selected and none active", err)
		return
	}

	var reports []fleet.TripReport
	if r.URL.Query().Get("unassigned") == "true" {
		reports, err = h.Store.ListUnassignedReports(ctx, partnerID)
	} else {
		reports, err = h.Store.ListReports(ctx, partnerID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	enricher, err := h.newEnricher(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load reference tables", err)
		return
	}

	dtos := make([]TripReportDTO, len(reports))
	for i, e := range enricher.EnrichReports(reports) {
		dtos[i] = toTripReportDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req TripReportDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PartnerID == "" {
		writeError(w, http.StatusBadRequest, "Report requires partner_id", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	rep := fleet.TripReport{
		ID: req.ID, Date: req.Date, PartnerID: fleet.PartnerID(req.PartnerID),
		DriverID: fleet.DriverID(req.DriverID), InvariantID: fleet.InvariantID(req.InvariantID),
		StartTime: req.StartTime, EndTime: req.EndTime,
		DrivingDuration: req.DrivingDuration, WaitDuration: req.WaitDuration,
		TotalDuration: req.TotalDuration, IdleDuration: req.IdleDuration,
		DistanceKm: req.DistanceKm, AvgSpeed: req.AvgSpeed, MaxSpeed: req.MaxSpeed,
	}
	if err := h.Store.SaveReport(r.Context(), rep); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save report", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteReport(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete report", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INFRACTION HANDLERS
// =============================================================================

func (h *Handler) ListInfractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID, err := h.resolvePartner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No partner selected and none active", err)
		return
	}

	var infractions []fleet.Infraction
	if driverID := r.URL.Query().Get("driver_id"); driverID != "" {
		infractions, err = h.Store.ListDriverInfractions(ctx, partnerID, fleet.DriverID(driverID))
	} else {
		infractions, err = h.Store.ListInfractions(ctx, partnerID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list infractions", err)
		return
	}

	enricher, err := h.newEnricher(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load reference tables", err)
		return
	}

	dtos := make([]InfractionDTO, len(infractions))
	for i, e := range enricher.EnrichInfractions(infractions) {
		dtos[i] = toInfractionDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateInfraction(w http.ResponseWriter, r *http.Request) {
	var req InfractionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PartnerID == "" {
		writeError(w, http.StatusBadRequest, "Infraction requires partner_id", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Count == 0 {
		req.Count = 1
	}
	inf := fleet.Infraction{
		ID: req.ID, PartnerID: fleet.PartnerID(req.PartnerID), Date: req.Date,
		DriverID: fleet.DriverID(req.DriverID), InvariantID: fleet.InvariantID(req.InvariantID),
		Severity: fleet.Severity(req.Severity), Count: req.Count,
		DisciplinaryMeasure: req.DisciplinaryMeasure, OtherMeasures: req.OtherMeasures,
		FollowUpRequired: req.FollowUpRequired, FollowUpDate: req.FollowUpDate,
		ImprovementObserved: req.ImprovementObserved, SourceReportID: req.SourceReportID,
	}
	if err := h.Store.SaveInfraction(r.Context(), inf); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save infraction", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteInfraction(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteInfraction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete infraction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OBJECTIVE AND ANNOTATION HANDLERS
// =============================================================================

func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	partnerID, err := h.resolvePartner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No partner selected and none active", err)
		return
	}
	objectives, err := h.Store.ListObjectives(r.Context(), partnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list objectives", err)
		return
	}
	dtos := make([]ObjectiveDTO, len(objectives))
	for i, o := range objectives {
		dtos[i] = ObjectiveDTO{
			ID: string(o.ID), PartnerID: string(o.PartnerID), InvariantID: string(o.InvariantID),
			Chapter: o.Chapter, Target: o.Target, Unit: o.Unit, Mode: o.Mode, Frequency: string(o.Frequency),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateObjective(w http.ResponseWriter, r *http.Request) {
	var req ObjectiveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PartnerID == "" || req.InvariantID == "" {
		writeError(w, http.StatusBadRequest, "Objective requires partner_id and invariant_id", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	o := fleet.Objective{
		ID: fleet.ObjectiveID(req.ID), PartnerID: fleet.PartnerID(req.PartnerID),
		InvariantID: fleet.InvariantID(req.InvariantID), Chapter: req.Chapter,
		Target: req.Target, Unit: req.Unit, Mode: req.Mode, Frequency: fleet.Frequency(req.Frequency),
	}
	if err := h.Store.SaveObjective(r.Context(), o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save objective", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteObjective(r.Context(), fleet.ObjectiveID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete objective", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	partnerID, err := h.resolvePartner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No partner selected and none active", err)
		return
	}
	annotations, err := h.Store.ListAnnotations(r.Context(), partnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list annotations", err)
		return
	}
	dtos := make([]AnnotationDTO, len(annotations))
	for i, a := range annotations {
		dtos[i] = toAnnotationDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateAnnotation(w http.ResponseWriter, r *http.Request) {
	var req AnnotationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PartnerID == "" || req.ObjectiveID == "" {
		writeError(w, http.StatusBadRequest, "Annotation requires partner_id and objective_id", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	a := fleet.KpiAnnotation{
		ID: req.ID, PartnerID: fleet.PartnerID(req.PartnerID),
		ObjectiveID: fleet.ObjectiveID(req.ObjectiveID),
		Result:      req.Result, RootCause: req.RootCause,
		ActionTaken: req.ActionTaken, Comment: req.Comment,
	}
	if err := h.Store.SaveAnnotation(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save annotation", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) DeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAnnotation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete annotation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// KPI HANDLER
// =============================================================================

// GetKpi evaluates the KPI board for a partner and period.
// GET /api/kpi?partner_id=&mode=monthly|yearly&year=&month=
func (h *Handler) GetKpi(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	partnerID, err := h.resolvePartner(r)
	if errors.Is(err, fleet.ErrNoActivePartner) {
		// Absent context is an empty board, not an error.
		writeJSON(w, http.StatusOK, KpiResponse{Rows: []KpiRowDTO{}})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve partner", err)
		return
	}

	mode := kpi.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = kpi.ModeMonthly
	}
	if mode != kpi.ModeMonthly && mode != kpi.ModeYearly {
		writeError(w, http.StatusBadRequest, "mode must be monthly or yearly", nil)
		return
	}

	year := r.URL.Query().Get("year")
	if year == "" {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	var month time.Month
	if mode == kpi.ModeMonthly {
		m, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "month must be 1-12 in monthly mode", err)
			return
		}
		month = time.Month(m)
	}

	snap, err := h.Store.LoadSnapshot(ctx, partnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	rows := kpi.Evaluate(snap, kpi.Request{Mode: mode, Year: year, Month: month})
	writeJSON(w, http.StatusOK, KpiResponse{
		PartnerID: string(partnerID),
		Mode:      string(mode),
		Year:      year,
		Month:     int(month),
		Rows:      toKpiRowDTOs(rows),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) newEnricher(r *http.Request) (*fleet.Enricher, error) {
	ctx := r.Context()
	drivers, err := h.Store.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	invariants, err := h.Store.ListInvariants(ctx)
	if err != nil {
		return nil, err
	}
	partners, err := h.Store.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	return fleet.NewEnricher(drivers, invariants, partners), nil
}

func toTripReportDTO(e fleet.EnrichedReport) TripReportDTO {
	return TripReportDTO{
		ID: e.ID, Date: e.Date, PartnerID: string(e.PartnerID),
		DriverID: string(e.DriverID), InvariantID: string(e.InvariantID),
		StartTime: e.StartTime, EndTime: e.EndTime,
		DrivingDuration: e.DrivingDuration, WaitDuration: e.WaitDuration,
		TotalDuration: e.TotalDuration, IdleDuration: e.IdleDuration,
		DistanceKm: e.DistanceKm, AvgSpeed: e.AvgSpeed, MaxSpeed: e.MaxSpeed,
		DriverFullName: e.DriverFullName, InvariantTitle: e.InvariantTitle,
		PartnerName: e.PartnerName,
	}
}

func toInfractionDTO(e fleet.EnrichedInfraction) InfractionDTO {
	return InfractionDTO{
		ID: e.ID, PartnerID: string(e.PartnerID), Date: e.Date,
		DriverID: string(e.DriverID), InvariantID: string(e.InvariantID),
		Severity: string(e.Severity), Count: e.Count,
		DisciplinaryMeasure: e.DisciplinaryMeasure, OtherMeasures: e.OtherMeasures,
		FollowUpRequired: e.FollowUpRequired, FollowUpDate: e.FollowUpDate,
		ImprovementObserved: e.ImprovementObserved, SourceReportID: e.SourceReportID,
		DriverFullName: e.DriverFullName, InvariantTitle: e.InvariantTitle,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
