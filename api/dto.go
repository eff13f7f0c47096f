/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. One DTO type per collection, used both
  as response body and as create/update request body (the store's
  write-document operation is an upsert, so the shapes coincide).

NAMING CONVENTION:
  - *DTO: collection documents
  - *Response: computed read models (scorecard, KPI board)

VALIDATION:
  Done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/warp/fleet-compliance/fleet"
	"github.com/warp/fleet-compliance/kpi"
	"github.com/warp/fleet-compliance/scoring"
)

// =============================================================================
// COLLECTION DOCUMENTS
// =============================================================================

type PartnerDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type DriverDTO struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LicenseNumber   string `json:"license_number,omitempty"`
	LicenseCategory string `json:"license_category,omitempty"`
	OBCKeyID        string `json:"obc_key_id,omitempty"`
	WorkSite        string `json:"work_site,omitempty"`
}

type VehicleDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Plate    string `json:"plate,omitempty"`
	DriverID string `json:"driver_id,omitempty"`
}

type InvariantDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type RuleDTO struct {
	ID            string `json:"id"`
	InvariantID   string `json:"invariant_id"`
	Severity      string `json:"severity"`
	SanctionLabel string `json:"sanction_label,omitempty"`
	PointValue    int    `json:"point_value"`
}

type TripReportDTO struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	PartnerID       string `json:"partner_id"`
	DriverID        string `json:"driver_id,omitempty"`
	InvariantID     string `json:"invariant_id,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	DrivingDuration string `json:"driving_duration,omitempty"`
	WaitDuration    string `json:"wait_duration,omitempty"`
	TotalDuration   string `json:"total_duration,omitempty"`
	IdleDuration    string `json:"idle_duration,omitempty"`
	DistanceKm      string `json:"distance_km,omitempty"`
	AvgSpeed        string `json:"avg_speed,omitempty"`
	MaxSpeed        string `json:"max_speed,omitempty"`

	// Resolved labels, attached on reads only.
	DriverFullName string `json:"driver_full_name,omitempty"`
	InvariantTitle string `json:"invariant_title,omitempty"`
	PartnerName    string `json:"partner_name,omitempty"`
}

type InfractionDTO struct {
	ID                  string `json:"id"`
	PartnerID           string `json:"partner_id"`
	Date                string `json:"date"`
	DriverID            string `json:"driver_id,omitempty"`
	InvariantID         string `json:"invariant_id,omitempty"`
	Severity            string `json:"severity"`
	Count               int    `json:"count"`
	DisciplinaryMeasure string `json:"disciplinary_measure,omitempty"`
	OtherMeasures       string `json:"other_measures,omitempty"`
	FollowUpRequired    bool   `json:"follow_up_required"`
	FollowUpDate        string `json:"follow_up_date,omitempty"`
	ImprovementObserved bool   `json:"improvement_observed"`
	SourceReportID      string `json:"source_report_id,omitempty"`

	DriverFullName string `json:"driver_full_name,omitempty"`
	InvariantTitle string `json:"invariant_title,omitempty"`
}

type ObjectiveDTO struct {
	ID          string  `json:"id"`
	PartnerID   string  `json:"partner_id"`
	InvariantID string  `json:"invariant_id"`
	Chapter     string  `json:"chapter,omitempty"`
	Target      float64 `json:"target"`
	Unit        string  `json:"unit,omitempty"`
	Mode        string  `json:"mode,omitempty"`
	Frequency   string  `json:"frequency"`
}

type AnnotationDTO struct {
	ID          string `json:"id"`
	PartnerID   string `json:"partner_id"`
	ObjectiveID string `json:"objective_id"`
	Result      string `json:"result,omitempty"`
	RootCause   string `json:"root_cause,omitempty"`
	ActionTaken string `json:"action_taken,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// =============================================================================
// COMPUTED READ MODELS
// =============================================================================

// InfractionDetailDTO is one resolved scorecard line.
type InfractionDetailDTO struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	InvariantTitle string `json:"invariant_title"`
	Severity       string `json:"severity"`
	PointsLost     int    `json:"points_lost"`
	SanctionLabel  string `json:"sanction_label"`
}

// ScorecardResponse is the driver point-ledger read model. It carries
// both banding labels; each screen picks the policy it renders.
type ScorecardResponse struct {
	DriverID        string                `json:"driver_id"`
	DriverFullName  string                `json:"driver_full_name"`
	Period          string                `json:"period"`
	Details         []InfractionDetailDTO `json:"details"`
	TotalPointsLost int                   `json:"total_points_lost"`
	Balance         int                   `json:"balance"`
	InfractionCount int                   `json:"infraction_count"`
	StandardBand    string                `json:"standard_band"`
	StrictBand      string                `json:"strict_band"`
}

// KpiRowDTO is one evaluated invariant on the KPI board.
type KpiRowDTO struct {
	InvariantID    string         `json:"invariant_id"`
	InvariantTitle string         `json:"invariant_title"`
	Value          string         `json:"value"`
	DisplayValue   string         `json:"display_value"`
	ObjectiveID    string         `json:"objective_id,omitempty"`
	ObjectiveLabel string         `json:"objective_label"`
	IsExceeded     bool           `json:"is_exceeded"`
	Annotation     *AnnotationDTO `json:"annotation,omitempty"`
}

// KpiResponse wraps the board with its evaluation parameters.
type KpiResponse struct {
	PartnerID string      `json:"partner_id"`
	Mode      string      `json:"mode"`
	Year      string      `json:"year"`
	Month     int         `json:"month,omitempty"`
	Rows      []KpiRowDTO `json:"rows"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toPartnerDTO(p fleet.Partner) PartnerDTO {
	return PartnerDTO{ID: string(p.ID), Name: p.Name, Active: p.Active}
}

func toDriverDTO(d fleet.Driver) DriverDTO {
	return DriverDTO{
		ID: string(d.ID), FirstName: d.FirstName, LastName: d.LastName,
		LicenseNumber: d.LicenseNumber, LicenseCategory: d.LicenseCategory,
		OBCKeyID: d.OBCKeyID, WorkSite: d.WorkSite,
	}
}

func toAnnotationDTO(a fleet.KpiAnnotation) AnnotationDTO {
	return AnnotationDTO{
		ID: a.ID, PartnerID: string(a.PartnerID), ObjectiveID: string(a.ObjectiveID),
		Result: a.Result, RootCause: a.RootCause, ActionTaken: a.ActionTaken, Comment: a.Comment,
	}
}

func toScorecardResponse(ledger scoring.Ledger, driverName string) ScorecardResponse {
	details := make([]InfractionDetailDTO, len(ledger.Details))
	for i, d := range ledger.Details {
		details[i] = InfractionDetailDTO{
			ID:             d.ID,
			Date:           d.Date,
			InvariantTitle: d.InvariantTitle,
			Severity:       string(d.Severity),
			PointsLost:     d.PointsLost,
			SanctionLabel:  d.SanctionLabel,
		}
	}
	return ScorecardResponse{
		DriverID:        string(ledger.DriverID),
		DriverFullName:  driverName,
		Period:          ledger.Period,
		Details:         details,
		TotalPointsLost: ledger.TotalPointsLost,
		Balance:         ledger.Balance,
		InfractionCount: ledger.InfractionCount,
		StandardBand:    string(scoring.StandardBanding(ledger.Balance)),
		StrictBand:      string(scoring.StrictBanding(ledger.Balance)),
	}
}

func toKpiRowDTOs(rows []kpi.Row) []KpiRowDTO {
	out := make([]KpiRowDTO, len(rows))
	for i, r := range rows {
		dto := KpiRowDTO{
			InvariantID:    string(r.InvariantID),
			InvariantTitle: r.InvariantTitle,
			Value:          r.Value.String(),
			DisplayValue:   r.DisplayValue,
			ObjectiveID:    string(r.ObjectiveID),
			ObjectiveLabel: r.ObjectiveLabel,
			IsExceeded:     r.IsExceeded,
		}
		if r.Annotation != nil {
			a := toAnnotationDTO(*r.Annotation)
			dto.Annotation = &a
		}
		out[i] = dto
	}
	return out
}
