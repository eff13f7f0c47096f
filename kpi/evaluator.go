/*
Package kpi implements the objective evaluator: the monthly/yearly
aggregation of raw trip-report metrics into one row per invariant,
compared against frequency-scaled management objectives.

PURPOSE:
  Management defines objectives ("at most 3 speeding alarms per
  month", "25 000 km per year"). The evaluator aggregates the
  partner's trip reports for the selected period, scales each
  objective's target to the period, and flags over-threshold rows.

KEY CONCEPTS:
  - Global invariants: "Kms parcourus", "Temps de conduite" and
    "Temps de repos" are fleet-wide totals computed over ALL period
    reports, regardless of each report's own invariant tag. Every
    other invariant simply counts the reports tagged with its id.
  - Frequency scaling: a "Mensuel" target evaluated yearly is
    multiplied by 12. All other frequency/period combinations use the
    target as-is, including the Journalier/Hebdomadaire fallthrough
    (preserved from the original screens; see scale.go).
  - Strict period filter: a report whose date cannot be parsed is
    excluded. No substring fallback here, unlike the point ledger.

DESIGN PRINCIPLES:
  1. Pure function of its snapshot: no ambient partner, no caches.
  2. Never errors: malformed fields contribute zero to aggregates,
     missing objectives render as "N/A" and can never be exceeded.
  3. Reports are bucketed by invariant id once per evaluation, so the
     cost stays linear in record count.
*/
package kpi

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/fleet-compliance/chrono"
	"github.com/warp/fleet-compliance/fleet"
)

// Mode selects the evaluation period granularity.
type Mode string

const (
	ModeMonthly Mode = "monthly"
	ModeYearly  Mode = "yearly"
)

// The three fleet-wide invariants, in their fixed display order.
// Matching is on the exact invariant title.
const (
	InvariantKms     = "Kms parcourus"
	InvariantDriving = "Temps de conduite"
	InvariantRest    = "Temps de repos"
)

// globalOrder is the explicit priority list the row comparator
// consults: these three always sort first, in this order.
var globalOrder = []string{InvariantKms, InvariantDriving, InvariantRest}

// NoObjective is the label rendered when an invariant has no
// configured objective.
const NoObjective = "N/A"

// Request selects the partner-independent evaluation parameters.
// Month is ignored in yearly mode.
type Request struct {
	Mode  Mode
	Year  string
	Month time.Month
}

// Row is one evaluated invariant.
type Row struct {
	InvariantID    fleet.InvariantID
	InvariantTitle string
	Value          decimal.Decimal
	DisplayValue   string
	ObjectiveID    fleet.ObjectiveID
	ObjectiveLabel string
	IsExceeded     bool
	Annotation     *fleet.KpiAnnotation
}

// Evaluate computes one row per invariant for the snapshot's partner.
// An empty partner id yields an empty result set (absent-context
// policy); dirty report data degrades field by field to zero.
func Evaluate(snap fleet.Snapshot, req Request) []Row {
	if snap.PartnerID == "" {
		return []Row{}
	}

	month := req.Month
	if req.Mode == ModeYearly {
		month = 0
	}

	// Strict period filter, then one bucketing pass per invariant id.
	var period []fleet.TripReport
	byInvariant := make(map[fleet.InvariantID][]fleet.TripReport)
	for _, r := range snap.Reports {
		if r.PartnerID != snap.PartnerID {
			continue
		}
		if !chrono.StrictDateFilter(r.Date, req.Year, month) {
			continue
		}
		period = append(period, r)
		if r.InvariantID != "" {
			byInvariant[r.InvariantID] = append(byInvariant[r.InvariantID], r)
		}
	}

	objectives := make(map[fleet.InvariantID]fleet.Objective)
	for _, o := range snap.Objectives {
		if o.PartnerID == snap.PartnerID {
			objectives[o.InvariantID] = o
		}
	}
	annotations := make(map[fleet.ObjectiveID]fleet.KpiAnnotation)
	for _, a := range snap.Annotations {
		annotations[a.ObjectiveID] = a
	}

	rows := make([]Row, 0, len(snap.Invariants))
	for _, inv := range snap.Invariants {
		relevant := byInvariant[inv.ID]
		if isGlobal(inv.Title) {
			relevant = period
		}

		value := aggregate(inv.Title, relevant)

		row := Row{
			InvariantID:    inv.ID,
			InvariantTitle: inv.Title,
			Value:          value,
			DisplayValue:   display(inv.Title, value),
			ObjectiveLabel: NoObjective,
		}

		if obj, ok := objectives[inv.ID]; ok {
			target := ScaleTarget(decimal.NewFromFloat(obj.Target), obj.Frequency, req.Mode)
			row.ObjectiveID = obj.ID
			row.ObjectiveLabel = formatObjective(target, obj.Unit)
			row.IsExceeded = value.GreaterThan(target)
			if a, ok := annotations[obj.ID]; ok {
				annotation := a
				row.Annotation = &annotation
			}
		}

		rows = append(rows, row)
	}

	sortRows(rows)
	return rows
}

// aggregate computes the scalar for one invariant over its relevant
// reports: summed kilometers, summed hours, or a plain report count.
func aggregate(title string, reports []fleet.TripReport) decimal.Decimal {
	switch title {
	case InvariantKms:
		total := decimal.Zero
		for _, r := range reports {
			total = total.Add(chrono.ParseDecimal(r.DistanceKm))
		}
		return total
	case InvariantDriving, InvariantRest:
		seconds := 0
		for _, r := range reports {
			if title == InvariantDriving {
				seconds += chrono.ParseDuration(r.DrivingDuration)
			} else {
				seconds += chrono.ParseDuration(r.WaitDuration)
			}
		}
		// Hours, unrounded at this stage; rounding is display-only.
		return decimal.NewFromInt(int64(seconds)).Div(decimal.NewFromInt(3600))
	default:
		return decimal.NewFromInt(int64(len(reports)))
	}
}

// display renders a value for screens: the km/hour metrics round to
// zero decimals (half away from zero), counts are already integers.
func display(title string, value decimal.Decimal) string {
	if isGlobal(title) {
		return value.Round(0).String()
	}
	return value.String()
}

func formatObjective(target decimal.Decimal, unit string) string {
	if unit == "" {
		return target.String()
	}
	return target.String() + " " + unit
}

func isGlobal(title string) bool {
	for _, g := range globalOrder {
		if title == g {
			return true
		}
	}
	return false
}

// sortRows orders the three global invariants first, in their fixed
// order, then everything else alphabetically by title.
func sortRows(rows []Row) {
	rank := func(title string) int {
		for i, g := range globalOrder {
			if title == g {
				return i
			}
		}
		return len(globalOrder)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rank(rows[i].InvariantTitle), rank(rows[j].InvariantTitle)
		if ri != rj {
			return ri < rj
		}
		return rows[i].InvariantTitle < rows[j].InvariantTitle
	})
}
