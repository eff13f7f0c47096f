/*
ledger.go - Per-driver infraction ledger and point balance

PURPOSE:
  Computes, for one driver over one selected period ("all" or a
  specific year), the full infraction ledger and the resulting point
  balance against the fixed capital of 12.

PERIOD FILTERING:
  Uses the LENIENT year policy (chrono.LenientYearMatch): an
  infraction whose date cannot be parsed still counts when the raw
  string contains the year. This is deliberately more forgiving than
  the KPI evaluator's filter; a disciplinary record must not shrink
  because of a date typo.

ORDERING:
  Details are sorted by parsed date, newest first. Unparsable dates
  sort last and ties keep input order. Best-effort only: the original
  screens never guaranteed a total order on equal dates.

SEE ALSO:
  - catalog.go: rule resolution
  - banding.go: balance classification for display
*/
package scoring

import (
	"sort"
	"time"

	"github.com/warp/fleet-compliance/chrono"
	"github.com/warp/fleet-compliance/fleet"
)

// PointCapital is the fixed license-point capital every driver starts
// a period with.
const PointCapital = 12

// UnknownInvariant is the title rendered when an infraction's
// invariant id does not resolve.
const UnknownInvariant = "Invariant Inconnu"

// InfractionDetail is one resolved ledger line.
type InfractionDetail struct {
	ID             string
	Date           string
	InvariantTitle string
	Severity       fleet.Severity
	PointsLost     int
	SanctionLabel  string
}

// Ledger is the computed result for one driver and one period.
type Ledger struct {
	DriverID        fleet.DriverID
	Period          string // chrono.PeriodAll or a "2024"-style year
	Details         []InfractionDetail
	TotalPointsLost int
	Balance         int // PointCapital - TotalPointsLost, may go negative
	InfractionCount int
}

// ComputeLedger resolves a driver's infractions against the SCP
// catalogue for the selected period. Infractions are expected to be
// partner-scoped and driver-scoped upstream. A driver with zero
// infractions yields a full balance and an empty detail list; nothing
// here ever errors.
func ComputeLedger(
	driverID fleet.DriverID,
	infractions []fleet.Infraction,
	catalog *Catalog,
	period string,
	invariants map[fleet.InvariantID]fleet.Invariant,
) Ledger {
	type dated struct {
		detail InfractionDetail
		at     time.Time
	}

	lines := make([]dated, 0, len(infractions))
	total := 0

	for _, inf := range infractions {
		if !chrono.LenientYearMatch(inf.Date, period) {
			continue
		}

		outcome := catalog.Lookup(inf.InvariantID, inf.Severity)

		title := UnknownInvariant
		if inv, ok := invariants[inf.InvariantID]; ok && inv.Title != "" {
			title = inv.Title
		}

		// Unparsable dates get the zero time so they sink to the end
		// of the newest-first ordering.
		var at time.Time
		if b, ok := chrono.Resolve(inf.Date); ok {
			at = b.Date
		}

		lines = append(lines, dated{
			detail: InfractionDetail{
				ID:             inf.ID,
				Date:           inf.Date,
				InvariantTitle: title,
				Severity:       inf.Severity,
				PointsLost:     outcome.PointValue,
				SanctionLabel:  outcome.SanctionLabel,
			},
			at: at,
		})

		total += outcome.PointValue
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].at.After(lines[j].at)
	})

	details := make([]InfractionDetail, len(lines))
	for i, l := range lines {
		details[i] = l.detail
	}

	return Ledger{
		DriverID:        driverID,
		Period:          period,
		Details:         details,
		TotalPointsLost: total,
		Balance:         PointCapital - total,
		InfractionCount: len(details),
	}
}
