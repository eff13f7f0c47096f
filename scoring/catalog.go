/*
Package scoring implements the disciplinary side of the engine: the
SCP rule catalogue, the per-driver point ledger, and the balance
banding policies.

PURPOSE:
  Every recorded infraction is matched against the SCP (sanction/point
  catalogue) by its (invariant, severity) pair. Matches deduct points
  from a fixed license-point capital of 12; the remaining balance is
  classified into presentation bands.

KEY CONCEPTS:
  - Catalog: in-memory (invariant, severity) -> rule index (catalog.go)
  - Ledger: one driver's infraction history and balance for a period
    (ledger.go)
  - Banding: two divergent threshold policies, kept separate on
    purpose (banding.go)

DESIGN PRINCIPLES:
  1. Lookup never fails: a missing rule resolves to zero points and a
     documented sentinel label, so dirty catalogues degrade locally.
  2. Purity: a catalog is built once per evaluation from a flat rule
     list and never mutated afterwards.
*/
package scoring

import (
	"strings"

	"github.com/warp/fleet-compliance/fleet"
)

// NoMatchingRule is the sanction label reported when no SCP entry
// covers an (invariant, severity) pair.
const NoMatchingRule = "Aucune règle SCP correspondante"

// Outcome is the resolved consequence of an infraction.
type Outcome struct {
	PointValue    int
	SanctionLabel string
}

// Catalog indexes SCP rules by (invariant, severity). Build it once
// per evaluation; lookups are read-only afterwards.
type Catalog struct {
	entries map[string]Outcome
}

// NewCatalog builds the index from the flat rule list. Later
// duplicates of the same (invariant, severity) pair win, matching the
// last-write semantics of the document store.
func NewCatalog(rules []fleet.RuleEntry) *Catalog {
	c := &Catalog{entries: make(map[string]Outcome, len(rules))}
	for _, r := range rules {
		c.entries[catalogKey(r.InvariantID, r.Severity)] = Outcome{
			PointValue:    r.PointValue,
			SanctionLabel: r.SanctionLabel,
		}
	}
	return c
}

// Lookup resolves an (invariant, severity) pair. Exact pair only, no
// fuzzy matching; severity is case-insensitive. A missing pair yields
// the zero-point default, never an error.
func (c *Catalog) Lookup(invariantID fleet.InvariantID, severity fleet.Severity) Outcome {
	if out, ok := c.entries[catalogKey(invariantID, severity)]; ok {
		return out
	}
	return Outcome{PointValue: 0, SanctionLabel: NoMatchingRule}
}

func catalogKey(invariantID fleet.InvariantID, severity fleet.Severity) string {
	return strings.ToLower(string(invariantID) + "-" + string(severity))
}
