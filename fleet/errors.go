/*
errors.go - Centralized error types for the store boundary

PURPOSE:
  All error types in one place. The scoring and KPI engines themselves
  never error on dirty data (malformed fields degrade to zero values,
  missing references to documented default labels); errors exist only
  at the document-store and API boundary.

USAGE:
  if errors.Is(err, fleet.ErrNotFound) {
      // 404
  }
*/
package fleet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrNoActivePartner is returned when an operation needs the active
	// partner and none is flagged.
	ErrNoActivePartner = errors.New("no active partner")

	// ErrDuplicateID is returned when saving a new document whose id
	// already exists in its collection.
	ErrDuplicateID = errors.New("duplicate document id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingReferenceError reports a foreign key pointing at a document
// that does not exist. The engines never raise it (they substitute
// default labels); the store may, on writes that would dangle.
type MissingReferenceError struct {
	Collection string
	ID         string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("missing reference: %s/%s", e.Collection, e.ID)
}
