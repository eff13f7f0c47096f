/*
banding.go - Balance classification for display

PURPOSE:
  Two different screens classify the same point balance with two
  DIFFERENT threshold sets. Both are preserved here as named policies:

  StandardBanding (fleet dashboard):
    balance > 8        -> good
    4 < balance <= 8   -> warning
    balance <= 4       -> critical

  StrictBanding (driver scorecard):
    balance >= 11      -> good
    6 <= balance <= 10 -> warning
    balance < 6        -> critical

  Neither is "the" banding. Callers pick the policy their screen uses;
  do not unify them.
*/
package scoring

// Band is a presentation classification of a point balance.
type Band string

const (
	BandGood     Band = "good"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// StandardBanding classifies a balance with the dashboard thresholds.
func StandardBanding(balance int) Band {
	switch {
	case balance > 8:
		return BandGood
	case balance > 4:
		return BandWarning
	default:
		return BandCritical
	}
}

// StrictBanding classifies a balance with the scorecard thresholds.
func StrictBanding(balance int) Band {
	switch {
	case balance >= 11:
		return BandGood
	case balance >= 6:
		return BandWarning
	default:
		return BandCritical
	}
}
