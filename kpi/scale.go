/*
scale.go - Objective target scaling

PURPOSE:
  An objective declares its target at a frequency ("Mensuel" = per
  month); the evaluator runs monthly or yearly. The only scaling
  performed is monthly-target-times-twelve in yearly mode. Every
  other combination uses the target as-is — including Journalier and
  Hebdomadaire frequencies evaluated monthly or yearly, which the
  original screens never scaled. That fallthrough is preserved, not
  papered over with an invented day/week multiplier.
*/
package kpi

import (
	"github.com/shopspring/decimal"
	"github.com/warp/fleet-compliance/fleet"
)

var twelve = decimal.NewFromInt(12)

// ScaleTarget adjusts an objective target to the evaluation period.
func ScaleTarget(target decimal.Decimal, freq fleet.Frequency, mode Mode) decimal.Decimal {
	if freq == fleet.FrequencyMonthly && mode == ModeYearly {
		return target.Mul(twelve)
	}
	return target
}
