// File: internal/gate/evaluate.go
package gate

import (
	"github.com/xkilldash9x/mergegate/api/schemas"
)

// Evaluate compares the aggregated totals against the thresholds and
// produces the verdict plus the ordered violation list. A band violates only
// when its total strictly exceeds the threshold; a total exactly at the
// threshold passes. Violations are ordered critical -> high -> medium -> low
// and their reasons are rendered from the same counts as the verdict.
func Evaluate(totals schemas.BandCounts, thresholds schemas.ThresholdConfig) (bool, []schemas.Violation) {
	violations := make([]schemas.Violation, 0)
	for _, band := range schemas.Bands() {
		observed := totals.Get(band)
		allowed := thresholds.Allowed(band)
		if observed > allowed {
			violations = append(violations, schemas.Violation{
				Band:     band,
				Observed: observed,
				Allowed:  allowed,
				Reason:   schemas.ViolationReason(band, observed, allowed),
			})
		}
	}
	return len(violations) == 0, violations
}
