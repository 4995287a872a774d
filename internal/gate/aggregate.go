// File: internal/gate/aggregate.go
package gate

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// Aggregate folds normalized findings into per-source breakdowns and the
// cross-source totals. The breakdown always contains every source with
// explicit zeros. Totals honor the inclusion rules: a source excluded from a
// band contributes nothing to that band's total while its own breakdown
// still carries the count, and any such divergence is logged.
//
// Aggregation is a pure count. Identical defects reported by two tools count
// twice; there is deliberately no cross-tool deduplication.
func Aggregate(findings []schemas.Finding, rules schemas.InclusionRules, logger *zap.Logger) (map[schemas.Source]schemas.BandCounts, schemas.BandCounts) {
	breakdown := make(map[schemas.Source]schemas.BandCounts, len(schemas.Sources()))
	for _, source := range schemas.Sources() {
		breakdown[source] = schemas.BandCounts{}
	}

	for _, f := range findings {
		counts := breakdown[f.Source]
		counts.Add(f.Band, 1)
		breakdown[f.Source] = counts
	}

	var totals schemas.BandCounts
	for _, source := range schemas.Sources() {
		for _, band := range schemas.Bands() {
			n := breakdown[source].Get(band)
			if !rules.Included(source, band) {
				if n > 0 {
					logger.Warn("source excluded from band total by inclusion rule",
						zap.String("source", string(source)),
						zap.String("band", string(band)),
						zap.Int("excluded_count", n),
					)
				}
				continue
			}
			totals.Add(band, n)
		}
	}
	return breakdown, totals
}
