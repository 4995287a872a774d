// File: internal/gate/aggregate_test.go
package gate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

func finding(source schemas.Source, band schemas.SeverityBand) schemas.Finding {
	return schemas.Finding{Source: source, Band: band, RawSeverity: string(band)}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("every source appears with explicit zeros", func(t *testing.T) {
		t.Parallel()
		breakdown, totals := Aggregate(nil, nil, zap.NewNop())

		require.Len(t, breakdown, 3)
		for _, source := range schemas.Sources() {
			counts, ok := breakdown[source]
			require.True(t, ok, "source %s missing from breakdown", source)
			assert.Zero(t, counts.Total())
		}
		assert.Zero(t, totals.Total())
	})

	t.Run("totals sum included sources per band", func(t *testing.T) {
		t.Parallel()
		findings := []schemas.Finding{
			finding(schemas.SourceStatic, schemas.BandCritical),
			finding(schemas.SourceDependency, schemas.BandCritical),
			finding(schemas.SourceDependency, schemas.BandMedium),
			finding(schemas.SourceDynamic, schemas.BandLow),
		}

		breakdown, totals := Aggregate(findings, nil, zap.NewNop())

		expected := schemas.BandCounts{Critical: 2, Medium: 1, Low: 1}
		if diff := cmp.Diff(expected, totals); diff != "" {
			t.Fatalf("totals mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 1, breakdown[schemas.SourceStatic].Critical)
		assert.Equal(t, 1, breakdown[schemas.SourceDependency].Critical)
	})

	t.Run("excluded band stays in breakdown but not in total", func(t *testing.T) {
		t.Parallel()
		rules := schemas.InclusionRules{
			schemas.SourceStatic: {schemas.BandMedium, schemas.BandLow},
		}
		findings := []schemas.Finding{
			finding(schemas.SourceStatic, schemas.BandMedium),
			finding(schemas.SourceDependency, schemas.BandMedium),
		}

		breakdown, totals := Aggregate(findings, rules, zap.NewNop())

		// The source's own breakdown keeps the count; only the cross-source
		// total drops it.
		assert.Equal(t, 1, breakdown[schemas.SourceStatic].Medium)
		assert.Equal(t, 1, totals.Medium)
	})

	t.Run("totals invariant holds over included sources", func(t *testing.T) {
		t.Parallel()
		rules := schemas.InclusionRules{
			schemas.SourceStatic: {schemas.BandMedium, schemas.BandLow},
		}
		findings := []schemas.Finding{
			finding(schemas.SourceStatic, schemas.BandCritical),
			finding(schemas.SourceStatic, schemas.BandLow),
			finding(schemas.SourceDependency, schemas.BandLow),
			finding(schemas.SourceDynamic, schemas.BandLow),
			finding(schemas.SourceDynamic, schemas.BandHigh),
		}

		breakdown, totals := Aggregate(findings, rules, zap.NewNop())

		for _, band := range schemas.Bands() {
			var sum int
			for _, source := range schemas.Sources() {
				if rules.Included(source, band) {
					sum += breakdown[source].Get(band)
				}
			}
			assert.Equal(t, sum, totals.Get(band), "band %s", band)
		}
	})

	t.Run("no deduplication across tools", func(t *testing.T) {
		t.Parallel()
		// The same defect reported by two sources counts twice. Deliberate.
		findings := []schemas.Finding{
			{Source: schemas.SourceStatic, Band: schemas.BandCritical, RuleID: "CVE-2024-0001"},
			{Source: schemas.SourceDependency, Band: schemas.BandCritical, RuleID: "CVE-2024-0001"},
		}

		_, totals := Aggregate(findings, nil, zap.NewNop())
		assert.Equal(t, 2, totals.Critical)
	})
}
