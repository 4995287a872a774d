// File: api/schemas/gate_test.go
package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandsOrder(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []SeverityBand{BandCritical, BandHigh, BandMedium, BandLow}, Bands())
}

func TestBandCounts(t *testing.T) {
	t.Parallel()

	var c BandCounts
	c.Add(BandCritical, 2)
	c.Add(BandLow, 1)
	c.Add(SeverityBand("bogus"), 5) // unknown bands are dropped, not mislabeled

	assert.Equal(t, 2, c.Get(BandCritical))
	assert.Equal(t, 1, c.Get(BandLow))
	assert.Equal(t, 3, c.Total())
}

func TestInclusionRules_DefaultIncluded(t *testing.T) {
	t.Parallel()

	var rules InclusionRules
	assert.True(t, rules.Included(SourceStatic, BandMedium), "nil rules include everything")

	rules = InclusionRules{SourceStatic: {BandMedium}}
	assert.False(t, rules.Included(SourceStatic, BandMedium))
	assert.True(t, rules.Included(SourceStatic, BandHigh))
	assert.True(t, rules.Included(SourceDynamic, BandMedium))
}

func TestViolationReason(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"high vulnerabilities: 4 exceeds threshold of 2",
		ViolationReason(BandHigh, 4, 2),
	)
}

func TestValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, BandMedium.Valid())
	assert.False(t, SeverityBand("informational").Valid())
	assert.True(t, SourceDependency.Valid())
	assert.False(t, Source("fuzzing").Valid())
}
