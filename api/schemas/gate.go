// File: api/schemas/gate.go
package schemas

import "fmt"

// -- Severity Bands --

// SeverityBand is one of the four canonical severity levels used for
// thresholding. Scanner-native vocabularies (CVSS scores, ordinal labels,
// risk codes) are normalized onto these bands before aggregation. The values
// are lowercase to align with the summary JSON schema.
type SeverityBand string

// Constants defining the canonical severity bands, most severe first.
const (
	BandCritical SeverityBand = "critical" // CVSS >= 9.0 equivalent.
	BandHigh     SeverityBand = "high"     // CVSS 7.0 - 8.9 equivalent.
	BandMedium   SeverityBand = "medium"   // CVSS 4.0 - 6.9 equivalent.
	BandLow      SeverityBand = "low"      // CVSS < 4.0 equivalent.
)

// Bands returns the canonical bands in evaluation order (critical first).
// Violation reasons and console output follow this ordering.
func Bands() []SeverityBand {
	return []SeverityBand{BandCritical, BandHigh, BandMedium, BandLow}
}

// Valid reports whether b is one of the four canonical bands.
func (b SeverityBand) Valid() bool {
	switch b {
	case BandCritical, BandHigh, BandMedium, BandLow:
		return true
	}
	return false
}

// -- Sources --

// Source identifies one category of scanning technique. A source may merge
// reports from more than one underlying tool into the same bucket (e.g. two
// dependency auditors both feed dependency-analysis).
type Source string

// Constants for the three report sources consumed by the gate.
const (
	SourceStatic     Source = "static-analysis"     // SAST, e.g. Semgrep.
	SourceDependency Source = "dependency-analysis" // SCA, e.g. npm audit.
	SourceDynamic    Source = "dynamic-analysis"    // DAST, e.g. OWASP ZAP.
)

// Sources returns all report sources in their fixed reporting order.
func Sources() []Source {
	return []Source{SourceStatic, SourceDependency, SourceDynamic}
}

// Valid reports whether s is a known report source.
func (s Source) Valid() bool {
	switch s {
	case SourceStatic, SourceDependency, SourceDynamic:
		return true
	}
	return false
}

// -- Findings --

// Finding is a single normalized vulnerability record. Findings are
// aggregated by count only; the same underlying defect reported by two tools
// counts twice. That zero-tolerance behavior is deliberate.
type Finding struct {
	// Source is the scanning category that produced the finding.
	Source Source `json:"source"`

	// Band is the canonical severity, assigned exactly once by the
	// normalizer and never re-derived afterwards. Parsers that consume
	// pre-aggregated counts may assign it directly.
	Band SeverityBand `json:"severity_band,omitempty"`

	// RawSeverity preserves the severity token exactly as the source tool
	// reported it, for traceability.
	RawSeverity string `json:"raw_severity"`

	// Tool names the concrete scanner (semgrep, npm-audit, zap, ...).
	Tool string `json:"tool,omitempty"`

	// RuleID is the tool-specific rule or advisory identifier, when the
	// report carries one.
	RuleID string `json:"rule_id,omitempty"`
}

// -- Aggregation Records --

// BandCounts holds non-negative finding counts per canonical band. A band a
// source structurally cannot report still serializes as an explicit zero,
// never as an absent key.
type BandCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Get returns the count for band b. Unknown bands return 0.
func (c BandCounts) Get(b SeverityBand) int {
	switch b {
	case BandCritical:
		return c.Critical
	case BandHigh:
		return c.High
	case BandMedium:
		return c.Medium
	case BandLow:
		return c.Low
	}
	return 0
}

// Add increments the count for band b by n.
func (c *BandCounts) Add(b SeverityBand, n int) {
	switch b {
	case BandCritical:
		c.Critical += n
	case BandHigh:
		c.High += n
	case BandMedium:
		c.Medium += n
	case BandLow:
		c.Low += n
	}
}

// Total returns the sum across all four bands.
func (c BandCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// ThresholdConfig maps each band to the maximum allowed aggregated count.
// The zero value is the zero-tolerance default: nothing is allowed through.
type ThresholdConfig struct {
	Critical int `json:"critical" mapstructure:"critical"`
	High     int `json:"high" mapstructure:"high"`
	Medium   int `json:"medium" mapstructure:"medium"`
	Low      int `json:"low" mapstructure:"low"`
}

// Allowed returns the configured maximum for band b.
func (t ThresholdConfig) Allowed(b SeverityBand) int {
	switch b {
	case BandCritical:
		return t.Critical
	case BandHigh:
		return t.High
	case BandMedium:
		return t.Medium
	case BandLow:
		return t.Low
	}
	return 0
}

// InclusionRules records which (source, band) pairs are excluded from the
// aggregated totals. The map holds excluded bands per source; anything not
// listed is included. A source excluded from a band still reports the count
// in its own breakdown.
type InclusionRules map[Source][]SeverityBand

// Included reports whether findings from source s count toward the total of
// band b.
func (r InclusionRules) Included(s Source, b SeverityBand) bool {
	for _, excluded := range r[s] {
		if excluded == b {
			return false
		}
	}
	return true
}

// -- Gate Result --

// GateResultSchemaVersion identifies the summary record layout. Downstream
// consumers (PR comment renderer, pipeline gate check) key off this value.
const GateResultSchemaVersion = "1"

// Violation describes one band whose aggregated total strictly exceeds its
// threshold. Reason is rendered from the same counts via a fixed template so
// the textual explanation can never drift from the machine verdict.
type Violation struct {
	Band     SeverityBand `json:"band"`
	Observed int          `json:"observed"`
	Allowed  int          `json:"allowed"`
	Reason   string       `json:"reason"`
}

// ViolationReason renders the fixed, mechanically testable violation
// template for one exceeded band.
func ViolationReason(b SeverityBand, observed, allowed int) string {
	return fmt.Sprintf("%s vulnerabilities: %d exceeds threshold of %d", b, observed, allowed)
}

// GateResult is the terminal artifact of a gate run: aggregated totals,
// per-source breakdowns, the thresholds applied, the verdict, and the
// ordered violation reasons. It is created once per run, persisted, and
// never mutated after emission.
type GateResult struct {
	SchemaVersion string `json:"schema_version"`

	// Totals are the cross-source sums per band, after inclusion rules.
	Totals BandCounts `json:"totals"`

	// TotalFindings is the sum of Totals across all bands.
	TotalFindings int `json:"total_findings"`

	// Breakdown holds raw per-source counts, before inclusion rules. Every
	// source is present even when it contributed nothing.
	Breakdown map[Source]BandCounts `json:"breakdown"`

	// Thresholds is the configuration the verdict was computed against.
	Thresholds ThresholdConfig `json:"thresholds"`

	// Passed is true iff every band total is at or under its threshold.
	Passed bool `json:"passed"`

	// Violations lists each exceeded band, ordered critical -> low. Empty
	// (never null) on a passing run.
	Violations []Violation `json:"violations"`
}
