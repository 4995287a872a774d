// File: internal/severity/severity.go

// Package severity maps each scanner's native severity vocabulary onto the
// four canonical bands. Every source has its own explicit, exhaustive lookup
// table; a value outside the table is a configuration problem and fails
// loudly. There is deliberately no default branch, since silently bucketing
// an unknown severity would silently weaken the gate.
package severity

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// NormalizationError reports a native severity value outside the known
// vocabulary of its source.
type NormalizationError struct {
	Source schemas.Source
	Raw    string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("unrecognized %s severity %q", e.Source, e.Raw)
}

// semgrepLabels covers the full Semgrep severity vocabulary. Semgrep treats
// ERROR as its blocking class and WARNING as its advisory class; INFO style
// hygiene findings land in low.
var semgrepLabels = map[string]schemas.SeverityBand{
	"ERROR":   schemas.BandCritical,
	"WARNING": schemas.BandHigh,
	"INFO":    schemas.BandLow,
}

// npmAuditLabels covers the npm audit severity vocabulary.
var npmAuditLabels = map[string]schemas.SeverityBand{
	"critical": schemas.BandCritical,
	"high":     schemas.BandHigh,
	"moderate": schemas.BandMedium,
	"low":      schemas.BandLow,
	"info":     schemas.BandLow,
}

// zapRiskCodes covers the ZAP 0-3 risk ordinal. 3 is ZAP's most severe
// class and maps to critical; risk code 1 is ZAP's "Low" and 0 its
// "Informational", both of which land in low.
var zapRiskCodes = map[string]schemas.SeverityBand{
	"3": schemas.BandCritical,
	"2": schemas.BandHigh,
	"1": schemas.BandLow,
	"0": schemas.BandLow,
}

// tables routes each source to its native vocabulary.
var tables = map[schemas.Source]map[string]schemas.SeverityBand{
	schemas.SourceStatic:     semgrepLabels,
	schemas.SourceDependency: npmAuditLabels,
	schemas.SourceDynamic:    zapRiskCodes,
}

// Normalize maps a source's native severity token to exactly one canonical
// band. The lookup is exact after whitespace trimming; casing is preserved
// as the source emits it (Semgrep shouts, npm audit does not).
func Normalize(source schemas.Source, raw string) (schemas.SeverityBand, error) {
	table, ok := tables[source]
	if !ok {
		return "", &NormalizationError{Source: source, Raw: raw}
	}
	band, ok := table[strings.TrimSpace(raw)]
	if !ok {
		return "", &NormalizationError{Source: source, Raw: raw}
	}
	return band, nil
}

// FromScore buckets a CVSS-like numeric score into a band, for sources that
// report numbers instead of labels: [9.0, inf) critical, [7.0, 9.0) high,
// [4.0, 7.0) medium, everything below low.
func FromScore(score float64) schemas.SeverityBand {
	switch {
	case score >= 9.0:
		return schemas.BandCritical
	case score >= 7.0:
		return schemas.BandHigh
	case score >= 4.0:
		return schemas.BandMedium
	default:
		return schemas.BandLow
	}
}
