// File: internal/ingest/npmaudit.go
package ingest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xkilldash9x/mergegate/api/schemas"
	"github.com/xkilldash9x/mergegate/internal/severity"
)

// npmAuditReport covers both shapes npm audit has shipped: the v7+ layout
// with a vulnerabilities object keyed by package name, and the older layout
// where only metadata counters are usable.
type npmAuditReport struct {
	Vulnerabilities map[string]npmVulnerability `json:"vulnerabilities"`
	Metadata        *npmMetadata                `json:"metadata"`
}

type npmVulnerability struct {
	// Severity is a pointer so an absent or null field can be told apart
	// from a present label.
	Severity *string  `json:"severity"`
	CVSS     *npmCVSS `json:"cvss"`
}

type npmCVSS struct {
	Score float64 `json:"score"`
}

type npmMetadata struct {
	Vulnerabilities *npmSeverityCounters `json:"vulnerabilities"`
}

type npmSeverityCounters struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// ParseNPMAuditFile reads one npm audit JSON report and emits raw findings
// for the dependency-analysis bucket. Multiple audit reports may be parsed
// and appended into the same bucket by the caller.
func ParseNPMAuditFile(path string) ([]schemas.Finding, error) {
	data, err := readReport(schemas.SourceDependency, path)
	if err != nil {
		return nil, err
	}
	return parseNPMAudit(path, data)
}

func parseNPMAudit(path string, data []byte) ([]schemas.Finding, error) {
	var doc npmAuditReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ReportParseError{Source: schemas.SourceDependency, Path: path, Detail: "malformed JSON", Err: err}
	}

	if doc.Vulnerabilities != nil {
		return npmEntryFindings(path, doc.Vulnerabilities)
	}
	if doc.Metadata != nil && doc.Metadata.Vulnerabilities != nil {
		return npmCounterFindings(doc.Metadata.Vulnerabilities), nil
	}
	return nil, &ReportParseError{
		Source: schemas.SourceDependency,
		Path:   path,
		Detail: "missing both vulnerabilities object and metadata.vulnerabilities",
	}
}

// npmEntryFindings walks the per-package vulnerability entries. Packages are
// visited in sorted order so a run is deterministic regardless of map
// iteration.
func npmEntryFindings(path string, vulns map[string]npmVulnerability) ([]schemas.Finding, error) {
	names := make([]string, 0, len(vulns))
	for name := range vulns {
		names = append(names, name)
	}
	sort.Strings(names)

	findings := make([]schemas.Finding, 0, len(names))
	for _, name := range names {
		v := vulns[name]
		f := schemas.Finding{
			Source: schemas.SourceDependency,
			Tool:   "npm-audit",
			RuleID: name,
		}
		switch {
		case v.Severity != nil:
			f.RawSeverity = *v.Severity
		case v.CVSS != nil:
			// Numeric-score input: bucket by CVSS range. The band is
			// assigned here, so the normalizer leaves it untouched.
			f.RawSeverity = strconv.FormatFloat(v.CVSS.Score, 'f', 1, 64)
			f.Band = severity.FromScore(v.CVSS.Score)
		default:
			return nil, &ReportParseError{
				Source: schemas.SourceDependency,
				Path:   path,
				Detail: fmt.Sprintf("entry %q is missing the severity field", name),
			}
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// npmCounterFindings expands the metadata counters into synthetic findings
// so the rest of the pipeline sees one uniform shape.
func npmCounterFindings(c *npmSeverityCounters) []schemas.Finding {
	var findings []schemas.Finding
	expand := func(label string, n int) {
		for i := 0; i < n; i++ {
			findings = append(findings, schemas.Finding{
				Source:      schemas.SourceDependency,
				RawSeverity: label,
				Tool:        "npm-audit",
			})
		}
	}
	expand("critical", c.Critical)
	expand("high", c.High)
	expand("moderate", c.Moderate)
	expand("low", c.Low)
	expand("info", c.Info)
	return findings
}
