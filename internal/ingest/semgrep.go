// File: internal/ingest/semgrep.go
package ingest

import (
	"fmt"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// semgrepReport mirrors the subset of the Semgrep JSON output the gate
// consumes. Results is a pointer so an absent key can be told apart from an
// empty (clean) result set.
type semgrepReport struct {
	Results *[]semgrepResult `json:"results"`
}

type semgrepResult struct {
	CheckID string `json:"check_id"`
	Extra   struct {
		Severity string `json:"severity"` // ERROR | WARNING | INFO
	} `json:"extra"`
}

// ParseSemgrepFile reads a Semgrep JSON report and emits one raw finding per
// result. Severity bands are assigned later by the normalizer.
func ParseSemgrepFile(path string) ([]schemas.Finding, error) {
	data, err := readReport(schemas.SourceStatic, path)
	if err != nil {
		return nil, err
	}
	return parseSemgrep(path, data)
}

func parseSemgrep(path string, data []byte) ([]schemas.Finding, error) {
	var doc semgrepReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ReportParseError{Source: schemas.SourceStatic, Path: path, Detail: "malformed JSON", Err: err}
	}
	if doc.Results == nil {
		return nil, &ReportParseError{Source: schemas.SourceStatic, Path: path, Detail: "missing results array"}
	}

	findings := make([]schemas.Finding, 0, len(*doc.Results))
	for i, r := range *doc.Results {
		if r.Extra.Severity == "" {
			return nil, &ReportParseError{
				Source: schemas.SourceStatic,
				Path:   path,
				Detail: fmt.Sprintf("result %d is missing extra.severity", i),
			}
		}
		findings = append(findings, schemas.Finding{
			Source:      schemas.SourceStatic,
			RawSeverity: r.Extra.Severity,
			Tool:        "semgrep",
			RuleID:      r.CheckID,
		})
	}
	return findings, nil
}
