// File: internal/ingest/zaproxy.go
package ingest

import (
	"fmt"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// zapReport mirrors the subset of the OWASP ZAP traditional JSON report the
// gate consumes: sites, each carrying a list of alerts with a risk code.
type zapReport struct {
	Sites *[]zapSite `json:"site"`
}

type zapSite struct {
	Alerts []zapAlert `json:"alerts"`
}

type zapAlert struct {
	Alert string `json:"alert"`
	// ZAP serializes riskcode as a string ("0".."3").
	RiskCode string `json:"riskcode"`
}

// ParseZAPFile reads a ZAP JSON report and emits one raw finding per alert.
func ParseZAPFile(path string) ([]schemas.Finding, error) {
	data, err := readReport(schemas.SourceDynamic, path)
	if err != nil {
		return nil, err
	}
	return parseZAP(path, data)
}

func parseZAP(path string, data []byte) ([]schemas.Finding, error) {
	var doc zapReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ReportParseError{Source: schemas.SourceDynamic, Path: path, Detail: "malformed JSON", Err: err}
	}
	if doc.Sites == nil {
		return nil, &ReportParseError{Source: schemas.SourceDynamic, Path: path, Detail: "missing site array"}
	}

	var findings []schemas.Finding
	for si, site := range *doc.Sites {
		for ai, alert := range site.Alerts {
			if alert.RiskCode == "" {
				return nil, &ReportParseError{
					Source: schemas.SourceDynamic,
					Path:   path,
					Detail: fmt.Sprintf("site %d alert %d is missing riskcode", si, ai),
				}
			}
			findings = append(findings, schemas.Finding{
				Source:      schemas.SourceDynamic,
				RawSeverity: alert.RiskCode,
				Tool:        "zap",
				RuleID:      alert.Alert,
			})
		}
	}
	return findings, nil
}
