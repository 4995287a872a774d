// File: internal/reporting/console.go
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

const ruleWidth = 72

// RenderSummary prints the human-readable breakdown table and verdict
// banner. Everything shown is read straight out of the GateResult, so the
// console view can never drift from the persisted record.
func RenderSummary(w io.Writer, result *schemas.GateResult) {
	rule := strings.Repeat("-", ruleWidth)
	banner := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "SECURITY QUALITY GATE")
	fmt.Fprintln(w, banner)

	fmt.Fprintf(w, "%-12s %8s %8s %8s %8s\n", "Severity", "Total", "SAST", "SCA", "DAST")
	fmt.Fprintln(w, rule)
	for _, band := range schemas.Bands() {
		fmt.Fprintf(w, "%-12s %8d %8s %8s %8s\n",
			titleBand(band),
			result.Totals.Get(band),
			cell(result, schemas.SourceStatic, band),
			cell(result, schemas.SourceDependency, band),
			cell(result, schemas.SourceDynamic, band),
		)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %8d\n", "TOTAL", result.TotalFindings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-12s %8s\n", "Threshold", "Allowed")
	fmt.Fprintln(w, rule)
	for _, band := range schemas.Bands() {
		verdict := "PASS"
		if result.Totals.Get(band) > result.Thresholds.Allowed(band) {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%-12s %8d     %s\n", titleBand(band), result.Thresholds.Allowed(band), verdict)
	}
	fmt.Fprintln(w)

	if result.Passed {
		fmt.Fprintln(w, "QUALITY GATE: PASSED")
	} else {
		fmt.Fprintln(w, "QUALITY GATE: FAILED")
		for i, v := range result.Violations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, v.Reason)
		}
	}
	fmt.Fprintln(w, banner)
}

// cell renders one breakdown entry, or a dash when the source is absent from
// the result entirely.
func cell(result *schemas.GateResult, source schemas.Source, band schemas.SeverityBand) string {
	counts, ok := result.Breakdown[source]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", counts.Get(band))
}

func titleBand(band schemas.SeverityBand) string {
	s := string(band)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
