// File: internal/ingest/npmaudit_test.go
package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

func TestParseNPMAudit(t *testing.T) {
	t.Parallel()

	t.Run("v7 vulnerabilities object, sorted by package", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{
			"vulnerabilities": {
				"minimist": {"severity": "critical"},
				"lodash": {"severity": "moderate"}
			}
		}`)

		findings, err := ParseNPMAuditFile(path)
		require.NoError(t, err)
		require.Len(t, findings, 2)

		// Deterministic package order regardless of map iteration.
		assert.Equal(t, "lodash", findings[0].RuleID)
		assert.Equal(t, "moderate", findings[0].RawSeverity)
		assert.Equal(t, "minimist", findings[1].RuleID)
		assert.Equal(t, "critical", findings[1].RawSeverity)
		for _, f := range findings {
			assert.Equal(t, schemas.SourceDependency, f.Source)
			assert.Equal(t, "npm-audit", f.Tool)
		}
	})

	t.Run("numeric CVSS entry buckets by score range", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{
			"vulnerabilities": {
				"qs": {"cvss": {"score": 7.5}}
			}
		}`)

		findings, err := ParseNPMAuditFile(path)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.BandHigh, findings[0].Band)
		assert.Equal(t, "7.5", findings[0].RawSeverity)
	})

	t.Run("metadata counters expand into synthetic findings", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{
			"metadata": {"vulnerabilities": {"critical": 1, "high": 0, "moderate": 2, "low": 1, "info": 0}}
		}`)

		findings, err := ParseNPMAuditFile(path)
		require.NoError(t, err)
		require.Len(t, findings, 4)
		assert.Equal(t, "critical", findings[0].RawSeverity)
		assert.Equal(t, "moderate", findings[1].RawSeverity)
		assert.Equal(t, "moderate", findings[2].RawSeverity)
		assert.Equal(t, "low", findings[3].RawSeverity)
	})

	t.Run("clean v7 report yields zero findings", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{"vulnerabilities": {}}`)

		findings, err := ParseNPMAuditFile(path)
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("entry missing severity names the dependency source", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{
			"vulnerabilities": {
				"express": {"severity": "high"},
				"tar": {"via": ["something"]}
			}
		}`)

		_, err := ParseNPMAuditFile(path)
		var parseErr *ReportParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, schemas.SourceDependency, parseErr.Source)
		assert.Contains(t, parseErr.Detail, `"tar"`)
		assert.Contains(t, parseErr.Detail, "severity")
	})

	t.Run("report with neither entries nor metadata is structural", func(t *testing.T) {
		t.Parallel()
		path := writeReportFile(t, "audit.json", `{"auditReportVersion": 2}`)

		_, err := ParseNPMAuditFile(path)
		var parseErr *ReportParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, schemas.SourceDependency, parseErr.Source)
	})
}
