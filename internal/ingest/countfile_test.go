// File: internal/ingest/countfile_test.go
package ingest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

func TestParseCountFiles(t *testing.T) {
	t.Parallel()

	t.Run("expands counts into pre-normalized findings", func(t *testing.T) {
		t.Parallel()
		files := CountFiles{
			Critical: writeReportFile(t, "sast-critical.txt", "2\n"),
			High:     writeReportFile(t, "sast-high.txt", "1"),
		}

		findings, err := ParseCountFiles(schemas.SourceStatic, files)
		require.NoError(t, err)
		require.Len(t, findings, 3)

		assert.Equal(t, schemas.BandCritical, findings[0].Band)
		assert.Equal(t, schemas.BandCritical, findings[1].Band)
		assert.Equal(t, schemas.BandHigh, findings[2].Band)
		assert.Equal(t, "critical", findings[0].RawSeverity)
		assert.Equal(t, "count-file", findings[0].Tool)
	})

	t.Run("empty file counts as zero", func(t *testing.T) {
		t.Parallel()
		files := CountFiles{Low: writeReportFile(t, "low.txt", "  \n")}

		findings, err := ParseCountFiles(schemas.SourceDependency, files)
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("non-integer content is a structural defect", func(t *testing.T) {
		t.Parallel()
		files := CountFiles{Medium: writeReportFile(t, "medium.txt", "two")}

		_, err := ParseCountFiles(schemas.SourceDynamic, files)
		var parseErr *ReportParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, schemas.SourceDynamic, parseErr.Source)
		assert.Contains(t, parseErr.Detail, `"two"`)
	})

	t.Run("negative count is a structural defect", func(t *testing.T) {
		t.Parallel()
		files := CountFiles{High: writeReportFile(t, "high.txt", "-1")}

		_, err := ParseCountFiles(schemas.SourceStatic, files)
		var parseErr *ReportParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Contains(t, parseErr.Detail, "negative")
	})

	t.Run("configured but missing file is a structural defect", func(t *testing.T) {
		t.Parallel()
		files := CountFiles{Critical: filepath.Join(t.TempDir(), "absent.txt")}

		_, err := ParseCountFiles(schemas.SourceStatic, files)
		var parseErr *ReportParseError
		require.True(t, errors.As(err, &parseErr))
	})
}
