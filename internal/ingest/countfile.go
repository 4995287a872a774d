// File: internal/ingest/countfile.go
package ingest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// CountFiles points at pre-aggregated plain-text count files for one source,
// one integer per band. An empty path means the band is not supplied this
// way and contributes nothing.
type CountFiles struct {
	Critical string
	High     string
	Medium   string
	Low      string
}

// ParseCountFiles expands pre-aggregated band counts into synthetic
// findings, so count-file input gates identically to a structured report.
// Each synthetic finding carries the canonical band name as its raw
// severity and is already normalized.
func ParseCountFiles(source schemas.Source, files CountFiles) ([]schemas.Finding, error) {
	var findings []schemas.Finding
	for _, entry := range []struct {
		band schemas.SeverityBand
		path string
	}{
		{schemas.BandCritical, files.Critical},
		{schemas.BandHigh, files.High},
		{schemas.BandMedium, files.Medium},
		{schemas.BandLow, files.Low},
	} {
		if entry.path == "" {
			continue
		}
		n, err := readCount(source, entry.path)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			findings = append(findings, schemas.Finding{
				Source:      source,
				Band:        entry.band,
				RawSeverity: string(entry.band),
				Tool:        "count-file",
			})
		}
	}
	return findings, nil
}

// readCount reads one count file. An empty file counts as zero; anything
// else must be a single non-negative integer.
func readCount(source schemas.Source, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &ReportParseError{Source: source, Path: path, Detail: "cannot read count file", Err: err}
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(content)
	if err != nil {
		return 0, &ReportParseError{
			Source: source,
			Path:   path,
			Detail: fmt.Sprintf("count file content %q is not an integer", content),
			Err:    err,
		}
	}
	if n < 0 {
		return 0, &ReportParseError{
			Source: source,
			Path:   path,
			Detail: fmt.Sprintf("count file holds negative count %d", n),
		}
	}
	return n, nil
}
