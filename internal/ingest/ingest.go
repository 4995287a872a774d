// File: internal/ingest/ingest.go

// Package ingest reads the tool-specific report artifacts and turns them
// into normalized finding sequences. Each parser owns exactly one source's
// structure and never looks at another source's report. A structurally
// invalid report is fatal for the run; the gate never treats a broken report
// as zero findings.
package ingest

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// json is the shared decoder for all report formats. The reports are
// produced by third-party tools, so stdlib-compatible semantics matter more
// than speed here.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReportParseError reports a structurally malformed source report: missing
// required fields, wrong shape, unreadable file. It names the source and the
// defect so the pipeline can tell "could not evaluate" apart from "found
// real violations".
type ReportParseError struct {
	Source schemas.Source
	Path   string
	Detail string
	Err    error
}

func (e *ReportParseError) Error() string {
	msg := fmt.Sprintf("invalid %s report %s: %s", e.Source, e.Path, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReportParseError) Unwrap() error { return e.Err }

// readReport loads one report file, wrapping I/O failures as parse errors
// for the owning source.
func readReport(source schemas.Source, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReportParseError{Source: source, Path: path, Detail: "cannot read report", Err: err}
	}
	return data, nil
}
