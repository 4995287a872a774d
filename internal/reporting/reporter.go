// File: internal/reporting/reporter.go

// Package reporting serializes the GateResult into its persisted summary
// record and renders the human-readable breakdown. Both views are derived
// from the same GateResult; nothing here recomputes a count.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// Reporter writes one GateResult to an output.
type Reporter interface {
	// Write emits the summary record.
	Write(result *schemas.GateResult) error
	// Close finalizes the report and releases any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a JSON summary reporter for the given output path. An empty
// path or "stdout" writes to standard output.
func New(outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create summary file %s: %w", outputPath, err)
		}
		writer = f
	}
	return &jsonReporter{writer: writer}, nil
}

// jsonReporter emits the versioned summary record as indented JSON. The
// encoding is fully deterministic: struct fields keep declaration order and
// map keys are sorted, so identical results produce identical bytes.
type jsonReporter struct {
	writer io.WriteCloser
}

func (r *jsonReporter) Write(result *schemas.GateResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal gate result: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error {
	return r.writer.Close()
}

// WriteSummary is a convenience helper: write one result to path and close.
func WriteSummary(path string, result *schemas.GateResult) error {
	reporter, err := New(path)
	if err != nil {
		return err
	}
	if err := reporter.Write(result); err != nil {
		reporter.Close()
		return err
	}
	return reporter.Close()
}
