// File: internal/gate/run.go

// Package gate is the quality gate aggregation engine: it parses the three
// source reports, normalizes severities, aggregates counts, evaluates
// thresholds, and produces the final GateResult. Every stage is a pure
// function of its inputs, so a run over identical report bytes always
// produces identical result bytes.
package gate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/mergegate/api/schemas"
	"github.com/xkilldash9x/mergegate/internal/config"
	"github.com/xkilldash9x/mergegate/internal/ingest"
	"github.com/xkilldash9x/mergegate/internal/severity"
)

// FailedError is returned by a run whose verdict is false. It is the
// expected negative outcome of a correct evaluation, not an engine fault;
// the full summary has already been produced when it is returned.
type FailedError struct {
	Result *schemas.GateResult
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("quality gate failed: %d threshold violation(s)", len(e.Result.Violations))
}

// Engine runs the aggregation pipeline once per invocation.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEngine creates a gate engine for one configuration.
func NewEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger.Named("gate")}
}

// Run executes the full pipeline and returns the terminal GateResult. A nil
// result with an error means the run could not be evaluated (parse, config
// or normalization failure); a threshold violation is not an error here and
// still yields the complete result.
func (e *Engine) Run(ctx context.Context) (*schemas.GateResult, error) {
	rules, err := e.cfg.InclusionRules()
	if err != nil {
		return nil, err
	}

	perSource, err := e.parseReports(ctx)
	if err != nil {
		return nil, err
	}

	var findings []schemas.Finding
	for _, source := range schemas.Sources() {
		normalized, err := normalizeAll(perSource[source])
		if err != nil {
			return nil, err
		}
		findings = append(findings, normalized...)
	}
	e.logger.Info("reports parsed and normalized", zap.Int("findings", len(findings)))

	breakdown, totals := Aggregate(findings, rules, e.logger)
	passed, violations := Evaluate(totals, e.cfg.Gate.Thresholds)

	result := &schemas.GateResult{
		SchemaVersion: schemas.GateResultSchemaVersion,
		Totals:        totals,
		TotalFindings: totals.Total(),
		Breakdown:     breakdown,
		Thresholds:    e.cfg.Gate.Thresholds,
		Passed:        passed,
		Violations:    violations,
	}

	if passed {
		e.logger.Info("quality gate passed", zap.Int("total_findings", result.TotalFindings))
	} else {
		for _, v := range violations {
			e.logger.Error("threshold exceeded",
				zap.String("band", string(v.Band)),
				zap.Int("observed", v.Observed),
				zap.Int("allowed", v.Allowed),
			)
		}
	}
	return result, nil
}

// parseReports reads the three sources concurrently. Each parser is a pure
// function over its own input, so the schedule cannot change the outcome;
// the goroutines only fill independent slots.
func (e *Engine) parseReports(ctx context.Context) (map[schemas.Source][]schemas.Finding, error) {
	var staticFindings, depFindings, dynFindings []schemas.Finding

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		staticFindings, err = e.parseStatic()
		return err
	})
	g.Go(func() error {
		var err error
		depFindings, err = e.parseDependency()
		return err
	})
	g.Go(func() error {
		var err error
		dynFindings, err = e.parseDynamic()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[schemas.Source][]schemas.Finding{
		schemas.SourceStatic:     staticFindings,
		schemas.SourceDependency: depFindings,
		schemas.SourceDynamic:    dynFindings,
	}, nil
}

func (e *Engine) parseStatic() ([]schemas.Finding, error) {
	cfg := e.cfg.Reports.Static
	var findings []schemas.Finding
	if cfg.Path != "" {
		parsed, err := ingest.ParseSemgrepFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		findings = append(findings, parsed...)
	}
	counted, err := e.parseCounts(schemas.SourceStatic, cfg.Counts)
	if err != nil {
		return nil, err
	}
	findings = append(findings, counted...)
	if cfg.Path == "" && !cfg.Counts.Configured() {
		e.logger.Warn("no static-analysis input configured, source contributes zero findings")
	}
	return findings, nil
}

func (e *Engine) parseDependency() ([]schemas.Finding, error) {
	cfg := e.cfg.Reports.Dependency
	var findings []schemas.Finding
	for _, path := range cfg.Paths {
		parsed, err := ingest.ParseNPMAuditFile(path)
		if err != nil {
			return nil, err
		}
		findings = append(findings, parsed...)
	}
	counted, err := e.parseCounts(schemas.SourceDependency, cfg.Counts)
	if err != nil {
		return nil, err
	}
	findings = append(findings, counted...)
	if len(cfg.Paths) == 0 && !cfg.Counts.Configured() {
		e.logger.Warn("no dependency-analysis input configured, source contributes zero findings")
	}
	return findings, nil
}

func (e *Engine) parseDynamic() ([]schemas.Finding, error) {
	cfg := e.cfg.Reports.Dynamic
	var findings []schemas.Finding
	if cfg.Path != "" {
		parsed, err := ingest.ParseZAPFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		findings = append(findings, parsed...)
	}
	counted, err := e.parseCounts(schemas.SourceDynamic, cfg.Counts)
	if err != nil {
		return nil, err
	}
	findings = append(findings, counted...)
	if cfg.Path == "" && !cfg.Counts.Configured() {
		e.logger.Warn("no dynamic-analysis input configured, source contributes zero findings")
	}
	return findings, nil
}

func (e *Engine) parseCounts(source schemas.Source, cfg config.CountFilesConfig) ([]schemas.Finding, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	return ingest.ParseCountFiles(source, ingest.CountFiles{
		Critical: cfg.Critical,
		High:     cfg.High,
		Medium:   cfg.Medium,
		Low:      cfg.Low,
	})
}

// normalizeAll assigns the canonical band to every finding that does not
// already carry one. Bands assigned upstream (count files, CVSS-scored
// entries) are immutable and pass through untouched.
func normalizeAll(findings []schemas.Finding) ([]schemas.Finding, error) {
	out := make([]schemas.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Band == "" {
			band, err := severity.Normalize(f.Source, f.RawSeverity)
			if err != nil {
				return nil, err
			}
			f.Band = band
		}
		out = append(out, f)
	}
	return out, nil
}
