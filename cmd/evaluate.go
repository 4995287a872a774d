// -- cmd/evaluate.go --
package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/mergegate/internal/config"
	"github.com/xkilldash9x/mergegate/internal/gate"
	"github.com/xkilldash9x/mergegate/internal/observability"
	"github.com/xkilldash9x/mergegate/internal/reporting"
)

// newEvaluateCmd creates and configures the `evaluate` command.
func newEvaluateCmd() *cobra.Command {
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Runs the quality gate over the configured scan reports",
		Long: `Evaluate parses the static, dependency and dynamic analysis reports,
aggregates the findings per severity band and decides pass or fail against
the configured thresholds. The result is written as a versioned JSON summary
and printed as a breakdown table.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line values override
			// config file and environment with the right precedence.
			if err := viper.BindPFlag("reports.static.path", cmd.Flags().Lookup("sast")); err != nil {
				return err
			}
			if err := viper.BindPFlag("reports.dependency.paths", cmd.Flags().Lookup("sca")); err != nil {
				return err
			}
			if err := viper.BindPFlag("reports.dynamic.path", cmd.Flags().Lookup("dast")); err != nil {
				return err
			}
			if err := viper.BindPFlag("output.summary", cmd.Flags().Lookup("summary")); err != nil {
				return err
			}
			if err := viper.BindPFlag("gate.thresholds.critical", cmd.Flags().Lookup("max-critical")); err != nil {
				return err
			}
			if err := viper.BindPFlag("gate.thresholds.high", cmd.Flags().Lookup("max-high")); err != nil {
				return err
			}
			if err := viper.BindPFlag("gate.thresholds.medium", cmd.Flags().Lookup("max-medium")); err != nil {
				return err
			}
			return viper.BindPFlag("gate.thresholds.low", cmd.Flags().Lookup("max-low"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			// The run ID only correlates log lines; it never appears in the
			// summary record, which must stay byte-deterministic.
			runID := uuid.New().String()
			logger.Info("starting quality gate evaluation",
				zap.String("runID", runID),
				zap.String("sast", cfg.Reports.Static.Path),
				zap.Strings("sca", cfg.Reports.Dependency.Paths),
				zap.String("dast", cfg.Reports.Dynamic.Path),
			)

			engine := gate.NewEngine(cfg, logger)
			result, err := engine.Run(ctx)
			if err != nil {
				// Structural and configuration errors abort before any
				// summary is written; an incomplete verdict must never be
				// persisted for downstream tooling to trust.
				return err
			}

			if err := reporting.WriteSummary(cfg.Output.Summary, result); err != nil {
				return err
			}
			logger.Info("summary written", zap.String("path", cfg.Output.Summary))

			reporting.RenderSummary(os.Stdout, result)

			if !result.Passed {
				return &gate.FailedError{Result: result}
			}
			return nil
		},
	}

	evaluateCmd.Flags().String("sast", "", "path to the static-analysis (Semgrep) JSON report")
	evaluateCmd.Flags().StringSlice("sca", nil, "path(s) to dependency-analysis (npm audit) JSON reports")
	evaluateCmd.Flags().String("dast", "", "path to the dynamic-analysis (ZAP) JSON report")
	evaluateCmd.Flags().String("summary", "quality-gate-summary.json", "path of the summary record to write")
	evaluateCmd.Flags().Int("max-critical", 0, "maximum allowed critical findings")
	evaluateCmd.Flags().Int("max-high", 0, "maximum allowed high findings")
	evaluateCmd.Flags().Int("max-medium", 0, "maximum allowed medium findings")
	evaluateCmd.Flags().Int("max-low", 0, "maximum allowed low findings")

	return evaluateCmd
}
