// -- cmd/root.go --
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/mergegate/internal/config"
	"github.com/xkilldash9x/mergegate/internal/gate"
	"github.com/xkilldash9x/mergegate/internal/observability"
)

// Exit codes of the process contract. The surrounding pipeline keys off
// these to tell "found real violations" apart from "could not evaluate".
const (
	ExitOK           = 0
	ExitGateFailed   = 1
	ExitCannotDecide = 2
)

var (
	cfgFile string
	// osExit allows mocking os.Exit in tests.
	osExit = os.Exit
)

// rootCmd is the shared instance used by Execute.
var rootCmd = NewRootCommand()

// NewRootCommand builds a clean root command instance. Tests create their
// own instance so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mergegate",
		Short: "Mergegate aggregates security scan reports into a single merge gate verdict.",
		Long: `Mergegate parses SAST, SCA and DAST report artifacts, normalizes their
severities onto one taxonomy, sums the findings per band, and compares the
totals against configured thresholds. The verdict is emitted as a versioned
JSON summary and reflected in the process exit status.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any command, setting up config and logging.
			if err := initializeConfig(); err != nil {
				return err
			}

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				// Initialize a fallback logger if config unmarshal fails.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "mergegate"})
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("starting mergegate", zap.String("version", Version))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./mergegate.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.AddCommand(newEvaluateCmd())
	return root
}

// Execute runs the root command and translates the outcome into the process
// exit status.
func Execute() {
	defer observability.Sync()

	err := rootCmd.Execute()
	if err == nil {
		return
	}

	logger := observability.GetLogger()

	var failed *gate.FailedError
	if errors.As(err, &failed) {
		// The expected negative outcome: the gate did its job. The full
		// summary has already been emitted.
		logger.Error("quality gate failed", zap.Int("violations", len(failed.Result.Violations)))
		osExit(ExitGateFailed)
		return
	}

	// Anything else means the verdict could not be computed at all.
	logger.Error("could not evaluate quality gate", zap.Error(err))
	fmt.Fprintf(os.Stderr, "Error: could not evaluate quality gate: %v\n", err)
	osExit(ExitCannotDecide)
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("mergegate")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MERGEGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return nil
}
