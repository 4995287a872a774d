// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/mergegate/api/schemas"
)

// ConfigurationError marks invalid gate configuration (negative threshold,
// unknown source or band in the inclusion rules, ...). It is always detected
// before any report is read, and always aborts the run.
type ConfigurationError struct {
	Field  string // configuration key, e.g. "gate.thresholds.high"
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Detail)
}

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Reports ReportsConfig `mapstructure:"reports" yaml:"reports"`
	Gate    GateConfig    `mapstructure:"gate" yaml:"gate"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// ReportsConfig names the report artifacts consumed by a gate run, one block
// per source.
type ReportsConfig struct {
	Static     SourceReportConfig `mapstructure:"static" yaml:"static"`
	Dependency DependencyReports  `mapstructure:"dependency" yaml:"dependency"`
	Dynamic    SourceReportConfig `mapstructure:"dynamic" yaml:"dynamic"`
}

// SourceReportConfig locates the input for one source: a structured JSON
// report, pre-aggregated count files, or both. An entirely unset source
// contributes zero findings (logged, never silent).
type SourceReportConfig struct {
	Path   string           `mapstructure:"path" yaml:"path"`
	Counts CountFilesConfig `mapstructure:"counts" yaml:"counts"`
}

// DependencyReports supports merging results from more than one dependency
// auditor into the same dependency-analysis bucket.
type DependencyReports struct {
	Paths  []string         `mapstructure:"paths" yaml:"paths"`
	Counts CountFilesConfig `mapstructure:"counts" yaml:"counts"`
}

// CountFilesConfig points at plain-text count files, one integer per band.
// Empty entries mean the band is not supplied this way.
type CountFilesConfig struct {
	Critical string `mapstructure:"critical" yaml:"critical"`
	High     string `mapstructure:"high" yaml:"high"`
	Medium   string `mapstructure:"medium" yaml:"medium"`
	Low      string `mapstructure:"low" yaml:"low"`
}

// Configured reports whether any count file is set.
func (c CountFilesConfig) Configured() bool {
	return c.Critical != "" || c.High != "" || c.Medium != "" || c.Low != ""
}

// GateConfig holds the decision parameters of the quality gate.
type GateConfig struct {
	// Thresholds caps the aggregated total per band. Defaults to zero
	// tolerance on every band.
	Thresholds schemas.ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds"`

	// Exclusions lists bands a source does not contribute to the totals,
	// keyed by source name. Declarative so re-scoping a scanner never
	// touches aggregation logic.
	Exclusions map[string][]string `mapstructure:"exclusions" yaml:"exclusions"`
}

// OutputConfig controls where the gate writes its summary record.
type OutputConfig struct {
	Summary string `mapstructure:"summary" yaml:"summary"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "mergegate")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Gate --
	// Zero tolerance on every band unless the caller relaxes it.
	v.SetDefault("gate.thresholds.critical", 0)
	v.SetDefault("gate.thresholds.high", 0)
	v.SetDefault("gate.thresholds.medium", 0)
	v.SetDefault("gate.thresholds.low", 0)
	// Static analysis reports only error/warning classes, so it never
	// contributes to the medium and low totals.
	v.SetDefault("gate.exclusions", map[string][]string{
		string(schemas.SourceStatic): {string(schemas.BandMedium), string(schemas.BandLow)},
	})

	// -- Output --
	v.SetDefault("output.summary", "quality-gate-summary.json")
}

// NewConfigFromViper creates a validated configuration instance from a viper
// object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. All gate parameters are
// verified here, before any report is parsed.
func (c *Config) Validate() error {
	for _, band := range schemas.Bands() {
		if c.Gate.Thresholds.Allowed(band) < 0 {
			return &ConfigurationError{
				Field:  fmt.Sprintf("gate.thresholds.%s", band),
				Detail: fmt.Sprintf("threshold must be non-negative, got %d", c.Gate.Thresholds.Allowed(band)),
			}
		}
	}
	if _, err := c.InclusionRules(); err != nil {
		return err
	}
	return nil
}

// InclusionRules converts the declarative exclusion table into the typed
// rule set consumed by the aggregator.
func (c *Config) InclusionRules() (schemas.InclusionRules, error) {
	rules := make(schemas.InclusionRules, len(c.Gate.Exclusions))
	for name, bands := range c.Gate.Exclusions {
		source := schemas.Source(name)
		if !source.Valid() {
			return nil, &ConfigurationError{
				Field:  "gate.exclusions",
				Detail: fmt.Sprintf("unknown source %q", name),
			}
		}
		for _, bandName := range bands {
			band := schemas.SeverityBand(bandName)
			if !band.Valid() {
				return nil, &ConfigurationError{
					Field:  fmt.Sprintf("gate.exclusions.%s", name),
					Detail: fmt.Sprintf("unknown severity band %q", bandName),
				}
			}
			rules[source] = append(rules[source], band)
		}
	}
	return rules, nil
}
