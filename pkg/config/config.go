// Package config loads codeshift settings from .codeshift.yaml, CODESHIFT_
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/codeshift/pkg/observability"
	"github.com/Sumatoshi-tech/codeshift/pkg/printer"
)

// Config is the top-level configuration struct for codeshift.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Transform TransformConfig `mapstructure:"transform"`
	Printer   PrinterConfig   `mapstructure:"printer"`
	Driver    DriverConfig    `mapstructure:"driver"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// TransformConfig selects the transform applied to every file.
type TransformConfig struct {
	Name   string            `mapstructure:"name"`
	Recipe string            `mapstructure:"recipe"`
	Params map[string]string `mapstructure:"params"`
}

// PrinterConfig mirrors printer.Options.
type PrinterConfig struct {
	Quote    string `mapstructure:"quote"`
	Fidelity string `mapstructure:"fidelity"`
}

// DriverConfig holds file discovery and scheduling knobs.
type DriverConfig struct {
	Workers     int      `mapstructure:"workers"`
	MaxFileSize string   `mapstructure:"max_file_size"`
	Extensions  []string `mapstructure:"extensions"`
	Exclude     []string `mapstructure:"exclude"`
	DryRun      bool     `mapstructure:"dry_run"`
	FailFast    bool     `mapstructure:"fail_fast"`
	Verify      bool     `mapstructure:"verify"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OTLP export settings.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"otlp_endpoint"`
	Headers     string  `mapstructure:"otlp_headers"`
	Insecure    bool    `mapstructure:"otlp_insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Environment string  `mapstructure:"environment"`
	Debug       bool    `mapstructure:"debug"`
}

const (
	logFormatText = "text"
	logFormatJSON = "json"

	sampleRatioMax = 1.0
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("driver.workers must be non-negative")
	// ErrInvalidMaxFileSize indicates max_file_size is not a byte size.
	ErrInvalidMaxFileSize = errors.New("driver.max_file_size must be a size such as 1MB")
	// ErrInvalidQuote indicates an unknown quote style.
	ErrInvalidQuote = errors.New("printer.quote must be single, double or preserve")
	// ErrInvalidFidelity indicates an unknown fidelity level.
	ErrInvalidFidelity = errors.New("printer.fidelity must be full or no-comments")
	// ErrInvalidLogLevel indicates an unknown slog level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
	// ErrInvalidSampleRatio indicates the sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrTransformAndRecipe indicates both a named transform and a recipe were set.
	ErrTransformAndRecipe = errors.New("transform.name and transform.recipe are mutually exclusive")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Driver.Workers < 0 {
		return ErrInvalidWorkers
	}

	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}

	if _, err := c.PrinterOptions(); err != nil {
		return err
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	switch c.Logging.Format {
	case logFormatText, logFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	if c.Transform.Recipe != "" && c.Transform.Name != "" && c.Transform.Name != DefaultTransform {
		return ErrTransformAndRecipe
	}

	return nil
}

// MaxFileSizeBytes parses driver.max_file_size. Zero means unlimited.
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	raw := strings.TrimSpace(c.Driver.MaxFileSize)
	if raw == "" || raw == "0" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, c.Driver.MaxFileSize)
	}

	return size, nil
}

// PrinterOptions converts the printer section to printer.Options.
func (c *Config) PrinterOptions() (printer.Options, error) {
	quote, err := printer.ParseQuoteStyle(c.Printer.Quote)
	if err != nil {
		return printer.Options{}, fmt.Errorf("%w: %w", ErrInvalidQuote, err)
	}

	fidelity, err := printer.ParseFidelity(c.Printer.Fidelity)
	if err != nil {
		return printer.Options{}, fmt.Errorf("%w: %w", ErrInvalidFidelity, err)
	}

	return printer.Options{Quote: quote, Fidelity: fidelity}, nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}

// Observability builds the observability config for a binary of the given version.
func (c *Config) Observability(serviceVersion string) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = serviceVersion
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.Endpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.Headers)
	obs.OTLPInsecure = c.Telemetry.Insecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.DebugTrace = c.Telemetry.Debug
	obs.LogJSON = c.Logging.Format == logFormatJSON

	if level, err := c.LogLevel(); err == nil {
		obs.LogLevel = level
	}

	return obs
}
