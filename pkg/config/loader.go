package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".codeshift"
	configType      = "yaml"
	envPrefix       = "CODESHIFT"
	envKeySeparator = "_"
)

// Default values.
const (
	DefaultTransform   = "identity"
	DefaultQuote       = "single"
	DefaultFidelity    = "full"
	DefaultWorkers     = 0
	DefaultMaxFileSize = "1MB"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logFormatText
)

// DefaultExtensions are the file extensions the driver picks up.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

// DefaultExclude are directory names the driver never descends into.
var DefaultExclude = []string{"node_modules", ".git", "dist", "build", "coverage"}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise .codeshift.yaml is searched in CWD and $HOME.
// A missing config file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("transform.name", DefaultTransform)
	viperCfg.SetDefault("transform.recipe", "")
	viperCfg.SetDefault("transform.params", map[string]string{})

	viperCfg.SetDefault("printer.quote", DefaultQuote)
	viperCfg.SetDefault("printer.fidelity", DefaultFidelity)

	viperCfg.SetDefault("driver.workers", DefaultWorkers)
	viperCfg.SetDefault("driver.max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("driver.extensions", DefaultExtensions)
	viperCfg.SetDefault("driver.exclude", DefaultExclude)
	viperCfg.SetDefault("driver.dry_run", false)
	viperCfg.SetDefault("driver.fail_fast", false)
	viperCfg.SetDefault("driver.verify", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.debug", false)
}
