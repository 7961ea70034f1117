// Package commands implements CLI command handlers for codeshift.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshift/pkg/config"
	"github.com/Sumatoshi-tech/codeshift/pkg/observability"
	"github.com/Sumatoshi-tech/codeshift/pkg/recipe"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
	"github.com/Sumatoshi-tech/codeshift/pkg/version"
)

// Persistent flag names registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
	FlagNoColor = "no-color"
)

// Output formats shared by query and parse.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTree  = "tree"
)

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

// session holds the loaded config and a pipeline runner wired to telemetry.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	runner    *transform.Runner
	logger    *slog.Logger
	timeout   time.Duration
	verbose   bool
	quiet     bool
}

func openSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()

	cfgPath, _ := flags.GetString(FlagConfig)
	verbose, _ := flags.GetBool(FlagVerbose)
	quiet, _ := flags.GetBool(FlagQuiet)

	if noColor, _ := flags.GetBool(FlagNoColor); noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = slog.LevelDebug.String()
	}

	obsCfg := cfg.Observability(version.Version)
	obsCfg.Mode = observability.ModeCLI
	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewTransformMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{
		cfg:       cfg,
		providers: providers,
		logger:    providers.Logger,
		timeout:   time.Duration(obsCfg.ShutdownTimeoutSec) * time.Second,
		verbose:   verbose,
		quiet:     quiet,
		runner: transform.NewRunner(
			transform.WithLogger(providers.Logger),
			transform.WithTracer(providers.Tracer),
			transform.WithMetrics(metrics),
		),
	}, nil
}

// close flushes telemetry within the configured shutdown timeout.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.providers.Shutdown(ctx); err != nil {
		s.logger.Warn("observability shutdown failed", "error", err)
	}
}

// resolveTransform returns the recipe transform when one is configured,
// otherwise the named built-in.
func (s *session) resolveTransform() (*transform.Transform, error) {
	if s.cfg.Transform.Recipe != "" {
		return recipe.LoadTransform(s.cfg.Transform.Recipe)
	}

	return transform.Builtin().Get(s.cfg.Transform.Name)
}
