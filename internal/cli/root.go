// Package cli implements the acp-sentinel command tree: validate and
// replay JSONL traces, fan a benchmark harness out across goroutines,
// watch a live NATS subject, and scaffold a starter profile. Every
// subcommand is glue around pkg/acp/validate's Driver and
// pkg/acp/adapter's Runtime, which do the actual work.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kandev/acp-sentinel/internal/common/config"
	"github.com/kandev/acp-sentinel/internal/common/logger"
)

// cliVersion is set by the caller when building the root command.
var cliVersion = "dev"

// NewRootCmd builds the acp-sentinel command tree.
func NewRootCmd(version string) *cobra.Command {
	cliVersion = version

	var configPath string

	rootCmd := &cobra.Command{
		Use:           "acp-sentinel",
		Short:         "Validate and replay Agent Client Protocol traces",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory holding config.yaml (defaults to ., /etc/acp-sentinel/)")

	rootCmd.AddCommand(newValidateCmd(&configPath))
	rootCmd.AddCommand(newReplayCmd(&configPath))
	rootCmd.AddCommand(newBenchCmd(&configPath))
	rootCmd.AddCommand(newWatchCmd(&configPath))
	rootCmd.AddCommand(newInitProfileCmd())

	return rootCmd
}

// loadConfig loads configuration and a logger built from it, in the
// order every subcommand needs them.
func loadConfig(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadWithPath(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, log, nil
}
