package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kandev/acp-sentinel/pkg/acp/jsonl"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

func newValidateCmd(configPath *string) *cobra.Command {
	var stopOnError bool

	cmd := &cobra.Command{
		Use:   "validate <trace.jsonl>",
		Short: "Run the full lane set over a captured JSONL trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cmd.Flags().Changed("stop-on-error") {
				cfg.StopOnError = stopOnError
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open trace: %w", err)
			}
			defer f.Close()

			frames, readErr := jsonl.ReadFrames(f)
			if readErr != nil {
				log.Warn("trace read incomplete", zap.Error(readErr), zap.Int("framesDecoded", len(frames)))
			}

			driver := validate.NewDriver(cfg.RuntimeProfile(), cfg.EvalProfile())
			result := driver.Run(frames, cfg.StopOnError)

			for _, finding := range result.Findings {
				fmt.Println(renderFinding(finding))
			}
			errs, warns, infos := countBySeverity(result.Findings)
			fmt.Printf("\n%d error(s), %d warning(s), %d info\n", errs, warns, infos)

			if result.Trace.Halted {
				fmt.Printf("trace halted at message %d: %v\n", result.Trace.HaltIndex, result.Trace.HaltErr)
			}

			if readErr != nil {
				return fmt.Errorf("trace read incomplete: %w", readErr)
			}
			if errs > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "halt the fold at the first protocol rejection")
	return cmd
}
