package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kandev/acp-sentinel/pkg/acp/adapter"
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/jsonl"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// newReplayCmd steps a captured trace through the runtime adapter one
// frame at a time, the way an embedding application would feed it live
// messages, instead of folding the whole trace through the batch driver.
func newReplayCmd(configPath *string) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "replay <trace.jsonl>",
		Short: "Step a captured trace through the runtime adapter, frame by frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open trace: %w", err)
			}
			defer f.Close()

			frames, readErr := jsonl.ReadFrames(f)
			if readErr != nil && len(frames) == 0 {
				return fmt.Errorf("read trace: %w", readErr)
			}

			rt := adapter.NewRuntime(cfg.RuntimeProfile(), cfg.EvalProfile())
			phase := protocol.InitialPhase()

			anyErrors := false
			for i, fr := range frames {
				var res adapter.StepResult
				switch fr.Message.Direction {
				case domain.FromClient:
					res = rt.ValidateInbound(phase, fr.Message.Client, fr.RawByteLength)
				case domain.FromAgent:
					res = rt.ValidateOutbound(phase, fr.Message.Agent, fr.RawByteLength)
				default:
					return fmt.Errorf("frame %d: message has no direction set", i)
				}

				fmt.Printf("#%d %-30s %s -> %s\n", i, fr.Message.Name(), phase.Kind(), res.Phase.Kind())
				for _, finding := range res.Findings {
					fmt.Println("  " + renderFinding(finding))
					anyErrors = anyErrors || finding.Severity == validate.SeverityError
				}
				phase = res.Phase

				if delay > 0 {
					time.Sleep(delay)
				}
			}

			if readErr != nil {
				fmt.Fprintf(os.Stderr, "warning: trace read incomplete: %v\n", readErr)
			}
			if anyErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between frames, to simulate real-time arrival")
	return cmd
}
