package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kandev/acp-sentinel/internal/common/logger"
	"github.com/kandev/acp-sentinel/pkg/acp/adapter"
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/jsonl"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// newWatchCmd demonstrates the runtime adapter (spec.md §4.4) against a
// real streaming transport: it subscribes to a NATS subject carrying one
// canonical JSONL trace line per message and validates each message as
// it arrives, without ever holding the whole connection's trace in
// memory. A subject is a connection: messages on it are serialized and
// folded through a single Phase, exactly as spec.md §5 requires.
func newWatchCmd(configPath *string) *cobra.Command {
	var natsURL string
	var queue string

	cmd := &cobra.Command{
		Use:   "watch <subject>",
		Short: "Validate a live NATS subject of JSONL trace lines, frame by frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := args[0]

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			conn, err := nats.Connect(natsURL, nats.Name("acp-sentinel-watch"))
			if err != nil {
				return fmt.Errorf("watch: connect to nats: %w", err)
			}
			defer conn.Close()

			rt := adapter.NewRuntime(cfg.RuntimeProfile(), cfg.EvalProfile())
			phase := protocol.InitialPhase()

			handler := func(msg *nats.Msg) {
				phase = handleWatchMessage(log, rt, phase, msg)
			}

			var sub *nats.Subscription
			if queue != "" {
				sub, err = conn.QueueSubscribe(subject, queue, handler)
			} else {
				sub, err = conn.Subscribe(subject, handler)
			}
			if err != nil {
				return fmt.Errorf("watch: subscribe to %s: %w", subject, err)
			}
			defer sub.Unsubscribe()

			log.Info("watching subject", zap.String("subject", subject), zap.String("url", natsURL))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			log.Info("watch stopping")
			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", nats.DefaultURL, "NATS server URL")
	cmd.Flags().StringVar(&queue, "queue", "", "NATS queue group, for load-balanced validation across instances")
	return cmd
}

// handleWatchMessage decodes and validates one NATS message carrying a
// single JSONL trace line, returning the phase to use for the next
// message on this subject.
func handleWatchMessage(log *logger.Logger, rt *adapter.Runtime, phase protocol.Phase, msg *nats.Msg) protocol.Phase {
	frame, err := jsonl.ParseLine(msg.Data)
	if err != nil {
		log.Warn("watch: failed to decode message", zap.String("subject", msg.Subject), zap.Error(err))
		return phase
	}

	var result adapter.StepResult
	if frame.Message.Direction == domain.FromClient {
		result = rt.ValidateInbound(phase, frame.Message.Client, frame.RawByteLength)
	} else {
		result = rt.ValidateOutbound(phase, frame.Message.Agent, frame.RawByteLength)
	}

	for _, finding := range result.Findings {
		logFinding(log, msg.Subject, finding)
	}
	return result.Phase
}

func logFinding(log *logger.Logger, subject string, finding validate.Finding) {
	fields := []zap.Field{
		zap.String("subject", subject),
		zap.String("lane", string(finding.Lane)),
		zap.String("findingSubject", finding.Subject.String()),
	}
	if finding.Failure != nil {
		fields = append(fields, zap.String("code", finding.Failure.Code))
	}
	switch finding.Severity {
	case validate.SeverityError:
		log.Error(findingMessage(finding), fields...)
	case validate.SeverityWarning:
		log.Warn(findingMessage(finding), fields...)
	default:
		log.Info(findingMessage(finding), fields...)
	}
}

func findingMessage(finding validate.Finding) string {
	if finding.Failure != nil {
		return finding.Failure.Message
	}
	return finding.Note
}
