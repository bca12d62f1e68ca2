package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kandev/acp-sentinel/internal/common/config"
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/jsonl"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// benchResult is one trace's outcome: how long the driver took and what
// it found. Traces are independent — they share no state (spec.md §5)
// — so the fan-out below needs no synchronization beyond collecting
// results.
type benchResult struct {
	name     string
	elapsed  time.Duration
	frames   int
	errs     int
	warns    int
	infos    int
	halted   bool
	loadErr  error
}

func newBenchCmd(configPath *string) *cobra.Command {
	var synthetic int

	cmd := &cobra.Command{
		Use:   "bench [trace.jsonl ...]",
		Short: "Fan independent trace runs out across goroutines and report timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if len(args) == 0 && synthetic == 0 {
				return fmt.Errorf("bench: supply trace files or --synthetic N")
			}

			var jobs []func() benchResult
			for _, path := range args {
				path := path
				jobs = append(jobs, func() benchResult { return runFileBench(cfg, path) })
			}
			for i := 0; i < synthetic; i++ {
				i := i
				jobs = append(jobs, func() benchResult { return runSyntheticBench(cfg, i) })
			}

			results := make([]benchResult, len(jobs))
			g := new(errgroup.Group)
			for i, job := range jobs {
				i, job := i, job
				g.Go(func() error {
					results[i] = job()
					return nil
				})
			}
			_ = g.Wait()

			var totalElapsed time.Duration
			for _, r := range results {
				if r.loadErr != nil {
					fmt.Printf("%-24s error: %v\n", r.name, r.loadErr)
					continue
				}
				fmt.Printf("%-24s %8s  frames=%-4d errors=%-3d warnings=%-3d info=%-3d halted=%v\n",
					r.name, r.elapsed, r.frames, r.errs, r.warns, r.infos, r.halted)
				totalElapsed += r.elapsed
			}
			fmt.Printf("\n%d trace(s), %s total driver time\n", len(results), totalElapsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&synthetic, "synthetic", 0, "generate N synthetic handshake+prompt traces, in addition to any trace files given")
	return cmd
}

func runFileBench(cfg *config.Config, path string) benchResult {
	f, err := os.Open(path)
	if err != nil {
		return benchResult{name: path, loadErr: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()

	frames, readErr := jsonl.ReadFrames(f)
	if readErr != nil && len(frames) == 0 {
		return benchResult{name: path, loadErr: fmt.Errorf("read: %w", readErr)}
	}

	return runBench(path, frames, cfg.RuntimeProfile(), cfg.EvalProfile())
}

func runSyntheticBench(cfg interface {
	RuntimeProfile() validate.RuntimeProfile
	EvalProfile() validate.EvalProfile
}, index int) benchResult {
	name := fmt.Sprintf("synthetic-%d", index)
	frames := syntheticFrames()
	return runBench(name, frames, cfg.RuntimeProfile(), cfg.EvalProfile())
}

func runBench(name string, frames []validate.Frame, runtime validate.RuntimeProfile, eval validate.EvalProfile) benchResult {
	driver := validate.NewDriver(runtime, eval)

	start := time.Now()
	result := driver.Run(frames, false)
	elapsed := time.Since(start)

	errs, warns, infos := countBySeverity(result.Findings)
	return benchResult{
		name:    name,
		elapsed: elapsed,
		frames:  len(frames),
		errs:    errs,
		warns:   warns,
		infos:   infos,
		halted:  result.Trace.Halted,
	}
}

// syntheticFrames builds one minimal but complete connection: a
// handshake, a session, a single prompt turn, and its result. The
// session identifier is generated with uuid so concurrent synthetic
// traces never collide; the trace contains no tool calls.
func syntheticFrames() []validate.Frame {
	sid := domain.SessionID(uuid.NewString())

	msgs := []domain.Message{
		domain.NewFromClient(domain.Initialize{
			ProtocolVersion: domain.CurrentProtocolVersion,
			ClientCapabilities: domain.ClientCapabilities{
				FS:       domain.FSCapabilities{ReadTextFile: true, WriteTextFile: true},
				Terminal: true,
			},
		}),
		domain.NewFromAgent(domain.InitializeResult{
			ProtocolVersion: domain.CurrentProtocolVersion,
			AgentCapabilities: domain.AgentCapabilities{
				LoadSession: true,
				PromptCapabilities: domain.PromptCapabilities{
					Image: true, Audio: true, EmbeddedContext: true,
				},
			},
		}),
		domain.NewFromClient(domain.SessionNew{Cwd: "/tmp/bench"}),
		domain.NewFromAgent(domain.SessionNewResult{SessionID: sid}),
		domain.NewFromClient(domain.SessionPrompt{
			SessionID: sid,
			Prompt:    []domain.ContentBlock{{Kind: domain.ContentText, Text: "synthetic bench prompt"}},
		}),
		domain.NewFromAgent(domain.SessionUpdate{
			SessionID: sid,
			Update:    domain.AgentMessageChunk{Content: domain.ContentBlock{Kind: domain.ContentText, Text: "ack"}},
		}),
		domain.NewFromAgent(domain.SessionPromptResult{SessionID: sid, StopReason: domain.StopEndTurn}),
	}

	frames := make([]validate.Frame, len(msgs))
	for i, m := range msgs {
		frames[i] = validate.Frame{Message: m, RawByteLength: 64}
	}
	return frames
}
