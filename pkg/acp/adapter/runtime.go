// Package adapter exposes the validation core as two per-frame
// operations, so an embedding application can stream a live connection
// through the same lanes the batch driver runs, one message at a time,
// without holding the entire trace in memory (spec.md §4.4).
package adapter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kandev/acp-sentinel/internal/common/logger"
	"github.com/kandev/acp-sentinel/internal/common/tracing"
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// StepResult is what one frame produces: the phase after the step (or
// the unchanged phase, on rejection), the findings the frame raised,
// and the message itself for the caller's own bookkeeping.
type StepResult struct {
	Phase    protocol.Phase
	Findings []validate.Finding
	Message  domain.Message
}

// Runtime is the single-frame counterpart to validate.Driver: same
// lane set, same profiles, but one phase-and-message at a time. It is
// not safe for concurrent use by multiple goroutines against the same
// phase — adapters are expected to serialize per connection (spec.md §5).
type Runtime struct {
	spec    protocol.Spec
	Runtime validate.RuntimeProfile
	Eval    validate.EvalProfile

	// Log receives one debug entry per step plus one entry per finding,
	// at the level matching the finding's severity.
	// Defaults to logger.Default() so callers that never set it still
	// get output.
	Log *logger.Logger

	// frameSeq is the number of frames this Runtime has stepped,
	// assigned as each step's trace index — a live connection has no
	// batch trace to derive positions from, so the adapter counts them
	// itself.
	frameSeq int
}

// NewRuntime constructs a Runtime with the given profiles.
func NewRuntime(runtime validate.RuntimeProfile, eval validate.EvalProfile) *Runtime {
	return &Runtime{spec: protocol.NewSpec(), Runtime: runtime, Eval: eval, Log: logger.Default()}
}

// ValidateInbound steps a client→agent message against phase and
// returns the resulting StepResult. It runs the same per-step lanes
// (validate.LaneFindings) that the batch driver runs for each message,
// starting at phase; the once-per-run Assurance lane and the driver's
// deduplication are not applied.
func (r *Runtime) ValidateInbound(phase protocol.Phase, msg domain.ClientMessage, rawByteLength int) StepResult {
	return r.step(phase, domain.NewFromClient(msg), rawByteLength)
}

// ValidateOutbound steps an agent→client message against phase and
// returns the resulting StepResult.
func (r *Runtime) ValidateOutbound(phase protocol.Phase, msg domain.AgentMessage, rawByteLength int) StepResult {
	return r.step(phase, domain.NewFromAgent(msg), rawByteLength)
}

func (r *Runtime) step(phase protocol.Phase, msg domain.Message, rawByteLength int) StepResult {
	log := r.Log
	if log == nil {
		log = logger.Default()
	}

	index := r.frameSeq
	r.frameSeq++

	_, span := tracing.Tracer("acp-sentinel/adapter").Start(context.Background(), "Runtime.step")
	defer span.End()
	span.SetAttributes(
		attribute.Int("acp.frame_index", index),
		attribute.String("acp.direction", string(msg.Direction)),
		attribute.String("acp.message", msg.Name()),
	)

	next, err := r.spec.Step(phase, msg)

	var outcome trace.Outcome
	if err != nil {
		outcome = trace.Outcome{Advanced: false, Phase: phase, Err: err}
		next = phase
	} else {
		outcome = trace.Outcome{Advanced: true, Phase: next}
	}
	span.SetAttributes(attribute.Bool("acp.rejected", err != nil))

	step := trace.Step{IndexBefore: index, PhaseBefore: phase, Message: msg, Outcome: outcome}
	findings := validate.LaneFindings(step, rawByteLength, r.Runtime, r.Eval)
	span.SetAttributes(attribute.Int("acp.finding_count", len(findings)))

	scopedLog := log.WithTraceIndex(index)
	scopedLog.Debug("frame stepped",
		zap.String("direction", string(msg.Direction)),
		zap.String("message", msg.Name()),
		zap.Bool("rejected", err != nil),
		zap.Int("finding_count", len(findings)),
	)
	for _, f := range findings {
		logStepFinding(scopedLog, f)
	}

	return StepResult{Phase: next, Findings: findings, Message: msg}
}

// logStepFinding emits one per-frame finding at the zap level matching
// its severity, scoped with the finding's lane.
func logStepFinding(log *logger.Logger, f validate.Finding) {
	scoped := log.WithLane(string(f.Lane))

	code := ""
	msg := f.Note
	if f.Failure != nil {
		code = f.Failure.Code
		msg = f.Failure.Message
	}
	fields := []zap.Field{zap.String("subject", f.Subject.String())}
	if code != "" {
		fields = append(fields, zap.String("code", code))
	}

	switch f.Severity {
	case validate.SeverityError:
		scoped.Error(msg, fields...)
	case validate.SeverityWarning:
		scoped.Warn(msg, fields...)
	default:
		scoped.Info(msg, fields...)
	}
}
