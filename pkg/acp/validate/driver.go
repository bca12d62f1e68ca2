package validate

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kandev/acp-sentinel/internal/common/logger"
	"github.com/kandev/acp-sentinel/internal/common/tracing"
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// Frame is one traced message plus the raw byte length it arrived as on
// the wire, the only extra fact the Transport lane needs that the pure
// domain.Message does not carry.
type Frame struct {
	Message       domain.Message
	RawByteLength int
}

func messages(frames []Frame) []domain.Message {
	out := make([]domain.Message, len(frames))
	for i, f := range frames {
		out[i] = f.Message
	}
	return out
}

// Driver orchestrates the state machine and every validation lane over a
// traced connection (spec.md §4.3: "the driver runs the machine once,
// then every enabled lane against the resulting trace").
type Driver struct {
	spec    protocol.Spec
	Runtime RuntimeProfile
	Eval    EvalProfile

	// Log receives a debug entry at the start and end of each Run call
	// plus one entry per finding, at the level matching its severity and
	// scoped with the finding's lane via logger.WithLane. Defaults to
	// logger.Default() so callers that never set it still get output.
	Log *logger.Logger
}

// NewDriver constructs a Driver with the given profiles.
func NewDriver(runtime RuntimeProfile, eval EvalProfile) *Driver {
	return &Driver{spec: protocol.NewSpec(), Runtime: runtime, Eval: eval, Log: logger.Default()}
}

// Result is the outcome of running the full validation pipeline over a
// trace: the final machine phase, and the deduplicated, lane-ordered
// findings.
type Result struct {
	Trace    trace.Result
	Findings []Finding
}

// Run folds frames through the protocol state machine, then applies
// every lane to the resulting trace in fixed order (Protocol, Transport,
// Semantic, Capability, Eval per step; Assurance once over the whole
// run), then deduplicates. Steps are already in ascending index order
// and lanes are appended per step in lane order, so no explicit sort is
// needed to get the ordering spec.md §4.3 requires.
func (d *Driver) Run(frames []Frame, stopOnError bool) Result {
	log := d.Log
	if log == nil {
		log = logger.Default()
	}

	_, span := tracing.Tracer("acp-sentinel/validate").Start(context.Background(), "Driver.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("acp.frame_count", len(frames)),
		attribute.Bool("acp.stop_on_error", stopOnError),
	)

	log.Debug("driver run starting", zap.Int("frame_count", len(frames)), zap.Bool("stop_on_error", stopOnError))

	tr := trace.Run(d.spec, messages(frames), stopOnError)

	var findings []Finding
	for i, step := range tr.Steps {
		rawLen := 0
		if i < len(frames) {
			rawLen = frames[i].RawByteLength
		}
		findings = append(findings, LaneFindings(step, rawLen, d.Runtime, d.Eval)...)
	}
	findings = append(findings, assuranceLane(tr)...)
	findings = Dedupe(findings)

	for _, f := range findings {
		logFinding(log, f)
	}

	span.SetAttributes(
		attribute.Int("acp.step_count", len(tr.Steps)),
		attribute.Int("acp.finding_count", len(findings)),
		attribute.Bool("acp.halted", tr.Halted),
	)
	log.Debug("driver run complete",
		zap.Int("step_count", len(tr.Steps)),
		zap.Int("finding_count", len(findings)),
		zap.Bool("halted", tr.Halted),
	)

	return Result{Trace: tr, Findings: findings}
}

// logFinding emits one finding at the zap level matching its severity,
// scoped with the lane and (if present) the trace index that produced it.
func logFinding(log *logger.Logger, f Finding) {
	scoped := log.WithLane(string(f.Lane))
	if f.TraceIndex != nil {
		scoped = scoped.WithTraceIndex(*f.TraceIndex)
	}

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
	case SeverityError:
		scoped.Error(msg, fields...)
	case SeverityWarning:
		scoped.Warn(msg, fields...)
	default:
		scoped.Info(msg, fields...)
	}
}

// LaneFindings runs the five per-step lanes (Protocol, Transport,
// Semantic, Capability, Eval) against a single trace.Step, in the fixed
// order spec.md §4.3 requires. It is shared by Driver.Run, which calls
// it once per step of a batch trace, and pkg/acp/adapter, which calls
// it once per live frame.
func LaneFindings(step trace.Step, rawByteLength int, runtime RuntimeProfile, eval EvalProfile) []Finding {
	var findings []Finding
	findings = append(findings, protocolLane(step)...)
	findings = append(findings, transportLane(step, rawByteLength, runtime)...)
	findings = append(findings, semanticLane(step, runtime)...)
	findings = append(findings, capabilityLane(step)...)
	findings = append(findings, evalLane(step, eval)...)
	return findings
}
