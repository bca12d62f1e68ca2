// Package trace folds a sequence of ACP messages through the protocol
// state machine, recording per-step outcomes for later rendering as
// validation findings (spec.md §4.2).
package trace

import (
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
)

// Outcome is what happened when a message was stepped against a phase:
// either the phase advanced, or the step was rejected and the prior
// phase carries forward unchanged.
type Outcome struct {
	Advanced bool
	Phase    protocol.Phase
	Err      protocol.ProtocolError
}

// Step records one fold iteration: the phase before the message, the
// message itself, and its outcome.
type Step struct {
	IndexBefore int
	PhaseBefore protocol.Phase
	Message     domain.Message
	Outcome     Outcome
}

// Result is the outcome of folding an entire trace.
type Result struct {
	Steps      []Step
	FinalPhase protocol.Phase

	// Halted is true only under the fail-fast policy, when a rejection
	// stopped the fold before the trace was exhausted.
	Halted    bool
	HaltIndex int
	HaltErr   protocol.ProtocolError
}

// Run folds spec.Step over messages starting from spec.Initial().
//
// Under stopOnError=true (fail-fast), the fold halts at the first
// rejection; Result.Halted, HaltIndex, and HaltErr describe it, and
// FinalPhase is the phase immediately before the offending message.
//
// Under stopOnError=false (continue), every message is stepped: a
// rejection is recorded in Steps but does not advance the phase, so
// subsequent messages are evaluated against the same phase that
// preceded the rejected one. This is what lets a single run surface
// multiple independent findings instead of cascading one failure into
// a string of spurious ones (spec.md §4.2, §4.4 "Failure semantics").
func Run(spec protocol.Spec, messages []domain.Message, stopOnError bool) Result {
	phase := spec.Initial()
	result := Result{Steps: make([]Step, 0, len(messages))}

	for i, m := range messages {
		before := phase
		next, err := spec.Step(before, m)

		if err != nil {
			result.Steps = append(result.Steps, Step{
				IndexBefore: i,
				PhaseBefore: before,
				Message:     m,
				Outcome:     Outcome{Advanced: false, Err: err},
			})
			if stopOnError {
				result.Halted = true
				result.HaltIndex = i
				result.HaltErr = err
				result.FinalPhase = before
				return result
			}
			continue
		}

		result.Steps = append(result.Steps, Step{
			IndexBefore: i,
			PhaseBefore: before,
			Message:     m,
			Outcome:     Outcome{Advanced: true, Phase: next},
		})
		phase = next
	}

	result.FinalPhase = phase
	return result
}
