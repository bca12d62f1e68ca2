package validate

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// semanticLane flags session/update payloads whose variant tag is not one
// of the closed set spec.md §3 names. Severity is gated by
// RuntimeProfile.AllowUnstableFeatures, resolving spec.md §9's open
// question: an agent speaking a newer, unstable update shape is only an
// Info note to a validator that opted in, a Warning otherwise.
func semanticLane(step trace.Step, profile RuntimeProfile) []Finding {
	if !step.Outcome.Advanced || step.Message.Direction != domain.FromAgent {
		return nil
	}
	update, ok := step.Message.Agent.(domain.SessionUpdate)
	if !ok {
		return nil
	}
	unknown, ok := update.Update.(domain.UnknownUpdate)
	if !ok {
		return nil
	}

	severity := SeverityWarning
	if profile.AllowUnstableFeatures {
		severity = SeverityInfo
	}
	idx := step.IndexBefore
	return []Finding{{
		Lane:     LaneSemantic,
		Severity: severity,
		Subject:  MessageAtSubject(idx, step.Message),
		Failure: &Failure{
			Code:    "ACP.SEMANTIC.UNKNOWN_UPDATE_VARIANT",
			Message: fmt.Sprintf("session/update carries unrecognized variant %q", unknown.Name),
		},
		TraceIndex: withIndex(idx),
	}}
}
