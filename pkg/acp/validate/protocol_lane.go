package validate

import "github.com/kandev/acp-sentinel/pkg/acp/trace"

// protocolLane emits exactly one finding per rejected step, per
// spec.md §4.3: "For every Rejected(e), emit exactly one finding."
// canonical(e) is protocol.ProtocolError.Code(), already a stable
// dotted code, so no extra mapping table is needed here.
func protocolLane(step trace.Step) []Finding {
	if step.Outcome.Advanced {
		return nil
	}
	err := step.Outcome.Err
	idx := step.IndexBefore
	return []Finding{{
		Lane:     LaneProtocol,
		Severity: SeverityError,
		Subject:  MessageAtSubject(idx, step.Message),
		Failure: &Failure{
			Code:    string(err.Code()),
			Message: err.Error(),
		},
		TraceIndex: withIndex(idx),
	}}
}
