package validate

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// transportLane applies only the maxMessageBytes policy (spec.md §4.3);
// maxFrameBytes and lineSeparator are tracked by the runtime adapter but
// are informational for the core. A transport warning never blocks the
// state machine from stepping.
func transportLane(step trace.Step, rawByteLength int, profile RuntimeProfile) []Finding {
	if profile.Transport == nil || profile.Transport.MaxMessageBytes <= 0 {
		return nil
	}
	if rawByteLength <= profile.Transport.MaxMessageBytes {
		return nil
	}
	idx := step.IndexBefore
	return []Finding{{
		Lane:     LaneTransport,
		Severity: SeverityWarning,
		Subject:  MessageAtSubject(idx, step.Message),
		Failure: &Failure{
			Code: "ACP.TRANSPORT.MAX_MESSAGE_BYTES_EXCEEDED",
			Message: fmt.Sprintf("message is %d bytes, exceeds policy maximum of %d",
				rawByteLength, profile.Transport.MaxMessageBytes),
		},
		TraceIndex: withIndex(idx),
	}}
}
