package validate

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// assuranceLane summarizes a completed run as connection-level Info
// facts (spec.md §4.3): protocol versions negotiated, how many sessions
// were opened, and the distribution of the stop reasons that closed each
// session's most recent turn (earlier turns of a session are not counted).
// Unlike the other lanes it runs once, over the whole Result, not per
// step, and its findings carry no TraceIndex.
func assuranceLane(result trace.Result) []Finding {
	var findings []Finding

	finalCtx := result.FinalPhase.Context()
	if finalCtx == nil {
		return findings
	}

	findings = append(findings, Finding{
		Lane:     LaneAssurance,
		Severity: SeverityInfo,
		Subject:  ConnectionSubject(),
		Note: fmt.Sprintf("client requested protocol version %d, agent negotiated version %d",
			finalCtx.ClientInit.ProtocolVersion, finalCtx.AgentInit.ProtocolVersion),
	})

	findings = append(findings, Finding{
		Lane:     LaneAssurance,
		Severity: SeverityInfo,
		Subject:  ConnectionSubject(),
		Note:     fmt.Sprintf("connection opened %d session(s)", len(finalCtx.Sessions)),
	})

	stopCounts := map[protocol.TurnStateKind]int{}
	reasonCounts := map[string]int{}
	for _, s := range finalCtx.Sessions {
		stopCounts[s.Turn.Kind]++
		if s.Turn.Kind == protocol.TurnIdle && s.Turn.LastStopReason != "" {
			reasonCounts[string(s.Turn.LastStopReason)]++
		}
	}
	if len(reasonCounts) > 0 {
		findings = append(findings, Finding{
			Lane:     LaneAssurance,
			Severity: SeverityInfo,
			Subject:  ConnectionSubject(),
			Note:     fmt.Sprintf("closed-turn stop reason distribution: %v", reasonCounts),
		})
	}
	if inFlight := stopCounts[protocol.TurnPromptInFlight]; inFlight > 0 {
		findings = append(findings, Finding{
			Lane:     LaneAssurance,
			Severity: SeverityInfo,
			Subject:  ConnectionSubject(),
			Note:     fmt.Sprintf("%d session(s) ended the trace with a prompt still in flight", inFlight),
		})
	}

	return findings
}
