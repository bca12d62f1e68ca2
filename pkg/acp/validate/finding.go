// Package validate composes the protocol state machine with lane-tagged,
// severity-tagged validation rules (transport, semantic, capability,
// eval, assurance) and yields an ordered list of findings correlated to
// trace positions (spec.md §4.3).
package validate

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

// Lane categorizes a rule.
type Lane string

const (
	LaneProtocol   Lane = "Protocol"
	LaneSession    Lane = "Session"
	LaneTransport  Lane = "Transport"
	LaneSemantic   Lane = "Semantic"
	LaneCapability Lane = "Capability"
	LaneEval       Lane = "Eval"
	LaneAssurance  Lane = "Assurance"
)

// laneRank records the per-index ordering from spec.md §4.3: "Protocol
// findings first, then Transport, then Semantic/Capability, then Eval."
// Semantic and Capability share a rank. Nothing sorts by this table:
// LaneFindings already appends lanes in this order, Semantic before
// Capability.
var laneRank = map[Lane]int{
	LaneProtocol:   0,
	LaneTransport:  1,
	LaneSemantic:   2,
	LaneCapability: 2,
	LaneEval:       3,
	LaneAssurance:  4,
	LaneSession:    4,
}

// Severity is the severity of a finding.
type Severity string

const (
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// SubjectKind discriminates what a finding is about.
type SubjectKind int

const (
	SubjectConnection SubjectKind = iota
	SubjectSession
	SubjectPromptTurn
	SubjectMessageAt
	SubjectToolCall
)

// Subject identifies what a Finding concerns.
type Subject struct {
	Kind         SubjectKind
	SessionID    domain.SessionID
	TurnIndex    int
	MessageIndex int
	Message      domain.Message
	ToolCallID   domain.ToolCallID
}

func ConnectionSubject() Subject { return Subject{Kind: SubjectConnection} }

func SessionSubject(sid domain.SessionID) Subject {
	return Subject{Kind: SubjectSession, SessionID: sid}
}

func PromptTurnSubject(sid domain.SessionID, turn int) Subject {
	return Subject{Kind: SubjectPromptTurn, SessionID: sid, TurnIndex: turn}
}

func MessageAtSubject(index int, m domain.Message) Subject {
	return Subject{Kind: SubjectMessageAt, MessageIndex: index, Message: m}
}

func ToolCallSubject(id domain.ToolCallID) Subject {
	return Subject{Kind: SubjectToolCall, ToolCallID: id}
}

func (s Subject) String() string {
	switch s.Kind {
	case SubjectConnection:
		return "connection"
	case SubjectSession:
		return fmt.Sprintf("session(%s)", s.SessionID)
	case SubjectPromptTurn:
		return fmt.Sprintf("promptTurn(%s, %d)", s.SessionID, s.TurnIndex)
	case SubjectMessageAt:
		return fmt.Sprintf("messageAt(%d, %s)", s.MessageIndex, s.Message.Name())
	case SubjectToolCall:
		return fmt.Sprintf("toolCall(%s)", s.ToolCallID)
	default:
		return "unknown subject"
	}
}

// Failure is the machine-readable half of an Error/Warning finding.
type Failure struct {
	Code    string
	Message string
}

// Finding is one lane-and-severity-tagged verdict. Exactly one of
// Failure or Note is meaningful: Failure for Error/Warning findings,
// Note for Info findings that carry no error code.
type Finding struct {
	Lane       Lane
	Severity   Severity
	Subject    Subject
	Failure    *Failure
	Note       string
	TraceIndex *int
}

func withIndex(i int) *int {
	v := i
	return &v
}

// dedupeKey identifies a finding for the dedup pass in spec.md §4.3
// ("Duplicate findings with identical (lane, severity, code, subject,
// traceIndex) are deduplicated").
func dedupeKey(f Finding) string {
	code := ""
	if f.Failure != nil {
		code = f.Failure.Code
	}
	idx := "-"
	if f.TraceIndex != nil {
		idx = fmt.Sprintf("%d", *f.TraceIndex)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", f.Lane, f.Severity, code, f.Subject.String(), idx)
}

// Dedupe removes findings with identical (lane, severity, code, subject,
// traceIndex), preserving the first occurrence's position.
func Dedupe(findings []Finding) []Finding {
	seen := make(map[string]struct{}, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		key := dedupeKey(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
