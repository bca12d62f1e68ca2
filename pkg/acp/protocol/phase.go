// Package protocol implements the pure ACP connection state machine:
// a total function from (Phase, Message) to the next Phase, or a typed
// ProtocolError when the message is illegal in the current phase.
//
// The machine never performs I/O, never blocks, and never panics — see
// spec.md §4.1 and §9 ("State machine as data").
package protocol

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

// PhaseKind discriminates the three connection-level phases.
type PhaseKind int

const (
	PhaseAwaitingInitialize PhaseKind = iota
	PhaseWaitingForInitializeResult
	PhaseReady
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseAwaitingInitialize:
		return "AwaitingInitialize"
	case PhaseWaitingForInitializeResult:
		return "WaitingForInitializeResult"
	case PhaseReady:
		return "Ready"
	default:
		return fmt.Sprintf("PhaseKind(%d)", int(k))
	}
}

// TurnStateKind discriminates a session's two turn states.
type TurnStateKind int

const (
	TurnIdle TurnStateKind = iota
	TurnPromptInFlight
)

func (k TurnStateKind) String() string {
	if k == TurnPromptInFlight {
		return "PromptInFlight"
	}
	return "Idle"
}

// TurnState is Idle(lastStopReason?) or PromptInFlight(cancelled).
// LastStopReason is only meaningful when Kind == TurnIdle; Cancelled is
// only meaningful when Kind == TurnPromptInFlight.
type TurnState struct {
	Kind           TurnStateKind
	LastStopReason domain.StopReason // empty means "no prior stop reason"
	Cancelled      bool
}

// IdleTurn constructs an Idle turn state, optionally carrying the stop
// reason that closed the previous prompt.
func IdleTurn(lastStop domain.StopReason) TurnState {
	return TurnState{Kind: TurnIdle, LastStopReason: lastStop}
}

// PromptInFlightTurn constructs the PromptInFlight case with the given
// cancelled flag. This is ordinary struct construction, not named-argument
// assignment into an existing value — see DESIGN.md's resolution of the
// spec's Open Question about this constructor's apparent syntax.
func PromptInFlightTurn(cancelled bool) TurnState {
	return TurnState{Kind: TurnPromptInFlight, Cancelled: cancelled}
}

// SessionState pairs a session id with its turn state.
type SessionState struct {
	SessionID domain.SessionID
	Turn      TurnState
}

// InitializedContext holds everything known once the connection reaches
// Ready: the negotiated capabilities from both sides, and the live
// session table.
//
// Sessions is treated as an immutable value: every mutation returns a new
// InitializedContext with a shallow-cloned map (see withSession in
// machine.go), never mutates the map a caller may already be holding.
// This is the "mutable hash map guarded by last-write-wins snapshot
// discipline" the spec's design notes call out as an acceptable stand-in
// for a persistent trie at this scale.
type InitializedContext struct {
	ClientInit domain.Initialize
	AgentInit  domain.InitializeResult
	Sessions   map[domain.SessionID]SessionState
}

// Session looks up a session by id.
func (c *InitializedContext) Session(id domain.SessionID) (SessionState, bool) {
	if c == nil {
		return SessionState{}, false
	}
	s, ok := c.Sessions[id]
	return s, ok
}

// Phase is the connection-level state: AwaitingInitialize,
// WaitingForInitializeResult(clientInit), or Ready(InitializedContext).
type Phase struct {
	kind        PhaseKind
	pendingInit domain.Initialize
	ctx         *InitializedContext
}

// InitialPhase is the phase a fresh connection starts in.
func InitialPhase() Phase {
	return Phase{kind: PhaseAwaitingInitialize}
}

// Kind reports which of the three phases p is in.
func (p Phase) Kind() PhaseKind { return p.kind }

// PendingInit returns the client's Initialize params while
// WaitingForInitializeResult. Zero value otherwise.
func (p Phase) PendingInit() domain.Initialize { return p.pendingInit }

// Context returns the InitializedContext while Ready, or nil otherwise.
func (p Phase) Context() *InitializedContext { return p.ctx }

func (p Phase) String() string {
	return p.kind.String()
}
