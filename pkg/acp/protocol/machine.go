package protocol

import "github.com/kandev/acp-sentinel/pkg/acp/domain"

// Spec bundles the machine's initial phase and its step function, so
// tests and alternative front ends can drive it without coupling to the
// validator (spec.md §9 "State machine as data").
type Spec struct{}

// NewSpec returns the one and only machine specification.
func NewSpec() Spec { return Spec{} }

// Initial returns the phase a fresh connection starts in.
func (Spec) Initial() Phase { return InitialPhase() }

// Step is the pure transition function. It never mutates p or m; on
// success it returns the next phase and a nil error. On rejection it
// returns p unchanged and a non-nil ProtocolError — callers must not
// advance past a rejected message (see pkg/acp/trace for the fold that
// relies on this).
func (s Spec) Step(p Phase, m domain.Message) (Phase, ProtocolError) {
	switch p.kind {
	case PhaseAwaitingInitialize:
		return stepAwaitingInitialize(p, m)
	case PhaseWaitingForInitializeResult:
		return stepWaitingForInitializeResult(p, m)
	case PhaseReady:
		return stepReady(p, m)
	default:
		return p, &UnexpectedMessageError{Phase: p, Message: m}
	}
}

func stepAwaitingInitialize(p Phase, m domain.Message) (Phase, ProtocolError) {
	if m.Direction == domain.FromClient {
		if init, ok := m.Client.(domain.Initialize); ok {
			return Phase{kind: PhaseWaitingForInitializeResult, pendingInit: init}, nil
		}
	}
	return p, &UnexpectedMessageError{Phase: p, Message: m}
}

func stepWaitingForInitializeResult(p Phase, m domain.Message) (Phase, ProtocolError) {
	if m.Direction == domain.FromClient {
		if _, ok := m.Client.(domain.Initialize); ok {
			return p, &DuplicateInitializeError{}
		}
		return p, &UnexpectedMessageError{Phase: p, Message: m}
	}

	if result, ok := m.Agent.(domain.InitializeResult); ok {
		ctx := &InitializedContext{
			ClientInit: p.pendingInit,
			AgentInit:  result,
			Sessions:   map[domain.SessionID]SessionState{},
		}
		return Phase{kind: PhaseReady, ctx: ctx}, nil
	}
	return p, &InitializeResultWithoutRequestError{Message: m}
}

func stepReady(p Phase, m domain.Message) (Phase, ProtocolError) {
	if m.Direction == domain.FromClient {
		if _, ok := m.Client.(domain.Initialize); ok {
			return p, &DuplicateInitializeError{}
		}
		return stepReadyClient(p, m)
	}
	return stepReadyAgent(p, m)
}

func stepReadyClient(p Phase, m domain.Message) (Phase, ProtocolError) {
	switch c := m.Client.(type) {
	case domain.SessionNew:
		// Does not change state; the corresponding SessionNewResult creates
		// the session entry (spec.md §4.1 "Session creation").
		return p, nil

	case domain.SessionLoad:
		return p, nil

	case domain.SessionPrompt:
		session, ok := p.ctx.Session(c.SessionID)
		if !ok {
			return p, &UnknownSessionError{SessionID: c.SessionID}
		}
		if session.Turn.Kind == TurnPromptInFlight {
			return p, &PromptAlreadyInFlightError{SessionID: c.SessionID}
		}
		session.Turn = PromptInFlightTurn(false)
		return p.withSession(session), nil

	case domain.SessionCancel:
		session, ok := p.ctx.Session(c.SessionID)
		if !ok {
			return p, &UnknownSessionError{SessionID: c.SessionID}
		}
		if session.Turn.Kind != TurnPromptInFlight {
			return p, &NoPromptInFlightError{SessionID: c.SessionID}
		}
		session.Turn = PromptInFlightTurn(true)
		return p.withSession(session), nil

	case domain.SetSessionMode:
		// Not explicitly itemized among the named transition rules; treated
		// consistently with the invariant that any sid-bearing message
		// against an absent session fails, and otherwise leaves state
		// unchanged (it carries no turn-state implications).
		if _, ok := p.ctx.Session(c.SessionID); !ok {
			return p, &UnknownSessionError{SessionID: c.SessionID}
		}
		return p, nil

	default:
		return p, &UnexpectedMessageError{Phase: p, Message: m}
	}
}

func stepReadyAgent(p Phase, m domain.Message) (Phase, ProtocolError) {
	switch a := m.Agent.(type) {
	case domain.SessionNewResult:
		if _, ok := p.ctx.Session(a.SessionID); ok {
			return p, &SessionAlreadyExistsError{SessionID: a.SessionID}
		}
		return p.withSession(SessionState{SessionID: a.SessionID, Turn: IdleTurn("")}), nil

	case domain.SessionLoadResult:
		if _, ok := p.ctx.Session(a.SessionID); ok {
			// Idempotent: loading an already-known session leaves it unchanged.
			return p, nil
		}
		return p.withSession(SessionState{SessionID: a.SessionID, Turn: IdleTurn("")}), nil

	case domain.SessionPromptResult:
		session, ok := p.ctx.Session(a.SessionID)
		if !ok {
			return p, &UnknownSessionError{SessionID: a.SessionID}
		}
		if session.Turn.Kind != TurnPromptInFlight {
			return p, &NoPromptInFlightError{SessionID: a.SessionID}
		}
		session.Turn = IdleTurn(a.StopReason)
		return p.withSession(session), nil

	case domain.SessionUpdate:
		if _, ok := p.ctx.Session(a.SessionID); !ok {
			return p, &UnknownSessionError{SessionID: a.SessionID}
		}
		// Accepted in any turn state: covers both live streaming and replay
		// on load (spec.md §4.1 "Streaming and permission").
		return p, nil

	case domain.RequestPermission:
		session, ok := p.ctx.Session(a.SessionID)
		if !ok {
			return p, &UnknownSessionError{SessionID: a.SessionID}
		}
		if session.Turn.Kind != TurnPromptInFlight {
			return p, &NoPromptInFlightError{SessionID: a.SessionID}
		}
		return p, nil

	default:
		return p, &UnexpectedMessageError{Phase: p, Message: m}
	}
}

// withSession returns a new Ready phase with session inserted/updated,
// leaving the receiver (and its Sessions map) untouched.
func (p Phase) withSession(session SessionState) Phase {
	next := &InitializedContext{
		ClientInit: p.ctx.ClientInit,
		AgentInit:  p.ctx.AgentInit,
		Sessions:   make(map[domain.SessionID]SessionState, len(p.ctx.Sessions)+1),
	}
	for k, v := range p.ctx.Sessions {
		next.Sessions[k] = v
	}
	next.Sessions[session.SessionID] = session
	return Phase{kind: PhaseReady, ctx: next}
}
