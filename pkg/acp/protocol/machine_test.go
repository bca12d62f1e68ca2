package protocol

import (
	"testing"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

func initHandshake() []domain.Message {
	return []domain.Message{
		domain.NewFromClient(domain.Initialize{
			ProtocolVersion: domain.CurrentProtocolVersion,
			ClientCapabilities: domain.ClientCapabilities{
				FS:       domain.FSCapabilities{ReadTextFile: true},
				Terminal: false,
			},
		}),
		domain.NewFromAgent(domain.InitializeResult{
			ProtocolVersion: domain.CurrentProtocolVersion,
			AgentCapabilities: domain.AgentCapabilities{
				LoadSession: true,
			},
		}),
	}
}

func mustAdvance(t *testing.T, s Spec, p Phase, m domain.Message) Phase {
	t.Helper()
	next, err := s.Step(p, m)
	if err != nil {
		t.Fatalf("step(%s, %s): unexpected error: %v", p, m.Name(), err)
	}
	return next
}

func TestHappyHandshake(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	if p.Kind() != PhaseReady {
		t.Fatalf("expected Ready, got %s", p.Kind())
	}
	if len(p.Context().Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(p.Context().Sessions))
	}
}

func TestDuplicateInitializeWhileWaiting(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	p = mustAdvance(t, s, p, initHandshake()[0])

	next, err := s.Step(p, initHandshake()[0])
	if err == nil {
		t.Fatalf("expected DuplicateInitialize error")
	}
	if err.Code() != CodeDuplicateInitialize {
		t.Fatalf("expected %s, got %s", CodeDuplicateInitialize, err.Code())
	}
	if next.Kind() != PhaseWaitingForInitializeResult {
		t.Fatalf("phase must not advance on rejection, got %s", next.Kind())
	}
}

func TestDuplicateInitializeWhileReady(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	_, err := s.Step(p, initHandshake()[0])
	if err == nil || err.Code() != CodeDuplicateInitialize {
		t.Fatalf("expected DuplicateInitialize in Ready, got %v", err)
	}
}

func TestPromptWithoutSession(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	_, err := s.Step(p, domain.NewFromClient(domain.SessionPrompt{SessionID: "s-1"}))
	if err == nil || err.Code() != CodeUnknownSession {
		t.Fatalf("expected UnknownSession, got %v", err)
	}
}

func TestCancelThenStop(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	p = mustAdvance(t, s, p, domain.NewFromClient(domain.SessionNew{}))
	p = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}))
	p = mustAdvance(t, s, p, domain.NewFromClient(domain.SessionPrompt{SessionID: "s-1"}))
	p = mustAdvance(t, s, p, domain.NewFromClient(domain.SessionCancel{SessionID: "s-1"}))
	p = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionPromptResult{SessionID: "s-1", StopReason: domain.StopCancelled}))

	session, ok := p.Context().Session("s-1")
	if !ok {
		t.Fatalf("expected session s-1 to exist")
	}
	if session.Turn.Kind != TurnIdle || session.Turn.LastStopReason != domain.StopCancelled {
		t.Fatalf("expected Idle(Cancelled), got %+v", session.Turn)
	}
}

func TestDoublePrompt(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	p = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}))
	p = mustAdvance(t, s, p, domain.NewFromClient(domain.SessionPrompt{SessionID: "s-1"}))

	next, err := s.Step(p, domain.NewFromClient(domain.SessionPrompt{SessionID: "s-1"}))
	if err == nil || err.Code() != CodePromptAlreadyInFlight {
		t.Fatalf("expected PromptAlreadyInFlight, got %v", err)
	}
	session, _ := next.Context().Session("s-1")
	if session.Turn.Kind != TurnPromptInFlight || session.Turn.Cancelled {
		t.Fatalf("expected session to remain PromptInFlight(false), got %+v", session.Turn)
	}
}

func TestCapabilityViolationDoesNotHaltMachine(t *testing.T) {
	// The machine itself has no notion of capability violations — that's
	// the validate lane's job. Here we only assert that a tool-call session
	// update advances the phase normally regardless of content.
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	p = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}))
	p = mustAdvance(t, s, p, domain.NewFromClient(domain.SessionPrompt{SessionID: "s-1"}))
	_, err := s.Step(p, domain.NewFromAgent(domain.SessionUpdate{
		SessionID: "s-1",
		Update:    domain.ToolCallUpdateVariant{ToolCallUpdate: domain.ToolCallUpdate{Kind: domain.ToolKindWriteTextFile}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmptyTraceEndsAwaitingInitialize(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	if p.Kind() != PhaseAwaitingInitialize {
		t.Fatalf("expected AwaitingInitialize, got %s", p.Kind())
	}
}

func TestSessionLoadResultIdempotent(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	p1 := mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionLoadResult{SessionID: "s-1"}))
	p2 := mustAdvance(t, s, p1, domain.NewFromAgent(domain.SessionLoadResult{SessionID: "s-1"}))

	if len(p1.Context().Sessions) != 1 || len(p2.Context().Sessions) != 1 {
		t.Fatalf("expected exactly one session after repeated load")
	}
}

func TestPermissionRequestRequiresInFlight(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	p = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}))

	_, err := s.Step(p, domain.NewFromAgent(domain.RequestPermission{SessionID: "s-1"}))
	if err == nil || err.Code() != CodeNoPromptInFlight {
		t.Fatalf("expected NoPromptInFlight, got %v", err)
	}
}

func TestOriginalSessionsMapUntouchedByWithSession(t *testing.T) {
	s := NewSpec()
	p := s.Initial()
	for _, m := range initHandshake() {
		p = mustAdvance(t, s, p, m)
	}
	before := p.Context().Sessions
	_ = mustAdvance(t, s, p, domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}))
	if len(before) != 0 {
		t.Fatalf("mutating via withSession must not affect the prior phase's map, got %d entries", len(before))
	}
}
