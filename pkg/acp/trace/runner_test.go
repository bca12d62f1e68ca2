package trace

import (
	"testing"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
)

func handshake() []domain.Message {
	return []domain.Message{
		domain.NewFromClient(domain.Initialize{ProtocolVersion: domain.CurrentProtocolVersion}),
		domain.NewFromAgent(domain.InitializeResult{ProtocolVersion: domain.CurrentProtocolVersion}),
	}
}

func TestRunEmptyTrace(t *testing.T) {
	result := Run(protocol.NewSpec(), nil, true)
	if result.FinalPhase.Kind() != protocol.PhaseAwaitingInitialize {
		t.Fatalf("expected AwaitingInitialize, got %s", result.FinalPhase.Kind())
	}
	if len(result.Steps) != 0 {
		t.Fatalf("expected zero steps")
	}
}

func TestRunFailFastHalts(t *testing.T) {
	messages := append(handshake(), domain.NewFromClient(domain.Initialize{}))
	result := Run(protocol.NewSpec(), messages, true)

	if !result.Halted {
		t.Fatalf("expected fail-fast run to halt")
	}
	if result.HaltIndex != 2 {
		t.Fatalf("expected halt at index 2, got %d", result.HaltIndex)
	}
	if result.HaltErr.Code() != protocol.CodeDuplicateInitialize {
		t.Fatalf("expected DuplicateInitialize, got %s", result.HaltErr.Code())
	}
	if result.FinalPhase.Kind() != protocol.PhaseReady {
		t.Fatalf("expected halt phase to be the phase before the offender")
	}
}

func TestRunContinueDoesNotCascade(t *testing.T) {
	messages := append(handshake(),
		domain.NewFromClient(domain.SessionPrompt{SessionID: "missing"}),
		domain.NewFromAgent(domain.SessionNewResult{SessionID: "s-1"}),
	)
	result := Run(protocol.NewSpec(), messages, false)

	if result.Halted {
		t.Fatalf("continue policy must not halt")
	}
	// Step 2 (the bad prompt) is rejected; step 3 is evaluated against the
	// same Ready phase as if step 2 had never happened.
	if result.Steps[2].Outcome.Advanced {
		t.Fatalf("expected step 2 to be rejected")
	}
	if !result.Steps[3].Outcome.Advanced {
		t.Fatalf("expected step 3 to advance despite the preceding rejection: %v", result.Steps[3].Outcome.Err)
	}
	session, ok := result.FinalPhase.Context().Session("s-1")
	if !ok || session.Turn.Kind != protocol.TurnIdle {
		t.Fatalf("expected session s-1 to exist and be Idle, got %+v ok=%v", session, ok)
	}
}

func TestRunDeterministic(t *testing.T) {
	messages := handshake()
	r1 := Run(protocol.NewSpec(), messages, true)
	r2 := Run(protocol.NewSpec(), messages, true)
	if r1.FinalPhase.Kind() != r2.FinalPhase.Kind() {
		t.Fatalf("expected identical outcomes for identical input")
	}
}
