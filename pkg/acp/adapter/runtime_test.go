package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

func TestRuntimeAdvancesPhaseAcrossHandshake(t *testing.T) {
	r := NewRuntime(validate.DefaultRuntimeProfile(), validate.DefaultEvalProfile())
	phase := protocol.InitialPhase()

	res := r.ValidateInbound(phase, domain.Initialize{ProtocolVersion: domain.CurrentProtocolVersion}, 32)
	require.Equal(t, protocol.PhaseWaitingForInitializeResult, res.Phase.Kind())
	for _, f := range res.Findings {
		assert.NotEqualf(t, validate.SeverityError, f.Severity, "unexpected error finding on valid Initialize: %+v", f)
	}

	res = r.ValidateOutbound(res.Phase, domain.InitializeResult{ProtocolVersion: domain.CurrentProtocolVersion}, 32)
	require.Equal(t, protocol.PhaseReady, res.Phase.Kind())
}

func TestRuntimeRejectionLeavesPhaseUnchanged(t *testing.T) {
	r := NewRuntime(validate.DefaultRuntimeProfile(), validate.DefaultEvalProfile())
	phase := protocol.InitialPhase()

	res := r.ValidateInbound(phase, domain.SessionNew{Cwd: "/tmp"}, 16)
	require.Equal(t, protocol.PhaseAwaitingInitialize, res.Phase.Kind())

	found := false
	for _, f := range res.Findings {
		if f.Lane == validate.LaneProtocol && f.Severity == validate.SeverityError {
			found = true
		}
	}
	assert.Truef(t, found, "expected a Protocol lane error finding, got %+v", res.Findings)
}

func TestRuntimeTransportLaneAppliesPerFrame(t *testing.T) {
	profile := validate.DefaultRuntimeProfile()
	profile.Transport = &validate.TransportProfile{MaxMessageBytes: 8}
	r := NewRuntime(profile, validate.DefaultEvalProfile())

	res := r.ValidateInbound(protocol.InitialPhase(), domain.Initialize{ProtocolVersion: 1}, 4096)
	hasTransport := false
	for _, f := range res.Findings {
		if f.Lane == validate.LaneTransport {
			hasTransport = true
		}
	}
	assert.Truef(t, hasTransport, "expected a Transport lane finding for an oversized frame, got %+v", res.Findings)
}

func TestRuntimeIncrementsTraceIndexAcrossFrames(t *testing.T) {
	r := NewRuntime(validate.DefaultRuntimeProfile(), validate.DefaultEvalProfile())
	phase := protocol.InitialPhase()

	res := r.ValidateInbound(phase, domain.Initialize{ProtocolVersion: domain.CurrentProtocolVersion}, 32)
	require.Equal(t, 1, r.frameSeq, "first frame should be assigned index 0, advancing frameSeq to 1")

	r.ValidateOutbound(res.Phase, domain.InitializeResult{ProtocolVersion: domain.CurrentProtocolVersion}, 32)
	assert.Equal(t, 2, r.frameSeq, "frameSeq should advance by one per frame stepped")
}
