package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

func TestSniffDistinguishesShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want EnvelopeKind
	}{
		{"request", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`, EnvelopeRequest},
		{"notification", `{"jsonrpc":"2.0","method":"session/update","params":{}}`, EnvelopeNotification},
		{"response", `{"jsonrpc":"2.0","id":1,"result":{}}`, EnvelopeResponse},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Sniff([]byte(c.raw))
			if err != nil {
				t.Fatalf("Sniff: %v", err)
			}
			if got != c.want {
				t.Fatalf("Sniff(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestEncodeDecodeInitializeRoundTrip(t *testing.T) {
	msg := domain.Initialize{
		ProtocolVersion: 1,
		ClientCapabilities: domain.ClientCapabilities{
			FS:       domain.FSCapabilities{ReadTextFile: true, WriteTextFile: false},
			Terminal: true,
		},
	}
	method, raw, err := EncodeClientMessage(msg)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	if method != MethodInitialize {
		t.Fatalf("method = %q, want %q", method, MethodInitialize)
	}

	decoded, err := DecodeClientMessage(method, raw)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if decoded != domain.ClientMessage(msg) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, msg)
	}
}

func TestEncodeDecodeSessionPromptRoundTrip(t *testing.T) {
	msg := domain.SessionPrompt{
		SessionID: "s1",
		Prompt: []domain.ContentBlock{
			{Kind: domain.ContentText, Text: "hello"},
			{Kind: domain.ContentImage},
		},
	}
	method, raw, err := EncodeClientMessage(msg)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	decoded, err := DecodeClientMessage(method, raw)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	got, ok := decoded.(domain.SessionPrompt)
	if !ok {
		t.Fatalf("decoded type = %T, want domain.SessionPrompt", decoded)
	}
	if got.SessionID != msg.SessionID || len(got.Prompt) != len(msg.Prompt) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, msg)
	}
	if got.Prompt[1].Kind != domain.ContentImage {
		t.Fatalf("expected second block to decode as image, got %+v", got.Prompt[1])
	}
}

func TestEncodeDecodeSessionPromptResultPreservesSessionID(t *testing.T) {
	msg := domain.SessionPromptResult{
		SessionID:  "s1",
		StopReason: domain.StopMaxTokens,
		Usage:      &domain.Usage{InputTokens: 10, OutputTokens: 20},
	}
	method, raw, err := EncodeAgentMessage(msg)
	if err != nil {
		t.Fatalf("EncodeAgentMessage: %v", err)
	}
	decoded, err := DecodeAgentMessage(method, raw)
	if err != nil {
		t.Fatalf("DecodeAgentMessage: %v", err)
	}
	got, ok := decoded.(domain.SessionPromptResult)
	if !ok {
		t.Fatalf("decoded type = %T, want domain.SessionPromptResult", decoded)
	}
	if got.SessionID != msg.SessionID || got.StopReason != msg.StopReason {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, msg)
	}
	if got.Usage == nil || *got.Usage != *msg.Usage {
		t.Fatalf("usage round trip mismatch: got %+v, want %+v", got.Usage, msg.Usage)
	}
}

func TestDecodeUnknownUpdateVariantPreservesRaw(t *testing.T) {
	raw := json.RawMessage(`{"sessionId":"s1","sessionUpdate":"future_thing","extra":42}`)
	var p SessionUpdateParams
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	variant := decodeUpdateVariant(p, raw)
	unknown, ok := variant.(domain.UnknownUpdate)
	if !ok {
		t.Fatalf("variant type = %T, want domain.UnknownUpdate", variant)
	}
	if unknown.Name != "future_thing" {
		t.Fatalf("Name = %q, want future_thing", unknown.Name)
	}
	if string(unknown.Raw) != string(raw) {
		t.Fatalf("Raw = %s, want %s", unknown.Raw, raw)
	}
}

func TestEncodeDecodeToolCallUpdate(t *testing.T) {
	msg := domain.SessionUpdate{
		SessionID: "s1",
		Update: domain.ToolCallVariant{ToolCallUpdate: domain.ToolCallUpdate{
			ToolCallID: "tc1",
			Kind:       domain.ToolKindTerminal,
			Title:      "run tests",
			Status:     domain.ToolCallInProgress,
		}},
	}
	method, raw, err := EncodeAgentMessage(msg)
	if err != nil {
		t.Fatalf("EncodeAgentMessage: %v", err)
	}
	if method != MethodSessionUpdate {
		t.Fatalf("method = %q, want %q", method, MethodSessionUpdate)
	}
	decoded, err := DecodeAgentMessage(method, raw)
	if err != nil {
		t.Fatalf("DecodeAgentMessage: %v", err)
	}
	update, ok := decoded.(domain.SessionUpdate)
	if !ok {
		t.Fatalf("decoded type = %T, want domain.SessionUpdate", decoded)
	}
	toolCall, ok := update.Update.(domain.ToolCallVariant)
	if !ok {
		t.Fatalf("update variant = %T, want domain.ToolCallVariant", update.Update)
	}
	if toolCall.Kind != domain.ToolKindTerminal || toolCall.Title != "run tests" {
		t.Fatalf("round trip mismatch: got %+v", toolCall)
	}
}
