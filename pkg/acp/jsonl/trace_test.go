package jsonl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

func TestReadFramesAcceptsDirectionAliasesAndTimestampFormats(t *testing.T) {
	input := strings.Join([]string{
		`{"ts":"2026-01-01T00:00:00Z","direction":"client","json":"{\"method\":\"initialize\",\"payload\":{\"protocolVersion\":1,\"clientCapabilities\":{\"fs\":{\"readTextFile\":true,\"writeTextFile\":true},\"terminal\":true}}}"}`,
		`{"ts":1735689601000,"direction":"A2C","json":"{\"method\":\"initialize\",\"payload\":{\"protocolVersion\":1,\"agentCapabilities\":{\"loadSession\":true}}}"}`,
	}, "\n")

	frames, err := ReadFrames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Message.Direction != domain.FromClient {
		t.Fatalf("expected first frame fromClient, got %s", frames[0].Message.Direction)
	}
	if frames[1].Message.Direction != domain.FromAgent {
		t.Fatalf("expected second frame fromAgent (A2C alias), got %s", frames[1].Message.Direction)
	}
}

func TestReadFramesSkipsBlankLines(t *testing.T) {
	input := "\n\n" + `{"ts":"2026-01-01T00:00:00Z","direction":"client","json":"{\"method\":\"session/new\",\"payload\":{\"cwd\":\"/tmp\",\"mcpServers\":[]}}"}` + "\n\n"
	frames, err := ReadFrames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
}

func TestReadFramesRejectsUnknownDirection(t *testing.T) {
	input := `{"ts":"2026-01-01T00:00:00Z","direction":"sideways","json":"{\"method\":\"initialize\",\"payload\":{}}"}`
	_, err := ReadFrames(strings.NewReader(input))
	if err == nil {
		t.Fatalf("expected an error for an unrecognized direction")
	}
}

func TestWriteThenReadFrameRoundTrips(t *testing.T) {
	frame := validate.Frame{Message: domain.NewFromClient(domain.SessionCancel{SessionID: "s1"})}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	frames, err := ReadFrames(&buf)
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	got, ok := frames[0].Message.Client.(domain.SessionCancel)
	if !ok {
		t.Fatalf("decoded type = %T, want domain.SessionCancel", frames[0].Message.Client)
	}
	if got.SessionID != "s1" {
		t.Fatalf("SessionID = %q, want s1", got.SessionID)
	}
}

func TestWriteFrameProducesCanonicalFieldNames(t *testing.T) {
	frame := validate.Frame{Message: domain.NewFromClient(domain.SessionCancel{SessionID: "s1"})}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	line := buf.String()
	for _, field := range []string{`"ts":`, `"direction":`, `"json":`} {
		if !strings.Contains(line, field) {
			t.Fatalf("expected canonical field %s in line %s", field, line)
		}
	}
}
