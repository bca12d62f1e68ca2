// Package jsonl implements the canonical JSONL trace file format of
// spec.md §6: one JSON object per line, carrying a timestamp (`ts`), a
// direction, and the embedded JSON-RPC message (`json`) — readable as
// input to pkg/acp/validate's Driver and writable as the output of a
// captured or synthetic run.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/jsonrpc"
	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// wireEntry is the literal JSON shape of one trace line (spec.md §6):
// `ts`, `direction`, `json`. Timestamp is decoded separately (see
// parseTimestamp) because spec.md §6 accepts two incompatible wire
// representations for it: an ISO-8601 string or a Unix-millisecond
// number. `json` is a string, not a nested object, so that a capturing
// transport can preserve the agent's or client's JSON-RPC bytes
// verbatim rather than re-serializing them through Go's map ordering.
type wireEntry struct {
	Ts        json.RawMessage `json:"ts"`
	Direction string          `json:"direction"`
	JSON      string          `json:"json"`
}

// embeddedMessage is the shape decoded out of wireEntry.JSON: the ACP
// method name and its params/result payload. The embedded JSON-RPC
// message is not a bare request/notification/response envelope — it
// already carries the method a response belongs to, so a reader never
// needs to correlate ids against a pending-request table the way a live
// transport client does.
type embeddedMessage struct {
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload"`
}

// directionAliases normalizes the case-insensitive direction spellings
// spec.md §6 accepts to the two canonical domain.Direction values.
var directionAliases = map[string]domain.Direction{
	"client":     domain.FromClient,
	"fromclient": domain.FromClient,
	"c2a":        domain.FromClient,
	"c->a":       domain.FromClient,
	"agent":      domain.FromAgent,
	"fromagent":  domain.FromAgent,
	"a2c":        domain.FromAgent,
	"a->c":       domain.FromAgent,
}

func parseDirection(s string) (domain.Direction, error) {
	d, ok := directionAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("jsonl: unrecognized direction %q", s)
	}
	return d, nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		t, err := time.Parse(time.RFC3339Nano, asString)
		if err != nil {
			return time.Time{}, fmt.Errorf("jsonl: parse ISO-8601 timestamp %q: %w", asString, err)
		}
		return t, nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err != nil {
		return time.Time{}, fmt.Errorf("jsonl: timestamp is neither a string nor a number: %s", raw)
	}
	ms, err := strconv.ParseInt(asNumber.String(), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("jsonl: parse Unix-millisecond timestamp %q: %w", asNumber, err)
	}
	return time.UnixMilli(ms), nil
}

// ParseLine decodes a single canonical JSONL trace line into a
// validate.Frame. It is the line-at-a-time counterpart to ReadFrames,
// used directly by collaborators (the watch subcommand) that receive
// one line per live transport message rather than a whole file.
func ParseLine(line []byte) (validate.Frame, error) {
	var we wireEntry
	if err := json.Unmarshal(line, &we); err != nil {
		return validate.Frame{}, err
	}
	dir, err := parseDirection(we.Direction)
	if err != nil {
		return validate.Frame{}, err
	}
	if len(we.Ts) > 0 {
		if _, err := parseTimestamp(we.Ts); err != nil {
			return validate.Frame{}, err
		}
	}

	var em embeddedMessage
	if err := json.Unmarshal([]byte(we.JSON), &em); err != nil {
		return validate.Frame{}, fmt.Errorf("decode embedded json-rpc message: %w", err)
	}

	var msg domain.Message
	if dir == domain.FromClient {
		cm, err := jsonrpc.DecodeClientMessage(em.Method, em.Payload)
		if err != nil {
			return validate.Frame{}, err
		}
		msg = domain.NewFromClient(cm)
	} else {
		am, err := jsonrpc.DecodeAgentMessage(em.Method, em.Payload)
		if err != nil {
			return validate.Frame{}, err
		}
		msg = domain.NewFromAgent(am)
	}

	return validate.Frame{Message: msg, RawByteLength: len(line)}, nil
}

// ReadFrames reads a JSONL trace and decodes every entry into a
// validate.Frame. It returns frames for every line it could decode and
// the first decode error encountered, if any; callers that want
// fail-fast behavior should stop at the first non-nil error, and
// callers that want partial results may use the frames already
// collected.
func ReadFrames(r io.Reader) ([]validate.Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frames []validate.Frame
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		frame, err := ParseLine(line)
		if err != nil {
			return frames, fmt.Errorf("jsonl: line %d: %w", lineNo, err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return frames, fmt.Errorf("jsonl: scan: %w", err)
	}
	return frames, nil
}

// WriteFrame appends one frame to w in the canonical JSONL shape,
// stamping it with the given timestamp (ISO-8601, matching the format
// ReadFrames round-trips without loss).
func WriteFrame(w io.Writer, ts time.Time, f validate.Frame) error {
	var method string
	var payload json.RawMessage
	var err error
	var dir domain.Direction

	switch f.Message.Direction {
	case domain.FromClient:
		method, payload, err = jsonrpc.EncodeClientMessage(f.Message.Client)
		dir = domain.FromClient
	case domain.FromAgent:
		method, payload, err = jsonrpc.EncodeAgentMessage(f.Message.Agent)
		dir = domain.FromAgent
	default:
		return fmt.Errorf("jsonl: message has no direction set")
	}
	if err != nil {
		return fmt.Errorf("jsonl: encode frame: %w", err)
	}

	embedded, err := json.Marshal(embeddedMessage{Method: method, Payload: payload})
	if err != nil {
		return fmt.Errorf("jsonl: marshal embedded json-rpc message: %w", err)
	}

	entry := struct {
		Ts        string `json:"ts"`
		Direction string `json:"direction"`
		JSON      string `json:"json"`
	}{
		Ts:        ts.UTC().Format(time.RFC3339Nano),
		Direction: string(dir),
		JSON:      string(embedded),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("jsonl: marshal entry: %w", err)
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
