package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

// EncodeClientMessage renders a domain.ClientMessage as its ACP method
// name and wire-shaped params.
func EncodeClientMessage(m domain.ClientMessage) (string, json.RawMessage, error) {
	var method string
	var v any

	switch c := m.(type) {
	case domain.Initialize:
		method = MethodInitialize
		v = InitializeParams{
			ProtocolVersion: int(c.ProtocolVersion),
			ClientCapabilities: wireClientCapabilities{
				FS: wireFSCapabilities{
					ReadTextFile:  c.ClientCapabilities.FS.ReadTextFile,
					WriteTextFile: c.ClientCapabilities.FS.WriteTextFile,
				},
				Terminal: c.ClientCapabilities.Terminal,
			},
		}

	case domain.SessionNew:
		method = MethodSessionNew
		v = SessionNewParams{Cwd: c.Cwd, McpServers: []McpServerEntry{}}

	case domain.SessionLoad:
		method = MethodSessionLoad
		v = SessionLoadParams{SessionID: string(c.SessionID)}

	case domain.SessionPrompt:
		blocks := make([]ContentBlock, len(c.Prompt))
		for i, b := range c.Prompt {
			blocks[i] = encodeContentBlock(b)
		}
		method = MethodSessionPrompt
		v = SessionPromptParams{SessionID: string(c.SessionID), Prompt: blocks}

	case domain.SessionCancel:
		method = MethodSessionCancel
		v = SessionCancelParams{SessionID: string(c.SessionID)}

	case domain.SetSessionMode:
		method = MethodSessionSetMode
		v = SessionSetModeParams{SessionID: string(c.SessionID), ModeID: c.ModeID}

	default:
		return "", nil, fmt.Errorf("jsonrpc: unencodable client message %T", m)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("jsonrpc: marshal %s params: %w", method, err)
	}
	return method, raw, nil
}

// EncodeAgentMessage renders a domain.AgentMessage as its ACP method
// name and wire-shaped result/params.
func EncodeAgentMessage(m domain.AgentMessage) (string, json.RawMessage, error) {
	var method string
	var v any

	switch a := m.(type) {
	case domain.InitializeResult:
		method = MethodInitialize
		v = InitializeResult{
			ProtocolVersion: int(a.ProtocolVersion),
			AgentCapabilities: wireAgentCapabilities{
				LoadSession: a.AgentCapabilities.LoadSession,
				MCP: wireMCPCapabilities{
					HTTP: a.AgentCapabilities.MCPCapabilities.HTTP,
					SSE:  a.AgentCapabilities.MCPCapabilities.SSE,
				},
				PromptCapabilities: wirePromptCapabilities{
					Image:           a.AgentCapabilities.PromptCapabilities.Image,
					Audio:           a.AgentCapabilities.PromptCapabilities.Audio,
					EmbeddedContext: a.AgentCapabilities.PromptCapabilities.EmbeddedContext,
				},
			},
		}

	case domain.SessionNewResult:
		method = MethodSessionNew
		v = SessionNewResult{SessionID: string(a.SessionID)}

	case domain.SessionLoadResult:
		method = MethodSessionLoad
		v = SessionLoadResult{SessionID: string(a.SessionID)}

	case domain.SessionPromptResult:
		var usage *Usage
		if a.Usage != nil {
			usage = &Usage{InputTokens: a.Usage.InputTokens, OutputTokens: a.Usage.OutputTokens}
		}
		method = MethodSessionPrompt
		v = SessionPromptResult{SessionID: string(a.SessionID), StopReason: string(a.StopReason), Usage: usage}

	case domain.SessionUpdate:
		method = MethodSessionUpdate
		v = encodeUpdateParams(a)

	case domain.RequestPermission:
		opts := make([]PermissionOption, len(a.Options))
		for i, o := range a.Options {
			opts[i] = PermissionOption{OptionID: o.OptionID, Name: o.Name, Kind: o.Kind}
		}
		method = MethodRequestPermission
		v = RequestPermissionParams{
			SessionID: string(a.SessionID),
			ToolCall: ToolCallUpdateWire{
				ToolCallID: string(a.ToolCall.ToolCallID),
				Kind:       string(a.ToolCall.Kind),
				Title:      a.ToolCall.Title,
				Status:     string(a.ToolCall.Status),
			},
			Options: opts,
		}

	default:
		return "", nil, fmt.Errorf("jsonrpc: unencodable agent message %T", m)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("jsonrpc: marshal %s payload: %w", method, err)
	}
	return method, raw, nil
}

func encodeContentBlock(b domain.ContentBlock) ContentBlock {
	switch b.Kind {
	case domain.ContentImage:
		return ContentBlock{Type: ContentKindImage}
	case domain.ContentAudio:
		return ContentBlock{Type: ContentKindAudio}
	case domain.ContentEmbedded:
		return ContentBlock{Type: ContentKindResource}
	default:
		return ContentBlock{Type: ContentKindText, Text: b.Text}
	}
}

// encodeUpdateParams flattens a session/update variant onto the wire
// struct. UnknownUpdate only round-trips its discriminator tag, not its
// original payload: re-encoding a captured-but-unrecognized update is not
// a case the replay/bench tooling needs (both build updates from known
// variants), only decode does.
func encodeUpdateParams(u domain.SessionUpdate) SessionUpdateParams {
	p := SessionUpdateParams{SessionID: string(u.SessionID)}
	switch v := u.Update.(type) {
	case domain.UserMessageChunk:
		p.SessionUpdate = UpdateUserMessageChunk
		block := encodeContentBlock(v.Content)
		p.Content = &block
	case domain.AgentMessageChunk:
		p.SessionUpdate = UpdateAgentMessageChunk
		block := encodeContentBlock(v.Content)
		p.Content = &block
	case domain.AgentThoughtChunk:
		p.SessionUpdate = UpdateAgentThoughtChunk
		block := encodeContentBlock(v.Content)
		p.Content = &block
	case domain.ToolCallVariant:
		p.SessionUpdate = UpdateToolCall
		p.ToolCallID = string(v.ToolCallID)
		p.Kind = string(v.Kind)
		p.Title = v.Title
		p.Status = string(v.Status)
	case domain.ToolCallUpdateVariant:
		p.SessionUpdate = UpdateToolCallUpdate
		p.ToolCallID = string(v.ToolCallID)
		p.Kind = string(v.Kind)
		p.Title = v.Title
		p.Status = string(v.Status)
	case domain.PlanVariant:
		p.SessionUpdate = UpdatePlan
		entries := make([]PlanEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = PlanEntry{Content: e.Content, Priority: e.Priority, Status: e.Status}
		}
		p.Entries = entries
	case domain.SessionInfoUpdate:
		p.SessionUpdate = UpdateSessionInfo
		p.SessionTitle = v.Info.Title
	case domain.UsageUpdate:
		p.SessionUpdate = UpdateUsage
		p.Usage = &Usage{InputTokens: v.Usage.InputTokens, OutputTokens: v.Usage.OutputTokens}
	case domain.UnknownUpdate:
		p.SessionUpdate = v.Name
	}
	return p
}
