package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

// DecodeClientMessage decodes a request or notification sent by the
// client into a domain.ClientMessage, dispatching on method name.
func DecodeClientMessage(method string, params json.RawMessage) (domain.ClientMessage, error) {
	switch method {
	case MethodInitialize:
		var p InitializeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode initialize params: %w", err)
		}
		return domain.Initialize{
			ProtocolVersion: domain.ProtocolVersion(p.ProtocolVersion),
			ClientCapabilities: domain.ClientCapabilities{
				FS: domain.FSCapabilities{
					ReadTextFile:  p.ClientCapabilities.FS.ReadTextFile,
					WriteTextFile: p.ClientCapabilities.FS.WriteTextFile,
				},
				Terminal: p.ClientCapabilities.Terminal,
			},
		}, nil

	case MethodSessionNew:
		var p SessionNewParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/new params: %w", err)
		}
		return domain.SessionNew{Cwd: p.Cwd}, nil

	case MethodSessionLoad:
		var p SessionLoadParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/load params: %w", err)
		}
		return domain.SessionLoad{SessionID: domain.SessionID(p.SessionID)}, nil

	case MethodSessionPrompt:
		var p SessionPromptParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/prompt params: %w", err)
		}
		blocks := make([]domain.ContentBlock, len(p.Prompt))
		for i, b := range p.Prompt {
			blocks[i] = decodeContentBlock(b)
		}
		return domain.SessionPrompt{SessionID: domain.SessionID(p.SessionID), Prompt: blocks}, nil

	case MethodSessionCancel:
		var p SessionCancelParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/cancel params: %w", err)
		}
		return domain.SessionCancel{SessionID: domain.SessionID(p.SessionID)}, nil

	case MethodSessionSetMode:
		var p SessionSetModeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/set_mode params: %w", err)
		}
		return domain.SetSessionMode{SessionID: domain.SessionID(p.SessionID), ModeID: p.ModeID}, nil

	default:
		return nil, fmt.Errorf("jsonrpc: unknown client method %q", method)
	}
}

// DecodeAgentMessage decodes a request, notification, or response sent
// by the agent into a domain.AgentMessage. method is the originating
// request's method for responses (the caller must track this by id),
// or the notification's own method for session/update.
func DecodeAgentMessage(method string, params json.RawMessage) (domain.AgentMessage, error) {
	switch method {
	case MethodInitialize:
		var r InitializeResult
		if err := json.Unmarshal(params, &r); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode initialize result: %w", err)
		}
		return domain.InitializeResult{
			ProtocolVersion: domain.ProtocolVersion(r.ProtocolVersion),
			AgentCapabilities: domain.AgentCapabilities{
				LoadSession: r.AgentCapabilities.LoadSession,
				MCPCapabilities: domain.MCPCapabilities{
					HTTP: r.AgentCapabilities.MCP.HTTP,
					SSE:  r.AgentCapabilities.MCP.SSE,
				},
				PromptCapabilities: domain.PromptCapabilities{
					Image:           r.AgentCapabilities.PromptCapabilities.Image,
					Audio:           r.AgentCapabilities.PromptCapabilities.Audio,
					EmbeddedContext: r.AgentCapabilities.PromptCapabilities.EmbeddedContext,
				},
			},
		}, nil

	case MethodSessionNew:
		var r SessionNewResult
		if err := json.Unmarshal(params, &r); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/new result: %w", err)
		}
		return domain.SessionNewResult{SessionID: domain.SessionID(r.SessionID)}, nil

	case MethodSessionLoad:
		var r SessionLoadResult
		if err := json.Unmarshal(params, &r); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/load result: %w", err)
		}
		return domain.SessionLoadResult{SessionID: domain.SessionID(r.SessionID)}, nil

	case MethodSessionPrompt:
		var r SessionPromptResult
		if err := json.Unmarshal(params, &r); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/prompt result: %w", err)
		}
		var usage *domain.Usage
		if r.Usage != nil {
			usage = &domain.Usage{InputTokens: r.Usage.InputTokens, OutputTokens: r.Usage.OutputTokens}
		}
		return domain.SessionPromptResult{
			SessionID:  domain.SessionID(r.SessionID),
			StopReason: domain.StopReason(r.StopReason),
			Usage:      usage,
		}, nil

	case MethodSessionUpdate:
		var p SessionUpdateParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/update params: %w", err)
		}
		return domain.SessionUpdate{
			SessionID: domain.SessionID(p.SessionID),
			Update:    decodeUpdateVariant(p, params),
		}, nil

	case MethodRequestPermission:
		var p RequestPermissionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("jsonrpc: decode session/request_permission params: %w", err)
		}
		opts := make([]domain.PermissionOption, len(p.Options))
		for i, o := range p.Options {
			opts[i] = domain.PermissionOption{OptionID: o.OptionID, Name: o.Name, Kind: o.Kind}
		}
		return domain.RequestPermission{
			SessionID: domain.SessionID(p.SessionID),
			ToolCall: domain.ToolCallUpdate{
				ToolCallID: domain.ToolCallID(p.ToolCall.ToolCallID),
				Kind:       domain.ToolKind(p.ToolCall.Kind),
				Title:      p.ToolCall.Title,
				Status:     domain.ToolCallStatus(p.ToolCall.Status),
			},
			Options: opts,
		}, nil

	default:
		return nil, fmt.Errorf("jsonrpc: unknown agent method %q", method)
	}
}

func decodeContentBlock(b ContentBlock) domain.ContentBlock {
	switch b.Type {
	case ContentKindImage:
		return domain.ContentBlock{Kind: domain.ContentImage}
	case ContentKindAudio:
		return domain.ContentBlock{Kind: domain.ContentAudio}
	case ContentKindResource:
		return domain.ContentBlock{Kind: domain.ContentEmbedded}
	default:
		return domain.ContentBlock{Kind: domain.ContentText, Text: b.Text}
	}
}

// decodeUpdateVariant maps the sessionUpdate discriminator to the
// closed set of SessionUpdateVariant implementations, preserving the
// raw payload verbatim for any tag this package does not recognize
// (spec.md §9's "unknown agent->client update" open question).
func decodeUpdateVariant(p SessionUpdateParams, raw json.RawMessage) domain.SessionUpdateVariant {
	switch p.SessionUpdate {
	case UpdateUserMessageChunk:
		return domain.UserMessageChunk{Content: contentOrEmpty(p.Content)}
	case UpdateAgentMessageChunk:
		return domain.AgentMessageChunk{Content: contentOrEmpty(p.Content)}
	case UpdateAgentThoughtChunk:
		return domain.AgentThoughtChunk{Content: contentOrEmpty(p.Content)}
	case UpdateToolCall:
		return domain.ToolCallVariant{ToolCallUpdate: domain.ToolCallUpdate{
			ToolCallID: domain.ToolCallID(p.ToolCallID),
			Kind:       domain.ToolKind(p.Kind),
			Title:      p.Title,
			Status:     domain.ToolCallStatus(p.Status),
		}}
	case UpdateToolCallUpdate:
		return domain.ToolCallUpdateVariant{ToolCallUpdate: domain.ToolCallUpdate{
			ToolCallID: domain.ToolCallID(p.ToolCallID),
			Kind:       domain.ToolKind(p.Kind),
			Title:      p.Title,
			Status:     domain.ToolCallStatus(p.Status),
		}}
	case UpdatePlan:
		entries := make([]domain.PlanEntry, len(p.Entries))
		for i, e := range p.Entries {
			entries[i] = domain.PlanEntry{Content: e.Content, Priority: e.Priority, Status: e.Status}
		}
		return domain.PlanVariant{Entries: entries}
	case UpdateSessionInfo:
		return domain.SessionInfoUpdate{Info: domain.SessionInfoData{Title: p.SessionTitle}}
	case UpdateUsage:
		var usage domain.Usage
		if p.Usage != nil {
			usage = domain.Usage{InputTokens: p.Usage.InputTokens, OutputTokens: p.Usage.OutputTokens}
		}
		return domain.UsageUpdate{Usage: usage}
	default:
		return domain.UnknownUpdate{Name: p.SessionUpdate, Raw: append(json.RawMessage(nil), raw...)}
	}
}

func contentOrEmpty(b *ContentBlock) domain.ContentBlock {
	if b == nil {
		return domain.ContentBlock{Kind: domain.ContentText}
	}
	return decodeContentBlock(*b)
}
