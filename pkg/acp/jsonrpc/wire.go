package jsonrpc

// Wire-format structs for the ACP method params/results. Field names and
// enum string values match the pack's real ACP usage rather than
// inventing a new vocabulary (see diane-assistant-diane's stdio client).

type wireFSCapabilities struct {
	ReadTextFile  bool `json:"readTextFile"`
	WriteTextFile bool `json:"writeTextFile"`
}

type wireClientCapabilities struct {
	FS       wireFSCapabilities `json:"fs"`
	Terminal bool               `json:"terminal"`
}

type wireMCPCapabilities struct {
	HTTP bool `json:"http"`
	SSE  bool `json:"sse"`
}

type wirePromptCapabilities struct {
	Image           bool `json:"image"`
	Audio           bool `json:"audio"`
	EmbeddedContext bool `json:"embeddedContext"`
}

type wireAgentCapabilities struct {
	LoadSession        bool                   `json:"loadSession"`
	MCP                wireMCPCapabilities    `json:"mcp"`
	PromptCapabilities wirePromptCapabilities `json:"promptCapabilities"`
}

// InitializeParams is the wire shape of the client's initialize request.
type InitializeParams struct {
	ProtocolVersion    int                    `json:"protocolVersion"`
	ClientCapabilities wireClientCapabilities `json:"clientCapabilities"`
}

// InitializeResult is the wire shape of the agent's initialize response.
type InitializeResult struct {
	ProtocolVersion   int                   `json:"protocolVersion"`
	AgentCapabilities wireAgentCapabilities `json:"agentCapabilities"`
}

// SessionNewParams is the wire shape of session/new.
type SessionNewParams struct {
	Cwd        string           `json:"cwd"`
	McpServers []McpServerEntry `json:"mcpServers"`
}

// McpServerEntry is one configured MCP server, stdio or remote.
type McpServerEntry struct {
	Name    string   `json:"name"`
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	URL     string   `json:"url,omitempty"`
	Type    string   `json:"type,omitempty"`
}

// SessionNewResult is the wire shape of session/new's result.
type SessionNewResult struct {
	SessionID string `json:"sessionId"`
}

// SessionLoadParams is the wire shape of session/load.
type SessionLoadParams struct {
	SessionID string `json:"sessionId"`
}

// SessionLoadResult is the wire shape of session/load's result.
type SessionLoadResult struct {
	SessionID string `json:"sessionId"`
}

// ContentBlock is the wire shape of one prompt/update content block.
type ContentBlock struct {
	Type string `json:"type"` // "text", "image", "audio", "resource"
	Text string `json:"text,omitempty"`
}

// SessionPromptParams is the wire shape of session/prompt.
type SessionPromptParams struct {
	SessionID string         `json:"sessionId"`
	Prompt    []ContentBlock `json:"prompt"`
}

// SessionPromptResult is the wire shape of session/prompt's result.
//
// Real ACP responses correlate to their session purely through the
// JSON-RPC request id, but the canonical JSONL trace format (spec.md
// §6) and this package's decode contract work one message at a time
// with no pending-request table, so sessionId is carried explicitly
// here — a transport-level adapter speaking wire-exact JSON-RPC may
// omit it on the outbound response and recover it from its own id
// correlation instead.
type SessionPromptResult struct {
	SessionID  string `json:"sessionId"`
	StopReason string `json:"stopReason"`
	Usage      *Usage `json:"usage,omitempty"`
}

// Usage is the wire shape of token accounting.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// SessionCancelParams is the wire shape of the session/cancel notification.
type SessionCancelParams struct {
	SessionID string `json:"sessionId"`
}

// SessionSetModeParams is the wire shape of session/set_mode.
type SessionSetModeParams struct {
	SessionID string `json:"sessionId"`
	ModeID    string `json:"modeId"`
}

// SessionUpdateParams is the wire shape of the session/update
// notification. It is a flat object: sessionUpdate discriminates which
// of the remaining fields are meaningful, matching how the real
// protocol encodes its tagged union (no nested "data" envelope).
// encodeUpdateParams in encode.go fills it and decodeUpdateVariant in
// decode.go reads it, each setting or reading only the fields that the
// SessionUpdate value makes meaningful; JSON uses the struct tags below.
type SessionUpdateParams struct {
	SessionID     string         `json:"sessionId"`
	SessionUpdate string         `json:"sessionUpdate"`
	Content       *ContentBlock  `json:"content,omitempty"`
	ToolCallID    string         `json:"toolCallId,omitempty"`
	Kind          string         `json:"kind,omitempty"`
	Title         string         `json:"title,omitempty"`
	Status        string         `json:"status,omitempty"`
	Entries       []PlanEntry    `json:"entries,omitempty"`
	SessionTitle  string         `json:"sessionTitle,omitempty"`
	Usage         *Usage         `json:"usage,omitempty"`
}

// PlanEntry is the wire shape of one plan step.
type PlanEntry struct {
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// RequestPermissionParams is the wire shape of session/request_permission.
type RequestPermissionParams struct {
	SessionID string             `json:"sessionId"`
	ToolCall  ToolCallUpdateWire `json:"toolCall"`
	Options   []PermissionOption `json:"options"`
}

// ToolCallUpdateWire is the wire shape of a tool call summary embedded
// in a permission request.
type ToolCallUpdateWire struct {
	ToolCallID string `json:"toolCallId"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Status     string `json:"status"`
}

// PermissionOption is the wire shape of one permission choice.
type PermissionOption struct {
	OptionID string `json:"optionId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

// RequestPermissionResult is the wire shape of the response to
// session/request_permission.
type RequestPermissionResult struct {
	OptionID string `json:"optionId"`
}

// Session-update discriminator values.
const (
	UpdateUserMessageChunk  = "user_message_chunk"
	UpdateAgentMessageChunk = "agent_message_chunk"
	UpdateAgentThoughtChunk = "agent_thought_chunk"
	UpdateToolCall          = "tool_call"
	UpdateToolCallUpdate    = "tool_call_update"
	UpdatePlan              = "plan"
	UpdateSessionInfo       = "session_info_update"
	UpdateUsage             = "usage_update"
)

// Content block kind values.
const (
	ContentKindText     = "text"
	ContentKindImage    = "image"
	ContentKindAudio    = "audio"
	ContentKindResource = "resource"
)

// Stop reason wire values.
const (
	StopReasonEndTurn         = "end_turn"
	StopReasonMaxTokens       = "max_tokens"
	StopReasonMaxTurnRequests = "max_turn_requests"
	StopReasonRefusal         = "refusal"
	StopReasonCancelled       = "cancelled"
)

// Tool kind wire values.
const (
	ToolKindReadTextFile  = "fs/read_text_file"
	ToolKindWriteTextFile = "fs/write_text_file"
	ToolKindTerminal      = "terminal"
	ToolKindOther         = "other"
)
