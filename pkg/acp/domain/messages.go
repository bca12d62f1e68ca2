package domain

import "encoding/json"

// ContentBlockKind is the discriminator of a ContentBlock.
type ContentBlockKind string

const (
	ContentText     ContentBlockKind = "text"
	ContentImage    ContentBlockKind = "image"
	ContentAudio    ContentBlockKind = "audio"
	ContentEmbedded ContentBlockKind = "embedded"
)

// ContentBlock is one block of prompt or message content. Only Text is
// interpreted by the core; Image/Audio/Embedded payloads are opaque beyond
// their Kind.
type ContentBlock struct {
	Kind ContentBlockKind
	Text string
}

// PlanEntry is one step of an agent's plan.
type PlanEntry struct {
	Content  string
	Priority string
	Status   string
}

// Usage reports token accounting for a prompt turn.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// PermissionOption is one choice offered to the user in a permission request.
type PermissionOption struct {
	OptionID string
	Name     string
	Kind     string // allow_once, allow_always, reject_once, reject_always
}

// ToolCallUpdate describes a tool call, either as a standalone session
// update or embedded in a RequestPermission.
type ToolCallUpdate struct {
	ToolCallID ToolCallID
	Kind       ToolKind
	Title      string
	Status     ToolCallStatus
}

// SessionInfoData carries session metadata surfaced mid-stream.
type SessionInfoData struct {
	Title string
}

// ClientMessage is implemented only by the closed set of client→agent
// message variants named in spec.md §3.
type ClientMessage interface {
	clientMessage()
	fmt() string
}

type Initialize struct {
	ProtocolVersion    ProtocolVersion
	ClientCapabilities ClientCapabilities
}

func (Initialize) clientMessage() {}
func (Initialize) fmt() string    { return "Initialize" }

type SessionNew struct {
	Cwd string
}

func (SessionNew) clientMessage() {}
func (SessionNew) fmt() string    { return "SessionNew" }

type SessionLoad struct {
	SessionID SessionID
}

func (SessionLoad) clientMessage() {}
func (SessionLoad) fmt() string    { return "SessionLoad" }

type SessionPrompt struct {
	SessionID SessionID
	Prompt    []ContentBlock
}

func (SessionPrompt) clientMessage() {}
func (SessionPrompt) fmt() string    { return "SessionPrompt" }

type SessionCancel struct {
	SessionID SessionID
}

func (SessionCancel) clientMessage() {}
func (SessionCancel) fmt() string    { return "SessionCancel" }

type SetSessionMode struct {
	SessionID SessionID
	ModeID    string
}

func (SetSessionMode) clientMessage() {}
func (SetSessionMode) fmt() string    { return "SetSessionMode" }

// AgentMessage is implemented only by the closed set of agent→client
// message variants named in spec.md §3.
type AgentMessage interface {
	agentMessage()
	fmt() string
}

type InitializeResult struct {
	ProtocolVersion   ProtocolVersion
	AgentCapabilities AgentCapabilities
}

func (InitializeResult) agentMessage() {}
func (InitializeResult) fmt() string    { return "InitializeResult" }

type SessionNewResult struct {
	SessionID SessionID
}

func (SessionNewResult) agentMessage() {}
func (SessionNewResult) fmt() string    { return "SessionNewResult" }

type SessionLoadResult struct {
	SessionID SessionID
}

func (SessionLoadResult) agentMessage() {}
func (SessionLoadResult) fmt() string    { return "SessionLoadResult" }

type SessionPromptResult struct {
	SessionID  SessionID
	StopReason StopReason
	Usage      *Usage
}

func (SessionPromptResult) agentMessage() {}
func (SessionPromptResult) fmt() string    { return "SessionPromptResult" }

// SessionUpdateVariant is the closed sum of session/update payload shapes.
type SessionUpdateVariant interface {
	sessionUpdateVariant()
	variantName() string
}

type UserMessageChunk struct{ Content ContentBlock }

func (UserMessageChunk) sessionUpdateVariant() {}
func (UserMessageChunk) variantName() string   { return "user_message_chunk" }

type AgentMessageChunk struct{ Content ContentBlock }

func (AgentMessageChunk) sessionUpdateVariant() {}
func (AgentMessageChunk) variantName() string   { return "agent_message_chunk" }

type AgentThoughtChunk struct{ Content ContentBlock }

func (AgentThoughtChunk) sessionUpdateVariant() {}
func (AgentThoughtChunk) variantName() string   { return "agent_thought_chunk" }

type ToolCallVariant struct{ ToolCallUpdate }

func (ToolCallVariant) sessionUpdateVariant() {}
func (ToolCallVariant) variantName() string   { return "tool_call" }

type ToolCallUpdateVariant struct{ ToolCallUpdate }

func (ToolCallUpdateVariant) sessionUpdateVariant() {}
func (ToolCallUpdateVariant) variantName() string   { return "tool_call_update" }

type PlanVariant struct{ Entries []PlanEntry }

func (PlanVariant) sessionUpdateVariant() {}
func (PlanVariant) variantName() string   { return "plan" }

type SessionInfoUpdate struct{ Info SessionInfoData }

func (SessionInfoUpdate) sessionUpdateVariant() {}
func (SessionInfoUpdate) variantName() string   { return "session_info_update" }

type UsageUpdate struct{ Usage Usage }

func (UsageUpdate) sessionUpdateVariant() {}
func (UsageUpdate) variantName() string   { return "usage_update" }

// UnknownUpdate preserves an unrecognized session/update variant verbatim
// so callers can still inspect the raw payload.
type UnknownUpdate struct {
	Name string
	Raw  json.RawMessage
}

func (UnknownUpdate) sessionUpdateVariant() {}
func (u UnknownUpdate) variantName() string { return u.Name }

type SessionUpdate struct {
	SessionID SessionID
	Update    SessionUpdateVariant
}

func (SessionUpdate) agentMessage() {}
func (SessionUpdate) fmt() string    { return "SessionUpdate" }

type RequestPermission struct {
	SessionID SessionID
	ToolCall  ToolCallUpdate
	Options   []PermissionOption
}

func (RequestPermission) agentMessage() {}
func (RequestPermission) fmt() string    { return "RequestPermission" }

// Message is the top-level tagged sum: exactly one of Client or Agent is
// set, selected by Direction.
type Message struct {
	Direction Direction
	Client    ClientMessage
	Agent     AgentMessage
}

// NewFromClient wraps a client→agent message.
func NewFromClient(m ClientMessage) Message {
	return Message{Direction: FromClient, Client: m}
}

// NewFromAgent wraps an agent→client message.
func NewFromAgent(m AgentMessage) Message {
	return Message{Direction: FromAgent, Agent: m}
}

// Name returns the variant's short name, used in error messages and findings.
func (m Message) Name() string {
	switch m.Direction {
	case FromClient:
		if m.Client == nil {
			return "<nil client message>"
		}
		return m.Client.fmt()
	case FromAgent:
		if m.Agent == nil {
			return "<nil agent message>"
		}
		return m.Agent.fmt()
	default:
		return "<unknown direction>"
	}
}

// SessionID returns the session id carried by m, if any.
func (m Message) SessionID() (SessionID, bool) {
	switch m.Direction {
	case FromClient:
		switch c := m.Client.(type) {
		case SessionLoad:
			return c.SessionID, true
		case SessionPrompt:
			return c.SessionID, true
		case SessionCancel:
			return c.SessionID, true
		case SetSessionMode:
			return c.SessionID, true
		}
	case FromAgent:
		switch a := m.Agent.(type) {
		case SessionNewResult:
			return a.SessionID, true
		case SessionLoadResult:
			return a.SessionID, true
		case SessionPromptResult:
			return a.SessionID, true
		case SessionUpdate:
			return a.SessionID, true
		case RequestPermission:
			return a.SessionID, true
		}
	}
	return "", false
}
