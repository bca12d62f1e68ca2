package domain

// FSCapabilities describes which filesystem operations the client exposes
// to the agent.
type FSCapabilities struct {
	ReadTextFile  bool
	WriteTextFile bool
}

// ClientCapabilities is the capability vector a client advertises in its
// initialize request.
type ClientCapabilities struct {
	FS       FSCapabilities
	Terminal bool
}

// MCPCapabilities describes which MCP transports the agent can speak.
type MCPCapabilities struct {
	HTTP bool
	SSE  bool
}

// PromptCapabilities describes which content block kinds an agent accepts
// in a prompt.
type PromptCapabilities struct {
	Audio           bool
	Image           bool
	EmbeddedContext bool
}

// AgentCapabilities is the capability vector an agent advertises in its
// initialize result.
type AgentCapabilities struct {
	LoadSession        bool
	MCPCapabilities    MCPCapabilities
	PromptCapabilities PromptCapabilities
}
