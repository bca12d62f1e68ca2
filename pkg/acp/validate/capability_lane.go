package validate

import (
	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/protocol"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// capabilityLane verifies, after a successful Advanced step, that the
// message was consistent with the capabilities negotiated at handshake
// (spec.md §4.3 "Semantic/Capability lane"). It never runs against a
// rejected step — capability consistency presumes the machine already
// accepted the message.
func capabilityLane(step trace.Step) []Finding {
	if !step.Outcome.Advanced {
		return nil
	}
	ctx := step.Outcome.Phase.Context()
	if ctx == nil {
		return nil
	}
	idx := step.IndexBefore

	switch {
	case step.Message.Direction == domain.FromClient:
		switch c := step.Message.Client.(type) {
		case domain.SessionLoad:
			if !ctx.AgentInit.AgentCapabilities.LoadSession {
				return []Finding{capabilityFinding(idx, step.Message,
					"ACP.CAPABILITY.LOAD_SESSION_UNSUPPORTED",
					"session/load used but agent did not advertise loadSession support")}
			}
		case domain.SessionPrompt:
			return promptCapabilityFindings(idx, step.Message, c, ctx)
		}

	case step.Message.Direction == domain.FromAgent:
		if update, ok := step.Message.Agent.(domain.SessionUpdate); ok {
			return toolCallCapabilityFindings(idx, step.Message, update, ctx)
		}
	}
	return nil
}

func promptCapabilityFindings(idx int, msg domain.Message, prompt domain.SessionPrompt, ctx *protocol.InitializedContext) []Finding {
	var findings []Finding
	caps := ctx.AgentInit.AgentCapabilities.PromptCapabilities
	for _, block := range prompt.Prompt {
		switch block.Kind {
		case domain.ContentImage:
			if !caps.Image {
				findings = append(findings, capabilityFinding(idx, msg,
					"ACP.CAPABILITY.PROMPT_IMAGE_UNSUPPORTED", "prompt contains an image block but agent did not advertise image support"))
			}
		case domain.ContentAudio:
			if !caps.Audio {
				findings = append(findings, capabilityFinding(idx, msg,
					"ACP.CAPABILITY.PROMPT_AUDIO_UNSUPPORTED", "prompt contains an audio block but agent did not advertise audio support"))
			}
		case domain.ContentEmbedded:
			if !caps.EmbeddedContext {
				findings = append(findings, capabilityFinding(idx, msg,
					"ACP.CAPABILITY.PROMPT_EMBEDDED_UNSUPPORTED", "prompt contains an embedded-context block but agent did not advertise embeddedContext support"))
			}
		}
	}
	return findings
}

func toolCallCapabilityFindings(idx int, msg domain.Message, update domain.SessionUpdate, ctx *protocol.InitializedContext) []Finding {
	kind, ok := toolKindOf(update.Update)
	if !ok {
		return nil
	}
	switch kind {
	case domain.ToolKindWriteTextFile:
		if !ctx.ClientInit.ClientCapabilities.FS.WriteTextFile {
			return []Finding{capabilityFinding(idx, msg,
				"ACP.CAPABILITY.WRITE_TEXT_FILE_DISABLED", "tool call writes a text file but client did not advertise writeTextFile support")}
		}
	case domain.ToolKindTerminal:
		if !ctx.ClientInit.ClientCapabilities.Terminal {
			return []Finding{capabilityFinding(idx, msg,
				"ACP.CAPABILITY.TERMINAL_DISABLED", "tool call uses a terminal but client did not advertise terminal support")}
		}
	}
	return nil
}

// toolKindOf extracts the ToolKind from the two session-update variants
// that carry one.
func toolKindOf(v domain.SessionUpdateVariant) (domain.ToolKind, bool) {
	switch u := v.(type) {
	case domain.ToolCallVariant:
		return u.Kind, true
	case domain.ToolCallUpdateVariant:
		return u.Kind, true
	default:
		return "", false
	}
}

func capabilityFinding(idx int, msg domain.Message, code, message string) Finding {
	return Finding{
		Lane:       LaneCapability,
		Severity:   SeverityError,
		Subject:    MessageAtSubject(idx, msg),
		Failure:    &Failure{Code: code, Message: message},
		TraceIndex: withIndex(idx),
	}
}
