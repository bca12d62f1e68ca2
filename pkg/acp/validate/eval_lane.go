package validate

import (
	"strings"
	"unicode"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
	"github.com/kandev/acp-sentinel/pkg/acp/trace"
)

// evalLane runs the heuristic, profile-controlled checks of spec.md
// §4.3's "Eval lane" (the empty-instruction check is on in
// DefaultEvalProfile, the F# lexical checks are off): these never block
// conformance, they flag prompts that are
// likely to be useless or malformed before they ever reach an agent.
func evalLane(step trace.Step, profile EvalProfile) []Finding {
	if !step.Outcome.Advanced || step.Message.Direction != domain.FromClient {
		return nil
	}
	prompt, ok := step.Message.Client.(domain.SessionPrompt)
	if !ok {
		return nil
	}
	idx := step.IndexBefore

	var findings []Finding
	if profile.RequireNonEmptyInstruction {
		if f, empty := emptyInstructionFinding(idx, step.Message, prompt); empty {
			findings = append(findings, f)
		}
	}
	if profile.FSharpLexChecks {
		findings = append(findings, fsharpLexFindings(idx, step.Message, prompt, profile)...)
	}
	return findings
}

func promptText(prompt domain.SessionPrompt) string {
	var b strings.Builder
	for _, block := range prompt.Prompt {
		if block.Kind == domain.ContentText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

func emptyInstructionFinding(idx int, msg domain.Message, prompt domain.SessionPrompt) (Finding, bool) {
	if strings.TrimSpace(promptText(prompt)) != "" {
		return Finding{}, false
	}
	return Finding{
		Lane:     LaneEval,
		Severity: SeverityWarning,
		Subject:  MessageAtSubject(idx, msg),
		Failure: &Failure{
			Code:    "ACP.EVAL.EMPTY_INSTRUCTION",
			Message: "prompt carries no non-whitespace text content",
		},
		TraceIndex: withIndex(idx),
	}, true
}

// fsharpLexFindings applies three cheap heuristics aimed at prompts that
// paste in F# source: an unterminated string or block comment, or a high
// ratio of tokens the tokenizer doesn't recognize as identifiers,
// numbers, or known F# punctuation. These are heuristics, not a real
// lexer, and are only ever a Warning.
func fsharpLexFindings(idx int, msg domain.Message, prompt domain.SessionPrompt, profile EvalProfile) []Finding {
	text := promptText(prompt)
	var findings []Finding

	if strings.Count(text, `"`)%2 != 0 {
		findings = append(findings, fsharpFinding(idx, msg, "ACP.EVAL.FSHARP_UNCLOSED_STRING",
			"prompt text contains an odd number of double quotes, suggesting an unterminated string literal"))
	}
	if strings.Count(text, "(*") != strings.Count(text, "*)") {
		findings = append(findings, fsharpFinding(idx, msg, "ACP.EVAL.FSHARP_UNCLOSED_COMMENT",
			"prompt text has unbalanced (* *) comment delimiters"))
	}
	if ratio, ok := unknownTokenRatio(text); ok && ratio > profile.MaxUnknownTokenRatio {
		findings = append(findings, fsharpFinding(idx, msg, "ACP.EVAL.FSHARP_HIGH_UNKNOWN_TOKEN_RATIO",
			"prompt text looks like source but a large fraction of tokens are not recognizable identifiers, numbers, or punctuation"))
	}
	return findings
}

var fsharpPunctuation = map[rune]bool{
	'(': true, ')': true, '[': true, ']': true, '{': true, '}': true,
	'<': true, '>': true, '=': true, '+': true, '-': true, '*': true,
	'/': true, '.': true, ',': true, ':': true, ';': true, '|': true,
	'_': true, '!': true, '\'': true,
}

// unknownTokenRatio splits text on whitespace and classifies each token
// as known (alphanumeric identifier/number, or built entirely of
// recognized F# punctuation) or unknown. Returns ok=false when the
// sample is too small to be meaningful.
func unknownTokenRatio(text string) (float64, bool) {
	tokens := strings.Fields(text)
	if len(tokens) < 8 {
		return 0, false
	}
	unknown := 0
	for _, tok := range tokens {
		if !isKnownToken(tok) {
			unknown++
		}
	}
	return float64(unknown) / float64(len(tokens)), true
}

func isKnownToken(tok string) bool {
	allAlnum := true
	allPunct := true
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			allAlnum = false
		}
		if !fsharpPunctuation[r] {
			allPunct = false
		}
	}
	return allAlnum || allPunct
}

func fsharpFinding(idx int, msg domain.Message, code, message string) Finding {
	return Finding{
		Lane:       LaneEval,
		Severity:   SeverityWarning,
		Subject:    MessageAtSubject(idx, msg),
		Failure:    &Failure{Code: code, Message: message},
		TraceIndex: withIndex(idx),
	}
}
