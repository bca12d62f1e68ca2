package protocol

import (
	"fmt"

	"github.com/kandev/acp-sentinel/pkg/acp/domain"
)

// ErrorCode is a stable, dotted, lane-prefixed code. Codes are the
// compatibility surface of this package (spec.md §6); messages are
// human-facing and may change freely.
type ErrorCode string

const (
	CodeUnexpectedMessage              ErrorCode = "ACP.PROTOCOL.UNEXPECTED_MESSAGE"
	CodeDuplicateInitialize            ErrorCode = "ACP.PROTOCOL.DUPLICATE_INITIALIZE"
	CodeInitializeResultWithoutRequest ErrorCode = "ACP.PROTOCOL.INITIALIZE_RESULT_WITHOUT_REQUEST"
	CodeUnknownSession                 ErrorCode = "ACP.PROTOCOL.UNKNOWN_SESSION"
	CodeSessionAlreadyExists           ErrorCode = "ACP.PROTOCOL.SESSION_ALREADY_EXISTS"
	CodePromptAlreadyInFlight          ErrorCode = "ACP.PROTOCOL.PROMPT_ALREADY_IN_FLIGHT"
	CodeNoPromptInFlight               ErrorCode = "ACP.PROTOCOL.NO_PROMPT_IN_FLIGHT"
)

// ProtocolError is the closed sum of ways a message can be illegal in a
// given phase. Implementations are values, never panics.
type ProtocolError interface {
	error
	Code() ErrorCode
}

// UnexpectedMessageError is returned for any (phase, message) pair not
// covered by one of the other, more specific errors.
type UnexpectedMessageError struct {
	Phase   Phase
	Message domain.Message
}

func (e *UnexpectedMessageError) Code() ErrorCode { return CodeUnexpectedMessage }
func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("unexpected message %s in phase %s", e.Message.Name(), e.Phase.Kind())
}

// DuplicateInitializeError is returned when a second client Initialize
// arrives while waiting for, or after receiving, the first InitializeResult.
type DuplicateInitializeError struct{}

func (e *DuplicateInitializeError) Code() ErrorCode { return CodeDuplicateInitialize }
func (e *DuplicateInitializeError) Error() string {
	return "duplicate Initialize: connection was already initialized or initializing"
}

// InitializeResultWithoutRequestError is returned when an agent message
// other than InitializeResult arrives while WaitingForInitializeResult.
type InitializeResultWithoutRequestError struct {
	Message domain.Message
}

func (e *InitializeResultWithoutRequestError) Code() ErrorCode {
	return CodeInitializeResultWithoutRequest
}
func (e *InitializeResultWithoutRequestError) Error() string {
	return fmt.Sprintf("expected InitializeResult, got %s", e.Message.Name())
}

// UnknownSessionError is returned when a message references a session id
// absent from the connection's session table.
type UnknownSessionError struct {
	SessionID domain.SessionID
}

func (e *UnknownSessionError) Code() ErrorCode { return CodeUnknownSession }
func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session %q", string(e.SessionID))
}

// SessionAlreadyExistsError is returned when SessionNewResult names a
// session id already present in the session table.
type SessionAlreadyExistsError struct {
	SessionID domain.SessionID
}

func (e *SessionAlreadyExistsError) Code() ErrorCode { return CodeSessionAlreadyExists }
func (e *SessionAlreadyExistsError) Error() string {
	return fmt.Sprintf("session %q already exists", string(e.SessionID))
}

// PromptAlreadyInFlightError is returned when SessionPrompt targets a
// session that already has a prompt turn in flight.
type PromptAlreadyInFlightError struct {
	SessionID domain.SessionID
}

func (e *PromptAlreadyInFlightError) Code() ErrorCode { return CodePromptAlreadyInFlight }
func (e *PromptAlreadyInFlightError) Error() string {
	return fmt.Sprintf("session %q already has a prompt in flight", string(e.SessionID))
}

// NoPromptInFlightError is returned when SessionCancel, SessionPromptResult,
// or RequestPermission targets a session that is Idle.
type NoPromptInFlightError struct {
	SessionID domain.SessionID
}

func (e *NoPromptInFlightError) Code() ErrorCode { return CodeNoPromptInFlight }
func (e *NoPromptInFlightError) Error() string {
	return fmt.Sprintf("session %q has no prompt in flight", string(e.SessionID))
}
