// Package errors provides centralized error definitions and error handling
// utilities for the Sprout codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// Domain-specific errors represent errors from specific subsystems:
//   - OrchestrationError: errors raised by a specific pipeline stage
//   - SessionError: errors related to learning-session management
//   - AgentError: errors related to persona chat calls
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrPhaseNotFound) { ... }
//
//	var stageErr *errors.OrchestrationError
//	if errors.As(err, &stageErr) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Curriculum-related sentinel errors
var (
	// ErrCurriculumNotFound indicates that a curriculum file could not be found.
	ErrCurriculumNotFound = New("curriculum not found")
	// ErrUnsupportedFormat indicates a curriculum file is not in the structured
	// JSON form. The rendered Markdown form cannot be parsed back.
	ErrUnsupportedFormat = New("unsupported curriculum format")
	// ErrPhaseNotFound indicates the requested phase number does not exist.
	ErrPhaseNotFound = New("phase not found")
)

// Agent-related sentinel errors
var (
	// ErrNoToolInvocation indicates the model responded without invoking a
	// required structured tool.
	ErrNoToolInvocation = New("model did not invoke required tool")
	// ErrAPIKeyMissing indicates the Anthropic API key is not configured.
	ErrAPIKeyMissing = New("ANTHROPIC_API_KEY is not set")
)

// Session-related sentinel errors
var (
	// ErrSessionActive indicates another session is already active.
	ErrSessionActive = New("a session is already active")
	// ErrNoActiveSession indicates no session is currently active.
	ErrNoActiveSession = New("no active session")
	// ErrSessionCorrupted indicates session data could not be parsed.
	ErrSessionCorrupted = New("session data corrupted")
)

// Tracker-related sentinel errors
var (
	// ErrTrackerUnavailable indicates the issue-tracker binary is not on PATH.
	ErrTrackerUnavailable = New("issue tracker binary not available")
)

// -----------------------------------------------------------------------------
// Domain Error Types
// -----------------------------------------------------------------------------

// OrchestrationError wraps a failure that occurred during a specific stage of
// the curriculum pipeline. The whole run aborts; no partial results exist.
type OrchestrationError struct {
	Stage string // "acquire", "technical-review", "pedagogical-review", "merge"
	Err   error
}

// NewOrchestrationError creates an OrchestrationError for the given stage.
func NewOrchestrationError(stage string, err error) *OrchestrationError {
	return &OrchestrationError{Stage: stage, Err: err}
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("orchestration failed during %s: %v", e.Stage, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// SessionError wraps a failure from the session manager with the related
// session identifier when known.
type SessionError struct {
	SessionID string
	Message   string
	Err       error
}

// NewSessionError creates a SessionError.
func NewSessionError(message string, err error) *SessionError {
	return &SessionError{Message: message, Err: err}
}

// WithSession attaches a session ID for context.
func (e *SessionError) WithSession(id string) *SessionError {
	e.SessionID = id
	return e
}

func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Message, e.Err)
	}
	return fmt.Sprintf("session: %s: %v", e.Message, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// AgentError wraps a failure from a persona chat call.
type AgentError struct {
	Agent string // "seedling", "bark", "canopy"
	Err   error
}

// NewAgentError creates an AgentError.
func NewAgentError(agent string, err error) *AgentError {
	return &AgentError{Agent: agent, Err: err}
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// -----------------------------------------------------------------------------
// Semantic Error Types
// -----------------------------------------------------------------------------

// NotFoundError indicates a named resource does not exist.
type NotFoundError struct {
	Resource string // e.g. "curriculum", "phase", "session", "note"
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is allows NotFoundError to match the corresponding sentinel errors.
func (e *NotFoundError) Is(target error) bool {
	switch e.Resource {
	case "curriculum":
		return target == ErrCurriculumNotFound
	case "phase":
		return target == ErrPhaseNotFound
	}
	return false
}

// ValidationError indicates invalid input or state, detected before any core
// logic runs. These are always user-facing.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return As(err, &nf) ||
		Is(err, ErrCurriculumNotFound) ||
		Is(err, ErrPhaseNotFound) ||
		Is(err, ErrNoActiveSession)
}

// IsUserFacing reports whether err is safe and useful to print to the user
// as-is. Internal wrapping (stage names, session IDs) is considered
// user-facing in this CLI; only nil is not.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	if As(err, &ve) {
		return true
	}
	return IsNotFound(err) ||
		Is(err, ErrAPIKeyMissing) ||
		Is(err, ErrSessionActive) ||
		Is(err, ErrUnsupportedFormat)
}
