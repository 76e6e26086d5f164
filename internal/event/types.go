// Package event defines event types for decoupling components in Sprout.
// The orchestrator publishes fine-grained debug events here so the CLI can
// subscribe without the orchestrator depending on any output layer.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "agent.prompt", "session.ended").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Agent Debug Events
// -----------------------------------------------------------------------------

// AgentPromptEvent is emitted when a persona prompt is sent to the model.
type AgentPromptEvent struct {
	baseEvent
	Agent  string // Persona name: seedling, bark, canopy
	Prompt string // Full prompt text
}

// NewAgentPromptEvent creates an AgentPromptEvent.
func NewAgentPromptEvent(agent, prompt string) AgentPromptEvent {
	return AgentPromptEvent{
		baseEvent: newBaseEvent("agent.prompt"),
		Agent:     agent,
		Prompt:    prompt,
	}
}

// AgentResponseEvent is emitted when the model's text response arrives.
type AgentResponseEvent struct {
	baseEvent
	Agent string
	Text  string
}

// NewAgentResponseEvent creates an AgentResponseEvent.
func NewAgentResponseEvent(agent, text string) AgentResponseEvent {
	return AgentResponseEvent{
		baseEvent: newBaseEvent("agent.response"),
		Agent:     agent,
		Text:      text,
	}
}

// ToolCallEvent is emitted when the model invokes a structured tool.
type ToolCallEvent struct {
	baseEvent
	Agent string
	Tool  string
	Input string // Raw JSON input payload
}

// NewToolCallEvent creates a ToolCallEvent.
func NewToolCallEvent(agent, tool, input string) ToolCallEvent {
	return ToolCallEvent{
		baseEvent: newBaseEvent("tool.call"),
		Agent:     agent,
		Tool:      tool,
		Input:     input,
	}
}

// ToolResultEvent is emitted after a local tool handler runs.
type ToolResultEvent struct {
	baseEvent
	Agent  string
	Tool   string
	Result string // Human-readable handler result
}

// NewToolResultEvent creates a ToolResultEvent.
func NewToolResultEvent(agent, tool, result string) ToolResultEvent {
	return ToolResultEvent{
		baseEvent: newBaseEvent("tool.result"),
		Agent:     agent,
		Tool:      tool,
		Result:    result,
	}
}

// HandoffEvent marks control passing from one persona to the next in the
// pipeline.
type HandoffEvent struct {
	baseEvent
	From string
	To   string
}

// NewHandoffEvent creates a HandoffEvent.
func NewHandoffEvent(from, to string) HandoffEvent {
	return HandoffEvent{
		baseEvent: newBaseEvent("agent.handoff"),
		From:      from,
		To:        to,
	}
}

// -----------------------------------------------------------------------------
// Pipeline Events
// -----------------------------------------------------------------------------

// StageChangeEvent is emitted at pipeline stage boundaries.
type StageChangeEvent struct {
	baseEvent
	Stage    string // acquire, technical-review, pedagogical-review, merge
	Complete bool   // false on stage start, true on stage completion
}

// NewStageChangeEvent creates a StageChangeEvent.
func NewStageChangeEvent(stage string, complete bool) StageChangeEvent {
	return StageChangeEvent{
		baseEvent: newBaseEvent("pipeline.stage"),
		Stage:     stage,
		Complete:  complete,
	}
}

// FeedbackEvent is emitted once per review finding.
type FeedbackEvent struct {
	baseEvent
	Agent    string
	Kind     string // approval, concern, suggestion, blocker
	Severity string // low, medium, high, critical
	Message  string
}

// NewFeedbackEvent creates a FeedbackEvent.
func NewFeedbackEvent(agent, kind, severity, message string) FeedbackEvent {
	return FeedbackEvent{
		baseEvent: newBaseEvent("pipeline.feedback"),
		Agent:     agent,
		Kind:      kind,
		Severity:  severity,
		Message:   message,
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// SessionStartedEvent is emitted when a learning session begins.
type SessionStartedEvent struct {
	baseEvent
	SessionID   string
	PhaseNumber int
	PhaseTitle  string
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(sessionID string, phaseNumber int, phaseTitle string) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent:   newBaseEvent("session.started"),
		SessionID:   sessionID,
		PhaseNumber: phaseNumber,
		PhaseTitle:  phaseTitle,
	}
}

// SessionEndedEvent is emitted when a learning session ends.
type SessionEndedEvent struct {
	baseEvent
	SessionID string
	Status    string // completed or abandoned
	Minutes   int
}

// NewSessionEndedEvent creates a SessionEndedEvent.
func NewSessionEndedEvent(sessionID, status string, minutes int) SessionEndedEvent {
	return SessionEndedEvent{
		baseEvent: newBaseEvent("session.ended"),
		SessionID: sessionID,
		Status:    status,
		Minutes:   minutes,
	}
}
