package agent

import (
	"context"
	"encoding/json"

	"github.com/verdant-labs/sprout/internal/anthropic"
	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/event"
	"github.com/verdant-labs/sprout/internal/logging"
)

// ToolHandler executes one structured tool invocation locally, accumulating
// typed results onto the Turn. The returned string is a short human-readable
// summary of what the handler did, recorded as the tool-call result.
type ToolHandler func(input json.RawMessage, turn *Turn) (string, error)

// Persona describes one agent: a fixed system prompt plus the tools the
// model may invoke and the local handlers behind them.
type Persona struct {
	Name         string
	DisplayName  string
	SystemPrompt string
	Tools        []anthropic.Tool
	Handlers     map[string]ToolHandler
}

// ToolCall records one executed (name, input, result) triple.
type ToolCall struct {
	Name   string
	Input  json.RawMessage
	Result string
}

// Turn is the typed outcome of one agent invocation.
type Turn struct {
	Text      string
	ToolCalls []ToolCall

	// Populated by tool handlers, depending on persona:
	Curriculum *curriculum.Curriculum // seedling's create_curriculum
	Feedback   []Feedback             // reviewers' provide_feedback
	Score      int                    // reviewers' assessment, 0 when unreported
}

// Agent wraps the chat client with a persona. The three personas share this
// one calling convention and differ only in prompt text and tool handlers.
type Agent struct {
	persona Persona
	client  anthropic.Client
	logger  *logging.Logger
	bus     *event.Bus
}

// New creates an Agent for the given persona. The bus is optional; when set,
// fine-grained debug events are published for every prompt, response, and
// tool invocation.
func New(persona Persona, client anthropic.Client, logger *logging.Logger, bus *event.Bus) *Agent {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Agent{
		persona: persona,
		client:  client,
		logger:  logger.WithAgent(persona.Name),
		bus:     bus,
	}
}

// Name returns the persona name.
func (a *Agent) Name() string { return a.persona.Name }

// DisplayName returns the persona display name.
func (a *Agent) DisplayName() string { return a.persona.DisplayName }

// Run performs one chat call with the persona's system prompt and tools,
// executes a local handler for each tool invocation the model made, and
// returns the accumulated Turn. A tool invocation without a registered
// handler is an error; handler failures abort the run.
func (a *Agent) Run(ctx context.Context, prompt string, history []anthropic.Message) (*Turn, error) {
	messages := make([]anthropic.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, anthropic.Message{Role: "user", Content: prompt})

	a.logger.Debug("sending prompt", "chars", len(prompt))
	a.publish(event.NewAgentPromptEvent(a.persona.Name, prompt))

	resp, err := a.client.Chat(ctx, anthropic.ChatRequest{
		System:   a.persona.SystemPrompt,
		Messages: messages,
		Tools:    a.persona.Tools,
	})
	if err != nil {
		return nil, errors.NewAgentError(a.persona.Name, err)
	}

	a.publish(event.NewAgentResponseEvent(a.persona.Name, resp.Text))

	turn := &Turn{Text: resp.Text}
	for _, use := range resp.ToolUses {
		handler, ok := a.persona.Handlers[use.Name]
		if !ok {
			return nil, errors.NewAgentError(a.persona.Name,
				errors.New("model invoked unknown tool "+use.Name))
		}

		a.publish(event.NewToolCallEvent(a.persona.Name, use.Name, string(use.Input)))

		result, err := handler(use.Input, turn)
		if err != nil {
			return nil, errors.NewAgentError(a.persona.Name, err)
		}

		turn.ToolCalls = append(turn.ToolCalls, ToolCall{
			Name:   use.Name,
			Input:  use.Input,
			Result: result,
		})
		a.logger.Debug("tool handled", "tool", use.Name, "result", result)
		a.publish(event.NewToolResultEvent(a.persona.Name, use.Name, result))
	}

	return turn, nil
}

func (a *Agent) publish(e event.Event) {
	if a.bus != nil {
		a.bus.Publish(e)
	}
}
