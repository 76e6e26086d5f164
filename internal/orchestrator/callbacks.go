package orchestrator

import (
	"github.com/verdant-labs/sprout/internal/agent"
	"github.com/verdant-labs/sprout/internal/event"
)

// Callbacks are the progress hooks fired at stage boundaries. Every field is
// optional; nil hooks are skipped. OnDebug receives fine-grained events
// (prompts, responses, tool calls, handoffs) and fires only when the
// orchestrator was constructed with Debug enabled.
type Callbacks struct {
	OnPhaseStart    func(stage string)
	OnPhaseComplete func(stage string)
	OnFeedback      func(fb agent.Feedback)
	OnLog           func(message string)
	OnDebug         func(e event.Event)
}

func (c Callbacks) phaseStart(stage string) {
	if c.OnPhaseStart != nil {
		c.OnPhaseStart(stage)
	}
}

func (c Callbacks) phaseComplete(stage string) {
	if c.OnPhaseComplete != nil {
		c.OnPhaseComplete(stage)
	}
}

func (c Callbacks) feedback(fb agent.Feedback) {
	if c.OnFeedback != nil {
		c.OnFeedback(fb)
	}
}

func (c Callbacks) log(message string) {
	if c.OnLog != nil {
		c.OnLog(message)
	}
}
