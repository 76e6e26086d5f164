package event

import (
	"testing"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe("agent.prompt", func(e Event) {
		received = append(received, e)
	})

	bus.Publish(NewAgentPromptEvent("seedling", "generate a curriculum"))
	bus.Publish(NewAgentResponseEvent("seedling", "done")) // different type, not delivered

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	pe, ok := received[0].(AgentPromptEvent)
	if !ok {
		t.Fatalf("expected AgentPromptEvent, got %T", received[0])
	}
	if pe.Agent != "seedling" {
		t.Errorf("Agent = %q, want %q", pe.Agent, "seedling")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var types []string
	bus.SubscribeAll(func(e Event) {
		types = append(types, e.EventType())
	})

	bus.Publish(NewStageChangeEvent("generation", false))
	bus.Publish(NewToolCallEvent("bark", "provide_feedback", "{}"))
	bus.Publish(NewHandoffEvent("bark", "canopy"))

	want := []string{"pipeline.stage", "tool.call", "agent.handoff"}
	if len(types) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(types))
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("event %d = %q, want %q", i, types[i], w)
		}
	}
}

func TestBus_SpecificHandlersBeforeWildcard(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "wildcard") })
	bus.Subscribe("session.ended", func(e Event) { order = append(order, "specific") })

	bus.Publish(NewSessionEndedEvent("s1", "completed", 95))

	if len(order) != 2 || order[0] != "specific" || order[1] != "wildcard" {
		t.Errorf("dispatch order = %v, want [specific wildcard]", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe("pipeline.feedback", func(e Event) { count++ })

	bus.Publish(NewFeedbackEvent("bark", "concern", "high", "add more depth"))

	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe returned false for valid ID")
	}
	bus.Publish(NewFeedbackEvent("canopy", "suggestion", "low", "simplify"))

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}

	if bus.Unsubscribe("nope") {
		t.Error("Unsubscribe returned true for unknown ID")
	}
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe("agent.handoff", func(e Event) { panic("boom") })
	bus.Subscribe("agent.handoff", func(e Event) { delivered = true })

	bus.Publish(NewHandoffEvent("seedling", "bark"))

	if !delivered {
		t.Error("second handler not called after first panicked")
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.SubscribeAll(func(e Event) { count++ })
	bus.Clear()
	bus.Publish(NewStageChangeEvent("merge", true))

	if count != 0 {
		t.Errorf("handler called after Clear, count = %d", count)
	}
}
