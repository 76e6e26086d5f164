// Package internal contains integration tests exercising the packages
// together: the event bus carrying pipeline events, and a full
// orchestrate-then-session flow over real files.
package internal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/verdant-labs/sprout/internal/anthropic"
	"github.com/verdant-labs/sprout/internal/event"
	"github.com/verdant-labs/sprout/internal/orchestrator"
	"github.com/verdant-labs/sprout/internal/session"
)

// stubClient satisfies anthropic.Client with scripted responses.
type stubClient struct {
	mu        sync.Mutex
	responses []*anthropic.ChatResponse
}

func (s *stubClient) Chat(_ context.Context, _ anthropic.ChatRequest) (*anthropic.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.responses) == 0 {
		return &anthropic.ChatResponse{Text: "ok"}, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func mustTool(t *testing.T, name string, input any) anthropic.ToolUse {
	t.Helper()
	raw, err := json.Marshal(input)
	if err != nil {
		t.Fatal(err)
	}
	return anthropic.ToolUse{ID: "tu", Name: name, Input: raw}
}

// TestPipelineEventsOnBus verifies stage and handoff events flow through the
// bus during a full orchestration run, in publication order.
func TestPipelineEventsOnBus(t *testing.T) {
	phase := map[string]any{
		"title": "basics", "description": "d", "estimated_hours": 4,
		"objectives":   []string{"o1"},
		"deliverables": []map[string]any{{"title": "d1"}},
	}
	client := &stubClient{responses: []*anthropic.ChatResponse{
		{ToolUses: []anthropic.ToolUse{mustTool(t, "create_curriculum", map[string]any{
			"title":  "Bus Test",
			"phases": []any{phase, phase, phase, phase},
		})}},
		{ToolUses: []anthropic.ToolUse{mustTool(t, "assess_feasibility", map[string]any{"score": 8})}},
		{ToolUses: []anthropic.ToolUse{mustTool(t, "assess_pedagogy", map[string]any{"score": 8})}},
	}}

	bus := event.NewBus()
	var mu sync.Mutex
	var stages []string
	bus.Subscribe("pipeline.stage", func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		if sc, ok := e.(event.StageChangeEvent); ok && sc.Complete {
			stages = append(stages, sc.Stage)
		}
	})
	var handoffs int
	bus.Subscribe("agent.handoff", func(event.Event) {
		mu.Lock()
		defer mu.Unlock()
		handoffs++
	})

	o := orchestrator.New(orchestrator.Config{Client: client, Bus: bus})
	if _, err := o.Orchestrate(context.Background(), "bus test", orchestrator.Options{}); err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		orchestrator.StageAcquire,
		orchestrator.StageTechnical,
		orchestrator.StagePedagogical,
		orchestrator.StageMerge,
	}
	if len(stages) != len(want) {
		t.Fatalf("completed stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %s, want %s", i, stages[i], want[i])
		}
	}
	if handoffs != 2 {
		t.Errorf("handoff events = %d, want 2", handoffs)
	}
}

// TestSessionLifecycleOverFiles drives a wake-work-rest cycle through the
// manager and verifies the snapshot on disk reflects the full lifecycle.
func TestSessionLifecycleOverFiles(t *testing.T) {
	phase := map[string]any{
		"title": "basics", "description": "d", "estimated_hours": 4,
		"objectives":   []string{"read the tour"},
		"deliverables": []map[string]any{{"title": "hello world program"}},
	}
	client := &stubClient{responses: []*anthropic.ChatResponse{
		{ToolUses: []anthropic.ToolUse{mustTool(t, "create_curriculum", map[string]any{
			"title":  "Go Basics",
			"phases": []any{phase, phase, phase, phase},
		})}},
	}}

	o := orchestrator.New(orchestrator.Config{Client: client})
	cur, err := o.Generate(context.Background(), "go basics")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	start := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)
	now := start
	reg := &session.Register{}
	mgr := session.NewManager(t.TempDir(), reg, session.WithClock(func() time.Time { return now }))

	s, err := mgr.Start(cur, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.MarkObjectiveComplete(cur.Phases[0].Objectives[0].ID)
	s.AddNote("finished the tour chapter on methods")

	now = start.Add(50 * time.Minute)
	phase1 := cur.FindPhase(1)
	handoff := session.GenerateHandoff(s, phase1, "")
	if err := mgr.End(s, handoff); err != nil {
		t.Fatalf("End: %v", err)
	}

	loaded, err := mgr.Load(session.FileName(s))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Status != session.StatusCompleted {
		t.Errorf("Status = %s", loaded.Status)
	}
	if loaded.Progress.TimeSpentMinutes != 50 {
		t.Errorf("minutes = %d, want 50", loaded.Progress.TimeSpentMinutes)
	}
	if loaded.Handoff == nil || len(loaded.Handoff.NextSteps) == 0 {
		t.Fatalf("handoff not persisted: %+v", loaded.Handoff)
	}
	if loaded.Handoff.NextSteps[0] != "Start with: hello world program" {
		t.Errorf("NextSteps[0] = %q", loaded.Handoff.NextSteps[0])
	}
	if reg.Current() != nil {
		t.Error("register not cleared")
	}
}
