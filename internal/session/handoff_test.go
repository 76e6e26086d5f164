package session

import (
	"reflect"
	"strings"
	"testing"

	"github.com/verdant-labs/sprout/internal/curriculum"
)

func handoffPhase() *curriculum.Phase {
	return &curriculum.Phase{
		Number: 1,
		Title:  "Fundamentals",
		Objectives: []curriculum.LearningObjective{
			{ID: "obj-1", Description: "understand syntax"},
			{ID: "obj-2", Description: "write functions"},
			{ID: "obj-3", Description: "use packages"},
		},
		Deliverables: []curriculum.Deliverable{
			{ID: "del-1", Title: "cli calculator"},
			{ID: "del-2", Title: "unit test suite"},
		},
	}
}

func TestGenerateHandoffNextStepsPrecedence(t *testing.T) {
	// 3 objectives (1 complete), 2 deliverables (0 complete): the first
	// next step must reference the first remaining deliverable, not an
	// objective.
	s := &Session{CurriculumTitle: "Learn Go"}
	s.MarkObjectiveComplete("obj-1")

	h := GenerateHandoff(s, handoffPhase(), "")

	if len(h.NextSteps) == 0 {
		t.Fatal("no next steps")
	}
	if h.NextSteps[0] != "Start with: cli calculator" {
		t.Errorf("NextSteps[0] = %q, want deliverable first", h.NextSteps[0])
	}
	if h.NextSteps[1] != "Focus on: write functions" {
		t.Errorf("NextSteps[1] = %q", h.NextSteps[1])
	}
	if len(h.NextSteps) != 2 {
		t.Errorf("NextSteps = %v, no notes reminder expected", h.NextSteps)
	}
}

func TestGenerateHandoffNotesReminder(t *testing.T) {
	s := &Session{CurriculumTitle: "Learn Go"}
	s.AddNote("defer runs LIFO")

	h := GenerateHandoff(s, handoffPhase(), "")
	last := h.NextSteps[len(h.NextSteps)-1]
	if !strings.Contains(last, "notes") {
		t.Errorf("last next step = %q, want notes reminder", last)
	}
}

func TestGenerateHandoffPartitionsWork(t *testing.T) {
	s := &Session{CurriculumTitle: "Learn Go"}
	s.MarkObjectiveComplete("obj-1")
	s.MarkDeliverableComplete("del-1")

	h := GenerateHandoff(s, handoffPhase(), "")

	wantCompleted := []string{"understand syntax", "Completed: cli calculator"}
	if !reflect.DeepEqual(h.CompletedWork, wantCompleted) {
		t.Errorf("CompletedWork = %v, want %v", h.CompletedWork, wantCompleted)
	}
	wantRemaining := []string{"write functions", "use packages", "unit test suite"}
	if !reflect.DeepEqual(h.RemainingWork, wantRemaining) {
		t.Errorf("RemainingWork = %v, want %v", h.RemainingWork, wantRemaining)
	}
}

func TestGenerateHandoffSummaryCounts(t *testing.T) {
	s := &Session{CurriculumTitle: "Learn Go"}
	s.MarkObjectiveComplete("obj-1")
	s.MarkDeliverableComplete("del-1")

	h := GenerateHandoff(s, handoffPhase(), "ran out of steam near the end")

	if !strings.Contains(h.Summary, "1/3 objectives") || !strings.Contains(h.Summary, "1/2 deliverables") {
		t.Errorf("Summary = %q, want progress counts", h.Summary)
	}
	if !strings.Contains(h.Summary, "ran out of steam near the end") {
		t.Errorf("Summary = %q, want additional notes verbatim", h.Summary)
	}
}

func TestGenerateHandoffPromptPrecedence(t *testing.T) {
	phase := handoffPhase()

	tests := []struct {
		name         string
		setup        func(*Session)
		wantContains string
		wantExcludes string
	}{
		{
			name:         "deliverable remaining wins",
			setup:        func(s *Session) {},
			wantContains: "Focus on: cli calculator",
			wantExcludes: "Complete:",
		},
		{
			name: "objective only when no deliverable remains",
			setup: func(s *Session) {
				s.MarkDeliverableComplete("del-1")
				s.MarkDeliverableComplete("del-2")
			},
			wantContains: "Complete: understand syntax",
			wantExcludes: "Focus on:",
		},
		{
			name: "neither when everything done",
			setup: func(s *Session) {
				s.MarkDeliverableComplete("del-1")
				s.MarkDeliverableComplete("del-2")
				s.MarkObjectiveComplete("obj-1")
				s.MarkObjectiveComplete("obj-2")
				s.MarkObjectiveComplete("obj-3")
			},
			wantExcludes: "Focus on:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{CurriculumTitle: "Learn Go"}
			tt.setup(s)

			h := GenerateHandoff(s, phase, "")
			if tt.wantContains != "" && !strings.Contains(h.PromptForNextSession, tt.wantContains) {
				t.Errorf("prompt = %q, want %q", h.PromptForNextSession, tt.wantContains)
			}
			if tt.wantExcludes != "" && strings.Contains(h.PromptForNextSession, tt.wantExcludes) {
				t.Errorf("prompt = %q, must not contain %q", h.PromptForNextSession, tt.wantExcludes)
			}
		})
	}
}

func TestGenerateHandoffDeterministic(t *testing.T) {
	s := &Session{CurriculumTitle: "Learn Go"}
	s.MarkObjectiveComplete("obj-2")
	s.AddNote("note one")
	phase := handoffPhase()

	a := GenerateHandoff(s, phase, "extra")
	b := GenerateHandoff(s, phase, "extra")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("handoff not deterministic:\n%+v\n%+v", a, b)
	}
}
