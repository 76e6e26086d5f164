package session

import (
	"fmt"
	"strings"

	"github.com/verdant-labs/sprout/internal/curriculum"
)

// GenerateHandoff derives the end-of-session summary from the session's
// progress against its phase. Pure: no clock reads, no side effects; the
// same inputs always produce the same handoff.
//
// nextSteps ordering is fixed: first remaining deliverable, then first
// remaining objective, then a notes reminder, each only when its source is
// non-empty. promptForNextSession prefers the remaining deliverable and
// falls back to the remaining objective; it never includes both.
func GenerateHandoff(s *Session, phase *curriculum.Phase, additionalNotes string) *Handoff {
	h := &Handoff{}

	var remainingObjectives []curriculum.LearningObjective
	for _, obj := range phase.Objectives {
		if s.ObjectiveDone(obj.ID) {
			h.CompletedWork = append(h.CompletedWork, obj.Description)
		} else {
			remainingObjectives = append(remainingObjectives, obj)
			h.RemainingWork = append(h.RemainingWork, obj.Description)
		}
	}

	var remainingDeliverables []curriculum.Deliverable
	for _, d := range phase.Deliverables {
		if s.DeliverableDone(d.ID) {
			h.CompletedWork = append(h.CompletedWork, "Completed: "+d.Title)
		} else {
			remainingDeliverables = append(remainingDeliverables, d)
			h.RemainingWork = append(h.RemainingWork, d.Title)
		}
	}

	if len(remainingDeliverables) > 0 {
		h.NextSteps = append(h.NextSteps, "Start with: "+remainingDeliverables[0].Title)
	}
	if len(remainingObjectives) > 0 {
		h.NextSteps = append(h.NextSteps, "Focus on: "+remainingObjectives[0].Description)
	}
	if len(s.Notes) > 0 {
		h.NextSteps = append(h.NextSteps, "Review the notes from this session")
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Phase %d: %s. %d/%d objectives, %d/%d deliverables.",
		phase.Number, phase.Title,
		len(phase.Objectives)-len(remainingObjectives), len(phase.Objectives),
		len(phase.Deliverables)-len(remainingDeliverables), len(phase.Deliverables))
	if additionalNotes != "" {
		summary.WriteString(" " + additionalNotes)
	}
	h.Summary = summary.String()

	prompt := fmt.Sprintf("Resume phase %d (%s) of %q.", phase.Number, phase.Title, s.CurriculumTitle)
	if len(remainingDeliverables) > 0 {
		prompt += " Focus on: " + remainingDeliverables[0].Title
	} else if len(remainingObjectives) > 0 {
		prompt += " Complete: " + remainingObjectives[0].Description
	}
	h.PromptForNextSession = prompt

	return h
}
