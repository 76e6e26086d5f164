// Package session manages learning work periods: one session per sitting,
// bound to a single curriculum phase, persisted as a JSON snapshot per
// session and resumable across CLI invocations through a marker file.
package session

import (
	"time"
)

// Status is the session lifecycle state. Active sessions become completed
// through the normal rest flow, or abandoned when the user discards the
// sitting.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Progress accumulates what was finished during the session. The completed
// ID lists behave as sets: inserting an ID twice is a no-op.
type Progress struct {
	ObjectivesCompleted   []string `json:"objectives_completed"`
	DeliverablesCompleted []string `json:"deliverables_completed"`
	TimeSpentMinutes      int      `json:"time_spent_minutes"`
}

// Handoff is the derived end-of-session summary. Computed once by
// GenerateHandoff; never mutated after creation.
type Handoff struct {
	Summary              string   `json:"summary"`
	CompletedWork        []string `json:"completed_work"`
	RemainingWork        []string `json:"remaining_work"`
	NextSteps            []string `json:"next_steps"`
	PromptForNextSession string   `json:"prompt_for_next_session"`
}

// Session is one learning work period bound to exactly one phase.
type Session struct {
	ID              string     `json:"id"`
	CurriculumID    string     `json:"curriculum_id"`
	CurriculumPath  string     `json:"curriculum_path,omitempty"`
	CurriculumTitle string     `json:"curriculum_title"`
	PhaseID         string     `json:"phase_id"`
	PhaseNumber     int        `json:"phase_number"`
	PhaseTitle      string     `json:"phase_title"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Status          Status     `json:"status"`
	Notes           []string   `json:"notes,omitempty"`
	Questions       []string   `json:"questions,omitempty"`
	Progress        Progress   `json:"progress"`
	Handoff         *Handoff   `json:"handoff,omitempty"`
}

// MarkObjectiveComplete records an objective as done. Idempotent.
func (s *Session) MarkObjectiveComplete(id string) {
	s.Progress.ObjectivesCompleted = insertUnique(s.Progress.ObjectivesCompleted, id)
}

// MarkDeliverableComplete records a deliverable as done. Idempotent.
func (s *Session) MarkDeliverableComplete(id string) {
	s.Progress.DeliverablesCompleted = insertUnique(s.Progress.DeliverablesCompleted, id)
}

// AddNote appends a free-text note.
func (s *Session) AddNote(note string) {
	s.Notes = append(s.Notes, note)
}

// AddQuestion appends a question asked during the session.
func (s *Session) AddQuestion(q string) {
	s.Questions = append(s.Questions, q)
}

// ObjectiveDone reports whether the objective ID is in the completed set.
func (s *Session) ObjectiveDone(id string) bool {
	return contains(s.Progress.ObjectivesCompleted, id)
}

// DeliverableDone reports whether the deliverable ID is in the completed set.
func (s *Session) DeliverableDone(id string) bool {
	return contains(s.Progress.DeliverablesCompleted, id)
}

// elapsedMinutes returns whole minutes between start and end.
func (s *Session) elapsedMinutes() int {
	if s.EndedAt == nil {
		return s.Progress.TimeSpentMinutes
	}
	return int(s.EndedAt.Sub(s.StartedAt).Minutes())
}

func insertUnique(list []string, id string) []string {
	if contains(list, id) {
		return list
	}
	return append(list, id)
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
