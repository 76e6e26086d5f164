// Package curriculum defines the learning-plan data model and its
// file-based persistence. A curriculum is stored as a single JSON document;
// a rendered Markdown form exists for humans and is deliberately not
// parseable back.
package curriculum

import (
	"time"

	"github.com/google/uuid"
)

// GrowthStage tags a curriculum or phase with how far along it is in the
// garden metaphor that names this tool.
type GrowthStage string

const (
	StageSeed    GrowthStage = "seed"
	StageSprout  GrowthStage = "sprout"
	StageGrowth  GrowthStage = "growth"
	StageBloom   GrowthStage = "bloom"
	StageHarvest GrowthStage = "harvest"
)

// PhaseStatus is the lifecycle state of a phase. Status only advances
// monotonically locked -> available -> in_progress -> completed.
type PhaseStatus string

const (
	PhaseLocked     PhaseStatus = "locked"
	PhaseAvailable  PhaseStatus = "available"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
)

// statusRank orders phase statuses for monotonic advancement.
var statusRank = map[PhaseStatus]int{
	PhaseLocked:     0,
	PhaseAvailable:  1,
	PhaseInProgress: 2,
	PhaseCompleted:  3,
}

// Curriculum is the root learning plan.
type Curriculum struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Topic        string      `json:"topic"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Phases       []Phase     `json:"phases"`
	CurrentPhase int         `json:"current_phase"`
	GrowthStage  GrowthStage `json:"growth_stage"`
	Metadata     Metadata    `json:"metadata"`
}

// Metadata holds descriptive attributes of the overall plan.
type Metadata struct {
	EstimatedDuration string   `json:"estimated_duration,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	Prerequisites     []string `json:"prerequisites,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Audience          string   `json:"audience,omitempty"`
}

// Phase is one stage of a curriculum.
type Phase struct {
	ID             string              `json:"id"`
	Number         int                 `json:"number"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	GrowthStage    GrowthStage         `json:"growth_stage"`
	EstimatedHours float64             `json:"estimated_hours"`
	Status         PhaseStatus         `json:"status"`
	Objectives     []LearningObjective `json:"objectives"`
	Deliverables   []Deliverable       `json:"deliverables"`
	KeyConcepts    []string            `json:"key_concepts,omitempty"`
	EpicRef        string              `json:"epic_ref,omitempty"` // external-tracker epic id
}

// LearningObjective is a leaf work item within a phase.
type LearningObjective struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Deliverable is a concrete buildable artifact within a phase.
type Deliverable struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Completed          bool     `json:"completed"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	TaskRef            string   `json:"task_ref,omitempty"` // external-tracker task id
}

// New creates an empty curriculum for a topic with a fresh identity.
func New(title, topic string) *Curriculum {
	now := time.Now()
	return &Curriculum{
		ID:          uuid.NewString(),
		Title:       title,
		Topic:       topic,
		CreatedAt:   now,
		UpdatedAt:   now,
		GrowthStage: StageSeed,
	}
}

// FindPhase returns the phase with the given number, or nil when absent.
func (c *Curriculum) FindPhase(number int) *Phase {
	for i := range c.Phases {
		if c.Phases[i].Number == number {
			return &c.Phases[i]
		}
	}
	return nil
}

// ShallowCopy returns a copy sharing the phase slice. The orchestrator's
// merge step returns this rather than a structurally modified curriculum.
func (c *Curriculum) ShallowCopy() *Curriculum {
	cp := *c
	return &cp
}

// AdvanceStatus moves the phase to next only if next is further along the
// lifecycle; regressions are ignored.
func (p *Phase) AdvanceStatus(next PhaseStatus) {
	if statusRank[next] > statusRank[p.Status] {
		p.Status = next
	}
}

// Complete reports whether every objective and deliverable in the phase is
// marked complete. A phase with no work items is not considered complete.
func (p *Phase) Complete() bool {
	if len(p.Objectives) == 0 && len(p.Deliverables) == 0 {
		return false
	}
	for _, o := range p.Objectives {
		if !o.Completed {
			return false
		}
	}
	for _, d := range p.Deliverables {
		if !d.Completed {
			return false
		}
	}
	return true
}
