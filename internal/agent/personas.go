package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verdant-labs/sprout/internal/anthropic"
	"github.com/verdant-labs/sprout/internal/curriculum"
)

// seedlingPrompt is the generator persona.
const seedlingPrompt = `You are Seedling, a curriculum designer who turns a
learning topic into a structured, phased learning plan.

You MUST express the plan through a single create_curriculum tool call. Do
not describe the plan in prose. The plan must have 4 to 6 phases, and every
phase needs learning objectives, concrete deliverables with acceptance
criteria, key concepts, and an honest hour estimate. Order phases so that
each builds on the previous one.`

// barkPrompt is the technical reviewer persona.
const barkPrompt = `You are Bark, a senior practitioner reviewing a learning
curriculum for technical soundness: are the hour estimates realistic, are the
deliverables buildable, is the tooling current, are prerequisites respected?

Record every finding with the provide_feedback tool (one call per finding)
and finish with one assess_feasibility call scoring the plan 1-10. Do not
rewrite the plan yourself.`

// canopyPrompt is the pedagogical reviewer persona.
const canopyPrompt = `You are Canopy, a learning-science reviewer evaluating
a curriculum for pedagogy: cognitive load, sequencing, spaced practice, and
whether deliverables actually exercise the objectives.

Record every finding with the provide_feedback tool (one call per finding)
and finish with one assess_pedagogy call scoring the plan 1-10. Do not
rewrite the plan yourself.`

// feedbackTool is shared by both reviewer personas.
var feedbackTool = anthropic.Tool{
	Name:        "provide_feedback",
	Description: "Record a single review finding about the curriculum or one of its phases.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback_type": map[string]any{
				"type": "string",
				"enum": []string{"approval", "concern", "suggestion", "blocker"},
			},
			"category": map[string]any{
				"type": "string",
				"enum": []string{"technical", "pedagogical", "sequencing"},
			},
			"target": map[string]any{
				"type":        "string",
				"description": `"curriculum" for plan-level findings, or "phase:N" for phase N`,
			},
			"message": map[string]any{"type": "string"},
			"severity": map[string]any{
				"type": "string",
				"enum": []string{"low", "medium", "high", "critical"},
			},
			"suggested_change": map[string]any{"type": "string"},
		},
		"required": []string{"feedback_type", "target", "message", "severity"},
	},
}

func scoreTool(name, description string) anthropic.Tool {
	return anthropic.Tool{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":     map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
				"rationale": map[string]any{"type": "string"},
			},
			"required": []string{"score"},
		},
	}
}

var createCurriculumTool = anthropic.Tool{
	Name:        "create_curriculum",
	Description: "Emit the complete structured curriculum. Mandatory; exactly one call.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":              map[string]any{"type": "string"},
			"estimated_duration": map[string]any{"type": "string"},
			"difficulty":         map[string]any{"type": "string"},
			"audience":           map[string]any{"type": "string"},
			"prerequisites":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tags":               map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"phases": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 6,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":           map[string]any{"type": "string"},
						"description":     map[string]any{"type": "string"},
						"growth_stage":    map[string]any{"type": "string"},
						"estimated_hours": map[string]any{"type": "number"},
						"objectives":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"key_concepts":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"deliverables": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title":               map[string]any{"type": "string"},
									"description":         map[string]any{"type": "string"},
									"acceptance_criteria": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								},
								"required": []string{"title"},
							},
						},
					},
					"required": []string{"title", "description", "estimated_hours", "objectives", "deliverables"},
				},
			},
		},
		"required": []string{"title", "phases"},
	},
}

// curriculumPayload mirrors the create_curriculum tool input.
type curriculumPayload struct {
	Title             string   `json:"title"`
	EstimatedDuration string   `json:"estimated_duration"`
	Difficulty        string   `json:"difficulty"`
	Audience          string   `json:"audience"`
	Prerequisites     []string `json:"prerequisites"`
	Tags              []string `json:"tags"`
	Phases            []struct {
		Title          string   `json:"title"`
		Description    string   `json:"description"`
		GrowthStage    string   `json:"growth_stage"`
		EstimatedHours float64  `json:"estimated_hours"`
		Objectives     []string `json:"objectives"`
		KeyConcepts    []string `json:"key_concepts"`
		Deliverables   []struct {
			Title              string   `json:"title"`
			Description        string   `json:"description"`
			AcceptanceCriteria []string `json:"acceptance_criteria"`
		} `json:"deliverables"`
	} `json:"phases"`
}

// feedbackPayload mirrors the provide_feedback tool input.
type feedbackPayload struct {
	FeedbackType    string `json:"feedback_type"`
	Category        string `json:"category"`
	Target          string `json:"target"`
	Message         string `json:"message"`
	Severity        string `json:"severity"`
	SuggestedChange string `json:"suggested_change"`
}

// scorePayload mirrors the assessment tool inputs.
type scorePayload struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// Seedling returns the generator persona.
func Seedling() Persona {
	return Persona{
		Name:         AgentSeedling,
		DisplayName:  "Seedling",
		SystemPrompt: seedlingPrompt,
		Tools:        []anthropic.Tool{createCurriculumTool},
		Handlers: map[string]ToolHandler{
			"create_curriculum": handleCreateCurriculum,
		},
	}
}

// Bark returns the technical reviewer persona.
func Bark() Persona {
	return Persona{
		Name:         AgentBark,
		DisplayName:  "Bark",
		SystemPrompt: barkPrompt,
		Tools: []anthropic.Tool{
			feedbackTool,
			scoreTool("assess_feasibility", "Score overall technical feasibility of the plan from 1 to 10."),
		},
		Handlers: map[string]ToolHandler{
			"provide_feedback":   feedbackHandler(AgentBark, CategoryTechnical),
			"assess_feasibility": handleScore,
		},
	}
}

// Canopy returns the pedagogical reviewer persona.
func Canopy() Persona {
	return Persona{
		Name:         AgentCanopy,
		DisplayName:  "Canopy",
		SystemPrompt: canopyPrompt,
		Tools: []anthropic.Tool{
			feedbackTool,
			scoreTool("assess_pedagogy", "Score the pedagogical quality of the plan from 1 to 10."),
		},
		Handlers: map[string]ToolHandler{
			"provide_feedback": feedbackHandler(AgentCanopy, CategoryPedagogical),
			"assess_pedagogy":  handleScore,
		},
	}
}

// handleCreateCurriculum turns the tool payload into a typed Curriculum.
// The first phase starts available; later phases start locked.
func handleCreateCurriculum(input json.RawMessage, turn *Turn) (string, error) {
	var payload curriculumPayload
	if err := json.Unmarshal(input, &payload); err != nil {
		return "", fmt.Errorf("invalid create_curriculum payload: %w", err)
	}
	if payload.Title == "" {
		return "", fmt.Errorf("create_curriculum payload missing title")
	}
	if len(payload.Phases) == 0 {
		return "", fmt.Errorf("create_curriculum payload has no phases")
	}

	now := time.Now()
	c := &curriculum.Curriculum{
		ID:           uuid.NewString(),
		Title:        payload.Title,
		CreatedAt:    now,
		UpdatedAt:    now,
		CurrentPhase: 1,
		GrowthStage:  curriculum.StageSeed,
		Metadata: curriculum.Metadata{
			EstimatedDuration: payload.EstimatedDuration,
			Difficulty:        payload.Difficulty,
			Prerequisites:     payload.Prerequisites,
			Tags:              payload.Tags,
			Audience:          payload.Audience,
		},
	}

	for i, pp := range payload.Phases {
		status := curriculum.PhaseLocked
		if i == 0 {
			status = curriculum.PhaseAvailable
		}
		stage := curriculum.GrowthStage(pp.GrowthStage)
		if stage == "" {
			stage = curriculum.StageSprout
		}

		phase := curriculum.Phase{
			ID:             uuid.NewString(),
			Number:         i + 1,
			Title:          pp.Title,
			Description:    pp.Description,
			GrowthStage:    stage,
			EstimatedHours: pp.EstimatedHours,
			Status:         status,
			KeyConcepts:    pp.KeyConcepts,
		}
		for _, obj := range pp.Objectives {
			phase.Objectives = append(phase.Objectives, curriculum.LearningObjective{
				ID:          uuid.NewString(),
				Description: obj,
			})
		}
		for _, d := range pp.Deliverables {
			phase.Deliverables = append(phase.Deliverables, curriculum.Deliverable{
				ID:                 uuid.NewString(),
				Title:              d.Title,
				Description:        d.Description,
				AcceptanceCriteria: d.AcceptanceCriteria,
			})
		}
		c.Phases = append(c.Phases, phase)
	}

	turn.Curriculum = c
	return fmt.Sprintf("curriculum %q with %d phases", c.Title, len(c.Phases)), nil
}

// feedbackHandler builds a provide_feedback handler bound to one persona.
func feedbackHandler(agentName string, fallback FeedbackCategory) ToolHandler {
	return func(input json.RawMessage, turn *Turn) (string, error) {
		var payload feedbackPayload
		if err := json.Unmarshal(input, &payload); err != nil {
			return "", fmt.Errorf("invalid provide_feedback payload: %w", err)
		}
		if payload.Message == "" {
			return "", fmt.Errorf("provide_feedback payload missing message")
		}

		target, err := ParseTarget(payload.Target)
		if err != nil {
			return "", err
		}

		fb := Feedback{
			Agent:           agentName,
			Kind:            FeedbackKind(payload.FeedbackType),
			Category:        FeedbackCategory(payload.Category),
			Target:          target,
			Message:         payload.Message,
			Severity:        Severity(payload.Severity),
			SuggestedChange: payload.SuggestedChange,
		}
		fb.Normalize(fallback)

		turn.Feedback = append(turn.Feedback, fb)
		return fmt.Sprintf("%s %s on %s", fb.Severity, fb.Kind, fb.Target), nil
	}
}

// handleScore records a 1-10 assessment, clamping out-of-range values.
func handleScore(input json.RawMessage, turn *Turn) (string, error) {
	var payload scorePayload
	if err := json.Unmarshal(input, &payload); err != nil {
		return "", fmt.Errorf("invalid assessment payload: %w", err)
	}

	score := payload.Score
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	turn.Score = score
	return fmt.Sprintf("scored %d/10", score), nil
}
