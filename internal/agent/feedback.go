// Package agent implements the three curriculum personas as one configurable
// agent type parameterized by a persona descriptor: a system prompt, a tool
// table, and local handlers that turn the model's structured tool invocations
// into typed results.
package agent

import (
	"fmt"
	"strconv"
	"strings"
)

// Persona names. The generator plants the plan; the two reviewers inspect it
// from the technical and pedagogical side.
const (
	AgentSeedling = "seedling"
	AgentBark     = "bark"
	AgentCanopy   = "canopy"
)

// FeedbackKind classifies a review finding.
type FeedbackKind string

const (
	KindApproval   FeedbackKind = "approval"
	KindConcern    FeedbackKind = "concern"
	KindSuggestion FeedbackKind = "suggestion"
	KindBlocker    FeedbackKind = "blocker"
)

// FeedbackCategory names the review dimension a finding belongs to.
type FeedbackCategory string

const (
	CategoryTechnical   FeedbackCategory = "technical"
	CategoryPedagogical FeedbackCategory = "pedagogical"
	CategorySequencing  FeedbackCategory = "sequencing"
)

// Severity grades a finding. Critical findings always end up unresolved.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// TargetKind identifies what a finding points at.
type TargetKind string

const (
	TargetCurriculum TargetKind = "curriculum"
	TargetPhase      TargetKind = "phase"
)

// Target is the subject of a finding: the whole curriculum or one phase.
type Target struct {
	Kind        TargetKind `json:"kind"`
	PhaseNumber int        `json:"phase_number,omitempty"`
}

// GroupKey returns the conflict-grouping key for this target:
// the target kind joined with the phase number, or "all" for
// curriculum-level findings.
func (t Target) GroupKey() string {
	if t.Kind == TargetPhase {
		return fmt.Sprintf("%s-%d", t.Kind, t.PhaseNumber)
	}
	return string(t.Kind) + "-all"
}

func (t Target) String() string {
	if t.Kind == TargetPhase {
		return fmt.Sprintf("phase:%d", t.PhaseNumber)
	}
	return "curriculum"
}

// ParseTarget parses "curriculum" or "phase:N" into a Target.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "curriculum" || s == "" {
		return Target{Kind: TargetCurriculum}, nil
	}
	if rest, ok := strings.CutPrefix(s, "phase:"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 1 {
			return Target{}, fmt.Errorf("invalid phase target %q", s)
		}
		return Target{Kind: TargetPhase, PhaseNumber: n}, nil
	}
	return Target{}, fmt.Errorf("invalid feedback target %q", s)
}

// Feedback is a single review finding. Immutable once created.
type Feedback struct {
	Agent           string           `json:"agent"`
	Kind            FeedbackKind     `json:"kind"`
	Category        FeedbackCategory `json:"category"`
	Target          Target           `json:"target"`
	Message         string           `json:"message"`
	Severity        Severity         `json:"severity"`
	SuggestedChange string           `json:"suggested_change,omitempty"`
}

// validKinds, validCategories, validSeverities bound the normalized enums.
var (
	validKinds      = map[FeedbackKind]bool{KindApproval: true, KindConcern: true, KindSuggestion: true, KindBlocker: true}
	validCategories = map[FeedbackCategory]bool{CategoryTechnical: true, CategoryPedagogical: true, CategorySequencing: true}
	validSeverities = map[Severity]bool{SeverityLow: true, SeverityMedium: true, SeverityHigh: true, SeverityCritical: true}
)

// Normalize lowercases the enum fields and substitutes defaults for
// unrecognized values: suggestion kind, medium severity. An unknown category
// falls back to the persona's home category given by fallback.
func (f *Feedback) Normalize(fallback FeedbackCategory) {
	f.Kind = FeedbackKind(strings.ToLower(string(f.Kind)))
	if !validKinds[f.Kind] {
		f.Kind = KindSuggestion
	}
	f.Category = FeedbackCategory(strings.ToLower(string(f.Category)))
	if !validCategories[f.Category] {
		f.Category = fallback
	}
	f.Severity = Severity(strings.ToLower(string(f.Severity)))
	if !validSeverities[f.Severity] {
		f.Severity = SeverityMedium
	}
}
