package orchestrator

import (
	"strings"

	"github.com/verdant-labs/sprout/internal/agent"
)

// Keyword lists for the complexity-direction heuristic. These are part of
// the merge contract: do not reword or extend them.
var (
	increaseKeywords = []string{"add", "increase", "more", "advanced", "complex"}
	decreaseKeywords = []string{"simplify", "reduce", "less", "basic", "remove"}
)

// detectConflicts groups feedback by target and flags every group where the
// two reviewers pull the curriculum in opposite complexity directions: one
// reviewer's messages carry an increasing keyword while the other's carry a
// decreasing one, in either pairing. Returns the set of conflicting group
// keys.
func detectConflicts(items []agent.Feedback) map[string]bool {
	groups := make(map[string][]agent.Feedback)
	for _, fb := range items {
		key := fb.Target.GroupKey()
		groups[key] = append(groups[key], fb)
	}

	conflicts := make(map[string]bool)
	for key, group := range groups {
		var bark, canopy []agent.Feedback
		for _, fb := range group {
			switch fb.Agent {
			case agent.AgentBark:
				bark = append(bark, fb)
			case agent.AgentCanopy:
				canopy = append(canopy, fb)
			}
		}
		if opposed(bark, canopy) || opposed(canopy, bark) {
			conflicts[key] = true
		}
	}
	return conflicts
}

// opposed reports whether a's messages signal more complexity while b's
// signal less.
func opposed(a, b []agent.Feedback) bool {
	return hasSignal(a, increaseKeywords) && hasSignal(b, decreaseKeywords)
}

func hasSignal(items []agent.Feedback, keywords []string) bool {
	for _, fb := range items {
		msg := strings.ToLower(fb.Message)
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
	}
	return false
}
