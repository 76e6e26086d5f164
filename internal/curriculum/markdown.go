package curriculum

import (
	"fmt"
	"strings"
)

// RenderMarkdown produces the human-readable form of a curriculum.
// This form is for reading and sharing only; LoadFile rejects it.
func RenderMarkdown(c *Curriculum) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", c.Title)
	fmt.Fprintf(&sb, "Topic: %s\n\n", c.Topic)

	if c.Metadata.EstimatedDuration != "" || c.Metadata.Difficulty != "" {
		if c.Metadata.EstimatedDuration != "" {
			fmt.Fprintf(&sb, "- Estimated duration: %s\n", c.Metadata.EstimatedDuration)
		}
		if c.Metadata.Difficulty != "" {
			fmt.Fprintf(&sb, "- Difficulty: %s\n", c.Metadata.Difficulty)
		}
		if c.Metadata.Audience != "" {
			fmt.Fprintf(&sb, "- Audience: %s\n", c.Metadata.Audience)
		}
		if len(c.Metadata.Prerequisites) > 0 {
			fmt.Fprintf(&sb, "- Prerequisites: %s\n", strings.Join(c.Metadata.Prerequisites, ", "))
		}
		sb.WriteString("\n")
	}

	for _, p := range c.Phases {
		fmt.Fprintf(&sb, "## Phase %d: %s\n\n", p.Number, p.Title)
		fmt.Fprintf(&sb, "%s\n\n", p.Description)
		fmt.Fprintf(&sb, "Status: %s · Estimated: %.1fh\n\n", p.Status, p.EstimatedHours)

		if len(p.Objectives) > 0 {
			sb.WriteString("### Objectives\n\n")
			for _, o := range p.Objectives {
				fmt.Fprintf(&sb, "- %s %s\n", checkbox(o.Completed), o.Description)
			}
			sb.WriteString("\n")
		}

		if len(p.Deliverables) > 0 {
			sb.WriteString("### Deliverables\n\n")
			for _, d := range p.Deliverables {
				fmt.Fprintf(&sb, "- %s **%s**", checkbox(d.Completed), d.Title)
				if d.Description != "" {
					fmt.Fprintf(&sb, " — %s", d.Description)
				}
				sb.WriteString("\n")
				for _, ac := range d.AcceptanceCriteria {
					fmt.Fprintf(&sb, "  - %s\n", ac)
				}
			}
			sb.WriteString("\n")
		}

		if len(p.KeyConcepts) > 0 {
			fmt.Fprintf(&sb, "Key concepts: %s\n\n", strings.Join(p.KeyConcepts, ", "))
		}
	}

	return sb.String()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
