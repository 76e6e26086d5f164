package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/agent"
	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/event"
	"github.com/verdant-labs/sprout/internal/orchestrator"
	"github.com/verdant-labs/sprout/internal/tracker"
)

var (
	growFile  string
	growDebug bool
)

var growCmd = &cobra.Command{
	Use:   "grow [topic]",
	Short: "Generate and review a curriculum",
	Long: `Run the full pipeline: generate a curriculum for the topic (or load
one with --file), have the technical and pedagogical reviewers critique it,
and merge their feedback. The result is saved as the active curriculum and,
when an issue tracker is available, mirrored as epics and tasks.`,
	RunE: runGrow,
}

func init() {
	growCmd.Flags().StringVar(&growFile, "file", "", "review an existing curriculum JSON file")
	growCmd.Flags().BoolVar(&growDebug, "debug", false, "print agent prompts, responses, and tool payloads")
	rootCmd.AddCommand(growCmd)
}

func runGrow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && growFile == "" {
		return fmt.Errorf("provide a topic or --file")
	}
	if len(args) > 0 && growFile != "" {
		return fmt.Errorf("topic and --file are mutually exclusive")
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	client, err := app.chatClient()
	if err != nil {
		return err
	}

	input := growFile
	opts := orchestrator.Options{FromFile: growFile != ""}
	if !opts.FromFile {
		input = strings.Join(args, " ")
	}

	debug := growDebug || app.cfg.Pipeline.Debug
	orch := orchestrator.New(orchestrator.Config{
		Client: client,
		Logger: app.logger,
		Debug:  debug,
		Callbacks: orchestrator.Callbacks{
			OnPhaseStart: func(stage string) {
				fmt.Println(stageStyle.Render("▶ " + stage))
			},
			OnPhaseComplete: func(stage string) {
				fmt.Println(successStyle.Render("✓ " + stage))
			},
			OnFeedback: func(fb agent.Feedback) {
				fmt.Printf("  %s [%s] %s: %s\n", fb.Agent, fb.Severity, fb.Target, fb.Message)
			},
			OnLog: func(msg string) {
				fmt.Println(subtleStyle.Render("  " + msg))
			},
			OnDebug: func(e event.Event) {
				fmt.Println(subtleStyle.Render(fmt.Sprintf("  [%s] %+v", e.EventType(), e)))
			},
		},
	})

	result, err := orch.Orchestrate(cmd.Context(), input, opts)
	if err != nil {
		return err
	}

	path, err := app.curriculumStore().Save(result.Curriculum)
	if err != nil {
		return err
	}

	printGrowResult(result, path)

	if svc := app.issueTracker(); svc != nil {
		syncTracker(cmd.Context(), app, svc, result.Curriculum)
	}
	return nil
}

func printGrowResult(result *orchestrator.Result, path string) {
	cur := result.Curriculum
	fmt.Println()
	fmt.Println(titleStyle.Render(cur.Title))
	for _, p := range cur.Phases {
		fmt.Printf("  %d. %s (%gh, %d deliverables)\n",
			p.Number, p.Title, p.EstimatedHours, len(p.Deliverables))
	}
	fmt.Printf("\nFeasibility %d/10 · Pedagogy %d/10\n", result.FeasibilityScore, result.PedagogyScore)

	if len(result.AppliedChanges) > 0 {
		fmt.Println("\nApplied feedback:")
		for _, change := range result.AppliedChanges {
			fmt.Println("  " + change)
		}
	}
	if len(result.UnresolvedIssues) > 0 {
		fmt.Println(warnStyle.Render("\nUnresolved issues (manual follow-up needed):"))
		for _, fb := range result.UnresolvedIssues {
			fmt.Printf("  %s [%s] %s: %s\n", fb.Agent, fb.Severity, fb.Target, fb.Message)
		}
	}

	if result.Success {
		fmt.Println(successStyle.Render("\nReview passed. Saved to " + path))
	} else {
		fmt.Println(warnStyle.Render("\nReview finished with open issues. Saved to " + path))
	}
}

// syncTracker mirrors phases as epics and deliverables as tasks. Entirely
// best-effort: when the binary is missing we say so once and move on.
func syncTracker(ctx context.Context, app *app, svc *tracker.Service, cur *curriculum.Curriculum) {
	if !svc.Available() {
		fmt.Println(subtleStyle.Render("Issue tracker not found; skipping task sync."))
		return
	}

	changed := false
	for i := range cur.Phases {
		phase := &cur.Phases[i]
		if phase.EpicRef == "" {
			id, err := svc.CreateIssue(ctx,
				fmt.Sprintf("Phase %d: %s", phase.Number, phase.Title), phase.Description, "")
			if err != nil {
				app.logger.Warn("epic creation failed", "phase", phase.Number, "error", err)
				continue
			}
			phase.EpicRef = id
			changed = true
		}
		for j := range phase.Deliverables {
			d := &phase.Deliverables[j]
			if d.TaskRef != "" {
				continue
			}
			id, err := svc.CreateIssue(ctx, d.Title, d.Description, phase.EpicRef)
			if err != nil {
				app.logger.Warn("task creation failed", "deliverable", d.Title, "error", err)
				continue
			}
			d.TaskRef = id
			changed = true
		}
	}

	if changed {
		if _, err := app.curriculumStore().Save(cur); err != nil {
			app.logger.Warn("saving tracker refs failed", "error", err)
			return
		}
		fmt.Println(subtleStyle.Render("Tracker epics and tasks created."))
	}
}
