package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/session"
)

var (
	restNotes        string
	restQuick        bool
	restAbandon      bool
	restObjectives   []string
	restDeliverables []string
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "End the active learning session",
	Long: `Close the active session: record what was completed, generate a
handoff for next time, and sync completed deliverables to the issue tracker.
--quick skips the full handoff; --abandon discards the sitting entirely.`,
	RunE: runRest,
}

func init() {
	restCmd.Flags().StringVar(&restNotes, "notes", "", "free-text notes to append to the handoff summary")
	restCmd.Flags().BoolVar(&restQuick, "quick", false, "end with a minimal summary instead of a full handoff")
	restCmd.Flags().BoolVar(&restAbandon, "abandon", false, "discard the session without a handoff")
	restCmd.Flags().StringArrayVar(&restObjectives, "objective", nil, "objective ID completed this session (repeatable)")
	restCmd.Flags().StringArrayVar(&restDeliverables, "deliverable", nil, "deliverable ID completed this session (repeatable)")
	rootCmd.AddCommand(restCmd)
}

func runRest(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	mgr := app.sessions()
	s, err := app.resumeActive(mgr)
	if err != nil {
		return err
	}
	if s == nil {
		return errors.ErrNoActiveSession
	}

	for _, id := range restObjectives {
		s.MarkObjectiveComplete(id)
	}
	for _, id := range restDeliverables {
		s.MarkDeliverableComplete(id)
	}

	if restAbandon {
		if err := mgr.Abandon(s); err != nil {
			return err
		}
		if err := session.ClearMarker(app.markerPath()); err != nil {
			return err
		}
		fmt.Println(warnStyle.Render("Session abandoned."))
		return nil
	}

	cur, err := app.requireCurriculum()
	if err != nil {
		return err
	}
	phase := cur.FindPhase(s.PhaseNumber)
	if phase == nil {
		return errors.NewNotFoundError("phase", fmt.Sprintf("%d", s.PhaseNumber))
	}

	var handoff *session.Handoff
	if restQuick {
		handoff = &session.Handoff{
			Summary: fmt.Sprintf("Quick stop during phase %d: %s.", phase.Number, phase.Title),
		}
	} else {
		handoff = session.GenerateHandoff(s, phase, restNotes)
	}

	if err := mgr.End(s, handoff); err != nil {
		return err
	}
	if err := session.ClearMarker(app.markerPath()); err != nil {
		return err
	}

	// Fold the session's completions into the curriculum document.
	if len(s.Progress.ObjectivesCompleted) > 0 || len(s.Progress.DeliverablesCompleted) > 0 {
		if err := app.curriculumStore().UpdateProgress(s.PhaseNumber,
			s.Progress.ObjectivesCompleted, s.Progress.DeliverablesCompleted); err != nil {
			return err
		}
	}

	if svc := app.issueTracker(); svc != nil && svc.Available() {
		ctx := cmd.Context()
		for _, d := range phase.Deliverables {
			if d.TaskRef != "" && s.DeliverableDone(d.ID) {
				svc.CloseIssue(ctx, d.TaskRef)
			}
		}
		if phase.EpicRef != "" {
			svc.AddComment(ctx, phase.EpicRef, handoff.Summary)
		}
	}

	fmt.Println(successStyle.Render(fmt.Sprintf(
		"Rested. %d minutes logged.", s.Progress.TimeSpentMinutes)))
	fmt.Println("\n" + titleStyle.Render("Handoff"))
	fmt.Println(handoff.Summary)
	if len(handoff.NextSteps) > 0 {
		fmt.Println("\nNext steps:")
		for _, step := range handoff.NextSteps {
			fmt.Println("  - " + step)
		}
	}
	if handoff.PromptForNextSession != "" {
		fmt.Println(subtleStyle.Render("\nResume prompt: " + handoff.PromptForNextSession))
	}
	return nil
}
