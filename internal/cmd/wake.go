package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/session"
)

var wakePhase int

var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Start a learning session",
	Long: `Open a session against a curriculum phase (the current phase unless
--phase is given). Only one session can be active at a time; rest closes it.`,
	RunE: runWake,
}

func init() {
	wakeCmd.Flags().IntVar(&wakePhase, "phase", 0, "phase number to work on (default: current phase)")
	rootCmd.AddCommand(wakeCmd)
}

func runWake(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	cur, err := app.requireCurriculum()
	if err != nil {
		return err
	}

	mgr := app.sessions()
	if active, err := app.resumeActive(mgr); err != nil {
		return err
	} else if active != nil {
		return fmt.Errorf("%w: phase %d since %s; run `sprout rest` first",
			errors.ErrSessionActive, active.PhaseNumber, active.StartedAt.Format("Jan 2 15:04"))
	}

	phaseNumber := wakePhase
	if phaseNumber == 0 {
		phaseNumber = cur.CurrentPhase
	}

	// Start itself does not check the lock; that is this command's job.
	phase := cur.FindPhase(phaseNumber)
	if phase != nil && phase.Status == curriculum.PhaseLocked {
		return fmt.Errorf("phase %d is locked; finish the earlier phases first", phaseNumber)
	}

	s, err := mgr.Start(cur, phaseNumber)
	if err != nil {
		return err
	}

	phase.AdvanceStatus(curriculum.PhaseInProgress)
	if _, err := app.curriculumStore().Save(cur); err != nil {
		return err
	}

	if err := mgr.Save(s); err != nil {
		return err
	}
	if err := session.WriteMarker(app.markerPath(), session.FileName(s)); err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Awake. Phase %d: %s", phase.Number, phase.Title)))
	for _, obj := range phase.Objectives {
		marker := "○"
		if obj.Completed {
			marker = successStyle.Render("✓")
		}
		fmt.Printf("  %s %s\n", marker, obj.Description)
	}
	fmt.Println(subtleStyle.Render("Close the session with `sprout rest` when you stop."))
	return nil
}
