package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/config"
	"github.com/verdant-labs/sprout/internal/curriculum"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show curriculum progress and the active session",
	Long: `Print the curriculum's phases with their progress and the active
session, if any. --watch re-renders whenever the state directory changes.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "re-render on state changes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if err := printStatus(app); err != nil {
		return err
	}
	if !statusWatch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(config.StateDir(app.root)); err != nil {
		return err
	}
	// Session files live one level down and change on wake/rest.
	_ = watcher.Add(config.SessionsDir(app.root))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Editors and atomic renames fire bursts of events; coalesce them.
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	fmt.Println(subtleStyle.Render("\nWatching for changes. Ctrl-C to stop."))
	for {
		select {
		case <-sigCh:
			return nil
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			debounce.Reset(200 * time.Millisecond)
		case <-debounce.C:
			fmt.Print("\033[H\033[2J")
			if err := printStatus(app); err != nil {
				return err
			}
			fmt.Println(subtleStyle.Render("\nWatching for changes. Ctrl-C to stop."))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			app.logger.Warn("watch error", "error", err)
		}
	}
}

func printStatus(app *app) error {
	cur, err := app.requireCurriculum()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(cur.Title))
	fmt.Println(subtleStyle.Render(fmt.Sprintf("stage: %s · current phase: %d", cur.GrowthStage, cur.CurrentPhase)))
	fmt.Println()

	for _, p := range cur.Phases {
		done, total := phaseProgress(&p)
		fmt.Printf("%s Phase %d: %s", statusGlyph(string(p.Status)), p.Number, p.Title)
		if total > 0 {
			fmt.Printf(" %s", subtleStyle.Render(fmt.Sprintf("(%d/%d done)", done, total)))
		}
		fmt.Println()
	}

	mgr := app.sessions()
	active, err := app.resumeActive(mgr)
	if err != nil {
		return err
	}
	fmt.Println()
	if active == nil {
		fmt.Println(subtleStyle.Render("No active session."))
	} else {
		fmt.Println(stageStyle.Render(fmt.Sprintf("Active session on phase %d since %s (%d notes, %d questions)",
			active.PhaseNumber, active.StartedAt.Format("Jan 2 15:04"),
			len(active.Notes), len(active.Questions))))
	}
	return nil
}

func phaseProgress(p *curriculum.Phase) (done, total int) {
	for _, o := range p.Objectives {
		total++
		if o.Completed {
			done++
		}
	}
	for _, d := range p.Deliverables {
		total++
		if d.Completed {
			done++
		}
	}
	return done, total
}
