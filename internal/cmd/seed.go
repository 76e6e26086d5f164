package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/scaffold"
)

var (
	seedPhase    int
	seedTemplate string
	seedDryRun   bool
	seedForce    bool
	seedOutput   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Scaffold a workspace for a phase",
	Long: `Generate a working directory for a curriculum phase from a template
(` + strings.Join(scaffold.TemplateNames(), ", ") + `). Existing files are kept
unless --force is given; --dry-run prints the plan without writing.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedPhase, "phase", 0, "phase number to scaffold (default: current phase)")
	seedCmd.Flags().StringVar(&seedTemplate, "template", "", "template name")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "print the plan without writing files")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite existing files")
	seedCmd.Flags().StringVar(&seedOutput, "output", "", "target directory (default: phase-N)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	cur, err := app.requireCurriculum()
	if err != nil {
		return err
	}

	phaseNumber := seedPhase
	if phaseNumber == 0 {
		phaseNumber = cur.CurrentPhase
	}
	tmpl := seedTemplate
	if tmpl == "" {
		tmpl = app.cfg.Scaffold.DefaultTemplate
	}

	actions, err := scaffold.Generate(cur, phaseNumber, scaffold.Options{
		Template:  tmpl,
		OutputDir: seedOutput,
		DryRun:    seedDryRun,
		Force:     seedForce,
	})
	if err != nil {
		return err
	}

	for _, a := range actions {
		switch a.Status {
		case scaffold.StatusCreated:
			fmt.Printf("%s %s\n", successStyle.Render("created"), a.Path)
		case scaffold.StatusSkipped:
			fmt.Printf("%s %s\n", warnStyle.Render("skipped"), a.Path)
		case scaffold.StatusPlanned:
			fmt.Printf("%s %s\n", subtleStyle.Render("would create"), a.Path)
		}
	}
	return nil
}
