package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/orchestrator"
)

var plantCmd = &cobra.Command{
	Use:   "plant <topic>",
	Short: "Generate a curriculum without review",
	Long: `Run only the generator persona for a topic and save the resulting
curriculum. Use grow for the full reviewed pipeline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlant,
}

func init() {
	rootCmd.AddCommand(plantCmd)
}

func runPlant(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	client, err := app.chatClient()
	if err != nil {
		return err
	}

	topic := strings.Join(args, " ")
	orch := orchestrator.New(orchestrator.Config{
		Client: client,
		Logger: app.logger,
	})

	var cur *curriculum.Curriculum
	err = runWithSpinner(cmd.Context(), "Planting curriculum for "+topic+"...",
		func(ctx context.Context) error {
			var genErr error
			cur, genErr = orch.Generate(ctx, topic)
			return genErr
		})
	if err != nil {
		return err
	}
	cur.Topic = topic

	path, err := app.curriculumStore().Save(cur)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(cur.Title))
	for _, p := range cur.Phases {
		fmt.Printf("  %d. %s (%gh)\n", p.Number, p.Title, p.EstimatedHours)
	}
	fmt.Println(successStyle.Render("Saved to " + path))
	return nil
}
