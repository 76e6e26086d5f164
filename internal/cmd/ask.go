package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/anthropic"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about what you are learning",
	Long: `Send a one-off question to the model, grounded in the phase you are
currently working on. When a session is active the question is recorded in
its history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

const askSystemPrompt = `You are a patient, practical tutor helping someone
work through a structured learning curriculum. Answer concretely, with short
examples where they help. Stay within the scope of the current phase unless
asked otherwise.`

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	client, err := app.chatClient()
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")

	prompt := question
	if cur, err := app.requireCurriculum(); err == nil {
		if phase := cur.FindPhase(cur.CurrentPhase); phase != nil {
			var sb strings.Builder
			fmt.Fprintf(&sb, "I am learning %q, currently in phase %d: %s.\n",
				cur.Title, phase.Number, phase.Title)
			if len(phase.KeyConcepts) > 0 {
				fmt.Fprintf(&sb, "Key concepts: %s.\n", strings.Join(phase.KeyConcepts, ", "))
			}
			sb.WriteString("\nQuestion: " + question)
			prompt = sb.String()
		}
	}

	var answer string
	err = runWithSpinner(cmd.Context(), "Thinking...", func(ctx context.Context) error {
		resp, chatErr := client.Chat(ctx, anthropic.ChatRequest{
			System:   askSystemPrompt,
			Messages: []anthropic.Message{{Role: "user", Content: prompt}},
		})
		if chatErr != nil {
			return chatErr
		}
		answer = resp.Text
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(answer)

	mgr := app.sessions()
	if s, err := app.resumeActive(mgr); err == nil && s != nil {
		s.AddQuestion(question)
		if err := mgr.Save(s); err != nil {
			app.logger.Warn("recording question failed", "error", err)
		}
	}
	return nil
}
