package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sprout in the current directory",
	Long: `Create the .sprout state directory with a default config file,
a sessions directory, and a journal directory.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const defaultConfigYAML = `model:
  name: claude-sonnet-4-20250514
  max_tokens: 8192

logging:
  level: info

tracker:
  enabled: true
  binary: trellis

pipeline:
  debug: false

scaffold:
  default_template: default
`

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	stateDir := config.StateDir(root)
	for _, dir := range []string{stateDir, config.SessionsDir(root), config.JournalDir(root)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	cfgPath := filepath.Join(stateDir, "config.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	fmt.Println(successStyle.Render("Sprout initialized."))
	fmt.Printf("State directory: %s\n", stateDir)
	fmt.Println(subtleStyle.Render("Next: set ANTHROPIC_API_KEY and run `sprout grow <topic>`."))
	return nil
}
