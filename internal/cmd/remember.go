package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/sprout/internal/config"
	"github.com/verdant-labs/sprout/internal/journal"
)

var (
	rememberList bool
	rememberView string
)

var rememberCmd = &cobra.Command{
	Use:   "remember [title]",
	Short: "Write, list, or view journal notes",
	Long: `Capture a learning note in the journal. With a title, the note body
is read from stdin until EOF. --list shows all notes; --view renders one.`,
	RunE: runRemember,
}

func init() {
	rememberCmd.Flags().BoolVar(&rememberList, "list", false, "list journal entries")
	rememberCmd.Flags().StringVar(&rememberView, "view", "", "render one entry by name")
	rootCmd.AddCommand(rememberCmd)
}

func runRemember(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	store := journal.NewStore(config.JournalDir(app.root))

	switch {
	case rememberList:
		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(subtleStyle.Render("No journal entries yet."))
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s\n", subtleStyle.Render(e.Name), e.Title)
		}
		return nil

	case rememberView != "":
		out, err := store.View(rememberView)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("provide a note title, or use --list / --view")
	}
	title := strings.Join(args, " ")

	fmt.Println(subtleStyle.Render("Write your note, then end with Ctrl-D:"))
	var body strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	sessionRef := ""
	mgr := app.sessions()
	if s, err := app.resumeActive(mgr); err == nil && s != nil {
		sessionRef = s.ID
		s.AddNote(title)
		if err := mgr.Save(s); err != nil {
			app.logger.Warn("recording note on session failed", "error", err)
		}
	}

	name, err := store.Save(title, body.String(), sessionRef)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Remembered as " + name))
	return nil
}
