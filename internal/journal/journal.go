// Package journal stores free-form learning notes as Markdown files under
// the state directory, one file per entry, named by date and slugified
// title.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/util"
)

// Entry is one journal file.
type Entry struct {
	Name  string
	Title string
}

// Store reads and writes journal entries in one directory.
type Store struct {
	dir   string
	clock func() time.Time
}

// NewStore creates a Store for dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, clock: time.Now}
}

// WithClock overrides the time source used for entry names.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// Save writes a new entry named YYYY-MM-DD-<slug>.md and returns its name.
// An optional sessionRef links the note to the session it was taken in.
func (s *Store) Save(title, body, sessionRef string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.md", s.clock().Format("2006-01-02"), util.Slugify(title))

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_%s_", s.clock().Format("January 2, 2006"))
	if sessionRef != "" {
		fmt.Fprintf(&b, " · session %s", sessionRef)
	}
	b.WriteString("\n\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// List returns all entries, newest first by name.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		entries = append(entries, Entry{
			Name:  f.Name(),
			Title: titleOf(filepath.Join(s.dir, f.Name())),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name > entries[j].Name })
	return entries, nil
}

// Raw returns an entry's Markdown source.
func (s *Store) Raw(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFoundError("note", name)
		}
		return "", err
	}
	return string(data), nil
}

// View returns an entry rendered for the terminal.
func (s *Store) View(name string) (string, error) {
	raw, err := s.Raw(name)
	if err != nil {
		return "", err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return raw, nil
	}
	out, err := renderer.Render(raw)
	if err != nil {
		return raw, nil
	}
	return out, nil
}

// titleOf extracts the first heading line, falling back to the filename.
func titleOf(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return filepath.Base(path)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return filepath.Base(path)
}
