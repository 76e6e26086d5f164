package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verdant-labs/sprout/internal/errors"
)

// Store persists the active curriculum document as JSON.
// Writes are atomic: data is written to a temp file in the same directory
// and renamed into place, so the document is never partially written.
type Store struct {
	path string
}

// NewStore creates a Store for the given curriculum file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the curriculum file path this store owns.
func (s *Store) Path() string { return s.path }

// Load reads a curriculum from the store's path.
func (s *Store) Load() (*Curriculum, error) {
	return LoadFile(s.path)
}

// LoadFile deserializes a curriculum from an arbitrary path.
// Returns ErrCurriculumNotFound when the path does not exist and
// ErrUnsupportedFormat when the file is not the structured JSON form;
// a rendered Markdown curriculum cannot be parsed back.
func LoadFile(path string) (*Curriculum, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
		return nil, fmt.Errorf("%w: %s is a rendered Markdown document, use the JSON form", errors.ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("curriculum", path)
		}
		return nil, fmt.Errorf("failed to read curriculum: %w", err)
	}

	var c Curriculum
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrUnsupportedFormat, path, err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%w: %s: missing curriculum id", errors.ErrUnsupportedFormat, path)
	}
	return &c, nil
}

// Save writes the curriculum to the store's path, updating UpdatedAt.
// Returns the path written.
func (s *Store) Save(c *Curriculum) (string, error) {
	c.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal curriculum: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := atomicWriteFile(s.path, data, 0644); err != nil {
		return "", err
	}
	return s.path, nil
}

// UpdateProgress marks the given objectives and deliverables complete on the
// phase with the given number, advances the phase status, and persists.
// When the phase's work is fully complete, the phase is marked completed and
// the next phase (if any) is unlocked.
func (s *Store) UpdateProgress(phaseNumber int, objectiveIDs, deliverableIDs []string) error {
	c, err := s.Load()
	if err != nil {
		return err
	}

	phase := c.FindPhase(phaseNumber)
	if phase == nil {
		return errors.NewNotFoundError("phase", fmt.Sprintf("%d", phaseNumber))
	}

	objectives := make(map[string]bool, len(objectiveIDs))
	for _, id := range objectiveIDs {
		objectives[id] = true
	}
	deliverables := make(map[string]bool, len(deliverableIDs))
	for _, id := range deliverableIDs {
		deliverables[id] = true
	}

	for i := range phase.Objectives {
		if objectives[phase.Objectives[i].ID] {
			phase.Objectives[i].Completed = true
		}
	}
	for i := range phase.Deliverables {
		if deliverables[phase.Deliverables[i].ID] {
			phase.Deliverables[i].Completed = true
		}
	}

	if len(objectiveIDs) > 0 || len(deliverableIDs) > 0 {
		phase.AdvanceStatus(PhaseInProgress)
	}

	if phase.Complete() {
		phase.AdvanceStatus(PhaseCompleted)
		if next := c.FindPhase(phaseNumber + 1); next != nil {
			next.AdvanceStatus(PhaseAvailable)
			c.CurrentPhase = next.Number
		}
	}

	_, err = s.Save(c)
	return err
}

// atomicWriteFile writes data to a file atomically by writing to a temporary
// file first, then renaming.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
