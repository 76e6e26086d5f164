package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/event"
	"github.com/verdant-labs/sprout/internal/logging"
	"github.com/verdant-labs/sprout/internal/util"
)

// Register is the single-slot holder for the currently active session within
// one process. The CLI composition root owns one Register and passes it into
// the manager; cross-process continuity comes from the marker file, not from
// this slot.
type Register struct {
	current *Session
}

// Current returns the registered session, or nil.
func (r *Register) Current() *Session { return r.current }

// Set stores s as the active session.
func (r *Register) Set(s *Session) { r.current = s }

// Clear empties the slot.
func (r *Register) Clear() { r.current = nil }

// Clock supplies the current time. Injected so handoff timestamps and
// filenames are deterministic in tests.
type Clock func() time.Time

// Manager persists sessions under a directory and drives their lifecycle.
type Manager struct {
	dir      string
	register *Register
	clock    Clock
	logger   *logging.Logger
	bus      *event.Bus
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithBus sets the event bus for session lifecycle events.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) { m.bus = b }
}

// NewManager creates a Manager storing sessions in dir. The register must
// not be nil.
func NewManager(dir string, register *Register, opts ...Option) *Manager {
	m := &Manager{
		dir:      dir,
		register: register,
		clock:    time.Now,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register exposes the active-session slot.
func (m *Manager) Register() *Register { return m.register }

// Start creates a new active session for the given phase and registers it.
// The phase number must exist in the curriculum; on failure nothing is
// registered and nothing is written. Start itself never touches disk.
func (m *Manager) Start(c *curriculum.Curriculum, phaseNumber int) (*Session, error) {
	phase := c.FindPhase(phaseNumber)
	if phase == nil {
		return nil, errors.NewNotFoundError("phase", strconv.Itoa(phaseNumber))
	}

	s := &Session{
		ID:              uuid.NewString(),
		CurriculumID:    c.ID,
		CurriculumTitle: c.Title,
		PhaseID:         phase.ID,
		PhaseNumber:     phase.Number,
		PhaseTitle:      phase.Title,
		StartedAt:       m.clock(),
		Status:          StatusActive,
	}
	m.register.Set(s)

	m.logger.Info("session started", "session_id", s.ID, "phase", s.PhaseNumber)
	m.publish(event.NewSessionStartedEvent(s.ID, s.PhaseNumber, s.PhaseTitle))
	return s, nil
}

// FileName computes the deterministic session filename:
// YYYY-MM-DD-<slug>-phase-N.json from the start date, the slugified
// curriculum title, and the phase number. Same-day same-phase sessions
// collide and overwrite; that is accepted.
func FileName(s *Session) string {
	return fmt.Sprintf("%s-%s-phase-%d.json",
		s.StartedAt.Format("2006-01-02"),
		util.Slugify(s.CurriculumTitle),
		s.PhaseNumber)
}

// Save writes the full JSON snapshot. When the session has ended, elapsed
// minutes are recomputed from the timestamps first.
func (m *Manager) Save(s *Session) error {
	if s.EndedAt != nil {
		s.Progress.TimeSpentMinutes = s.elapsedMinutes()
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return errors.NewSessionError("creating sessions directory", err).WithSession(s.ID)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.NewSessionError("serializing session", err).WithSession(s.ID)
	}

	path := filepath.Join(m.dir, FileName(s))
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return errors.NewSessionError("writing session file", err).WithSession(s.ID)
	}

	m.logger.Debug("session saved", "session_id", s.ID, "path", path)
	return nil
}

// End seals the session: end timestamp from the clock, completed status,
// the given handoff attached, snapshot persisted, register cleared. The
// handoff is computed by the caller via GenerateHandoff beforehand.
func (m *Manager) End(s *Session, handoff *Handoff) error {
	return m.finish(s, StatusCompleted, handoff)
}

// Abandon seals the session as abandoned, with no handoff.
func (m *Manager) Abandon(s *Session) error {
	return m.finish(s, StatusAbandoned, nil)
}

func (m *Manager) finish(s *Session, status Status, handoff *Handoff) error {
	now := m.clock()
	s.EndedAt = &now
	s.Status = status
	s.Handoff = handoff
	s.Progress.TimeSpentMinutes = s.elapsedMinutes()

	if err := m.Save(s); err != nil {
		return err
	}
	m.register.Clear()

	m.logger.Info("session ended",
		"session_id", s.ID, "status", string(status), "minutes", s.Progress.TimeSpentMinutes)
	m.publish(event.NewSessionEndedEvent(s.ID, string(status), s.Progress.TimeSpentMinutes))
	return nil
}

// Load reads one session snapshot from disk.
func (m *Manager) Load(name string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("session", name)
		}
		return nil, errors.NewSessionError("reading session file", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewSessionError("parsing session file", errors.Join(errors.ErrSessionCorrupted, err))
	}
	return &s, nil
}

// FindActive scans the sessions directory and returns the most recently
// started session with active status, or nil when none exists. A linear
// scan; session counts stay small.
func (m *Manager) FindActive() (*Session, error) {
	sessions, err := m.List("")
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.Status == StatusActive {
			return s, nil
		}
	}
	return nil, nil
}

// List returns all sessions, optionally filtered by curriculum ID, sorted
// by start time descending. Unreadable entries are skipped.
func (m *Manager) List(curriculumID string) ([]*Session, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewSessionError("reading sessions directory", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		s, err := m.Load(entry.Name())
		if err != nil {
			m.logger.Warn("skipping unreadable session", "file", entry.Name(), "error", err)
			continue
		}
		if curriculumID != "" && s.CurriculumID != curriculumID {
			continue
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

func (m *Manager) publish(e event.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// atomicWriteFile writes via a temp file in the same directory and renames
// it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
