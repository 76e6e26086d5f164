// Package tracker shells out to an external issue-tracker binary to mirror
// curriculum phases and deliverables as epics and tasks. The tracker is
// optional: availability is probed up front, and sync failures never fail
// the learning workflow.
package tracker

import (
	"context"
	"os/exec"
	"strings"

	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/logging"
)

// Runner executes the tracker binary and returns its combined output.
// Injected so tests can fake the external process.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Service wraps one tracker binary.
type Service struct {
	binary   string
	run      Runner
	lookPath func(string) (string, error)
	logger   *logging.Logger

	probed    bool
	available bool
}

// Option configures a Service.
type Option func(*Service)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(s *Service) { s.run = r }
}

// WithLookPath replaces the binary probe.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(s *Service) { s.lookPath = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service for the named binary.
func NewService(binary string, opts ...Option) *Service {
	s := &Service{
		binary:   binary,
		run:      execRunner,
		lookPath: exec.LookPath,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether the tracker binary is on PATH. Probed once and
// cached; callers should skip the whole integration when false.
func (s *Service) Available() bool {
	if !s.probed {
		_, err := s.lookPath(s.binary)
		s.available = err == nil
		s.probed = true
		if !s.available {
			s.logger.Debug("tracker binary not found", "binary", s.binary)
		}
	}
	return s.available
}

// CreateIssue creates an issue and returns its external ID, parsed from the
// last field of the first output line. An optional parent links the issue
// under an epic.
func (s *Service) CreateIssue(ctx context.Context, title, body, parent string) (string, error) {
	if !s.Available() {
		return "", errors.ErrTrackerUnavailable
	}

	args := []string{"create", "--title", title}
	if body != "" {
		args = append(args, "--body", body)
	}
	if parent != "" {
		args = append(args, "--parent", parent)
	}

	out, err := s.run(ctx, s.binary, args...)
	if err != nil {
		return "", errors.Join(errors.New("tracker create failed"), err)
	}

	id := parseID(out)
	if id == "" {
		return "", errors.New("tracker create returned no issue id")
	}
	s.logger.Info("tracker issue created", "id", id, "title", title)
	return id, nil
}

// CloseIssue closes an issue. Best-effort: failures are logged and swallowed.
func (s *Service) CloseIssue(ctx context.Context, id string) {
	s.bestEffort(ctx, "close issue", "close", id)
}

// UpdateStatus moves an issue to the given status. Best-effort.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) {
	s.bestEffort(ctx, "update status", "status", id, status)
}

// AddDependency records that id depends on dependsOn. Best-effort.
func (s *Service) AddDependency(ctx context.Context, id, dependsOn string) {
	s.bestEffort(ctx, "add dependency", "dep", "add", id, dependsOn)
}

// AddComment posts a comment on an issue. Best-effort.
func (s *Service) AddComment(ctx context.Context, id, body string) {
	s.bestEffort(ctx, "add comment", "comment", id, "--body", body)
}

// ListReady returns the IDs of unblocked issues, one per output line.
func (s *Service) ListReady(ctx context.Context) ([]string, error) {
	if !s.Available() {
		return nil, errors.ErrTrackerUnavailable
	}

	out, err := s.run(ctx, s.binary, "list", "--ready")
	if err != nil {
		return nil, errors.Join(errors.New("tracker list failed"), err)
	}

	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			ids = append(ids, fields[0])
		}
	}
	return ids, nil
}

func (s *Service) bestEffort(ctx context.Context, op string, args ...string) {
	if !s.Available() {
		return
	}
	if out, err := s.run(ctx, s.binary, args...); err != nil {
		s.logger.Warn("tracker "+op+" failed", "error", err, "output", strings.TrimSpace(string(out)))
	}
}

func parseID(out []byte) string {
	first := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
