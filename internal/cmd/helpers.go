package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/verdant-labs/sprout/internal/anthropic"
	"github.com/verdant-labs/sprout/internal/config"
	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/logging"
	"github.com/verdant-labs/sprout/internal/session"
	"github.com/verdant-labs/sprout/internal/tracker"
)

// app bundles everything a command needs. Built per invocation; the session
// register lives here as the single active-session slot for the process.
type app struct {
	root     string
	cfg      *config.Config
	logger   *logging.Logger
	register *session.Register
}

// newApp loads and validates configuration and opens the debug log. The
// returned app must be closed.
func newApp() (*app, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}

	logger := logging.NopLogger()
	if _, statErr := os.Stat(config.StateDir(root)); statErr == nil {
		logger, err = logging.NewLogger(config.StateDir(root), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
	}

	return &app{
		root:     root,
		cfg:      cfg,
		logger:   logger,
		register: &session.Register{},
	}, nil
}

func (a *app) close() {
	_ = a.logger.Close()
}

// chatClient builds the Anthropic client, failing fast when the API key is
// missing. Called before any core logic in commands that talk to the model.
func (a *app) chatClient() (anthropic.Client, error) {
	key := config.APIKey()
	if key == "" {
		return nil, errors.ErrAPIKeyMissing
	}
	opts := []anthropic.Option{
		anthropic.WithModel(a.cfg.Model.Name),
		anthropic.WithMaxTokens(a.cfg.Model.MaxTokens),
	}
	if a.cfg.Model.TimeoutSeconds > 0 {
		opts = append(opts, anthropic.WithTimeout(time.Duration(a.cfg.Model.TimeoutSeconds)*time.Second))
	}
	return anthropic.NewClient(key, opts...)
}

// curriculumStore opens the active curriculum document.
func (a *app) curriculumStore() *curriculum.Store {
	return curriculum.NewStore(config.CurriculumPath(a.root))
}

// requireCurriculum loads the active curriculum or explains how to get one.
func (a *app) requireCurriculum() (*curriculum.Curriculum, error) {
	c, err := a.curriculumStore().Load()
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("no curriculum found; run `sprout grow <topic>` first")
		}
		return nil, err
	}
	return c, nil
}

// sessions builds the session manager over the project's sessions directory.
func (a *app) sessions() *session.Manager {
	return session.NewManager(config.SessionsDir(a.root), a.register,
		session.WithLogger(a.logger))
}

// markerPath is the active-session marker file.
func (a *app) markerPath() string {
	return config.ActiveSessionMarkerPath(a.root)
}

// resumeActive loads the session named by the marker file, falling back to
// a directory scan. Returns nil when no session is active.
func (a *app) resumeActive(mgr *session.Manager) (*session.Session, error) {
	name, err := session.ReadMarker(a.markerPath())
	if err != nil {
		return nil, err
	}
	if name != "" {
		s, err := mgr.Load(name)
		if err == nil && s.Status == session.StatusActive {
			mgr.Register().Set(s)
			return s, nil
		}
		// Stale marker: the named file is gone or already closed.
		_ = session.ClearMarker(a.markerPath())
	}

	s, err := mgr.FindActive()
	if err != nil {
		return nil, err
	}
	if s != nil {
		mgr.Register().Set(s)
	}
	return s, nil
}

// issueTracker returns the tracker service, or nil when disabled.
func (a *app) issueTracker() *tracker.Service {
	if !a.cfg.Tracker.Enabled {
		return nil
	}
	return tracker.NewService(a.cfg.Tracker.Binary, tracker.WithLogger(a.logger))
}
