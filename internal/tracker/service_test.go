package tracker

import (
	"context"
	"testing"

	"github.com/verdant-labs/sprout/internal/errors"
)

type call struct {
	name string
	args []string
}

func fakeService(out string, err error, found bool) (*Service, *[]call) {
	var calls []call
	lookPath := func(string) (string, error) {
		if found {
			return "/usr/local/bin/trellis", nil
		}
		return "", errors.New("not found")
	}
	s := NewService("trellis",
		WithLookPath(lookPath),
		WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
			calls = append(calls, call{name, args})
			return []byte(out), err
		}),
	)
	return s, &calls
}

func TestAvailableProbe(t *testing.T) {
	s, _ := fakeService("", nil, true)
	if !s.Available() {
		t.Error("Available = false with binary on PATH")
	}

	s, _ = fakeService("", nil, false)
	if s.Available() {
		t.Error("Available = true with binary missing")
	}
}

func TestCreateIssueParsesID(t *testing.T) {
	s, calls := fakeService("Created issue sprout-42\nmore output\n", nil, true)

	id, err := s.CreateIssue(context.Background(), "Phase 1: Fundamentals", "epic body", "")
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if id != "sprout-42" {
		t.Errorf("id = %q, want sprout-42", id)
	}
	if len(*calls) != 1 || (*calls)[0].args[0] != "create" {
		t.Errorf("calls = %+v", *calls)
	}
}

func TestCreateIssueWithParent(t *testing.T) {
	s, calls := fakeService("task-7", nil, true)

	if _, err := s.CreateIssue(context.Background(), "deliverable", "", "epic-1"); err != nil {
		t.Fatal(err)
	}
	args := (*calls)[0].args
	var hasParent bool
	for i, a := range args {
		if a == "--parent" && i+1 < len(args) && args[i+1] == "epic-1" {
			hasParent = true
		}
	}
	if !hasParent {
		t.Errorf("args = %v, want --parent epic-1", args)
	}
}

func TestCreateIssueUnavailable(t *testing.T) {
	s, calls := fakeService("id", nil, false)

	_, err := s.CreateIssue(context.Background(), "t", "", "")
	if !errors.Is(err, errors.ErrTrackerUnavailable) {
		t.Errorf("error = %v, want tracker unavailable", err)
	}
	if len(*calls) != 0 {
		t.Error("runner invoked despite unavailable binary")
	}
}

func TestBestEffortSwallowsFailures(t *testing.T) {
	s, calls := fakeService("boom", errors.New("exit 1"), true)

	// None of these may panic or surface the runner failure.
	s.CloseIssue(context.Background(), "sprout-1")
	s.UpdateStatus(context.Background(), "sprout-1", "in_progress")
	s.AddDependency(context.Background(), "sprout-2", "sprout-1")
	s.AddComment(context.Background(), "sprout-1", "handoff summary")

	if len(*calls) != 4 {
		t.Errorf("runner calls = %d, want 4", len(*calls))
	}
}

func TestBestEffortSkippedWhenUnavailable(t *testing.T) {
	s, calls := fakeService("", nil, false)
	s.CloseIssue(context.Background(), "sprout-1")
	s.AddComment(context.Background(), "sprout-1", "note")
	if len(*calls) != 0 {
		t.Errorf("runner calls = %d, want 0", len(*calls))
	}
}

func TestListReady(t *testing.T) {
	s, _ := fakeService("sprout-3 ready phase scaffolding\nsprout-9 ready write tests\n", nil, true)

	ids, err := s.ListReady(context.Background())
	if err != nil {
		t.Fatalf("ListReady: %v", err)
	}
	if len(ids) != 2 || ids[0] != "sprout-3" || ids[1] != "sprout-9" {
		t.Errorf("ids = %v", ids)
	}
}

func TestListReadyEmpty(t *testing.T) {
	s, _ := fakeService("", nil, true)
	ids, err := s.ListReady(context.Background())
	if err != nil {
		t.Fatalf("ListReady: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}
