package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
)

func scaffoldCurriculum() *curriculum.Curriculum {
	c := curriculum.New("Learn Go", "go")
	c.Phases = []curriculum.Phase{{
		ID:          "ph-1",
		Number:      1,
		Title:       "Fundamentals",
		Description: "Syntax and tooling.",
		KeyConcepts: []string{"packages", "interfaces"},
		Objectives: []curriculum.LearningObjective{
			{ID: "obj-1", Description: "understand syntax"},
		},
		Deliverables: []curriculum.Deliverable{
			{ID: "del-1", Title: "cli calculator"},
		},
	}}
	return c
}

func TestLoadTemplate(t *testing.T) {
	for _, name := range []string{"default", "go", "web"} {
		tmpl, err := LoadTemplate(name)
		if err != nil {
			t.Fatalf("LoadTemplate(%s): %v", name, err)
		}
		if tmpl.Name != name || len(tmpl.Files) == 0 {
			t.Errorf("template %s = %+v", name, tmpl)
		}
	}

	if tmpl, err := LoadTemplate(""); err != nil || tmpl.Name != "default" {
		t.Errorf("empty name: %v, %v", tmpl, err)
	}

	if _, err := LoadTemplate("rust"); !errors.IsNotFound(err) {
		t.Errorf("unknown template error = %v, want not-found", err)
	}
}

func TestGenerateDefault(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ws")
	actions, err := Generate(scaffoldCurriculum(), 1, Options{OutputDir: out})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("actions = %+v, want 2", actions)
	}
	for _, a := range actions {
		if a.Status != StatusCreated {
			t.Errorf("%s status = %s, want created", a.Path, a.Status)
		}
	}

	readme, err := os.ReadFile(filepath.Join(out, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Phase 1: Fundamentals", "Learn Go", "understand syntax", "cli calculator"} {
		if !strings.Contains(string(readme), want) {
			t.Errorf("README missing %q", want)
		}
	}

	notes, err := os.ReadFile(filepath.Join(out, "NOTES.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(notes), "interfaces") {
		t.Errorf("NOTES missing key concepts: %s", notes)
	}
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ws")
	actions, err := Generate(scaffoldCurriculum(), 1, Options{OutputDir: out, DryRun: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, a := range actions {
		if a.Status != StatusPlanned {
			t.Errorf("%s status = %s, want planned", a.Path, a.Status)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run created the output directory")
	}
}

func TestGenerateSkipsExistingWithoutForce(t *testing.T) {
	out := t.TempDir()
	existing := filepath.Join(out, "README.md")
	if err := os.WriteFile(existing, []byte("my own notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	actions, err := Generate(scaffoldCurriculum(), 1, Options{OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	if actions[0].Status != StatusSkipped {
		t.Errorf("existing file status = %s, want skipped", actions[0].Status)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "my own notes" {
		t.Error("existing file overwritten without --force")
	}

	actions, err = Generate(scaffoldCurriculum(), 1, Options{OutputDir: out, Force: true})
	if err != nil {
		t.Fatal(err)
	}
	if actions[0].Status != StatusCreated {
		t.Errorf("forced status = %s, want created", actions[0].Status)
	}
	data, _ = os.ReadFile(existing)
	if !strings.Contains(string(data), "Phase 1") {
		t.Error("force did not overwrite")
	}
}

func TestGenerateGoTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ws")
	actions, err := Generate(scaffoldCurriculum(), 1, Options{Template: "go", OutputDir: out})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(actions) != 4 {
		t.Fatalf("actions = %d, want 4", len(actions))
	}

	mod, err := os.ReadFile(filepath.Join(out, "go.mod"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mod), "module phase1") {
		t.Errorf("go.mod = %s", mod)
	}
}

func TestGenerateMissingPhase(t *testing.T) {
	_, err := Generate(scaffoldCurriculum(), 9, Options{OutputDir: t.TempDir()})
	if !errors.Is(err, errors.ErrPhaseNotFound) {
		t.Errorf("error = %v, want phase-not-found", err)
	}
}

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()
	if len(names) != 3 || names[0] != "default" || names[1] != "go" || names[2] != "web" {
		t.Errorf("names = %v", names)
	}
}
