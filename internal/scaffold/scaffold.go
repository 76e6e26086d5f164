// Package scaffold generates a working directory for one curriculum phase
// from a named template: a YAML file list whose paths and contents are
// rendered with the phase's objectives and deliverables. Scaffolding never
// touches the state directory.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
)

// Template is one parsed workspace template.
type Template struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Files       []FileSpec `yaml:"files"`
}

// FileSpec is one file to generate. Path and Content are template strings.
type FileSpec struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Data is the rendering context for template files.
type Data struct {
	Curriculum   string
	Phase        *curriculum.Phase
	Objectives   []string
	Deliverables []string
	KeyConcepts  []string
}

// Options controls one scaffold run.
type Options struct {
	Template  string // template name, "default" when empty
	OutputDir string
	DryRun    bool // plan only, write nothing
	Force     bool // overwrite existing files
}

// Action reports what happened (or would happen) to one file.
type Action struct {
	Path   string
	Status ActionStatus
}

type ActionStatus string

const (
	StatusCreated ActionStatus = "created"
	StatusSkipped ActionStatus = "skipped" // exists and Force not set
	StatusPlanned ActionStatus = "planned" // dry run
)

// TemplateNames lists the built-in templates, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTemplate parses a built-in template by name.
func LoadTemplate(name string) (*Template, error) {
	if name == "" {
		name = "default"
	}
	raw, ok := builtinTemplates[name]
	if !ok {
		return nil, errors.NewNotFoundError("template", name)
	}

	var t Template
	if err := yaml.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &t, nil
}

// Generate scaffolds the workspace for one phase and returns the per-file
// actions in template order.
func Generate(c *curriculum.Curriculum, phaseNumber int, opts Options) ([]Action, error) {
	phase := c.FindPhase(phaseNumber)
	if phase == nil {
		return nil, errors.NewNotFoundError("phase", fmt.Sprintf("%d", phaseNumber))
	}

	tmpl, err := LoadTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	data := Data{
		Curriculum:  c.Title,
		Phase:       phase,
		KeyConcepts: phase.KeyConcepts,
	}
	for _, obj := range phase.Objectives {
		data.Objectives = append(data.Objectives, obj.Description)
	}
	for _, d := range phase.Deliverables {
		data.Deliverables = append(data.Deliverables, d.Title)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = fmt.Sprintf("phase-%d", phase.Number)
	}

	var actions []Action
	for _, spec := range tmpl.Files {
		relPath, err := renderString("path", spec.Path, data)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(outDir, relPath)

		if opts.DryRun {
			actions = append(actions, Action{Path: target, Status: StatusPlanned})
			continue
		}

		if _, err := os.Stat(target); err == nil && !opts.Force {
			actions = append(actions, Action{Path: target, Status: StatusSkipped})
			continue
		}

		content, err := renderString(relPath, spec.Content, data)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return nil, err
		}
		actions = append(actions, Action{Path: target, Status: StatusCreated})
	}
	return actions, nil
}

func renderString(name, text string, data Data) (string, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}
