package internal

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGofmtCompliance verifies that all Go source files in the project
// are properly formatted according to gofmt standards.
//
// If this test fails, run: gofmt -w .
func TestGofmtCompliance(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	projectRoot := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		projectRoot = wd
	}

	var unformatted []string
	err = filepath.Walk(projectRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := format.Source(src)
		if err != nil {
			// Parse errors surface in the build, not here.
			return nil
		}
		if !bytes.Equal(src, formatted) {
			rel, _ := filepath.Rel(projectRoot, path)
			unformatted = append(unformatted, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk project: %v", err)
	}

	if len(unformatted) > 0 {
		t.Errorf("The following files are not gofmt-formatted:\n  %s\nRun: gofmt -w .",
			strings.Join(unformatted, "\n  "))
	}
}
