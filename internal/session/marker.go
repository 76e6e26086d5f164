package session

import (
	"os"
	"strings"
)

// The marker file records the active session's filename so a later CLI
// invocation can resume it. Concurrent invocations race on this file with no
// locking; single-writer use is assumed.

// WriteMarker records name as the active session.
func WriteMarker(path, name string) error {
	return os.WriteFile(path, []byte(name+"\n"), 0o644)
}

// ReadMarker returns the recorded session filename, or "" when no marker
// exists.
func ReadMarker(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearMarker removes the marker. Missing markers are not an error.
func ClearMarker(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
