package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteError reports a failure to persist the generated document.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Write persists the document at path, creating parent directories.
func Write(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
