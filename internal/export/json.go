// Package export writes library payloads and game history to files in the
// user's home directory, and reads library files back for import.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/pairplay/internal/library"
)

// WriteLibrary writes an exported library payload to dir and returns the
// full path. The filename carries the kind and the export date.
func WriteLibrary(dir string, kind library.Kind, data []byte) (string, error) {
	name := fmt.Sprintf("pairplay-%s-%s.json", kind, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write library file: %w", err)
	}
	return path, nil
}

// WriteTemplate writes an importable skeleton for the kind to dir.
func WriteTemplate(dir string, kind library.Kind, data []byte) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("pairplay-%s-template.json", kind))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write template file: %w", err)
	}
	return path, nil
}

// ReadLibraryFile reads a library or bundle payload for import.
func ReadLibraryFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library file: %w", err)
	}
	return data, nil
}
