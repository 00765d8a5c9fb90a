// Package writeback applies organized text to source files. The write
// is atomic and happens only after the output has been re-validated as
// syntactically sound; a failed organize never leaves a partial file.
package writeback

import (
	"fmt"
	"os"
	"path/filepath"
)

// Replace swaps the whole content of path with newContent. Content is
// written to a temp file in the same directory first, then renamed over
// the original; file permissions are preserved.
func Replace(path string, newContent []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tsorg-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(newContent); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	// Preserve original file permissions
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode()) // best-effort permission sync
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}
