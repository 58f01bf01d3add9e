// Package atomicio provides crash-safe file writes: write to a temp
// file in the same directory, fsync, then rename over the destination.
// Every aggregate in this module persists through WriteFile rather than
// os.WriteFile directly, mirroring the core's atomic_write helper.
package atomicio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdlcstack/sdlc/internal/sdlcerr"
)

// WriteFile writes data to path atomically: a temp file is created
// alongside path, written, synced, and renamed into place. Concurrent
// readers never observe a partial write.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &sdlcerr.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp-*", filepath.Base(path)))
	if err != nil {
		return &sdlcerr.IOError{Op: "create temp", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &sdlcerr.IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &sdlcerr.IOError{Op: "fsync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &sdlcerr.IOError{Op: "close", Path: tmpName, Err: err}
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		tmp = nil
		_ = os.Remove(tmpName)
		return &sdlcerr.IOError{Op: "chmod", Path: tmpName, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		tmp = nil
		_ = os.Remove(tmpName)
		return &sdlcerr.IOError{Op: "rename", Path: path, Err: err}
	}

	tmp = nil
	return nil
}
