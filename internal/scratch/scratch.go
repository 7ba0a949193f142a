// Package scratch manages the short-lived local copies of files the client
// uploads. A copy exists only between Write and Remove.
package scratch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Write copies r into a new temporary file named after name and returns its path.
// On error no file is left behind.
func Write(name string, r io.Reader) (path string, err error) {
	f, err := os.CreateTemp("", pattern(name))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path = f.Name()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close temp file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
			path = ""
		}
	}()

	if _, err = io.Copy(f, r); err != nil {
		return path, fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes path. A file that is already gone is not an error.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}

func pattern(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, "*", "")
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	return "dspace_*_" + base
}
