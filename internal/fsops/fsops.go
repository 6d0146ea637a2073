// Package fsops performs the sandboxed filesystem operations behind the
// bundled file tools. Roots come from MCPCHAT_READ_ROOT and
// MCPCHAT_WRITE_ROOT (default: working directory) and are resolved once per
// process.
package fsops

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/quietfold/mcpchat/internal/safety"
)

var (
	rootsOnce sync.Once
	readRoot  string
	writeRoot string
	rootsErr  error
)

func roots() (string, string, error) {
	rootsOnce.Do(func() {
		readRoot, writeRoot, rootsErr = safety.Roots(
			os.Getenv("MCPCHAT_READ_ROOT"),
			os.Getenv("MCPCHAT_WRITE_ROOT"),
		)
	})
	return readRoot, writeRoot, rootsErr
}

// ReadFile returns the contents of the file at relPath under the read root.
// Directories are a policy violation, not an I/O error.
func ReadFile(relPath string) (string, error) {
	root, _, err := roots()
	if err != nil {
		return "", err
	}
	abs, err := safety.ResolveRead(root, relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.PolicyError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListDir returns the sorted entry names of the directory at relDir under
// the read root, non-recursive, with directories suffixed by "/".
func ListDir(relDir string) ([]string, error) {
	root, _, err := roots()
	if err != nil {
		return nil, err
	}
	if relDir == "" {
		relDir = "."
	}
	abs, err := safety.ResolveRead(root, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// WriteFile writes content to relPath under the write root, creating parent
// directories as needed.
func WriteFile(relPath, content string) error {
	_, root, err := roots()
	if err != nil {
		return err
	}
	abs, err := safety.ResolveWrite(root, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(content), 0o644)
}
