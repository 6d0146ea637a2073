package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Roots resolves the configured read and write roots to absolute,
// symlink-resolved paths. An empty read root defaults to the working
// directory; an empty write root defaults to the read root.
func Roots(readRoot, writeRoot string) (absRead, absWrite string, err error) {
	if readRoot == "" {
		readRoot, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	absRead, err = resolveRoot(readRoot)
	if err != nil {
		return "", "", err
	}
	absWrite, err = resolveRoot(writeRoot)
	if err != nil {
		return "", "", err
	}
	return absRead, absWrite, nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(%s): %w", root, err)
	}
	// Symlink-resolve so later boundary checks compare real locations.
	// A root that does not exist yet keeps its absolute form.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// ResolveRead maps a tool-supplied relative path to an absolute path inside
// the read root, or reports the policy violation that forbids it.
func ResolveRead(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if dir := deniedDir(rel); dir != "" {
		return "", PolicyError{Code: CodeDeniedRead, Message: "reads under " + dir + "/ are not allowed"}
	}
	return abs, nil
}

// ResolveWrite is ResolveRead with the stricter write denylist applied: the
// denied directories plus module metadata files at any depth.
func ResolveWrite(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if dir := deniedDir(rel); dir != "" {
		return "", PolicyError{Code: CodeDeniedWrite, Message: "writes under " + dir + "/ are not allowed"}
	}
	base := filepath.Base(rel)
	for _, name := range deniedWriteNames {
		if base == name {
			return "", PolicyError{Code: CodeDeniedWrite, Message: "writing " + name + " is not allowed"}
		}
	}
	return abs, nil
}

// resolve turns relPath into an absolute candidate under absRoot and its
// slash-separated relative form. Absolute inputs, parent traversal, and
// symlink escapes are rejected.
func resolve(absRoot, relPath string) (abs string, rel string, err error) {
	if filepath.IsAbs(relPath) {
		return "", "", PolicyError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate := filepath.Join(absRoot, cleaned)

	// Symlink-resolve best effort: the full candidate when it exists,
	// otherwise its parent so an escape through a symlinked ancestor is
	// still visible before the leaf file is created.
	if resolved, rerr := filepath.EvalSymlinks(candidate); rerr == nil {
		candidate = resolved
	} else if parent, perr := filepath.EvalSymlinks(filepath.Dir(candidate)); perr == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	relForm, rerr := filepath.Rel(absRoot, candidate)
	if rerr != nil || relForm == ".." || strings.HasPrefix(relForm, ".."+string(filepath.Separator)) || filepath.IsAbs(relForm) {
		return "", "", PolicyError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(relForm), nil
}

// deniedDir returns the matching denylisted directory when rel is it or
// lives under it, otherwise "".
func deniedDir(rel string) string {
	for _, dir := range deniedDirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return dir
		}
	}
	return ""
}
