// Package paths normalizes filesystem paths into the project-relative,
// forward-slash form used as keys throughout archmap. Every file table,
// relationship, and cache index key goes through this package so that the
// same file never appears under two spellings.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a project-relative canonical path:
// symlinks resolved, relative to the project root, forward slashes only.
func Canonicalize(absolutePath string, projectRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// Paths that don't exist yet are canonicalized as-is.
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = projectRoot
		} else {
			return "", err
		}
	}

	relative, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relative), nil
}

// IsWithinProject reports whether path resolves to somewhere under projectRoot.
func IsWithinProject(path string, projectRoot string) bool {
	canonical, err := Canonicalize(path, projectRoot)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}

// Normalize converts backslashes to forward slashes for paths that are
// already project-relative.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// JoinProject joins a project root with a canonical relative path using the
// OS-specific separator.
func JoinProject(projectRoot string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{projectRoot}, parts...)...)
}

// BaseName returns the file name without its directory or extension, the
// form used when matching files against test files (UserController.php ->
// UserController, user.blade.php -> user).
func BaseName(path string) string {
	name := path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
