package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// NormalizePath cleans a path for the current platform, keeping UNC prefixes
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// ProjectName returns the display name of a project root: its last element
// after the path is made absolute
func ProjectName(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return filepath.Base(NormalizePath(abs))
}

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Slug reduces a name to [a-z0-9_-] for use in report file names
func Slug(name string) string {
	return strings.ToLower(slugUnsafe.ReplaceAllString(name, ""))
}

// SlashRel returns target relative to base with "/" separators; "" for base itself
func SlashRel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// ValidateRoot checks that a project root is a non-empty path to an existing
// directory. role names the root in the error ("base", "target").
func ValidateRoot(role, path string) error {
	if path == "" {
		return &PathError{Path: path, Message: fmt.Sprintf("the %s project path is empty", role)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &PathError{Path: path, Message: fmt.Sprintf("the %s project path is not a valid directory", role), Err: err}
	}
	if !info.IsDir() {
		return &PathError{Path: path, Message: fmt.Sprintf("the %s project path is not a directory", role)}
	}

	return nil
}

// SameRoot reports whether two paths resolve to the same location
func SameRoot(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return NormalizePath(absA) == NormalizePath(absB)
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
	Err     error
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}

func (e *PathError) Unwrap() error {
	return e.Err
}
