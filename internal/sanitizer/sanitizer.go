package sanitizer

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrEmptyPath    = errors.New("path is empty")
	ErrRelativePath = errors.New("path must be absolute")
	ErrControlChars = errors.New("path contains control characters")
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// CleanPath trims surrounding whitespace and lexically cleans path.
// The result is always absolute.
func CleanPath(path string) (string, error) {
	cleaned := strings.TrimSpace(path)
	if cleaned == "" {
		return "", ErrEmptyPath
	}
	if controlChars.MatchString(cleaned) {
		return "", ErrControlChars
	}
	if !filepath.IsAbs(cleaned) {
		return "", ErrRelativePath
	}
	return filepath.Clean(cleaned), nil
}

// NeedsSanitization checks if CleanPath would change path
func NeedsSanitization(path string) bool {
	cleaned, err := CleanPath(path)
	return err == nil && cleaned != path
}

// IsWithin reports whether path equals root or lies beneath it. Both must be clean.
func IsWithin(root, path string) bool {
	if root == path {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
