package index

import (
	"net/url"
	"path/filepath"
)

// toURI converts a file path into an absolute file URI.
func toURI(path string) string {
	if path == "" {
		return ""
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// isExcluded reports whether path equals one of the patterns or matches it
// as a glob.
func isExcluded(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if pattern == path {
			return true
		}

		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
	}

	return false
}
