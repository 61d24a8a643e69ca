package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

// EnsureAbsPath converts a path to absolute, leaving it unchanged when the
// conversion fails.
func EnsureAbsPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

var fragmentSuffix = regexp.MustCompile(`\.f\d+$`)

// TitleFromPath derives a display title from a downloaded file's path by
// stripping the extension and any intermediate fragment suffix the provider
// tool appends while merging (e.g. "clip.f137.mp4" -> "clip").
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fragmentSuffix.ReplaceAllString(base, "")
}
