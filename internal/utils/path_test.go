package utils

import (
	"path/filepath"
	"testing"
)

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain file", "/home/u/Downloads/Never Gonna Give You Up.webm", "Never Gonna Give You Up"},
		{"fragment suffix", "/tmp/clip.f137.mp4", "clip"},
		{"audio fragment", "clip.f251.m4a", "clip"},
		{"no extension", "/tmp/clip", "clip"},
		{"dots in title", "v1.2 release notes.mp4", "v1.2 release notes"},
		{"f-number only as extension", "weird.f42", "weird"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromPath(tt.path); got != tt.want {
				t.Errorf("TitleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEnsureAbsPath(t *testing.T) {
	abs := EnsureAbsPath("relative/file.mp4")
	if !filepath.IsAbs(abs) {
		t.Errorf("EnsureAbsPath returned relative path: %s", abs)
	}

	already := "/already/absolute.mp4"
	if got := EnsureAbsPath(already); got != already {
		t.Errorf("EnsureAbsPath(%q) = %q", already, got)
	}
}
