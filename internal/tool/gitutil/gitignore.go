// Package gitutil filters workspace entries through the root .gitignore,
// so listings and searches skip build output and vendored trees by default.
package gitutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/workspacefs/internal/tool/contentutil"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreFS defines the minimal filesystem operations needed to load .gitignore.
type ignoreFS interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// IgnoreService matches workspace-relative paths against gitignore patterns.
type IgnoreService struct {
	matcher gitignore.Matcher
}

// NewIgnoreService loads .gitignore from the workspace root. If the file
// doesn't exist the returned service never ignores anything (no error).
func NewIgnoreService(workspaceRoot string, fs ignoreFS) (*IgnoreService, error) {
	gitignorePath := filepath.Join(workspaceRoot, ".gitignore")

	if _, err := fs.Stat(gitignorePath); err != nil {
		return &IgnoreService{matcher: nil}, nil
	}

	content, err := fs.ReadFile(gitignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	var patterns []gitignore.Pattern
	for _, line := range contentutil.SplitLines(string(content)) {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern := gitignore.ParsePattern(line, nil)
		if pattern != nil {
			patterns = append(patterns, pattern)
		}
	}

	return &IgnoreService{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore checks whether a workspace-relative path matches gitignore
// patterns. isDir matters for directory-only patterns like "build/".
func (g *IgnoreService) ShouldIgnore(relativePath string, isDir bool) bool {
	if g.matcher == nil {
		return false
	}
	return g.matcher.Match(splitPath(relativePath), isDir)
}

// splitPath splits a path into segments for gitignore matching.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}

	normalized := filepath.ToSlash(path)

	parts := strings.Split(normalized, "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}

	return segments
}
