// Package pathutil confines every path a caller supplies to the workspace
// root. Containment is decided on canonical paths: the requested path is
// checked syntactically first, then re-validated after symlinks are
// resolved component by component. Paths are compared byte-wise after
// cleaning; no case folding or Unicode normalization is applied, so on
// case-insensitive filesystems two spellings of one file are two distinct
// inputs that resolve to the same inode.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// FileSystem is the minimal filesystem interface needed for path resolution.
type FileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

// Resolver validates caller-supplied paths against an immutable workspace
// root. The root is canonical at construction time and never changes, so a
// Resolver is safe for concurrent use without synchronization.
type Resolver struct {
	root string
	fs   FileSystem
}

// NewResolver creates a Resolver for a canonical workspace root.
// The root must come from CanonicaliseRoot or ResolveRoot.
func NewResolver(root string, fs FileSystem) *Resolver {
	return &Resolver{root: root, fs: fs}
}

// Root returns the canonical workspace root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve normalises a caller-supplied path and ensures it's within the
// workspace root. The check runs in two phases: parent-directory segments
// are rejected before any filesystem interaction, then symlinks are
// resolved component by component and containment is re-verified on the
// canonical result. Syntactic checks alone cannot catch indirection through
// symlinks, and resolving first would let traversal strings reach the
// filesystem layer unnecessarily.
// Returns the canonical absolute path and the root-relative path in
// forward-slash form.
func (r *Resolver) Resolve(path string) (abs string, rel string, err error) {
	if r.root == "" {
		return "", "", errutil.New(errutil.CodeIO, "workspace root not set")
	}

	// Phase one: reject parent-directory segments outright, before any
	// filesystem interaction.
	if hasParentSegment(path) {
		return "", "", errutil.New(errutil.CodePathTraversal, "path contains a parent-directory segment: %s", path)
	}

	var relPath string
	if filepath.IsAbs(path) {
		// Absolute inputs are only accepted when already under the root.
		cleaned := filepath.Clean(path)
		relPath, err = filepath.Rel(r.root, cleaned)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return "", "", errutil.New(errutil.CodeOutsideWorkspace, "absolute path is outside the workspace: %s", path)
		}
	} else {
		relPath = filepath.Clean(path)
		if relPath == "." {
			return r.root, "", nil
		}
	}

	if relPath == "." {
		return r.root, "", nil
	}

	// Phase two: walk components, following symlinks, re-checking
	// containment at every step.
	resolvedAbs, err := r.walkComponents(relPath)
	if err != nil {
		return "", "", err
	}

	finalRel, err := filepath.Rel(r.root, resolvedAbs)
	if err != nil {
		return "", "", errutil.New(errutil.CodeOutsideWorkspace, "resolved path is outside the workspace: %s", resolvedAbs)
	}

	finalRel = filepath.ToSlash(finalRel)
	if finalRel == "." {
		finalRel = ""
	}

	return resolvedAbs, finalRel, nil
}

// hasParentSegment reports whether any path segment is "..", on either
// separator convention. A name merely containing dots (e.g. "a..b") is fine.
func hasParentSegment(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

// walkComponents resolves a root-relative path component by component,
// following symlinks as it goes. The input must be lexically inside the
// workspace (no leading ".."). Missing trailing components are allowed so
// that not-yet-created paths can be validated for writes.
func (r *Resolver) walkComponents(relPath string) (string, error) {
	const maxHops = 64

	parts := strings.Split(filepath.ToSlash(relPath), "/")
	currentAbs := r.root

	for i := range parts {
		if parts[i] == "" || parts[i] == "." {
			continue
		}

		next := filepath.Join(currentAbs, parts[i])

		resolved, exists, err := r.followSymlinkChain(next, maxHops)
		if err != nil {
			return "", err
		}

		if !exists {
			// Remaining components cannot exist either; append them
			// lexically and validate the whole candidate path.
			currentAbs = appendRemaining(resolved, parts, i+1)
			if !r.contains(currentAbs) {
				return "", errutil.New(errutil.CodeOutsideWorkspace, "path is outside the workspace: %s", currentAbs)
			}
			return currentAbs, nil
		}

		currentAbs = resolved

		if !r.contains(currentAbs) {
			return "", errutil.New(errutil.CodeOutsideWorkspace, "path is outside the workspace: %s", currentAbs)
		}
	}

	return currentAbs, nil
}

// followSymlinkChain follows a symlink chain until it reaches a non-symlink
// or detects a loop. A link target escaping the workspace is rejected
// immediately, before the target is ever touched.
func (r *Resolver) followSymlinkChain(path string, maxHops int) (resolved string, exists bool, err error) {
	visited := make(map[string]struct{})
	current := path

	for hopCount := 0; hopCount <= maxHops; hopCount++ {
		if _, seen := visited[current]; seen {
			return "", false, errutil.New(errutil.CodeIO, "symlink loop detected: %s", current)
		}
		visited[current] = struct{}{}

		info, err := r.fs.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return current, false, nil
			}
			return "", false, fmt.Errorf("failed to lstat path: %w", err)
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return current, true, nil
		}

		linkTarget, err := r.fs.Readlink(current)
		if err != nil {
			return "", false, fmt.Errorf("failed to read symlink: %w", err)
		}

		var targetAbs string
		if filepath.IsAbs(linkTarget) {
			targetAbs = filepath.Clean(linkTarget)
		} else {
			// Relative symlink - resolve relative to the symlink's directory
			targetAbs = filepath.Clean(filepath.Join(filepath.Dir(current), linkTarget))
		}

		if !r.contains(targetAbs) {
			return "", false, errutil.New(errutil.CodeSymlinkOutside, "symlink %s points outside the workspace: %s", current, targetAbs)
		}

		current = targetAbs
	}

	return "", false, errutil.New(errutil.CodeIO, "symlink chain too long (max %d hops)", maxHops)
}

// contains reports whether path is the workspace root or a descendant of it.
// Uses an ancestor test on cleaned paths, not raw string prefixing, so a
// sibling like /ws-other never passes for root /ws.
func (r *Resolver) contains(path string) bool {
	pathAbs := filepath.Clean(path)
	if pathAbs == r.root {
		return true
	}

	rel, err := filepath.Rel(r.root, pathAbs)
	if err != nil {
		return false
	}
	if strings.HasPrefix(rel, "..") {
		return false
	}

	return strings.HasPrefix(pathAbs, r.root+string(filepath.Separator))
}

// appendRemaining joins path components from start onwards onto current.
func appendRemaining(current string, parts []string, start int) string {
	for _, part := range parts[start:] {
		if part == "" || part == "." {
			continue
		}
		current = filepath.Join(current, part)
	}
	return current
}
