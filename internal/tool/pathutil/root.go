package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnvVar overrides the workspace root when no explicit value is
// configured.
const RootEnvVar = "WORKSPACEFS_ROOT"

// CanonicaliseRoot canonicalises a workspace root path by making it absolute
// and resolving symlinks. Returns an error if the path doesn't exist or
// isn't a directory; that failure is fatal to toolset construction, not to
// individual calls.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("workspace root does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root is not a directory: %s", resolved)
	}
	return resolved, nil
}

// ResolveRoot establishes the canonical workspace root from, in priority
// order: the explicit configured value, the WORKSPACEFS_ROOT environment
// variable, or the process working directory. The returned warning is
// non-empty when the root carries outsized blast radius (filesystem root or
// a user home directory); it is surfaced to the caller, never acted on.
func ResolveRoot(configured string) (root string, warning string, err error) {
	candidate := configured
	if candidate == "" {
		candidate = os.Getenv(RootEnvVar)
	}
	if candidate == "" {
		candidate, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	root, err = CanonicaliseRoot(candidate)
	if err != nil {
		return "", "", err
	}

	return root, rootWarning(root), nil
}

// rootWarning reports why operating on root is risky, or "" if it isn't.
func rootWarning(root string) string {
	if root == filepath.Dir(root) {
		return fmt.Sprintf("workspace root %q is a filesystem root; operations will span the entire volume", root)
	}
	if home, err := os.UserHomeDir(); err == nil {
		if canonicalHome, err := filepath.EvalSymlinks(home); err == nil && root == canonicalHome {
			return fmt.Sprintf("workspace root %q is a user home directory; operations will span all user files", root)
		}
	}
	return ""
}
