//go:build !unix

package metadata

import "os"

type accessMode uint32

const (
	accessRead  accessMode = 0o444
	accessWrite accessMode = 0o222
)

// canAccess approximates permission checks from mode bits on platforms
// without access(2).
func canAccess(path string, mode accessMode) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&os.FileMode(mode) != 0
}
