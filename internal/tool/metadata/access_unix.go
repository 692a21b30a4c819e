//go:build unix

package metadata

import "golang.org/x/sys/unix"

type accessMode uint32

const (
	accessRead  accessMode = unix.R_OK
	accessWrite accessMode = unix.W_OK
)

// canAccess checks effective permissions via access(2), which accounts for
// ownership, group membership, and mode bits in one call.
func canAccess(path string, mode accessMode) bool {
	return unix.Access(path, uint32(mode)) == nil
}
