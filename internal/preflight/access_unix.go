//go:build !windows

package preflight

import "golang.org/x/sys/unix"

// Access bits for accessible, matching access(2).
const (
	accessRead = unix.R_OK
	accessExec = unix.X_OK
)

// accessible reports whether the calling process may use path with the
// given access bits, honoring effective uid/gid.
func accessible(path string, mode uint32) error {
	return unix.Access(path, mode)
}
