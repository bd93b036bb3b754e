//go:build unix

package probes

import (
	"os"

	"golang.org/x/sys/unix"
)

// UnixAccess checks access with access(2), which honours the effective
// uid/gid, ACLs and read-only mounts.
type UnixAccess struct{}

var _ AccessChecker = UnixAccess{}

// Access implements AccessChecker.
func (UnixAccess) Access(path string) PathAccess {
	if _, err := os.Stat(path); err != nil {
		return PathAccess{}
	}
	return PathAccess{
		Exists:   true,
		Readable: unix.Access(path, unix.R_OK) == nil,
		Writable: unix.Access(path, unix.W_OK) == nil,
	}
}

func defaultAccessChecker() AccessChecker {
	return UnixAccess{}
}
