//go:build !unix

package probes

import "os"

// modeAccess approximates access from permission bits where access(2) is
// unavailable.
type modeAccess struct{}

func (modeAccess) Access(path string) PathAccess {
	info, err := os.Stat(path)
	if err != nil {
		return PathAccess{}
	}
	mode := info.Mode().Perm()
	return PathAccess{
		Exists:   true,
		Readable: mode&0o444 != 0,
		Writable: mode&0o222 != 0,
	}
}

func defaultAccessChecker() AccessChecker {
	return modeAccess{}
}
