//go:build unix

package blobstore

import (
	"io/fs"
	"syscall"
)

type fileKey struct {
	dev uint64
	ino uint64
}

func keyOf(info fs.FileInfo) (fileKey, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}
	return fileKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}

// sameDevice reports whether a and b live on one filesystem; unknown counts as same.
func sameDevice(a, b fs.FileInfo) bool {
	ka, okA := keyOf(a)
	kb, okB := keyOf(b)
	return !okA || !okB || ka.dev == kb.dev
}
