package hw

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// bpfObjGet is the BPF_OBJ_GET command (linux/bpf.h): it retrieves the
// fd of a map or program previously pinned to bpffs, the mechanism the
// tracing program that populates resmon's ring buffer uses to hand the
// map off to an unrelated process.
const bpfObjGet = 7

type bpfAttrObjGet struct {
	pathname  uint64
	bpfFD     uint32
	fileFlags uint32
}

// OpenPinned retrieves the fd of a BPF map pinned at path (typically
// under /sys/fs/bpf) and wraps it as a ring-buffer source adapter.
func OpenPinned(path string, maxEntries uint32) (*Adapter, error) {
	pathBytes := append([]byte(path), 0)
	attr := bpfAttrObjGet{pathname: uint64(uintptr(unsafe.Pointer(&pathBytes[0])))}

	fd, _, errno := unix.Syscall(unix.SYS_BPF, bpfObjGet, uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr))
	if errno != 0 {
		return nil, fmt.Errorf("hw: BPF_OBJ_GET %s: %w", path, errno)
	}

	return New(int(fd), maxEntries), nil
}
