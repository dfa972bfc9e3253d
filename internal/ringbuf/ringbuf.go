// Package ringbuf reads records out of a BPF ring-buffer map (spec.md
// §4.3, hw source). It mmaps the map's control and data pages directly
// and tracks the producer/consumer positions with atomic loads, the way
// the example pack's eBPF loader reference does it, rather than pulling
// in an external eBPF library — resmon never loads or attaches programs,
// it only consumes a ring buffer a separately-loaded program already
// populates, so the loader machinery itself has no home here.
package ringbuf

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	hdrSize = 8 // sizeof(struct bpf_ringbuf_hdr): u32 len, u32 pg_off
	busyBit = uint32(1) << 31
	discBit = uint32(1) << 30
	lenMask = busyBit | discBit
)

// Reader holds the mmap state for one BPF ring-buffer map.
type Reader struct {
	mapFD    int
	ctrlMmap []byte
	dataMmap []byte
	mask     uint64
}

// Open mmaps the ring buffer backing mapFD. dataSize is the map's
// max_entries, which the kernel requires to be a power-of-two multiple
// of the page size.
func Open(mapFD int, dataSize uint32) (*Reader, error) {
	if dataSize == 0 || dataSize&(dataSize-1) != 0 {
		return nil, fmt.Errorf("ringbuf: data size %d is not a power of two", dataSize)
	}

	pageSize := os.Getpagesize()
	ctrlSize := 2 * pageSize

	ctrlMmap, err := unix.Mmap(mapFD, 0, ctrlSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("ringbuf: mmap control pages: %w", err)
	}

	dataMmap, err := unix.Mmap(mapFD, int64(ctrlSize), int(dataSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Munmap(ctrlMmap)
		return nil, fmt.Errorf("ringbuf: mmap data pages: %w", err)
	}

	return &Reader{
		mapFD:    mapFD,
		ctrlMmap: ctrlMmap,
		dataMmap: dataMmap,
		mask:     uint64(dataSize - 1),
	}, nil
}

// FD returns the ring buffer map's file descriptor. The kernel signals
// EPOLLIN on this fd whenever the producer advances, so it is what the
// event loop should register with epoll (spec.md §5): resmon never
// blocks inside the ring buffer reader itself, it only drains whatever
// is already available once told to.
func (r *Reader) FD() int { return r.mapFD }

func (r *Reader) consumerPos() *uint64 {
	return (*uint64)(unsafe.Pointer(&r.ctrlMmap[0]))
}

func (r *Reader) producerPos() *uint64 {
	return (*uint64)(unsafe.Pointer(&r.ctrlMmap[os.Getpagesize()]))
}

// Next returns the next available record without blocking. ok is false
// once the consumer has caught up with the producer. Discarded records
// are skipped transparently; busy (still being written) records stop
// the drain early, to be picked up on the next activity notification.
func (r *Reader) Next() (rec []byte, ok bool) {
	for {
		cons := atomic.LoadUint64(r.consumerPos())
		prod := atomic.LoadUint64(r.producerPos())
		if cons == prod {
			return nil, false
		}

		off := cons & r.mask
		if off+hdrSize > uint64(len(r.dataMmap)) {
			atomic.StoreUint64(r.consumerPos(), cons+hdrSize)
			continue
		}

		rawLen := atomic.LoadUint32((*uint32)(unsafe.Pointer(&r.dataMmap[off])))
		if rawLen&busyBit != 0 {
			return nil, false
		}

		dataLen := rawLen &^ lenMask
		discard := rawLen&discBit != 0
		advance := hdrSize + uint64(alignUp(dataLen, 8))
		atomic.StoreUint64(r.consumerPos(), cons+advance)

		if discard {
			continue
		}

		payload := make([]byte, dataLen)
		dataOff := (off + hdrSize) & r.mask
		size := uint64(dataLen)
		if dataOff+size <= uint64(len(r.dataMmap)) {
			copy(payload, r.dataMmap[dataOff:dataOff+size])
		} else {
			first := uint64(len(r.dataMmap)) - dataOff
			copy(payload, r.dataMmap[dataOff:])
			copy(payload[first:], r.dataMmap[:size-first])
		}
		return payload, true
	}
}

// Close releases both mmap regions. It does not close the underlying
// map fd, which the caller opened and owns.
func (r *Reader) Close() error {
	err1 := unix.Munmap(r.dataMmap)
	err2 := unix.Munmap(r.ctrlMmap)
	if err1 != nil {
		return err1
	}
	return err2
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
