// Package hw implements the "hw" source adapter (spec.md §4.3): it opens
// the BPF ring buffer a separately-loaded tracing program populates with
// raw EMAD register messages observed on the driver/device boundary, and
// forwards each record to the register decoder as it is drained.
package hw

import (
	"encoding/json"
	"fmt"

	"github.com/mellanox/resmon/internal/reg"
	"github.com/mellanox/resmon/internal/ringbuf"
	"github.com/mellanox/resmon/internal/stat"
)

// Adapter is the hardware source back-end. It satisfies source.Adapter.
type Adapter struct {
	mapFD      int
	maxEntries uint32
	reader     *ringbuf.Reader
}

// New returns an adapter bound to an already-open, already-pinned BPF
// ring-buffer map fd (spec.md §4.3: resmon consumes a ring buffer, it
// does not load or attach the program that populates it). maxEntries is
// the map's max_entries, a power-of-two byte count.
func New(mapFD int, maxEntries uint32) *Adapter {
	return &Adapter{mapFD: mapFD, maxEntries: maxEntries}
}

// Init mmaps the ring buffer's control and data pages.
func (a *Adapter) Init() error {
	r, err := ringbuf.Open(a.mapFD, a.maxEntries)
	if err != nil {
		return fmt.Errorf("hw: %w", err)
	}
	a.reader = r
	return nil
}

// Finalize releases the mmap regions. The map fd itself belongs to
// whatever pinned it and is left open.
func (a *Adapter) Finalize() error {
	if a.reader == nil {
		return nil
	}
	return a.reader.Close()
}

// PollFD returns the ring-buffer map's fd: the kernel raises EPOLLIN on
// it whenever the producer position advances.
func (a *Adapter) PollFD() (int, bool) {
	return a.mapFD, true
}

// OnActivity drains the records currently available and applies each to
// st via the register decoder, stopping as soon as the ring buffer goes
// quiet (busy or caught-up with the producer). It also stops at the first
// record the decoder rejects and returns that outcome as an error; the
// records after it stay in the ring for the next call.
func (a *Adapter) OnActivity(st *stat.Store) error {
	for {
		buf, ok := a.reader.Next()
		if !ok {
			return nil
		}
		if outcome := reg.Decode(st, buf); outcome != reg.Ok {
			return fmt.Errorf("hw: emad decode: %s", outcome)
		}
	}
}

// HandleRPCMethod recognizes no methods of its own; the hw source is
// driven entirely by the ring buffer.
func (a *Adapter) HandleRPCMethod(name string, params json.RawMessage, st *stat.Store) (any, bool, error) {
	return nil, false, nil
}
