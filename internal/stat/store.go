// Package stat implements the resource-accounting state engine (C1): four
// keyed indices mirroring the device's on-chip tables, and a counter
// vector that must remain consistent with the live set of installed
// entries under arbitrary event orderings (spec.md §3, invariant 1).
//
// All mutation goes through a Store. A Store owns every entry it holds; no
// outside reference to an entry survives past the call that installed it.
package stat

import "github.com/mellanox/resmon/internal/counter"

// SlotAlloc associates an installed entry with the counter it charges and
// the number of slots it occupies.
type SlotAlloc struct {
	Slots   uint32
	Counter counter.Kind
}

// Store is the single mutable mirror of on-chip table occupancy. It is not
// safe for concurrent use; resmon's event loop (internal/resmonctl) is the
// only writer and runs on a single goroutine, per spec.md §5.
type Store struct {
	counters [counter.Count]int64

	ralue map[RalueKey]SlotAlloc
	ptar  map[PtarKey]SlotAlloc
	ptce3 map[Ptce3Key]SlotAlloc
	rauht map[RauhtKey]SlotAlloc
	kvdl  map[uint32]SlotAlloc
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		ralue: make(map[RalueKey]SlotAlloc),
		ptar:  make(map[PtarKey]SlotAlloc),
		ptce3: make(map[Ptce3Key]SlotAlloc),
		rauht: make(map[RauhtKey]SlotAlloc),
		kvdl:  make(map[uint32]SlotAlloc),
	}
}

func (s *Store) charge(k counter.Kind, slots uint32) {
	s.counters[int(k)] += int64(slots)
}

func (s *Store) uncharge(k counter.Kind, slots uint32) {
	s.counters[int(k)] -= int64(slots)
}

// Counters is a by-value snapshot of every counter plus the derived total.
type Counters struct {
	Values [counter.Count]int64 // indexed by counter.Kind
	Total  int64
}

// CountersSnapshot returns a by-value copy of all counter values plus the
// derived TOTAL (spec.md §4.1).
func (s *Store) CountersSnapshot() Counters {
	var c Counters
	for i, v := range s.counters {
		c.Values[i] = v
		c.Total += v
	}
	return c
}
