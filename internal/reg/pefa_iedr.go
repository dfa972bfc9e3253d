package reg

import (
	"github.com/mellanox/resmon/internal/counter"
	"github.com/mellanox/resmon/internal/stat"
)

// decodePEFA handles register 0x300F: single-slot KVDL allocation for an
// action set (spec.md §4.2). It always inserts.
func decodePEFA(st *stat.Store, c cursor) Outcome {
	raw, ok := c.u32(0)
	if !ok {
		return TruncatedPayload
	}
	index := raw & 0x00ffffff

	if err := st.KvdlAlloc(index, stat.SlotAlloc{Slots: 1, Counter: counter.ACTSET}); err != nil {
		return InsertFailed
	}
	return Ok
}

const (
	iedrMaxRecords   = 64
	iedrRecordLen    = 8
	iedrRecordsStart = 16
	iedrFreeType     = 0x23
)

// decodeIEDR handles register 0x3804: up to 64 KVDL free-range records
// (spec.md §4.2). It aggregates across all records, never stopping part-
// way: Ok if every freed slot was present, DeleteFailed if any was not.
func decodeIEDR(st *stat.Store, c cursor) Outcome {
	numRec, ok := c.u8(3)
	if !ok {
		return TruncatedPayload
	}
	if numRec > iedrMaxRecords {
		return InconsistentRegister
	}
	// Range-check every record before freeing any, so a truncated buffer
	// leaves the store untouched.
	if _, ok := c.bytes(iedrRecordsStart, int(numRec)*iedrRecordLen); numRec > 0 && !ok {
		return TruncatedPayload
	}

	anyFailed := false
	for i := 0; i < int(numRec); i++ {
		off := iedrRecordsStart + i*iedrRecordLen
		typ, ok := c.u8(off)
		if !ok {
			return TruncatedPayload
		}
		size, ok := c.u16(off + 2)
		if !ok {
			return TruncatedPayload
		}
		idxRaw, ok := c.u32(off + 4)
		if !ok {
			return TruncatedPayload
		}
		if typ != iedrFreeType {
			continue
		}
		indexStart := idxRaw & 0x00ffffff
		desc := stat.SlotAlloc{Slots: uint32(size), Counter: counter.ACTSET}
		if err := st.KvdlFree(indexStart, desc); err != nil {
			anyFailed = true
		}
	}

	if anyFailed {
		return DeleteFailed
	}
	return Ok
}
