package reg

import (
	"github.com/mellanox/resmon/internal/counter"
	"github.com/mellanox/resmon/internal/stat"
)

const (
	ptarOpAlloc  = 0
	ptarOpResize = 1
	ptarOpFree   = 2
	ptarOpTest   = 3

	ptarKeyTypeFlex  = 0x50
	ptarKeyTypeFlex2 = 0x51
)

// decodePTAR handles register 0x3006: TCAM region alloc/free (spec.md
// §4.2).
func decodePTAR(st *stat.Store, c cursor) Outcome {
	byte0, ok := c.u8(0)
	if !ok {
		return TruncatedPayload
	}
	keyType, ok := c.u8(3)
	if !ok {
		return TruncatedPayload
	}
	regionInfo, ok := c.bytes(16, 16)
	if !ok {
		return TruncatedPayload
	}
	flexKeys, ok := c.bytes(32, 16)
	if !ok {
		return TruncatedPayload
	}

	if keyType != ptarKeyTypeFlex && keyType != ptarKeyTypeFlex2 {
		return Ok
	}

	var key stat.PtarKey
	copy(key.TCAMRegionInfo[:], regionInfo)

	op := byte0 >> 4
	switch op {
	case ptarOpAlloc:
		nkeys := 0
		for _, b := range flexKeys {
			if b != 0 {
				nkeys++
			}
		}
		slots := uint32(1)
		switch {
		case nkeys >= 12:
			slots = 4
		case nkeys >= 4:
			slots = 2
		}
		if err := st.PtarAlloc(key, stat.SlotAlloc{Slots: slots, Counter: counter.ATCAM}); err != nil {
			return InsertFailed
		}
		return Ok
	case ptarOpFree:
		if err := st.PtarFree(key); err != nil {
			return DeleteFailed
		}
		return Ok
	case ptarOpResize, ptarOpTest:
		return Ok
	default:
		return Ok
	}
}
