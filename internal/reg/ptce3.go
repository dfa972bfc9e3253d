package reg

import "github.com/mellanox/resmon/internal/stat"

const (
	ptce3OpWriteWrite  = 0
	ptce3OpWriteUpdate = 1
)

// decodePTCE3 handles register 0x3027: TCAM rule insert/delete (spec.md
// §4.2). Only op WRITE_WRITE(0) and WRITE_UPDATE(1) are acted on; any
// other op is silently ignored (Ok, no state change).
func decodePTCE3(st *stat.Store, c cursor) Outcome {
	byte0, ok := c.u8(0)
	if !ok {
		return TruncatedPayload
	}
	byte1, ok := c.u8(1)
	if !ok {
		return TruncatedPayload
	}
	op := (byte1 >> 4) & 0x07
	if op != ptce3OpWriteWrite && op != ptce3OpWriteUpdate {
		return Ok
	}

	regionInfo, ok := c.bytes(16, 16)
	if !ok {
		return TruncatedPayload
	}
	flex2, ok := c.bytes(32, 96)
	if !ok {
		return TruncatedPayload
	}
	erpByte, ok := c.u8(131)
	if !ok {
		return TruncatedPayload
	}
	deltaStartRaw, ok := c.u16(134)
	if !ok {
		return TruncatedPayload
	}
	deltaMask, ok := c.u8(137)
	if !ok {
		return TruncatedPayload
	}
	deltaValue, ok := c.u8(139)
	if !ok {
		return TruncatedPayload
	}

	var key stat.Ptce3Key
	copy(key.TCAMRegionInfo[:], regionInfo)
	copy(key.Flex2KeyBlocks[:], flex2)
	key.ERPID = erpByte & 0x0f
	key.DeltaStart = deltaStartRaw & 0x3ff
	key.DeltaMask = deltaMask
	key.DeltaValue = deltaValue

	v := byte0 >> 7
	if v == 0 {
		if err := st.Ptce3Free(key); err != nil {
			return DeleteFailed
		}
		return Ok
	}

	var regionKey stat.PtarKey
	copy(regionKey.TCAMRegionInfo[:], regionInfo)

	// PTCE3's ptar_get may fail if the region was allocated before resmon
	// started; the reference implementation reports this as InsertFailed
	// rather than as a distinct "region not found" outcome (spec.md §9,
	// open question — preserved as documented).
	desc, err := st.PtarGet(regionKey)
	if err != nil {
		return InsertFailed
	}

	if err := st.Ptce3Alloc(key, desc); err != nil {
		return InsertFailed
	}
	return Ok
}
