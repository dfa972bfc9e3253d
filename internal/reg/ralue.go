package reg

import (
	"github.com/mellanox/resmon/internal/counter"
	"github.com/mellanox/resmon/internal/stat"
)

const ralueOpDelete = 3

// decodeRALUE handles register 0x8013: LPM route insert/update/delete
// (spec.md §4.2).
func decodeRALUE(st *stat.Store, c cursor) Outcome {
	byte0, ok := c.u8(0)
	if !ok {
		return TruncatedPayload
	}
	byte1, ok := c.u8(1)
	if !ok {
		return TruncatedPayload
	}
	vr, ok := c.u16(4)
	if !ok {
		return TruncatedPayload
	}
	prefixLen, ok := c.u8(9)
	if !ok {
		return TruncatedPayload
	}

	protocol := stat.Protocol(byte0 & 0x0f)
	op := (byte1 >> 4) & 0x07

	dip, ok := readDIP(c, 10, protocol)
	if !ok {
		return TruncatedPayload
	}

	key := stat.RalueKey{
		Protocol:      protocol,
		PrefixLen:     prefixLen,
		VirtualRouter: vr,
		DIP:           dip,
	}

	if op == ralueOpDelete {
		if err := st.RalueDelete(key); err != nil {
			return DeleteFailed
		}
		return Ok
	}

	slots := uint32(1)
	if prefixLen > 64 {
		slots = 2
	}
	ctr := counter.LPMIPv4
	if protocol == stat.ProtocolIPv6 {
		ctr = counter.LPMIPv6
	}

	if err := st.RalueUpdate(key, stat.SlotAlloc{Slots: slots, Counter: ctr}); err != nil {
		return InsertFailed
	}
	return Ok
}
