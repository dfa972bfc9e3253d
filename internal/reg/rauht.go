package reg

import (
	"github.com/mellanox/resmon/internal/counter"
	"github.com/mellanox/resmon/internal/stat"
)

const rauhtOpDelete = 3

// decodeRAUHT handles the RAUHT extension register: host-neighbor
// insert/delete (spec.md §4.2). The rif mask (0x70) looks wrong next to a
// natural 0xFFFF, but is preserved literally per spec.md §9's open
// question — this mirrors the reference implementation's literal
// behavior rather than the "obviously correct" mask.
func decodeRAUHT(st *stat.Store, c cursor) Outcome {
	byte0, ok := c.u8(0)
	if !ok {
		return TruncatedPayload
	}
	byte1, ok := c.u8(1)
	if !ok {
		return TruncatedPayload
	}
	rifRaw, ok := c.u16(2)
	if !ok {
		return TruncatedPayload
	}

	protocol := stat.Protocol(byte0 & 0x03)
	op := (byte1 >> 4) & 0x07
	rif := rifRaw & 0x70

	dip, ok := readDIP(c, 16, protocol)
	if !ok {
		return TruncatedPayload
	}

	key := stat.RauhtKey{Protocol: protocol, RIF: rif, DIP: dip}

	if op == rauhtOpDelete {
		if err := st.RauhtDelete(key); err != nil {
			return DeleteFailed
		}
		return Ok
	}

	slots := uint32(1)
	ctr := counter.HostTabIPv4
	if protocol == stat.ProtocolIPv6 {
		slots = 2
		ctr = counter.HostTabIPv6
	}

	if err := st.RauhtUpdate(key, stat.SlotAlloc{Slots: slots, Counter: ctr}); err != nil {
		return InsertFailed
	}
	return Ok
}
