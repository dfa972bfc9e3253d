package reg

import "github.com/mellanox/resmon/internal/stat"

// readDIP extracts a 16-byte destination-IP field starting at off. IPv6
// copies the field verbatim; IPv4 takes only the trailing 4 bytes of the
// field and zero-extends them into the result (spec.md §4.2, RALUE/RAUHT
// dip rules).
func readDIP(c cursor, off int, protocol stat.Protocol) (stat.DIP, bool) {
	raw, ok := c.bytes(off, 16)
	if !ok {
		return stat.DIP{}, false
	}
	var dip stat.DIP
	if protocol == stat.ProtocolIPv6 {
		copy(dip[:], raw)
	} else {
		copy(dip[12:], raw[12:16])
	}
	return dip, true
}
