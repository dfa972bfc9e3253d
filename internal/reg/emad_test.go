package reg

import "encoding/binary"

// buildTL encodes a TLV type_len header: type in the top 5 bits, length
// (in 4-byte units, header inclusive) in the low 11 bits.
func buildTL(typ, length4 int) uint16 {
	return uint16(typ)<<11 | uint16(length4)&0x7ff
}

// buildEMAD assembles a full EMAD buffer: op TLV (carrying regID),
// optionally a STRING TLV, then a REG TLV header followed by payload.
func buildEMAD(regID uint16, payload []byte, withString bool) []byte {
	var buf []byte

	// op TLV: 16 bytes total (4 length-units).
	op := make([]byte, opTLVHeaderLen)
	binary.BigEndian.PutUint16(op[0:2], buildTL(tlvOp, opTLVHeaderLen/4))
	binary.BigEndian.PutUint16(op[regIDOffset:regIDOffset+2], regID)
	buf = append(buf, op...)

	if withString {
		str := make([]byte, 8) // 2 header units
		binary.BigEndian.PutUint16(str[0:2], buildTL(tlvString, len(str)/4))
		buf = append(buf, str...)
	}

	regHeaderLen := regTLVHeaderLen
	total := regHeaderLen + len(payload)
	regHeader := make([]byte, regHeaderLen)
	binary.BigEndian.PutUint16(regHeader[0:2], buildTL(tlvReg, total/4))
	buf = append(buf, regHeader...)
	buf = append(buf, payload...)

	return buf
}

// ralueDIP builds a 16-byte dip field the way the wire format stores it:
// v6 stores the address directly, v4 stores it in the trailing 4 bytes.
func ralueDIP(v6 bool, addr []byte) [16]byte {
	var out [16]byte
	if v6 {
		copy(out[:], addr)
	} else {
		copy(out[12:], addr)
	}
	return out
}

func raluePayload(protocol, op, prefixLen byte, vr uint16, dip [16]byte) []byte {
	buf := make([]byte, 26)
	buf[0] = protocol
	buf[1] = op << 4
	binary.BigEndian.PutUint16(buf[4:6], vr)
	buf[9] = prefixLen
	copy(buf[10:26], dip[:])
	return buf
}

func ptarPayload(op, keyType byte, regionInfo [16]byte, flexKeys [16]byte) []byte {
	buf := make([]byte, 48)
	buf[0] = op << 4
	buf[3] = keyType
	copy(buf[16:32], regionInfo[:])
	copy(buf[32:48], flexKeys[:])
	return buf
}

func ptce3Payload(v, op byte, regionInfo [16]byte, flex2 [96]byte, erpID byte, deltaStart uint16, deltaMask, deltaValue byte) []byte {
	buf := make([]byte, 140)
	buf[0] = v << 7
	buf[1] = op << 4
	copy(buf[16:32], regionInfo[:])
	copy(buf[32:128], flex2[:])
	buf[131] = erpID
	binary.BigEndian.PutUint16(buf[134:136], deltaStart)
	buf[137] = deltaMask
	buf[139] = deltaValue
	return buf
}

func pefaPayload(index uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, index&0x00ffffff)
	return buf
}

func iedrPayload(records [][3]uint32 /* [type, size, indexStart] */) []byte {
	buf := make([]byte, 16+len(records)*8)
	buf[3] = byte(len(records))
	for i, r := range records {
		off := 16 + i*8
		buf[off] = byte(r[0])
		binary.BigEndian.PutUint16(buf[off+2:off+4], uint16(r[1]))
		binary.BigEndian.PutUint32(buf[off+4:off+8], r[2]&0x00ffffff)
	}
	return buf
}

func rauhtPayload(protocol, op byte, rif uint16, dip [16]byte) []byte {
	buf := make([]byte, 32)
	buf[0] = protocol
	buf[1] = op << 4
	binary.BigEndian.PutUint16(buf[2:4], rif)
	copy(buf[16:32], dip[:])
	return buf
}
