package reg

// TLV types recognized in the EMAD envelope (spec.md §4.2).
const (
	tlvEnd    = 0
	tlvOp     = 1
	tlvString = 2
	tlvReg    = 3
)

// opTLVHeaderLen and regTLVHeaderLen are the fixed header sizes of the op
// and reg/string TLVs, independent of their length field. The op TLV
// carries reg_id at a fixed offset within this header.
const (
	opTLVHeaderLen  = 16 // type_len, status, resv2, reg_id, r_method, resv3, tid
	regTLVHeaderLen = 4  // type_len, reserved
	regIDOffset     = 4
)

// decodeTL splits a 16-bit type_len field into its type (top 5 bits) and
// length (low 11 bits, in 4-byte units).
func decodeTL(raw uint16) (typ int, length4 int) {
	return int(raw >> 11), int(raw & 0x7ff)
}

// envelope is the result of stripping the EMAD TLV wrapper: the register
// ID named by the op TLV, and a cursor positioned at the start of the
// register payload (spec.md §4.2, steps 1-5).
type envelope struct {
	regID   uint16
	payload cursor
}

// parseEnvelope walks the TLV sequence up to the register payload. Any
// range check that would read past the buffer end reports TruncatedPayload;
// a missing or misplaced REG TLV reports NoRegister.
func parseEnvelope(buf []byte) (envelope, Outcome) {
	c := newCursor(buf)

	opTL, ok := c.u16(0)
	if !ok {
		return envelope{}, TruncatedPayload
	}
	_, opLen4 := decodeTL(opTL)

	regID, ok := c.u16(regIDOffset)
	if !ok {
		return envelope{}, TruncatedPayload
	}

	if !c.advance(opLen4 * 4) {
		return envelope{}, TruncatedPayload
	}

	regTL, ok := c.u16(0)
	if !ok {
		return envelope{}, TruncatedPayload
	}
	typ, len4 := decodeTL(regTL)

	if typ == tlvString {
		if !c.advance(len4 * 4) {
			return envelope{}, TruncatedPayload
		}
		regTL, ok = c.u16(0)
		if !ok {
			return envelope{}, TruncatedPayload
		}
		typ, _ = decodeTL(regTL)
	}

	if typ != tlvReg {
		return envelope{}, NoRegister
	}

	if !c.advance(regTLVHeaderLen) {
		return envelope{}, TruncatedPayload
	}

	return envelope{regID: regID, payload: c}, Ok
}
