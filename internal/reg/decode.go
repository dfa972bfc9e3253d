package reg

import "github.com/mellanox/resmon/internal/stat"

// Register IDs dispatched by Decode (spec.md §4.2). RAUHT's ID is left as
// 0xXXXX in spec.md; resmon fixes it to mlxsw's real RAUHT register ID —
// see DESIGN.md's note on this open question.
const (
	regIDRALUE = 0x8013
	regIDPTAR  = 0x3006
	regIDPTCE3 = 0x3027
	regIDPEFA  = 0x300F
	regIDIEDR  = 0x3804
	regIDRAUHT = 0x8014
)

// Decode parses one EMAD buffer and applies its effect to st. It is a pure
// function: nothing but st is mutated, and a failed parse never touches
// st at all (spec.md §8, Property 5).
func Decode(st *stat.Store, buf []byte) Outcome {
	env, outcome := parseEnvelope(buf)
	if outcome != Ok {
		return outcome
	}

	switch env.regID {
	case regIDRALUE:
		return decodeRALUE(st, env.payload)
	case regIDPTAR:
		return decodePTAR(st, env.payload)
	case regIDPTCE3:
		return decodePTCE3(st, env.payload)
	case regIDPEFA:
		return decodePEFA(st, env.payload)
	case regIDIEDR:
		return decodeIEDR(st, env.payload)
	case regIDRAUHT:
		return decodeRAUHT(st, env.payload)
	default:
		return UnknownRegister
	}
}
