// Package reg implements the EMAD decoder (C2): parsing vendor-specific
// register payloads out of a nested TLV envelope with strict bounds
// discipline, and mapping each register write/delete onto the right
// internal/stat operation. Decode is a pure function of its input buffer;
// all state lives in the stat.Store passed to it (spec.md §4.2).
package reg

// Outcome is the decoder's closed result enum (spec.md §4.2/§7). It is a
// fixed set consumed by callers via switch/comparison, so it is a plain
// int enum rather than an error chain — mirroring how the teacher's
// inst.OpCode is a closed enum with its own lookup table instead of a
// wrapped type.
type Outcome int

const (
	Ok Outcome = iota
	TruncatedPayload
	NoRegister
	UnknownRegister
	InconsistentRegister
	InsertFailed
	DeleteFailed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case TruncatedPayload:
		return "truncated payload"
	case NoRegister:
		return "no register"
	case UnknownRegister:
		return "unknown register"
	case InconsistentRegister:
		return "inconsistent register"
	case InsertFailed:
		return "insert failed"
	case DeleteFailed:
		return "delete failed"
	default:
		return "unknown outcome"
	}
}
