// Package counter declares the fixed set of resource counters resmon
// tracks and their human-readable metadata.
package counter

// Kind identifies one of the fixed resource counters. The enumeration is
// closed: every register handler in internal/reg charges one of these (or,
// for KVDL allocations, whatever Kind the caller supplied).
type Kind int

const (
	LPMIPv4 Kind = iota
	LPMIPv6
	ATCAM
	ACTSET
	HostTabIPv4
	HostTabIPv6

	count // sentinel, not a real counter
)

// Count is the number of real counter kinds.
const Count = int(count)

// All returns the counter kinds in their fixed declaration order.
func All() []Kind {
	out := make([]Kind, count)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// info is the single static table associating each Kind with its symbolic
// name and a human description, declared once here and expanded into the
// name/description accessors below (the "X-macro" counter list from the
// design notes, realized as one array instead of a repeated macro).
type info struct {
	name  string
	descr string
}

var table = [count]info{
	LPMIPv4:     {"LPM_IPV4", "IPv4 longest-prefix-match route entries"},
	LPMIPv6:     {"LPM_IPV6", "IPv6 longest-prefix-match route entries"},
	ATCAM:       {"ATCAM", "TCAM region slots (PTAR/PTCE3)"},
	ACTSET:      {"ACTSET", "KVD action-set descriptor slots (PEFA/IEDR)"},
	HostTabIPv4: {"HOSTTAB_IPV4", "IPv4 host neighbor table entries"},
	HostTabIPv6: {"HOSTTAB_IPV6", "IPv6 host neighbor table entries"},
}

// Name returns the symbolic name of a counter kind, e.g. "LPM_IPV4".
func (k Kind) Name() string {
	if k < 0 || k >= count {
		return "UNKNOWN"
	}
	return table[k].name
}

// Description returns a short human-readable description of a counter kind.
func (k Kind) Description() string {
	if k < 0 || k >= count {
		return ""
	}
	return table[k].descr
}

func (k Kind) String() string {
	return k.Name()
}

// Total is the name used for the derived aggregate counter (the sum of all
// kinds), which is not itself a Kind value.
const Total = "TOTAL"
