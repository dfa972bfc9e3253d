// Package mock implements the "mock" source adapter (spec.md §4.3): it has
// no ring buffer of its own and instead accepts hex-encoded EMAD payloads
// over the "emad" RPC method, for testing and for driving the decoder
// without real hardware.
package mock

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mellanox/resmon/internal/reg"
	"github.com/mellanox/resmon/internal/source"
	"github.com/mellanox/resmon/internal/stat"
)

// Capacity is the fixed KVD capacity resmon reports in mock mode, since
// there is no netlink-reachable device to query (spec.md §4.4).
const Capacity = 10000

// Adapter is the mock source back-end. It satisfies source.Adapter.
type Adapter struct{}

// New returns a ready-to-use mock adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Init() error     { return nil }
func (a *Adapter) Finalize() error { return nil }

// PollFD reports that mock has no file descriptor of its own to poll.
func (a *Adapter) PollFD() (int, bool) { return 0, false }

// OnActivity is never called for mock, since PollFD reports no fd.
func (a *Adapter) OnActivity(st *stat.Store) error { return nil }

type emadParams struct {
	Payload string `json:"payload"`
}

// HandleRPCMethod implements the "emad" method: it decodes a hex-encoded
// payload and feeds it to the register decoder (spec.md §4.3).
func (a *Adapter) HandleRPCMethod(name string, params json.RawMessage, st *stat.Store) (any, bool, error) {
	if name != "emad" {
		return nil, false, nil
	}

	var p emadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, true, fmt.Errorf("%w: invalid emad params: %v", source.ErrInvalidParams, err)
	}

	buf, err := decodeHex(p.Payload)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", source.ErrInvalidParams, err)
	}

	outcome := reg.Decode(st, buf)
	if outcome != reg.Ok {
		return nil, true, fmt.Errorf("%s", outcome)
	}
	return nil, true, nil
}

// decodeHex decodes a hex string, rejecting odd length or non-hex
// characters, per spec.md §4.3.
func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("emad: odd-length hex payload")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("emad: invalid hex payload: %w", err)
	}
	return b, nil
}
