// Package source defines the abstract contract shared by resmon's two
// interchangeable back-ends (spec.md §4.3, §9): hw, which drains a BPF
// ring buffer, and mock, which decodes EMAD payloads handed to it over
// RPC. Expressing this as a Go interface is the idiomatic equivalent of
// the tagged-variant/trait-object split spec.md calls out as acceptable —
// the same shape the teacher uses for its CPU/GPU search back-ends
// (pkg/search vs pkg/gpu): one abstract capability set, two concrete
// implementations selected once at startup.
package source

import (
	"encoding/json"
	"errors"

	"github.com/mellanox/resmon/internal/stat"
)

// ErrInvalidParams is the sentinel an Adapter's HandleRPCMethod should
// wrap when the RPC params themselves are malformed (bad JSON, a
// payload that isn't valid hex, a missing field) — as distinct from a
// well-formed payload the register decoder went on to reject. The RPC
// dispatcher (internal/resmonctl) uses errors.Is against this to choose
// between JSON-RPC's standard -32602 (invalid params) and resmon's
// implementation-specific -2 (EMAD processing failure), per spec.md §4.4.
var ErrInvalidParams = errors.New("source: invalid rpc params")

// Adapter is the capability set an event loop needs from a source
// back-end (spec.md §4.3). Decode (internal/reg) is itself a pure
// function, so Adapter only ever needs the Store it should apply decoded
// events to, not a decoder instance.
type Adapter interface {
	// Init prepares the adapter. Called once before the event loop starts.
	Init() error

	// Finalize releases any resources Init acquired. Called once on
	// shutdown.
	Finalize() error

	// PollFD returns the file descriptor the event loop should poll for
	// readiness, and whether the adapter has one at all (mock does not).
	PollFD() (fd int, ok bool)

	// OnActivity is called when PollFD's descriptor becomes readable. It
	// drains whatever is available and applies it to st.
	OnActivity(st *stat.Store) error

	// HandleRPCMethod gives the adapter first refusal on an RPC method the
	// server does not itself implement (e.g. mock's "emad"). ok is false
	// if the adapter does not recognize the method. err should wrap
	// ErrInvalidParams for malformed params/payload, and be left bare for
	// a failure that only surfaced once the payload reached the decoder.
	HandleRPCMethod(name string, params json.RawMessage, st *stat.Store) (result any, ok bool, err error)
}
