package resmonctl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mellanox/resmon/internal/rpc"
	"github.com/mellanox/resmon/internal/source/mock"
)

var errFakeCapacity = errors.New("netlink unreachable")

func newTestLoop() *Loop {
	return New(Config{
		Source:   mock.New(),
		Capacity: func() (uint64, error) { return 10000, nil },
		Logger:   Logger{Quiet: true},
	})
}

func rawID(v int) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func TestDispatchPingEchoesParams(t *testing.T) {
	l := newTestLoop()
	params := rawID(42)
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "ping", Params: params})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	b, _ := json.Marshal(resp.Result)
	if string(b) != string(params) {
		t.Fatalf("got %s, want echoed %s", b, params)
	}
}

func TestDispatchStopSetsQuit(t *testing.T) {
	l := newTestLoop()
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "stop"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if !l.quit.Load() {
		t.Fatal("want quit=true after stop")
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	l := newTestLoop()
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "bogus"})
	if resp.Error == nil || resp.Error.Code != rpc.ErrCodeMethodNotFound {
		t.Fatalf("want ErrCodeMethodNotFound, got %+v", resp.Error)
	}
}

func TestDispatchStatsReportsCapacityAndTotal(t *testing.T) {
	l := newTestLoop()
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "stats"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	b, _ := json.Marshal(resp.Result)
	var got statsResult
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decoding stats result: %v", err)
	}
	if len(got.Counters) == 0 {
		t.Fatal("want at least one counter")
	}
	foundTotal := false
	for _, c := range got.Counters {
		if c.Capacity != 10000 {
			t.Fatalf("counter %s: capacity = %d, want 10000", c.Name, c.Capacity)
		}
		if c.Name == "TOTAL" {
			foundTotal = true
		}
	}
	if !foundTotal {
		t.Fatal("want a TOTAL counter in the stats reply")
	}
}

func TestDispatchStatsCapacityFailure(t *testing.T) {
	l := New(Config{
		Source:   mock.New(),
		Capacity: func() (uint64, error) { return 0, errFakeCapacity },
		Logger:   Logger{Quiet: true},
	})
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "stats"})
	if resp.Error == nil || resp.Error.Code != rpc.ErrCodeCapacity {
		t.Fatalf("want ErrCodeCapacity, got %+v", resp.Error)
	}
}

func TestDispatchEmadInvalidHexIsInvalidParams(t *testing.T) {
	l := newTestLoop()
	params, _ := json.Marshal(map[string]string{"payload": "zz"})
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "emad", Params: params})
	if resp.Error == nil || resp.Error.Code != rpc.ErrCodeInvalidParams {
		t.Fatalf("want ErrCodeInvalidParams for invalid hex, got %+v", resp.Error)
	}
}

func TestDispatchEmadOddLengthHexIsInvalidParams(t *testing.T) {
	l := newTestLoop()
	params, _ := json.Marshal(map[string]string{"payload": "abc"})
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "emad", Params: params})
	if resp.Error == nil || resp.Error.Code != rpc.ErrCodeInvalidParams {
		t.Fatalf("want ErrCodeInvalidParams for odd-length hex, got %+v", resp.Error)
	}
}

func TestDispatchEmadDecodeFailureIsEmadFailure(t *testing.T) {
	l := newTestLoop()
	params, _ := json.Marshal(map[string]string{"payload": ""})
	resp := l.dispatch(rpc.Request{JSONRPC: rpc.Version, ID: rawID(1), Method: "emad", Params: params})
	if resp.Error == nil || resp.Error.Code != rpc.ErrCodeEmadFailure {
		t.Fatalf("want ErrCodeEmadFailure for a payload the decoder rejects, got %+v", resp.Error)
	}
}
