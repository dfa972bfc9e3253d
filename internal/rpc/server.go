package rpc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// Server is the AF_UNIX SOCK_DGRAM transport for the control-plane RPC
// socket (spec.md §6). It owns framing and the envelope only; request
// dispatch lives in internal/resmonctl, which is the only piece that
// knows about the stat store, the source adapter, and the quit flag.
type Server struct {
	conn *net.UnixConn
	path string
}

// Listen binds the server's well-known socket path, unlinking anything
// stale left over from a previous run first (spec.md §5: "any stale
// socket is unlinked first").
func Listen(path string) (*Server, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("rpc: removing stale socket %s: %w", path, err)
	}

	addr := &net.UnixAddr{Name: path, Net: "unixgram"}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen %s: %w", path, err)
	}
	return &Server{conn: conn, path: path}, nil
}

// FD returns the underlying socket's file descriptor, for registration
// with the event loop's poller.
func (s *Server) FD() (int, error) {
	sc, err := s.conn.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int
	ctrlErr := sc.Control(func(f uintptr) { fd = int(f) })
	if ctrlErr != nil {
		return 0, ctrlErr
	}
	return fd, nil
}

// maxDatagram bounds a single request, matching the kernel's default
// AF_UNIX SOCK_DGRAM message size ceiling with headroom for a PTCE3
// register payload, resmon's largest.
const maxDatagram = 8192

// ReceiveOne reads one pending datagram without blocking further than
// the caller's poll already guaranteed readiness, parses it as a
// JSON-RPC request, and returns both the parsed request and the sender's
// address to reply to. A malformed envelope is reported as a Response
// the caller should send back rather than as an error, since framing
// failures (not-JSON, wrong jsonrpc version, missing method) are still
// valid RPC-level outcomes (spec.md §4.4).
func (s *Server) ReceiveOne() (Request, *net.UnixAddr, *Response, error) {
	buf := make([]byte, maxDatagram)
	n, from, err := s.conn.ReadFromUnix(buf)
	if err != nil {
		return Request{}, nil, nil, err
	}

	var req Request
	if err := json.Unmarshal(buf[:n], &req); err != nil {
		resp := NewError(nil, ErrCodeInvalidRequest, "invalid JSON", err.Error())
		return Request{}, from, &resp, nil
	}
	if req.JSONRPC != Version {
		resp := NewError(req.ID, ErrCodeInvalidRequest, fmt.Sprintf("jsonrpc must be %q", Version), nil)
		return Request{}, from, &resp, nil
	}
	if req.Method == "" {
		resp := NewError(req.ID, ErrCodeInvalidRequest, "missing method", nil)
		return Request{}, from, &resp, nil
	}
	return req, from, nil, nil
}

// Reply sends resp to addr, the sender address a prior ReceiveOne
// returned.
func (s *Server) Reply(addr *net.UnixAddr, resp Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("rpc: marshal response: %w", err)
	}
	_, err = s.conn.WriteToUnix(b, addr)
	return err
}

// Close closes the socket and unlinks its path.
func (s *Server) Close() error {
	err := s.conn.Close()
	_ = os.Remove(s.path)
	return err
}
