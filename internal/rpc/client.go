package rpc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"
)

// Client is a one-shot JSON-RPC caller used by the CLI (spec.md §6): it
// binds its own per-process socket path so the server has an address to
// reply to, since AF_UNIX SOCK_DGRAM has no connection to piggyback a
// reply on.
type Client struct {
	conn       *net.UnixConn
	clientPath string
	serverAddr *net.UnixAddr
}

// Dial binds a client socket at clientPath and targets serverPath.
func Dial(serverPath, clientPath string) (*Client, error) {
	if err := os.Remove(clientPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("rpc: removing stale client socket %s: %w", clientPath, err)
	}

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: clientPath, Net: "unixgram"})
	if err != nil {
		return nil, fmt.Errorf("rpc: bind client socket %s: %w", clientPath, err)
	}
	return &Client{
		conn:       conn,
		clientPath: clientPath,
		serverAddr: &net.UnixAddr{Name: serverPath, Net: "unixgram"},
	}, nil
}

// Call sends method/params with the process id as its numeric id, waits up to timeout
// for a reply, and returns the decoded response.
func (c *Client) Call(method string, params any, timeout time.Duration) (Response, error) {
	var rawParams json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return Response{}, fmt.Errorf("rpc: marshal params: %w", err)
		}
		rawParams = b
	}

	id, _ := json.Marshal(os.Getpid())
	req := Request{JSONRPC: Version, ID: id, Method: method, Params: rawParams}
	b, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("rpc: marshal request: %w", err)
	}

	if _, err := c.conn.WriteToUnix(b, c.serverAddr); err != nil {
		return Response{}, fmt.Errorf("rpc: send %s: %w", method, err)
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, err
	}

	buf := make([]byte, maxDatagram)
	n, err := c.conn.Read(buf)
	if err != nil {
		return Response{}, fmt.Errorf("rpc: waiting for %s reply: %w", method, err)
	}

	var resp Response
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return Response{}, fmt.Errorf("rpc: decoding %s reply: %w", method, err)
	}
	return resp, nil
}

// Close closes the client socket and unlinks its path.
func (c *Client) Close() error {
	err := c.conn.Close()
	_ = os.Remove(c.clientPath)
	return err
}
