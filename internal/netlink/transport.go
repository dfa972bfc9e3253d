package netlink

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

const nlmsgHdrLen = 16 // sizeof(struct nlmsghdr): len, type, flags, seq, pid

// requestReply wraps body in an nlmsghdr, sends it to msgType (a family
// id, or unix.GENL_ID_CTRL for family resolution), and returns the first
// reply's genl payload (header onward), stripped of the nlmsghdr.
func requestReply(sock int, msgType uint16, body []byte) ([]byte, error) {
	const seq = 1

	req := make([]byte, nlmsgHdrLen)
	binary.LittleEndian.PutUint32(req[0:4], uint32(nlmsgHdrLen+len(body)))
	binary.LittleEndian.PutUint16(req[4:6], msgType)
	binary.LittleEndian.PutUint16(req[6:8], unix.NLM_F_REQUEST|unix.NLM_F_ACK)
	binary.LittleEndian.PutUint32(req[8:12], seq)
	binary.LittleEndian.PutUint32(req[12:16], 0) // pid: let the kernel fill ours in
	req = append(req, body...)

	if err := unix.Sendto(sock, req, 0, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return nil, fmt.Errorf("sendto: %w", err)
	}

	buf := make([]byte, 1<<16)
	n, _, err := unix.Recvfrom(sock, buf, 0)
	if err != nil {
		return nil, fmt.Errorf("recvfrom: %w", err)
	}
	buf = buf[:n]

	if len(buf) < nlmsgHdrLen {
		return nil, fmt.Errorf("short netlink reply (%d bytes)", len(buf))
	}

	replyType := binary.LittleEndian.Uint16(buf[4:6])
	if replyType == unix.NLMSG_ERROR {
		if len(buf) < nlmsgHdrLen+4 {
			return nil, fmt.Errorf("short NLMSG_ERROR reply")
		}
		errno := int32(binary.LittleEndian.Uint32(buf[nlmsgHdrLen : nlmsgHdrLen+4]))
		if errno != 0 {
			return nil, fmt.Errorf("netlink error %d", -errno)
		}
	}

	return buf[nlmsgHdrLen:], nil
}
